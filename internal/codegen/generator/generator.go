// Package generator orchestrates header and documentation generation
// for a parsed message catalog.
package generator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cgen "github.com/Ar-Ray-code/h6xserial-idl/internal/codegen/generator/c"
	mdgen "github.com/Ar-Ray-code/h6xserial-idl/internal/codegen/generator/markdown"
	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

// Generator drives the language-specific emitters.
type Generator struct {
	logger *slog.Logger
}

// LanguageGenerator emits all headers for one target language. The base
// name is the stem shared by every generated file of the run.
type LanguageGenerator func(logger *slog.Logger, outDir, baseName string, cat *msg.Catalog, inputPath string) error

var generators = map[string]LanguageGenerator{
	"c":   cgen.Generate,
	"c99": cgen.Generate,
}

func New(logger *slog.Logger) *Generator {
	return &Generator{logger: logger}
}

// Supported reports whether lang names a known target language.
func Supported(lang string) bool {
	_, ok := generators[strings.ToLower(lang)]
	return ok
}

// GenerateLang runs the emitter for lang. outPath is the path of the
// primary output file; its directory receives every generated header
// and its stem (extension stripped) becomes the shared base name.
func (g *Generator) GenerateLang(lang, outPath string, cat *msg.Catalog, inputPath string) error {
	gen, ok := generators[strings.ToLower(lang)]
	if !ok {
		supported := make([]string, 0, len(generators))
		for k := range generators {
			supported = append(supported, k)
		}
		sort.Strings(supported)
		return fmt.Errorf("unsupported language '%s' (supported: %v)", lang, supported)
	}

	outDir := filepath.Dir(outPath)
	baseName := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	g.logger.Info("Generating message headers", "language", lang, "output", outDir, "base", baseName)
	if err := gen(g.logger, outDir, baseName, cat, inputPath); err != nil {
		return err
	}
	g.logger.Info("Generation complete", "language", lang, "messages", len(cat.Messages))
	return nil
}

// GenerateDocs writes the Markdown command reference to outPath.
func (g *Generator) GenerateDocs(outPath string, cat *msg.Catalog, inputPath string) error {
	g.logger.Info("Generating documentation", "output", outPath)
	return mdgen.Generate(g.logger, outPath, cat, inputPath)
}
