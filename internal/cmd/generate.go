package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ar-Ray-code/h6xserial-idl/internal/codegen/generator"
	"github.com/Ar-Ray-code/h6xserial-idl/internal/configpaths"
	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

const (
	defaultInput       = "msgs/intermediate_msg.json"
	defaultCOutput     = "generated_c/h6xserial_generated_messages.h"
	defaultDocsOutput  = "docs/COMMANDS.md"
	fallbackInput      = "../msgs/intermediate_msg.json"
	fallbackCOutput    = "../generated_c/h6xserial_generated_messages.h"
	fallbackDocsOutput = "../docs/COMMANDS.md"
)

// Generate reads a message definition file and emits C99 headers or
// Markdown documentation.
//
// Positionals follow the historical invocation shape: an optional
// language token first (only when it names a known language), then the
// input path, then the output path. Paths left out fall back to the
// workspace defaults, trying the repository root one level up.
type Generate struct {
	Args       []string `arg:"" optional:"" name:"args" help:"[language] [input.json] [output path]"`
	Lang       string   `help:"Target language: c or c99" short:"l" env:"H6XSERIAL_LANG"`
	ExportDocs bool     `name:"export_docs" help:"Emit Markdown command documentation instead of headers"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger) error {
	args := g.Args
	lang := strings.ToLower(g.Lang)
	switch {
	case lang != "":
		if !generator.Supported(lang) {
			return fmt.Errorf("unsupported language '%s', expected 'c'", g.Lang)
		}
	case len(args) > 0 && generator.Supported(args[0]):
		lang = strings.ToLower(args[0])
		args = args[1:]
	default:
		lang = "c"
	}

	input := configpaths.ResolveDefault(defaultInput, fallbackInput)
	if len(args) > 0 {
		input = args[0]
		args = args[1:]
	}

	output := configpaths.ResolveDefault(defaultCOutput, fallbackCOutput)
	if g.ExportDocs {
		output = configpaths.ResolveDefault(defaultDocsOutput, fallbackDocsOutput)
	}
	if len(args) > 0 {
		output = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument '%s'", args[0])
	}

	logger.Info("Loading message definitions", "input", input)
	cat, err := msg.Load(input)
	if err != nil {
		return err
	}

	gen := generator.New(logger)
	if g.ExportDocs {
		if err := gen.GenerateDocs(output, cat, input); err != nil {
			return err
		}
		logger.Info("Documentation written", "output", output, "commands", len(cat.Messages))
		return nil
	}
	return gen.GenerateLang(lang, output, cat, input)
}
