// Package mdgen renders Markdown documentation for a message catalog.
//
// The output is a command reference table split into the base range
// (packet ids 0 through 19) and the custom range (20 and above).
package mdgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

// Generate renders the catalog documentation and writes it to outPath.
func Generate(logger *slog.Logger, outPath string, cat *msg.Catalog, inputPath string) error {
	content := Render(cat, inputPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating docs directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	logger.Info("Generated documentation", "file", outPath)
	return nil
}

// Render produces the Markdown document without touching the filesystem.
func Render(cat *msg.Catalog, inputPath string) string {
	var b strings.Builder

	b.WriteString("# Command Definitions\n\n")
	fmt.Fprintf(&b, "Auto-generated from: `%s`\n", inputPath)
	if cat.Meta.Version != "" {
		fmt.Fprintf(&b, "Protocol version: %s\n", cat.Meta.Version)
	}
	if cat.Meta.MaxAddress != nil {
		fmt.Fprintf(&b, "Max address: %d\n", *cat.Meta.MaxAddress)
	}
	b.WriteString("\n")

	var base, custom []msg.Message
	for _, m := range cat.Messages {
		if m.PacketID < 20 {
			base = append(base, m)
		} else {
			custom = append(custom, m)
		}
	}

	if len(base) > 0 {
		commandSection(&b, "Base Commands (0~19)", base)
	}
	if len(custom) > 0 {
		commandSection(&b, "Custom Commands (20+)", custom)
	}

	return b.String()
}

func commandSection(b *strings.Builder, title string, commands []msg.Message) {
	fmt.Fprintf(b, "## %s\n\n", title)

	b.WriteString("| Command | Value | Description |\n")
	b.WriteString("|---------|-------|-------------|\n")
	for _, m := range commands {
		desc := m.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(b, "| `%s` | %d | %s |\n", commandName(m.Name), m.PacketID, desc)
	}
	b.WriteString("\n")
}

// commandName uppercases the message name into SCREAMING_SNAKE_CASE and
// guarantees a CMD_ prefix. A leading digit also gets the prefix so the
// name stays a valid identifier in downstream docs tooling.
func commandName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
			lastUnderscore = false
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			if b.Len() == 0 && r >= '0' && r <= '9' {
				b.WriteString("CMD_")
			}
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if !strings.HasPrefix(out, "CMD_") {
		out = "CMD_" + out
	}
	return out
}
