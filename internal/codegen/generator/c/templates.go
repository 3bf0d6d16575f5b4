package cgen

import (
	"embed"
	"strings"
)

// The helper block is a frozen ABI: hand-written firmware calls these
// routines directly, so their names and behavior must never change. The
// files are embedded and inlined verbatim at the top of the types header.

//go:embed templates/*.h
var templatesFS embed.FS

// templateFiles lists the helper sources in dependency order; the float
// helpers call the integer ones.
var templateFiles = []string{
	"helpers_u16.h",
	"helpers_u32.h",
	"helpers_u64.h",
	"helpers_f32.h",
	"helpers_f64.h",
}

var helperBlock = loadHelperBlock()

func loadHelperBlock() string {
	var b strings.Builder
	for _, name := range templateFiles {
		content, err := templatesFS.ReadFile("templates/" + name)
		if err != nil {
			panic("missing embedded template: " + name)
		}
		b.Write(content)
		if !strings.HasSuffix(string(content), "\n") {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
