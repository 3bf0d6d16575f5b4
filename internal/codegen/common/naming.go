// Package common provides the identifier transforms shared by all emitters.
//
// The transforms are deliberately non-smart: interior case transitions are
// never split ("CO2Level" becomes "co2level", not "co2_level"). Generated
// identifiers must stay stable across generator versions, so smarter word
// detection would be a breaking change for every downstream firmware tree.
package common

import "strings"

// ToSnakeCase lowercases ASCII alphanumerics, collapses every other run of
// characters to a single underscore, strips a trailing underscore, and
// prefixes an underscore when the name would start with a digit. An empty
// result falls back to "msg".
func ToSnakeCase(name string) string {
	return snakeLike(name, false, "msg")
}

// ToMacroIdent is ToSnakeCase uppercased, with "MSG" as the empty fallback.
func ToMacroIdent(name string) string {
	return snakeLike(name, true, "MSG")
}

func snakeLike(name string, upper bool, fallback string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, ch := range name {
		if isASCIIAlnum(ch) {
			if upper {
				ch = toUpper(ch)
			} else {
				ch = toLower(ch)
			}
			if b.Len() == 0 && ch >= '0' && ch <= '9' {
				b.WriteByte('_')
			}
			b.WriteRune(ch)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out == "" {
		return fallback
	}
	return out
}

// ToPascalCase capitalizes the first character of each alphanumeric run and
// lowercases the rest. A leading digit is escaped with "M"; an empty result
// falls back to "Msg".
func ToPascalCase(name string) string {
	var b strings.Builder
	capitalize := true
	for _, ch := range name {
		if !isASCIIAlnum(ch) {
			capitalize = true
			continue
		}
		if b.Len() == 0 && ch >= '0' && ch <= '9' {
			b.WriteByte('M')
		}
		if capitalize {
			b.WriteRune(toUpper(ch))
		} else {
			b.WriteRune(toLower(ch))
		}
		capitalize = false
	}
	if b.Len() == 0 {
		return "Msg"
	}
	return b.String()
}

// HeaderGuard derives a C include-guard symbol from a file name: ASCII
// uppercased, non-alphanumerics replaced by underscores, with a "_H" suffix
// appended when not already present.
func HeaderGuard(fileName string) string {
	var b strings.Builder
	for _, ch := range fileName {
		if isASCIIAlnum(ch) {
			b.WriteRune(toUpper(ch))
		} else {
			b.WriteByte('_')
		}
	}
	guard := b.String()
	if !strings.HasSuffix(guard, "_H") {
		if !strings.HasSuffix(guard, "_") {
			guard += "_"
		}
		guard += "H"
	}
	return guard
}

func isASCIIAlnum(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func toUpper(ch rune) rune {
	if ch >= 'a' && ch <= 'z' {
		return ch - 32
	}
	return ch
}

func toLower(ch rune) rune {
	if ch >= 'A' && ch <= 'Z' {
		return ch + 32
	}
	return ch
}
