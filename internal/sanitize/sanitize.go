// Package sanitize rewrites the preprocessor output constructs that Ghidra's
// C parser cannot handle. The rules are deliberate text substitutions, not a
// C parser: each one trades correctness it cannot afford (type width, inline
// assembly semantics) for parseability, and leaves a marker comment behind.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	// An inline-assembly statement: the keyword, an optional qualifier,
	// a parenthesized argument list and the terminating semicolon, all on
	// one line.
	asmStmt = regexp.MustCompile(`__asm__.*\(.*\);`)

	// __int128, except when it already sits inside a marker comment from a
	// previous pass. RE2 has no lookbehind, so the marker prefix is folded
	// into the pattern and matched occurrences of it are kept as-is.
	int128 = regexp.MustCompile(`(GHIDRA: Removed )?__int128`)

	// A half-precision float literal suffix.
	f16Literal = regexp.MustCompile(`\.0f16`)
)

const (
	asmReplacement    = `(void)123; /* GHIDRA: Removed __asm__ statement */`
	int128Replacement = `long /* GHIDRA: Removed __int128 */`
	f16Replacement    = `.0f /* GHIDRA: Removed f16 */`
)

// Apply runs the three substitution rules in order over the whole text.
// Applying it to its own output changes nothing.
func Apply(src string) string {
	src = EnsureUTF8(src)
	src = asmStmt.ReplaceAllString(src, asmReplacement)
	src = int128.ReplaceAllStringFunc(src, func(m string) string {
		if strings.HasPrefix(m, "GHIDRA") {
			return m
		}
		return int128Replacement
	})
	src = f16Literal.ReplaceAllString(src, f16Replacement)
	return src
}

// EnsureUTF8 makes the text valid UTF-8. Windows SDK headers carry the
// occasional Windows-1252 byte (copyright signs, typographic quotes) that
// the preprocessor passes through untouched; those are decoded so the output
// file is always valid UTF-8. Valid input is returned unchanged.
func EnsureUTF8(src string) string {
	if utf8.ValidString(src) {
		return src
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(src)
	if err != nil {
		return src
	}
	return decoded
}
