package transform

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// jsEscapes are applied one after another, each to the whole string.
// The order matters: `\\n` first loses a backslash to the `\\` rule and the
// surviving `\n` is then turned into a newline.
var jsEscapes = []struct{ old, new string }{
	{`\'`, `'`},
	{`\"`, `"`},
	{`\/`, `/`},
	{`\\`, `\`},
	{`\t`, "\t"},
	{`\n`, "\n"},
}

var unicodeEscape = regexp.MustCompile(`\\[uU]([0-9A-Fa-f]{4})`)

// JSDecode unescapes a JavaScript string literal body so the JSON it holds
// can be parsed. It never fails: anything that is not one of the known
// escapes, including malformed \u escapes, is left as it is.
func JSDecode(input string) string {
	decoded := input
	for _, esc := range jsEscapes {
		decoded = strings.ReplaceAll(decoded, esc.old, esc.new)
	}
	return decodeUnicodeEscapes(decoded)
}

// decodeUnicodeEscapes replaces \uXXXX and \UXXXX with the code unit they
// name. Two adjacent escapes forming a UTF-16 surrogate pair become a single
// code point; a lone surrogate becomes U+FFFD.
func decodeUnicodeEscapes(s string) string {
	matches := unicodeEscape.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))
	last := 0
	for i := 0; i < len(matches); i++ {
		m := matches[i]
		r := hexUnit(s[m[2]:m[3]])
		end := m[1]

		if utf16.IsSurrogate(r) && i+1 < len(matches) && matches[i+1][0] == end {
			next := matches[i+1]
			if pair := utf16.DecodeRune(r, hexUnit(s[next[2]:next[3]])); pair != unicode.ReplacementChar {
				r = pair
				end = next[1]
				i++
			}
		}

		out.WriteString(s[last:m[0]])
		out.WriteRune(r)
		last = end
	}
	out.WriteString(s[last:])
	return out.String()
}

func hexUnit(digits string) rune {
	// The pattern guarantees four hex digits.
	v, _ := strconv.ParseUint(digits, 16, 16)
	return rune(v)
}
