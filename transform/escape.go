package transform

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// JSONStringEscape escapes s for use inside a JSON (and JavaScript) string
// literal, without the surrounding quotes.
//
// In relaxed mode only what JSON requires is escaped: the quote, the
// backslash and control characters. Otherwise HTML-sensitive characters and
// everything outside ASCII are escaped too, so the result is safe to embed in
// HTML and in ASCII-only files.
func JSONStringEscape(s string, relaxed bool) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		switch r {
		case '"':
			b.WriteString(`\"`)
			continue
		case '\\':
			b.WriteString(`\\`)
			continue
		case '\b':
			b.WriteString(`\b`)
			continue
		case '\f':
			b.WriteString(`\f`)
			continue
		case '\n':
			b.WriteString(`\n`)
			continue
		case '\r':
			b.WriteString(`\r`)
			continue
		case '\t':
			b.WriteString(`\t`)
			continue
		}

		switch {
		case r < 0x20 || r == 0x7f:
			writeUnicodeEscape(&b, r)
		case !relaxed && strings.ContainsRune("<>&'+`", r):
			writeUnicodeEscape(&b, r)
		case !relaxed && r > 0x7f:
			if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
				writeUnicodeEscape(&b, r1)
				writeUnicodeEscape(&b, r2)
			} else {
				writeUnicodeEscape(&b, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	fmt.Fprintf(b, `\u%04X`, r)
}
