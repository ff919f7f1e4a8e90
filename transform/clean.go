package transform

import "strings"

// zeroWidthSpace is pasted along with JSON by some chat clients (UTF-8 E2 80 8B)
// and breaks parsing.
const zeroWidthSpace = "\u200b"

// Clean removes every zero-width space from input. All other characters,
// including whitespace and control characters, pass through unchanged.
func Clean(input string) string {
	return strings.ReplaceAll(input, zeroWidthSpace, "")
}
