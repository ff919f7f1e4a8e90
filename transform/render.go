package transform

import (
	"bytes"
	"encoding/json"
	"errors"
)

// DefaultIndent is the indent step of prettified output.
const DefaultIndent = "  "

// Render cleans input, checks that it is valid JSON and re-serializes it,
// indented or fully minified. Member order and number literals are kept as
// read.
func Render(input string, indented bool) (string, error) {
	return defaultPipeline.Render(input, indented)
}

// Render works like the package-level Render with the pipeline's indent step.
func (p *Pipeline) Render(input string, indented bool) (string, error) {
	// Unmarshal validates the whole document and reports the failing offset.
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(Clean(input)), &raw); err != nil {
		return "", newParseError(err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", newParseError(err)
	}
	if !indented {
		return compact.String(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", p.indent); err != nil {
		return "", newParseError(err)
	}
	return out.String(), nil
}

func newParseError(err error) *ParseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Offset: syntaxErr.Offset, Err: err}
	}
	return &ParseError{Offset: -1, Err: err}
}
