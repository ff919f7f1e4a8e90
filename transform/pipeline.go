// Package transform implements the JSON text pipelines: prettify, minify,
// JavaScript escaping, Base64 and gzip, plus the JavaScript string decoder
// and input cleaning they rely on.
//
// Every function is pure. Pipelines report their outcome as a Result, which
// carries either output text or a typed error (*ParseError, *DecodeError).
package transform

import (
	"fmt"
	"strings"
)

// Operation names.
const (
	OpPrettify       = "Prettify"
	OpMinify         = "Minify"
	OpJSEncode       = "JS-Encode"
	OpJSDecode       = "JS-Decode"
	OpBase64Encode   = "Base64-Encode"
	OpBase64Decode   = "Base64-Decode"
	OpGzipCompress   = "Gzip-Compress"
	OpGzipDecompress = "Gzip-Decompress"
	OpHTMLExtract    = "HTML-Extract"
)

// Result is the outcome of one pipeline run.
type Result struct {
	Operation string
	Output    string
	// RawLength is the size in bytes of the data before Base64 wrapping,
	// set by Base64-Encode and Gzip-Compress.
	RawLength int
	Err       error
}

// OK reports whether the pipeline succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Text returns the output, or the error message when the pipeline failed.
func (r Result) Text() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Output
}

// Operation is a named pipeline.
type Operation struct {
	Name        string
	Description string
	Func        func(p *Pipeline, input string) Result
}

var operations = []Operation{
	{OpPrettify, "Pretty print JSON", (*Pipeline).Prettify},
	{OpMinify, "Minify JSON", (*Pipeline).Minify},
	{OpJSEncode, "Minify and JavaScript-encode JSON", (*Pipeline).JSEncode},
	{OpJSDecode, "JavaScript-decode and prettify JSON", (*Pipeline).JSDecode},
	{OpBase64Encode, "Minify and Base64-encode JSON", (*Pipeline).Base64Encode},
	{OpBase64Decode, "Base64-decode and prettify JSON", (*Pipeline).Base64Decode},
	{OpGzipCompress, "Minify, gzip-compress and Base64-encode JSON", (*Pipeline).GzipCompress},
	{OpGzipDecompress, "Base64-decode, gzip-decompress and prettify JSON", (*Pipeline).GzipDecompress},
	{OpHTMLExtract, "Extract JSON from copied HTML and prettify it", (*Pipeline).HTMLExtract},
}

// Operations returns all registered pipelines in display order.
func Operations() []Operation {
	return append([]Operation(nil), operations...)
}

// OperationNames returns the names of all registered pipelines.
func OperationNames() []string {
	names := make([]string, len(operations))
	for i, op := range operations {
		names[i] = op.Name
	}
	return names
}

// Lookup finds an operation by name, ignoring case.
func Lookup(name string) (Operation, bool) {
	for _, op := range operations {
		if strings.EqualFold(op.Name, name) {
			return op, true
		}
	}
	return Operation{}, false
}

// Pipeline holds the tunables shared by all compositions.
type Pipeline struct {
	indent     string
	maxInflate int64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithIndent sets the indent step of prettified output.
func WithIndent(indent string) Option {
	return func(p *Pipeline) { p.indent = indent }
}

// WithMaxInflateBytes caps the size of gunzipped data.
func WithMaxInflateBytes(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxInflate = n
		}
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{indent: DefaultIndent, maxInflate: DefaultMaxInflateBytes}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPipeline = New()

// Apply runs the named pipeline with the default settings.
func Apply(name, input string) Result {
	return defaultPipeline.Apply(name, input)
}

// Apply runs the named pipeline on input.
func (p *Pipeline) Apply(name, input string) Result {
	op, ok := Lookup(name)
	if !ok {
		return Result{Operation: name, Err: fmt.Errorf("%w: %q", ErrUnknownOperation, name)}
	}
	return op.Func(p, input)
}

// Prettify renders input indented.
func (p *Pipeline) Prettify(input string) Result {
	out, err := p.Render(input, true)
	return result(OpPrettify, out, err)
}

// Minify renders input without whitespace.
func (p *Pipeline) Minify(input string) Result {
	out, err := p.Render(input, false)
	return result(OpMinify, out, err)
}

// JSEncode minifies input and escapes it for a JavaScript string literal.
func (p *Pipeline) JSEncode(input string) Result {
	minified, err := p.Render(input, false)
	if err != nil {
		return result(OpJSEncode, "", err)
	}
	return result(OpJSEncode, JSONStringEscape(minified, true), nil)
}

// JSDecode unescapes a JavaScript string literal body and prettifies it.
func (p *Pipeline) JSDecode(input string) Result {
	out, err := p.Render(JSDecode(input), true)
	return result(OpJSDecode, out, err)
}

// Base64Encode minifies input and Base64-encodes its UTF-8 bytes.
func (p *Pipeline) Base64Encode(input string) Result {
	minified, err := p.Render(input, false)
	if err != nil {
		return result(OpBase64Encode, "", err)
	}
	res := result(OpBase64Encode, Base64Encode([]byte(minified)), nil)
	res.RawLength = len(minified)
	return res
}

// Base64Decode decodes Base64 input and prettifies the JSON it holds.
func (p *Pipeline) Base64Decode(input string) Result {
	data, err := Base64Decode(input)
	if err != nil {
		return result(OpBase64Decode, "", err)
	}
	out, err := p.Render(BytesToText(data), true)
	return result(OpBase64Decode, out, err)
}

// GzipCompress minifies input, gzips it and Base64-encodes the container.
func (p *Pipeline) GzipCompress(input string) Result {
	minified, err := p.Render(input, false)
	if err != nil {
		return result(OpGzipCompress, "", err)
	}
	compressed, err := Gzip([]byte(minified))
	if err != nil {
		return result(OpGzipCompress, "", err)
	}
	res := result(OpGzipCompress, Base64Encode(compressed), nil)
	res.RawLength = len(compressed)
	return res
}

// GzipDecompress reverses GzipCompress and prettifies the result.
func (p *Pipeline) GzipDecompress(input string) Result {
	data, err := Base64Decode(input)
	if err != nil {
		return result(OpGzipDecompress, "", err)
	}
	inflated, err := p.Gunzip(data)
	if err != nil {
		return result(OpGzipDecompress, "", err)
	}
	out, err := p.Render(BytesToText(inflated), true)
	return result(OpGzipDecompress, out, err)
}

// HTMLExtract pulls JSON out of copied HTML and prettifies it.
func (p *Pipeline) HTMLExtract(input string) Result {
	text, err := ExtractHTML(input)
	if err != nil {
		return result(OpHTMLExtract, "", err)
	}
	out, err := p.Render(text, true)
	return result(OpHTMLExtract, out, err)
}

func result(op, out string, err error) Result {
	if err != nil {
		return Result{Operation: op, Err: err}
	}
	return Result{Operation: op, Output: out}
}
