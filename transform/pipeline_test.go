package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prettyA = "{\n  \"a\": 1\n}"

func TestOperationsRegistry(t *testing.T) {
	names := OperationNames()
	assert.Equal(t, []string{
		OpPrettify, OpMinify, OpJSEncode, OpJSDecode,
		OpBase64Encode, OpBase64Decode, OpGzipCompress, OpGzipDecompress,
		OpHTMLExtract,
	}, names)

	for _, name := range names {
		op, ok := Lookup(strings.ToLower(name))
		require.True(t, ok, name)
		assert.Equal(t, name, op.Name)
		assert.NotEmpty(t, op.Description)
	}

	_, ok := Lookup("Uppercase")
	assert.False(t, ok)
}

func TestApplyUnknownOperation(t *testing.T) {
	res := Apply("Reverse", `{}`)
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrUnknownOperation)
	assert.Equal(t, "unknown_operation", ErrorKind(res.Err))
	assert.Contains(t, res.Text(), "Reverse")
}

func TestPrettifyAndMinify(t *testing.T) {
	res := Apply(OpPrettify, `{"a":1}`)
	require.True(t, res.OK())
	assert.Equal(t, prettyA, res.Text())
	assert.Zero(t, res.RawLength)

	res = Apply("minify", prettyA)
	require.True(t, res.OK())
	assert.Equal(t, `{"a":1}`, res.Output)
	assert.Equal(t, OpMinify, res.Operation)
}

func TestFailedResultHasNoPartialOutput(t *testing.T) {
	res := Apply(OpPrettify, "not json")
	require.False(t, res.OK())
	assert.Empty(t, res.Output)
	assert.Equal(t, res.Err.Error(), res.Text())
	assert.Equal(t, "parse", ErrorKind(res.Err))
}

func TestJSEncodeDecodeRoundTrip(t *testing.T) {
	input := "{\n  \"msg\": \"<hi> & \\\"bye\\\"\",\n  \"path\": \"a/b\"\n}"

	encoded := Apply(OpJSEncode, input)
	require.True(t, encoded.OK(), encoded.Text())
	assert.Equal(t, `{\"msg\":\"<hi> & \\\"bye\\\"\",\"path\":\"a/b\"}`, encoded.Output)

	decoded := Apply(OpJSDecode, `{\"msg\":\"hello\",\"n\":[1,2]}`)
	require.True(t, decoded.OK(), decoded.Text())
	assert.Equal(t, "{\n  \"msg\": \"hello\",\n  \"n\": [\n    1,\n    2\n  ]\n}", decoded.Output)
}

func TestBase64RoundTrip(t *testing.T) {
	encoded := Apply(OpBase64Encode, "{ \"a\" : 1 }")
	require.True(t, encoded.OK())
	assert.Equal(t, "eyJhIjoxfQ==", encoded.Output)
	assert.Equal(t, len(`{"a":1}`), encoded.RawLength)

	decoded := Apply(OpBase64Decode, encoded.Output)
	require.True(t, decoded.OK(), decoded.Text())
	assert.Equal(t, prettyA, decoded.Output)
}

func TestBase64DecodeFailures(t *testing.T) {
	res := Apply(OpBase64Decode, "not-base64!!")
	require.False(t, res.OK())
	assert.Equal(t, "decode", ErrorKind(res.Err))

	// Valid Base64 that does not hold JSON fails at the render step.
	res = Apply(OpBase64Decode, Base64Encode([]byte("plain text")))
	require.False(t, res.OK())
	assert.Equal(t, "parse", ErrorKind(res.Err))
}

func TestGzipPipelineRoundTrip(t *testing.T) {
	compressed := Apply(OpGzipCompress, `{"a":1}`)
	require.True(t, compressed.OK(), compressed.Text())
	assert.Positive(t, compressed.RawLength)

	raw, err := Base64Decode(compressed.Output)
	require.NoError(t, err)
	assert.Equal(t, len(raw), compressed.RawLength)

	decompressed := Apply(OpGzipDecompress, compressed.Output)
	require.True(t, decompressed.OK(), decompressed.Text())
	assert.Equal(t, prettyA, decompressed.Output)
}

func TestGzipDecompressFailures(t *testing.T) {
	res := Apply(OpGzipDecompress, "eyJhIjoxfQ==")
	var decodeErr *DecodeError
	require.ErrorAs(t, res.Err, &decodeErr)
	assert.Equal(t, StageGzip, decodeErr.Stage)

	res = Apply(OpGzipDecompress, "%%%")
	require.ErrorAs(t, res.Err, &decodeErr)
	assert.Equal(t, StageBase64, decodeErr.Stage)
}

func TestHTMLExtract(t *testing.T) {
	page := `<html><body><p>Response:</p><pre>{&quot;a&quot;:1}</pre></body></html>`
	res := Apply(OpHTMLExtract, page)
	require.True(t, res.OK(), res.Text())
	assert.Equal(t, prettyA, res.Output)

	script := `<div><code>not json</code><script type="application/json">{"a":1}</script></div>`
	res = Apply(OpHTMLExtract, script)
	require.True(t, res.OK(), res.Text())
	assert.Equal(t, prettyA, res.Output)

	res = Apply(OpHTMLExtract, `<p>{"a":1}</p><style>p{}</style>`)
	require.True(t, res.OK(), res.Text())
	assert.Equal(t, prettyA, res.Output)

	res = Apply(OpHTMLExtract, `<p>nothing here</p>`)
	assert.Equal(t, "parse", ErrorKind(res.Err))
}

func TestPipelineOptions(t *testing.T) {
	p := New(WithIndent("    "), WithMaxInflateBytes(0))
	res := p.Apply(OpPrettify, `{"a":1}`)
	require.True(t, res.OK())
	assert.Equal(t, "{\n    \"a\": 1\n}", res.Output)
	assert.Equal(t, DefaultMaxInflateBytes, p.maxInflate)
}
