package transform

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultMaxInflateBytes bounds the output of Gunzip.
const DefaultMaxInflateBytes int64 = 64 << 20

// ErrInflateLimit is wrapped in a DecodeError when gunzipped data exceeds the limit.
var ErrInflateLimit = errors.New("decompressed data exceeds limit")

// Base64Encode encodes data with the standard, padded alphabet.
func Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64Decode decodes standard, padded Base64. Spaces, tabs, CR and LF
// anywhere in the input are ignored so line-wrapped text decodes.
func Base64Decode(text string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, text)

	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, &DecodeError{Stage: StageBase64, Err: err}
	}
	return data, nil
}

// Gzip compresses data into a gzip container.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Gunzip decompresses a gzip container, reading at most DefaultMaxInflateBytes.
func Gunzip(data []byte) ([]byte, error) {
	return defaultPipeline.Gunzip(data)
}

// Gunzip decompresses a gzip container, reading at most the pipeline's
// inflate limit.
func (p *Pipeline) Gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Stage: StageGzip, Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, p.maxInflate+1))
	if err != nil {
		return nil, &DecodeError{Stage: StageGzip, Err: err}
	}
	if int64(len(out)) > p.maxInflate {
		return nil, &DecodeError{Stage: StageGzip, Err: fmt.Errorf("%w (%d bytes)", ErrInflateLimit, p.maxInflate)}
	}
	return out, nil
}

// BytesToText decodes UTF-8, replacing invalid sequences with U+FFFD.
func BytesToText(data []byte) string {
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
