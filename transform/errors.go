package transform

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned when a pipeline name is not registered.
var ErrUnknownOperation = errors.New("unknown operation")

// ParseError reports input that is not syntactically valid JSON.
type ParseError struct {
	Offset int64 // byte offset into the cleaned input, -1 when unknown
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid JSON at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decode stages.
const (
	StageBase64 = "base64"
	StageGzip   = "gzip"
)

// DecodeError reports invalid Base64 text or an invalid gzip container.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s input: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorKind classifies err for transports that report failures as data:
// "parse", "decode", "unknown_operation" or "internal".
func ErrorKind(err error) string {
	var parseErr *ParseError
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.Is(err, ErrUnknownOperation):
		return "unknown_operation"
	default:
		return "internal"
	}
}
