package socket

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ============================================================================
// Length-Prefixed Protocol Implementation
// ============================================================================

// MaxMessageSize bounds a single message in either direction.
const MaxMessageSize = 256 << 20

// readMessage reads a single length-prefixed message (4-byte big-endian length + data)
func readMessage(r io.Reader) ([]byte, error) {
	lengthBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lengthBuf); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf)
	if length > MaxMessageSize {
		return nil, fmt.Errorf("message of %d bytes exceeds limit of %d", length, MaxMessageSize)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// writeMessage writes a single length-prefixed message
func writeMessage(w io.Writer, data []byte) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("message of %d bytes exceeds limit of %d", len(data), MaxMessageSize)
	}

	buf := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[4:], data)

	_, err := w.Write(buf)
	return err
}
