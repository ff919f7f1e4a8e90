// Package clip adapts the system clipboard for headless front ends.
package clip

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// System is the desktop clipboard reached through xclip, xsel, wl-clipboard
// or the platform API.
type System struct{}

// Available reports whether a clipboard backend was found.
func Available() bool {
	return !clipboard.Unsupported
}

// ReadText returns the clipboard contents.
func (System) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

// WriteText replaces the clipboard contents.
func (System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
