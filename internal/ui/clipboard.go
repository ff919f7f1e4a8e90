package ui

import (
	"fmt"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

// Clipboard is the GTK CLIPBOARD selection. Use it from the GTK main
// thread only.
type Clipboard struct {
	cb *gtk.Clipboard
}

// NewClipboard returns the default CLIPBOARD selection.
func NewClipboard() (*Clipboard, error) {
	cb, err := gtk.ClipboardGet(gdk.GdkAtomIntern("CLIPBOARD", true))
	if err != nil {
		return nil, fmt.Errorf("failed to get clipboard: %w", err)
	}
	return &Clipboard{cb: cb}, nil
}

// ReadText returns the clipboard text, or "" when it holds no text.
func (c *Clipboard) ReadText() (string, error) {
	if !c.cb.WaitIsTextAvailable() {
		return "", nil
	}
	text, err := c.cb.WaitForText()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

// WriteText replaces the clipboard text.
func (c *Clipboard) WriteText(text string) error {
	c.cb.SetText(text)
	return nil
}
