// Package ui is the GTK window: an input pane, an output pane and one
// button per operation.
package ui

import (
	"fmt"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/pstuifzand/go-jsonhelper/internal/core"
	"github.com/rs/zerolog"
)

const (
	appTitle  = "JSON Helper"
	appWidth  = 1000
	appHeight = 600

	copyLabel   = "To Clipboard"
	copiedLabel = "Copied!"
)

// Window is the main application window
type Window struct {
	commands  core.Commands
	logger    zerolog.Logger
	highlight time.Duration

	window       *gtk.Window
	inputFrame   *gtk.Frame
	outputFrame  *gtk.Frame
	inputBuffer  *gtk.TextBuffer
	outputBuffer *gtk.TextBuffer
	copyButton   *gtk.Button

	// syncing suppresses the input "changed" handler while the window
	// itself writes the buffers
	syncing bool
	// revert is the pending copy-button highlight reset, 0 when none
	revert glib.SourceHandle
}

// New builds the window. gtk.Init must have been called.
func New(commands core.Commands, highlight time.Duration, logger zerolog.Logger) (*Window, error) {
	w := &Window{
		commands:  commands,
		logger:    logger,
		highlight: highlight,
	}
	if err := w.build(); err != nil {
		return nil, err
	}
	w.Refresh()
	return w, nil
}

// Show displays the window; closing it quits the GTK main loop.
func (w *Window) Show() {
	w.window.ShowAll()
}

func (w *Window) build() error {
	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return fmt.Errorf("unable to create window: %w", err)
	}
	w.window = win
	w.window.SetTitle(appTitle)
	w.window.SetDefaultSize(appWidth, appHeight)
	w.window.Connect("destroy", func() {
		w.cancelRevert()
		gtk.MainQuit()
	})

	mainBox, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 5)
	mainBox.SetMarginTop(5)
	mainBox.SetMarginBottom(5)
	mainBox.SetMarginStart(5)
	mainBox.SetMarginEnd(5)

	mainBox.PackStart(w.createToolbar(), false, false, 0)

	textPaned, _ := gtk.PanedNew(gtk.ORIENTATION_HORIZONTAL)
	textPaned.SetPosition(appWidth / 2)

	var inputView *gtk.TextView
	w.inputFrame, inputView, w.inputBuffer = createTextPane("Input", true)
	textPaned.Add1(w.inputFrame)

	w.outputFrame, _, w.outputBuffer = createTextPane("Output", false)
	textPaned.Add2(w.outputFrame)

	mainBox.PackStart(textPaned, true, true, 0)
	w.window.Add(mainBox)

	w.inputBuffer.Connect("changed", func() {
		if w.syncing {
			return
		}
		w.commands.SetInputText(bufferText(w.inputBuffer))
		w.updateLabels()
	})
	if err := w.acceptFileDrops(inputView); err != nil {
		return err
	}
	inputView.GrabFocus()

	return nil
}

// acceptFileDrops loads a file dropped on the input pane
func (w *Window) acceptFileDrops(view *gtk.TextView) error {
	target, err := gtk.TargetEntryNew("text/uri-list", gtk.TARGET_OTHER_APP, 0)
	if err != nil {
		return fmt.Errorf("unable to create drop target: %w", err)
	}
	view.DragDestSet(gtk.DEST_DEFAULT_ALL, []gtk.TargetEntry{*target}, gdk.ACTION_COPY)

	view.Connect("drag-data-received", func(view *gtk.TextView, _ *gdk.DragContext, _, _ int, data *gtk.SelectionData) {
		// the default handler would insert the URI text itself
		view.StopEmission("drag-data-received")

		if err := core.LoadDropped(w.commands, string(data.GetData())); err != nil {
			w.logger.Warn().Err(err).Msg("drop failed")
		}
		w.Refresh()
	})
	return nil
}

// createToolbar lays out From Clipboard, the operation buttons, Swap and
// To Clipboard
func (w *Window) createToolbar() *gtk.Box {
	toolbar, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 5)

	pasteButton, _ := gtk.ButtonNewWithLabel("From Clipboard")
	pasteButton.Connect("clicked", w.pasteInput)
	toolbar.PackStart(pasteButton, false, false, 0)

	for _, name := range w.commands.ListOperations() {
		operation := name
		button, _ := gtk.ButtonNewWithLabel(operation)
		button.Connect("clicked", func() {
			w.apply(operation)
		})
		toolbar.PackStart(button, false, false, 0)
	}

	swapButton, _ := gtk.ButtonNewWithLabel("Swap")
	swapButton.Connect("clicked", func() {
		w.commands.Swap()
		w.Refresh()
	})
	toolbar.PackStart(swapButton, false, false, 0)

	spacer, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 0)
	toolbar.PackStart(spacer, true, true, 0)

	copyButton, _ := gtk.ButtonNewWithLabel(copyLabel)
	copyButton.Connect("clicked", w.copyOutput)
	w.copyButton = copyButton
	toolbar.PackStart(copyButton, false, false, 0)

	return toolbar
}

func createTextPane(title string, isInput bool) (*gtk.Frame, *gtk.TextView, *gtk.TextBuffer) {
	frame, _ := gtk.FrameNew(title)

	scrolledWindow, _ := gtk.ScrolledWindowNew(nil, nil)
	scrolledWindow.SetPolicy(gtk.POLICY_AUTOMATIC, gtk.POLICY_AUTOMATIC)

	textView, _ := gtk.TextViewNew()
	textView.SetWrapMode(gtk.WRAP_WORD_CHAR)
	textView.SetMonospace(true)
	textView.SetEditable(isInput)

	buffer, _ := textView.GetBuffer()

	scrolledWindow.Add(textView)
	frame.Add(scrolledWindow)

	return frame, textView, buffer
}

// ============================================================================
// Actions
// ============================================================================

func (w *Window) apply(operation string) {
	if _, err := w.commands.Apply(operation); err != nil {
		w.logger.Debug().Err(err).Str("operation", operation).Msg("operation failed")
	}
	// Apply may have pasted into an empty input
	w.Refresh()
}

func (w *Window) pasteInput() {
	if err := w.commands.PasteInput(); err != nil {
		w.logger.Warn().Err(err).Msg("paste failed")
		return
	}
	w.Refresh()
}

func (w *Window) copyOutput() {
	if err := w.commands.CopyOutput(); err != nil {
		w.logger.Warn().Err(err).Msg("copy failed")
		return
	}

	w.cancelRevert()
	w.copyButton.SetLabel(copiedLabel)
	if style, err := w.copyButton.GetStyleContext(); err == nil {
		style.AddClass("suggested-action")
	}

	w.revert = glib.TimeoutAdd(uint(w.highlight.Milliseconds()), func() bool {
		w.revert = 0
		w.copyButton.SetLabel(copyLabel)
		if style, err := w.copyButton.GetStyleContext(); err == nil {
			style.RemoveClass("suggested-action")
		}
		return false
	})
}

// cancelRevert drops a pending highlight reset
func (w *Window) cancelRevert() {
	if w.revert != 0 {
		glib.SourceRemove(w.revert)
		w.revert = 0
	}
}

// ============================================================================
// State
// ============================================================================

// Refresh reloads both panes and their labels from the session. Call it
// on the GTK main thread.
func (w *Window) Refresh() {
	w.syncing = true
	if input := w.commands.GetInputText(); input != bufferText(w.inputBuffer) {
		w.inputBuffer.SetText(input)
	}
	w.outputBuffer.SetText(w.commands.GetOutputText())
	w.syncing = false

	w.updateLabels()
}

// RefreshAsync schedules Refresh on the GTK main thread; it is safe to call
// from any goroutine.
func (w *Window) RefreshAsync() {
	glib.IdleAdd(func() bool {
		w.Refresh()
		return false
	})
}

func (w *Window) updateLabels() {
	labels := w.commands.Labels()
	w.inputFrame.SetLabel(labels.Input)
	w.outputFrame.SetLabel(labels.Output)
}

func bufferText(buffer *gtk.TextBuffer) string {
	start, end := buffer.GetBounds()
	text, _ := buffer.GetText(start, end, true)
	return text
}
