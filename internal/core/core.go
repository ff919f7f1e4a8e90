// Package core holds the state a JSON helper front end works on: an input
// buffer, an output buffer and the raw length of the last encoded result.
// Transformations themselves live in package transform; Core feeds them the
// input buffer and stores what they return.
package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pstuifzand/go-jsonhelper/internal/metrics"
	"github.com/pstuifzand/go-jsonhelper/transform"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Clipboard is the system clipboard as seen by the core. Front ends supply it.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Core is the headless JSON helper with no UI dependencies. It is safe for
// concurrent use.
type Core struct {
	mu         sync.Mutex
	pipeline   *transform.Pipeline
	clipboard  Clipboard
	transport  string
	inputText  string
	outputText string
	rawLength  int
}

// Option configures a Core.
type Option func(*Core)

// WithPipeline sets the pipeline used for all operations.
func WithPipeline(p *transform.Pipeline) Option {
	return func(c *Core) { c.pipeline = p }
}

// WithClipboard attaches a clipboard. Without one, PasteIfEmpty is skipped
// and clipboard commands fail.
func WithClipboard(cb Clipboard) Option {
	return func(c *Core) { c.clipboard = cb }
}

// WithTransport names the front end in metrics.
func WithTransport(name string) Option {
	return func(c *Core) { c.transport = name }
}

// New creates a Core.
func New(opts ...Option) *Core {
	c := &Core{
		pipeline:  transform.New(),
		transport: "core",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var labelPrinter = message.NewPrinter(language.English)

// ErrNoClipboard is returned by clipboard operations when none is attached.
var ErrNoClipboard = errors.New("no clipboard available")

// ============================================================================
// Text Buffers
// ============================================================================

// SetInputText replaces the input buffer.
func (c *Core) SetInputText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputText = text
}

// GetInputText returns the input buffer.
func (c *Core) GetInputText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputText
}

// GetOutputText returns the output buffer.
func (c *Core) GetOutputText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputText
}

// Swap exchanges the input and output buffers.
func (c *Core) Swap() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputText, c.outputText = c.outputText, c.inputText
	c.rawLength = 0
}

// ============================================================================
// Pipelines
// ============================================================================

// Run applies the named pipeline to the input buffer. When the input buffer is
// empty it is first filled from the clipboard. The output buffer receives the
// result text, or the error message when the pipeline fails.
func (c *Core) Run(operation string) transform.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rawLength = 0
	if err := c.pasteIfEmpty(); err != nil {
		res := transform.Result{Operation: operation, Err: err}
		c.outputText = res.Text()
		return res
	}

	res := c.run(operation, c.inputText)
	c.outputText = res.Text()
	c.rawLength = res.RawLength
	return res
}

// Apply is Run reduced to the output text and error.
func (c *Core) Apply(operation string) (string, error) {
	res := c.Run(operation)
	return res.Output, res.Err
}

// Transform runs a pipeline on text without touching the buffers.
func (c *Core) Transform(operation, text string) (string, error) {
	res := c.run(operation, text)
	return res.Output, res.Err
}

// ListOperations returns the names of all pipelines.
func (c *Core) ListOperations() []string {
	return transform.OperationNames()
}

func (c *Core) run(operation, input string) transform.Result {
	start := time.Now()
	res := c.pipeline.Apply(operation, input)

	label, outcome := res.Operation, "ok"
	if !res.OK() {
		outcome = transform.ErrorKind(res.Err)
	}
	if errors.Is(res.Err, transform.ErrUnknownOperation) {
		// keep caller-supplied names out of the label set
		label = "unknown"
	}
	metrics.ObserveTransform(label, c.transport, outcome, len(input), time.Since(start))
	return res
}

// pasteIfEmpty must be called with c.mu held.
func (c *Core) pasteIfEmpty() error {
	if c.inputText != "" || c.clipboard == nil {
		return nil
	}
	text, err := c.clipboard.ReadText()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	c.inputText = text
	return nil
}

// ============================================================================
// Clipboard
// ============================================================================

// PasteInput replaces the input buffer with the clipboard content.
func (c *Core) PasteInput() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clipboard == nil {
		return ErrNoClipboard
	}
	text, err := c.clipboard.ReadText()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	c.inputText = text
	return nil
}

// CopyOutput puts the output buffer on the clipboard.
func (c *Core) CopyOutput() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clipboard == nil {
		return ErrNoClipboard
	}
	if err := c.clipboard.WriteText(c.outputText); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// ============================================================================
// Labels
// ============================================================================

// Labels are the captions shown above the two buffers.
type Labels struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Labels returns byte-count captions for both buffers.
func (c *Core) Labels() Labels {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Labels{
		Input:  InputLabel(c.inputText),
		Output: OutputLabel(c.outputText, c.rawLength),
	}
}

// InputLabel formats the caption of the input buffer.
func InputLabel(text string) string {
	return labelPrinter.Sprintf("Input (%d bytes)", len(text))
}

// OutputLabel formats the caption of the output buffer. rawLength is the
// size before Base64 wrapping, or zero.
func OutputLabel(text string, rawLength int) string {
	if rawLength > 0 {
		return labelPrinter.Sprintf("Output (%d bytes | %d bytes without Base64 encoding)", len(text), rawLength)
	}
	return labelPrinter.Sprintf("Output (%d bytes)", len(text))
}
