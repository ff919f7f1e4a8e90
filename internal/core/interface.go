package core

// Commands defines the operations a front end can perform.
// Both Core (direct implementation) and socket.ClientCommands (socket wrapper)
// implement this interface, so a GUI works the same against a local core or a
// running daemon.
type Commands interface {
	// =========================================================================
	// Text Buffers
	// =========================================================================

	// SetInputText replaces the input buffer
	SetInputText(text string)

	// GetInputText returns the input buffer
	GetInputText() string

	// GetOutputText returns the output buffer
	GetOutputText() string

	// Swap exchanges the input and output buffers
	Swap()

	// =========================================================================
	// Pipelines
	// =========================================================================

	// Apply runs a pipeline on the input buffer and stores the result text
	// (or the error message) in the output buffer
	Apply(operation string) (string, error)

	// Transform runs a pipeline on text without touching the buffers
	Transform(operation, text string) (string, error)

	// ListOperations returns the names of all pipelines
	ListOperations() []string

	// Labels returns byte-count captions for both buffers
	Labels() Labels

	// =========================================================================
	// Clipboard
	// =========================================================================

	// PasteInput replaces the input buffer with the clipboard content
	PasteInput() error

	// CopyOutput puts the output buffer on the clipboard
	CopyOutput() error
}

var _ Commands = (*Core)(nil)
