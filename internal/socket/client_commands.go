package socket

import (
	"github.com/pstuifzand/go-jsonhelper/internal/core"
	"github.com/rs/zerolog"
)

// ClientCommands wraps a Client to implement the core.Commands interface.
// This allows GUI code to use the same interface whether connected to a socket
// server or using core.Core directly.
type ClientCommands struct {
	client *Client
	logger zerolog.Logger
}

var _ core.Commands = (*ClientCommands)(nil)

// NewClientCommands creates a new socket client wrapper
func NewClientCommands(client *Client, logger zerolog.Logger) *ClientCommands {
	return &ClientCommands{client: client, logger: logger}
}

// ============================================================================
// Text Buffers
// ============================================================================

// SetInputText implements core.Commands.SetInputText
func (s *ClientCommands) SetInputText(text string) {
	if _, err := s.client.Call("set_input_text", map[string]interface{}{"text": text}); err != nil {
		s.logger.Error().Err(err).Msg("SetInputText socket error")
	}
}

// GetInputText implements core.Commands.GetInputText
func (s *ClientCommands) GetInputText() string {
	result, err := s.client.Call("get_input_text", nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("GetInputText socket error")
		return ""
	}
	return str(result, "text")
}

// GetOutputText implements core.Commands.GetOutputText
func (s *ClientCommands) GetOutputText() string {
	result, err := s.client.Call("get_output_text", nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("GetOutputText socket error")
		return ""
	}
	return str(result, "output")
}

// Swap implements core.Commands.Swap
func (s *ClientCommands) Swap() {
	if _, err := s.client.Call("swap", nil); err != nil {
		s.logger.Error().Err(err).Msg("Swap socket error")
	}
}

// ============================================================================
// Pipelines
// ============================================================================

// Apply implements core.Commands.Apply
func (s *ClientCommands) Apply(operation string) (string, error) {
	result, err := s.client.Call("apply", map[string]interface{}{"operation": operation})
	if err != nil {
		return "", err
	}
	return str(result, "output"), nil
}

// Transform implements core.Commands.Transform
func (s *ClientCommands) Transform(operation, text string) (string, error) {
	result, err := s.client.Call("transform", map[string]interface{}{
		"operation": operation,
		"text":      text,
	})
	if err != nil {
		return "", err
	}
	return str(result, "output"), nil
}

// ListOperations implements core.Commands.ListOperations
func (s *ClientCommands) ListOperations() []string {
	result, err := s.client.Call("list_operations", nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("ListOperations socket error")
		return nil
	}

	ops, _ := result["operations"].([]interface{})
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		if m, ok := op.(map[string]interface{}); ok {
			names = append(names, str(m, "name"))
		}
	}
	return names
}

// Labels implements core.Commands.Labels
func (s *ClientCommands) Labels() core.Labels {
	result, err := s.client.Call("get_labels", nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Labels socket error")
		return core.Labels{}
	}
	labels, _ := result["labels"].(map[string]interface{})
	return core.Labels{
		Input:  str(labels, "input"),
		Output: str(labels, "output"),
	}
}

// ============================================================================
// Clipboard
// ============================================================================

// PasteInput implements core.Commands.PasteInput
func (s *ClientCommands) PasteInput() error {
	_, err := s.client.Call("paste_input", nil)
	return err
}

// CopyOutput implements core.Commands.CopyOutput
func (s *ClientCommands) CopyOutput() error {
	_, err := s.client.Call("copy_output", nil)
	return err
}

func str(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}
