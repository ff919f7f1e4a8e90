package socket

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/pstuifzand/go-jsonhelper/internal/core"
)

// Client connects to a running socket server
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

// Dial connects to a running socket server
func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket server at %s: %w", socketPath, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection to the socket server
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// RemoteAddr describes the server end of the connection.
func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Execute sends a raw JSON command and returns the decoded response
func (c *Client) Execute(cmdJSON string) (*core.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := writeMessage(c.conn, []byte(cmdJSON)); err != nil {
		return nil, fmt.Errorf("send command: %w", err)
	}

	data, err := readMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("receive response: %w", err)
	}

	var resp core.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}

// Call builds a command from action and params and executes it. A response
// with success=false is returned as a *RemoteError.
func (c *Client) Call(action string, params map[string]interface{}) (map[string]interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	cmdJSON, err := json.Marshal(core.Command{Action: action, Params: params})
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(string(cmdJSON))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RemoteError{Kind: resp.Kind, Message: resp.Error}
	}

	result, _ := resp.Result.(map[string]interface{})
	return result, nil
}

// RemoteError is a failure reported by the server.
type RemoteError struct {
	Kind    string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }
