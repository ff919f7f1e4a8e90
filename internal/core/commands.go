package core

import (
	"encoding/json"

	"github.com/pstuifzand/go-jsonhelper/transform"
)

// Command represents a JSON command sent by a remote front end or agent
type Command struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params"`
}

// Response represents a JSON response from command execution
type Response struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// ExecuteCommand executes a JSON command and returns a JSON response
func (c *Core) ExecuteCommand(cmdJSON string) string {
	var cmd Command
	if err := json.Unmarshal([]byte(cmdJSON), &cmd); err != nil {
		return errorResponse("Invalid JSON: "+err.Error(), "")
	}

	switch cmd.Action {
	case "set_input_text":
		return c.cmdSetInputText(cmd.Params)
	case "get_input_text":
		return c.cmdGetInputText(cmd.Params)
	case "get_output_text":
		return c.cmdGetOutputText(cmd.Params)
	case "apply":
		return c.cmdApply(cmd.Params)
	case "transform":
		return c.cmdTransform(cmd.Params)
	case "swap":
		return c.cmdSwap(cmd.Params)
	case "list_operations":
		return c.cmdListOperations(cmd.Params)
	case "get_labels":
		return c.cmdGetLabels(cmd.Params)
	case "paste_input":
		return c.cmdPasteInput(cmd.Params)
	case "copy_output":
		return c.cmdCopyOutput(cmd.Params)
	default:
		return errorResponse("Unknown action: "+cmd.Action, "")
	}
}

// ============================================================================
// Command Handlers
// ============================================================================

// cmdSetInputText replaces the input buffer
func (c *Core) cmdSetInputText(params map[string]interface{}) string {
	c.SetInputText(getStr(params, "text", ""))
	return successResponse(map[string]interface{}{
		"success": true,
	})
}

func (c *Core) cmdGetInputText(params map[string]interface{}) string {
	return successResponse(map[string]interface{}{
		"text": c.GetInputText(),
	})
}

func (c *Core) cmdGetOutputText(params map[string]interface{}) string {
	return successResponse(map[string]interface{}{
		"output": c.GetOutputText(),
	})
}

// cmdApply runs a pipeline on the input buffer
func (c *Core) cmdApply(params map[string]interface{}) string {
	operation := getStr(params, "operation", "")
	if operation == "" {
		return errorResponse("Missing required parameter: operation", "")
	}

	res := c.Run(operation)
	if !res.OK() {
		return errorResponse(res.Err.Error(), transform.ErrorKind(res.Err))
	}
	return successResponse(map[string]interface{}{
		"operation":  res.Operation,
		"output":     res.Output,
		"raw_length": res.RawLength,
	})
}

// cmdTransform runs a pipeline on the given text, leaving the buffers alone
func (c *Core) cmdTransform(params map[string]interface{}) string {
	operation := getStr(params, "operation", "")
	if operation == "" {
		return errorResponse("Missing required parameter: operation", "")
	}
	text, ok := params["text"].(string)
	if !ok {
		return errorResponse("Missing required parameter: text", "")
	}

	output, err := c.Transform(operation, text)
	if err != nil {
		return errorResponse(err.Error(), transform.ErrorKind(err))
	}
	return successResponse(map[string]interface{}{
		"output": output,
	})
}

func (c *Core) cmdSwap(params map[string]interface{}) string {
	c.Swap()
	return successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdListOperations returns the pipeline names with their descriptions
func (c *Core) cmdListOperations(params map[string]interface{}) string {
	ops := transform.Operations()
	list := make([]map[string]string, len(ops))
	for i, op := range ops {
		list[i] = map[string]string{
			"name":        op.Name,
			"description": op.Description,
		}
	}
	return successResponse(map[string]interface{}{
		"operations": list,
	})
}

func (c *Core) cmdGetLabels(params map[string]interface{}) string {
	return successResponse(map[string]interface{}{
		"labels": c.Labels(),
	})
}

func (c *Core) cmdPasteInput(params map[string]interface{}) string {
	if err := c.PasteInput(); err != nil {
		return errorResponse(err.Error(), "clipboard")
	}
	return successResponse(map[string]interface{}{
		"text": c.GetInputText(),
	})
}

func (c *Core) cmdCopyOutput(params map[string]interface{}) string {
	if err := c.CopyOutput(); err != nil {
		return errorResponse(err.Error(), "clipboard")
	}
	return successResponse(map[string]interface{}{
		"success": true,
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// getStr safely extracts a string parameter, with a default value
func getStr(params map[string]interface{}, key, defaultValue string) string {
	if val, ok := params[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// successResponse creates a successful response
func successResponse(result interface{}) string {
	data, _ := json.Marshal(Response{
		Success: true,
		Result:  result,
	})
	return string(data)
}

// errorResponse creates an error response
func errorResponse(errorMsg, kind string) string {
	data, _ := json.Marshal(Response{
		Success: false,
		Error:   errorMsg,
		Kind:    kind,
	})
	return string(data)
}
