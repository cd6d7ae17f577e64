package types

// StructuredResponse is the decoder output: a provider-neutral intermediate
// between raw JSON and the node tree.
type StructuredResponse struct {
	TextContent string                 `json:"textContent,omitempty"`
	ToolCalls   []StructuredToolCall   `json:"toolCalls,omitempty"`
	ToolResults []StructuredToolResult `json:"toolResults,omitempty"`
	Meta        StructuredMeta         `json:"meta"`
}

// StructuredToolCall is one tool invocation as decoded from provider JSON.
// Arguments is nil when ArgumentsJSON could not be parsed; ParseError then
// holds the reason.
type StructuredToolCall struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ArgumentsJSON string         `json:"argumentsJson,omitempty"`
	Arguments     map[string]any `json:"arguments,omitempty"`
	ParseError    string         `json:"parseError,omitempty"`
}

// StructuredToolResult is one tool outcome as decoded from provider JSON
type StructuredToolResult struct {
	CallID       string `json:"callId"`
	ToolName     string `json:"toolName,omitempty"`
	Result       string `json:"result"`
	IsSuccess    bool   `json:"isSuccess"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// StructuredMeta carries provider-level response metadata
type StructuredMeta struct {
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Usage holds token accounting in provider-neutral terms
type Usage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// Empty reports whether the decoder extracted nothing usable
func (r *StructuredResponse) Empty() bool {
	return r.TextContent == "" && len(r.ToolCalls) == 0 && len(r.ToolResults) == 0
}
