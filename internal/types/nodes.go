package types

import (
	"encoding/json"
	"time"
)

// NodeKind identifies a ContentNode variant
type NodeKind string

const (
	KindText       NodeKind = "text"
	KindToolCall   NodeKind = "tool_call"
	KindToolResult NodeKind = "tool_result"
	KindError      NodeKind = "error"
)

// Severity levels for ErrorNode and validation issues
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ResponseNode is the root of one parsed model response, independent of the
// source provider format.
type ResponseNode struct {
	Provider  string        `json:"provider"`
	Model     string        `json:"model,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  ResponseMeta  `json:"metadata"`
	Children  []ContentNode `json:"children"`
}

// ResponseMeta carries response-level metadata extracted during parsing
type ResponseMeta struct {
	FinishReason string   `json:"finishReason,omitempty"`
	TokenCount   int      `json:"tokenCount,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	IsComplete   bool     `json:"isComplete"`
}

// ContentNode is the closed set of child node variants. The unexported marker
// keeps the set sealed: every variant lives in this package, and Visit stays
// exhaustive.
type ContentNode interface {
	Kind() NodeKind
	contentNode()
}

// TextNode holds a span of textual content
type TextNode struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

// ToolCallNode holds one tool invocation requested by the model.
// IsComplete holds iff Arguments is non-nil and ParseError is empty.
// Arguments loses the source key order; ArgumentsRawJSON keeps it.
type ToolCallNode struct {
	CallID           string         `json:"callId"`
	ToolName         string         `json:"toolName"`
	Arguments        map[string]any `json:"arguments,omitempty"`
	ArgumentsRawJSON string         `json:"argumentsRawJson,omitempty"`
	ParseError       string         `json:"parseError,omitempty"`
	IsComplete       bool           `json:"isComplete"`
}

// ToolResultNode holds the outcome of one tool invocation
type ToolResultNode struct {
	CallID       string `json:"callId"`
	ToolName     string `json:"toolName,omitempty"`
	Result       string `json:"result"`
	IsSuccess    bool   `json:"isSuccess"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ErrorNode records a failure that was absorbed during parsing
type ErrorNode struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
}

func (*TextNode) Kind() NodeKind       { return KindText }
func (*ToolCallNode) Kind() NodeKind   { return KindToolCall }
func (*ToolResultNode) Kind() NodeKind { return KindToolResult }
func (*ErrorNode) Kind() NodeKind      { return KindError }

func (*TextNode) contentNode()       {}
func (*ToolCallNode) contentNode()   {}
func (*ToolResultNode) contentNode() {}
func (*ErrorNode) contentNode()      {}

// MarshalJSON tags each variant with its kind so serialized trees stay
// distinguishable without reflection on the consumer side.
func (n *TextNode) MarshalJSON() ([]byte, error) {
	type alias TextNode
	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *ToolCallNode) MarshalJSON() ([]byte, error) {
	type alias ToolCallNode
	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *ToolResultNode) MarshalJSON() ([]byte, error) {
	type alias ToolResultNode
	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *ErrorNode) MarshalJSON() ([]byte, error) {
	type alias ErrorNode
	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		*alias
	}{n.Kind(), (*alias)(n)})
}
