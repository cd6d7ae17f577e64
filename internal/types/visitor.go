package types

// Visitor dispatches over the closed ContentNode variant set with a
// caller-chosen result type. Adding a node kind extends this interface, which
// breaks every implementor at compile time until it handles the new kind.
type Visitor[T any] interface {
	VisitText(*TextNode) T
	VisitToolCall(*ToolCallNode) T
	VisitToolResult(*ToolResultNode) T
	VisitError(*ErrorNode) T
}

// Visit dispatches node to the visitor method matching its concrete kind.
func Visit[T any](node ContentNode, v Visitor[T]) T {
	switch n := node.(type) {
	case *TextNode:
		return v.VisitText(n)
	case *ToolCallNode:
		return v.VisitToolCall(n)
	case *ToolResultNode:
		return v.VisitToolResult(n)
	case *ErrorNode:
		return v.VisitError(n)
	}
	// ContentNode is sealed; only a new variant missing a case above can
	// reach this.
	var zero T
	return zero
}
