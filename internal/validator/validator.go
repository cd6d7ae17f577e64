// Package validator checks structural invariants of a finished node tree.
package validator

import (
	"fmt"

	"github.com/zgsm-ai/response-parser/internal/types"
)

// Validate inspects sibling relationships in a tree. Rules: duplicate
// tool-call ids and unparsed tool-call arguments are errors; a tool result
// whose id matches no sibling tool call is a warning. IsValid is false iff
// any error-severity issue exists.
func Validate(tree *types.ResponseNode) types.ValidationResult {
	result := types.ValidationResult{IsValid: true}
	if tree == nil {
		result.IsValid = false
		result.Issues = append(result.Issues, types.ValidationIssue{
			Severity: types.SeverityError,
			Message:  "tree is nil",
		})
		return result
	}

	callIDs := make(map[string]int)
	for _, child := range tree.Children {
		if call, ok := child.(*types.ToolCallNode); ok {
			callIDs[call.CallID]++
		}
	}

	reported := make(map[string]bool)
	for _, child := range tree.Children {
		switch node := child.(type) {
		case *types.ToolCallNode:
			if callIDs[node.CallID] > 1 && !reported[node.CallID] {
				reported[node.CallID] = true
				result.Issues = append(result.Issues, types.ValidationIssue{
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("duplicate tool call id %q among siblings", node.CallID),
				})
			}
			if node.ParseError != "" {
				result.Issues = append(result.Issues, types.ValidationIssue{
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("tool call %q has unparsed arguments: %s", node.CallID, node.ParseError),
				})
			}
		case *types.ToolResultNode:
			if callIDs[node.CallID] == 0 {
				result.Issues = append(result.Issues, types.ValidationIssue{
					Severity: types.SeverityWarning,
					Message:  fmt.Sprintf("tool result %q has no matching sibling tool call", node.CallID),
				})
			}
		}
	}

	for _, issue := range result.Issues {
		if issue.Severity == types.SeverityError {
			result.IsValid = false
			break
		}
	}
	return result
}
