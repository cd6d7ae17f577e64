package parser

import (
	"time"

	"github.com/zgsm-ai/response-parser/internal/types"
)

// buildTree converts a StructuredResponse into the canonical node tree.
// Construction order is leading text, then tool calls in source order, then
// tool results in source order. Providers that interleave text and tool use
// natively lose that interleaving here; ArgumentsRawJSON and block order
// within each group are preserved.
func (p *Parser) buildTree(resp *types.StructuredResponse) *types.ResponseNode {
	provider := resp.Meta.Provider
	if provider == "" {
		provider = p.cfg.Provider
	}

	tree := &types.ResponseNode{
		Provider:  provider,
		Model:     resp.Meta.Model,
		Timestamp: time.Now(),
		Metadata: types.ResponseMeta{
			FinishReason: resp.Meta.FinishReason,
			TokenCount:   resp.Meta.Usage.Total,
			IsComplete:   true,
		},
	}

	if resp.TextContent != "" {
		tree.Children = append(tree.Children, &types.TextNode{
			Content: resp.TextContent,
			Format:  "plain",
		})
	}

	for _, call := range resp.ToolCalls {
		complete := call.Arguments != nil && call.ParseError == ""
		tree.Children = append(tree.Children, &types.ToolCallNode{
			CallID:           call.ID,
			ToolName:         call.Name,
			Arguments:        call.Arguments,
			ArgumentsRawJSON: call.ArgumentsJSON,
			ParseError:       call.ParseError,
			IsComplete:       complete,
		})
		if p.met != nil {
			p.met.RecordToolCall(complete)
		}
		if !complete {
			tree.Metadata.Warnings = append(tree.Metadata.Warnings,
				"tool call "+call.ID+" has unparsed arguments")
		}
	}

	for _, result := range resp.ToolResults {
		tree.Children = append(tree.Children, &types.ToolResultNode{
			CallID:       result.CallID,
			ToolName:     result.ToolName,
			Result:       result.Result,
			IsSuccess:    result.IsSuccess,
			ErrorMessage: result.ErrorMessage,
		})
	}

	// Providers that omit usage still get an approximate count
	if tree.Metadata.TokenCount == 0 && resp.TextContent != "" {
		tree.Metadata.TokenCount = p.counter.CountTokens(resp.TextContent)
	}

	return tree
}
