package decoder

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zgsm-ai/response-parser/internal/types"
)

// decodeOpenAI reads chat-completion JSON: choices[].message with content and
// tool_calls, plus the flat message form and root-level tool_calls some
// gateways emit.
func decodeOpenAI(root gjson.Result) *types.StructuredResponse {
	resp := &types.StructuredResponse{
		Meta: types.StructuredMeta{
			Provider: ProviderOpenAI,
			Model:    root.Get("model").String(),
		},
	}

	var texts []string
	collectMessage := func(msg gjson.Result) {
		if !msg.Exists() {
			return
		}
		if content := contentAsString(msg.Get("content")); content != "" {
			texts = append(texts, content)
		}
		msg.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
			resp.ToolCalls = append(resp.ToolCalls, decodeOpenAIToolCall(tc))
			return true
		})
		// Legacy single function_call form
		if fc := msg.Get("function_call"); fc.Exists() {
			raw, args, parseErr := normalizeArguments(fc.Get("arguments"))
			resp.ToolCalls = append(resp.ToolCalls, types.StructuredToolCall{
				ID:            newCallID(),
				Name:          fc.Get("name").String(),
				ArgumentsJSON: raw,
				Arguments:     args,
				ParseError:    parseErr,
			})
		}
	}

	root.Get("choices").ForEach(func(_, choice gjson.Result) bool {
		collectMessage(choice.Get("message"))
		if resp.Meta.FinishReason == "" {
			resp.Meta.FinishReason = choice.Get("finish_reason").String()
		}
		return true
	})

	// Flat message form and root-level tool_calls
	collectMessage(root.Get("message"))
	root.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
		resp.ToolCalls = append(resp.ToolCalls, decodeOpenAIToolCall(tc))
		return true
	})

	resp.TextContent = strings.Join(texts, "\n")

	if usage := root.Get("usage"); usage.IsObject() {
		resp.Meta.Usage = types.Usage{
			Input:  int(usage.Get("prompt_tokens").Int()),
			Output: int(usage.Get("completion_tokens").Int()),
			Total:  int(usage.Get("total_tokens").Int()),
		}
	}

	return resp
}

func decodeOpenAIToolCall(tc gjson.Result) types.StructuredToolCall {
	id := tc.Get("id").String()
	if id == "" {
		id = newCallID()
	}

	fn := tc.Get("function")
	raw, args, parseErr := normalizeArguments(fn.Get("arguments"))

	return types.StructuredToolCall{
		ID:            id,
		Name:          fn.Get("name").String(),
		ArgumentsJSON: raw,
		Arguments:     args,
		ParseError:    parseErr,
	}
}
