package decoder

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zgsm-ai/response-parser/internal/types"
)

// Anthropic content block types
const (
	blockText       = "text"
	blockToolUse    = "tool_use"
	blockToolResult = "tool_result"
)

// decodeAnthropic reads messages-API JSON: content as a string or an ordered
// array of text / tool_use / tool_result blocks.
func decodeAnthropic(root gjson.Result) *types.StructuredResponse {
	resp := &types.StructuredResponse{
		Meta: types.StructuredMeta{
			Provider:     ProviderAnthropic,
			Model:        root.Get("model").String(),
			FinishReason: root.Get("stop_reason").String(),
		},
	}

	content := root.Get("content")
	if content.Type == gjson.String {
		resp.TextContent = content.String()
	} else if content.IsArray() {
		var texts []string
		content.ForEach(func(_, block gjson.Result) bool {
			switch block.Get("type").String() {
			case blockText:
				texts = append(texts, block.Get("text").String())
			case blockToolUse:
				resp.ToolCalls = append(resp.ToolCalls, decodeToolUse(block))
			case blockToolResult:
				resp.ToolResults = append(resp.ToolResults, decodeToolResult(block))
			}
			return true
		})
		resp.TextContent = strings.Join(texts, "\n")
	}

	if usage := root.Get("usage"); usage.IsObject() {
		input := int(usage.Get("input_tokens").Int())
		output := int(usage.Get("output_tokens").Int())
		resp.Meta.Usage = types.Usage{
			Input:  input,
			Output: output,
			Total:  input + output,
		}
	}

	return resp
}

func decodeToolUse(block gjson.Result) types.StructuredToolCall {
	id := block.Get("id").String()
	if id == "" {
		id = newCallID()
	}

	raw, args, parseErr := normalizeArguments(block.Get("input"))

	return types.StructuredToolCall{
		ID:            id,
		Name:          block.Get("name").String(),
		ArgumentsJSON: raw,
		Arguments:     args,
		ParseError:    parseErr,
	}
}

func decodeToolResult(block gjson.Result) types.StructuredToolResult {
	isError := block.Get("is_error").Bool()
	return types.StructuredToolResult{
		CallID:       block.Get("tool_use_id").String(),
		Result:       contentAsString(block.Get("content")),
		IsSuccess:    !isError,
		ErrorMessage: errorMessageIf(isError, block),
	}
}

func errorMessageIf(isError bool, block gjson.Result) string {
	if !isError {
		return ""
	}
	return contentAsString(block.Get("content"))
}
