package decoder

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zgsm-ai/response-parser/internal/accumulator"
	"github.com/zgsm-ai/response-parser/internal/logger"
	"github.com/zgsm-ai/response-parser/internal/types"
	"go.uber.org/zap"
)

// decodeEventStream reassembles an SSE-framed completion: every `data:` line
// carries one streaming delta chunk. Text deltas are concatenated; tool-call
// deltas are folded through the fragment accumulator so arguments split
// across chunks come back as whole calls. Usage usually arrives in the last
// chunk.
func (d *Decoder) decodeEventStream(input string) *types.StructuredResponse {
	resp := &types.StructuredResponse{
		Meta: types.StructuredMeta{Provider: ProviderOpenAI},
	}

	acc := accumulator.New(d.accCfg)
	if d.onPartial != nil {
		acc.OnPartial(d.onPartial)
	}
	var text strings.Builder

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		if !gjson.Valid(payload) {
			logger.Debug("skipping malformed streaming chunk",
				zap.Int("length", len(payload)),
			)
			continue
		}

		chunk := gjson.Parse(payload)
		d.applyStreamChunk(chunk, resp, acc, &text)
	}

	for _, call := range acc.Flush() {
		resp.ToolCalls = append(resp.ToolCalls, call)
	}

	resp.TextContent = text.String()
	return resp
}

func (d *Decoder) applyStreamChunk(chunk gjson.Result, resp *types.StructuredResponse, acc *accumulator.Accumulator, text *strings.Builder) {
	if resp.Meta.Model == "" {
		resp.Meta.Model = chunk.Get("model").String()
	}

	chunk.Get("choices").ForEach(func(_, choice gjson.Result) bool {
		if reason := choice.Get("finish_reason"); reason.Exists() && reason.String() != "" {
			resp.Meta.FinishReason = reason.String()
		}

		delta := choice.Get("delta")
		if !delta.Exists() {
			return true
		}
		if content := delta.Get("content"); content.Type == gjson.String && content.String() != "" {
			text.WriteString(content.String())
		}

		delta.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
			fn := tc.Get("function")
			call, done := acc.Apply(accumulator.Fragment{
				Index:     int(tc.Get("index").Int()),
				ID:        tc.Get("id").String(),
				Name:      fn.Get("name").String(),
				Arguments: fn.Get("arguments").String(),
			})
			if done {
				resp.ToolCalls = append(resp.ToolCalls, call)
			}
			return true
		})
		return true
	})

	// A final chunk may carry "usage": null; only real objects count
	if usage := chunk.Get("usage"); usage.IsObject() {
		resp.Meta.Usage = types.Usage{
			Input:  int(usage.Get("prompt_tokens").Int()),
			Output: int(usage.Get("completion_tokens").Int()),
			Total:  int(usage.Get("total_tokens").Int()),
		}
	}
}
