// Package decoder turns structured provider JSON into the provider-neutral
// StructuredResponse intermediate. Decoding is total: input that is not valid
// JSON at all comes back as a text passthrough, never as an error.
package decoder

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zgsm-ai/response-parser/internal/accumulator"
	"github.com/zgsm-ai/response-parser/internal/config"
	"github.com/zgsm-ai/response-parser/internal/logger"
	"github.com/zgsm-ai/response-parser/internal/types"
	"go.uber.org/zap"
)

// Provider labels stamped on decoder output
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGeneric   = "generic"
)

// Decoder dispatches structured input to the shape-specific decoders
type Decoder struct {
	accCfg    config.AccumulatorConfig
	onPartial accumulator.PartialFunc
}

// New creates a decoder. The accumulator config governs how SSE-framed
// streaming payloads assemble their tool-call deltas.
func New(accCfg config.AccumulatorConfig) *Decoder {
	return &Decoder{accCfg: accCfg}
}

// OnPartial registers an advisory callback receiving non-final tool-call
// snapshots while SSE payloads accumulate.
func (d *Decoder) OnPartial(fn accumulator.PartialFunc) {
	d.onPartial = fn
}

// Decode classifies the input's shape and decodes it. Malformed top-level
// input yields a response whose text content equals the raw input.
func (d *Decoder) Decode(input string) *types.StructuredResponse {
	trimmed := strings.TrimSpace(input)

	if isEventStream(trimmed) {
		return d.decodeEventStream(trimmed)
	}

	if !gjson.Valid(trimmed) {
		logger.Debug("input is not valid JSON, passing through as text",
			zap.Int("length", len(input)),
		)
		return &types.StructuredResponse{TextContent: input}
	}

	root := gjson.Parse(trimmed)

	switch {
	case isAnthropicShape(root):
		return decodeAnthropic(root)
	case isOpenAIShape(root):
		return decodeOpenAI(root)
	default:
		return decodeGeneric(root, input)
	}
}

func isEventStream(trimmed string) bool {
	return strings.HasPrefix(trimmed, "data:") ||
		strings.HasPrefix(trimmed, "event:") ||
		strings.Contains(trimmed, "\ndata:")
}

// isAnthropicShape matches the messages API response: content blocks plus a
// stop_reason, or an explicit block array carrying typed entries.
func isAnthropicShape(root gjson.Result) bool {
	content := root.Get("content")
	if !content.Exists() {
		return false
	}
	if root.Get("stop_reason").Exists() {
		return true
	}
	if content.IsArray() {
		blocks := content.Array()
		return len(blocks) > 0 && blocks[0].Get("type").Exists()
	}
	return false
}

// isOpenAIShape matches chat-completion responses, including the flat
// message form and root-level tool_calls.
func isOpenAIShape(root gjson.Result) bool {
	return root.Get("choices").Exists() ||
		root.Get("tool_calls").Exists() ||
		root.Get("function_call").Exists() ||
		root.Get("message").Exists()
}
