package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zgsm-ai/response-parser/internal/config"
)

func newTestDecoder() *Decoder {
	return New(config.Default().Accumulator)
}

func TestDecode_OpenAIToolCalls(t *testing.T) {
	input := `{
		"model": "gpt-4",
		"choices": [{
			"message": {
				"content": "Let me check that.",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "lookup", "arguments": "{\"a\":1,\"b\":\"x\"}"}
				}]
			},
			"finish_reason": "tool_calls"
		}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46}
	}`

	resp := newTestDecoder().Decode(input)

	assert.Equal(t, ProviderOpenAI, resp.Meta.Provider)
	assert.Equal(t, "gpt-4", resp.Meta.Model)
	assert.Equal(t, "Let me check that.", resp.TextContent)
	assert.Equal(t, "tool_calls", resp.Meta.FinishReason)
	assert.Equal(t, 12, resp.Meta.Usage.Input)
	assert.Equal(t, 34, resp.Meta.Usage.Output)
	assert.Equal(t, 46, resp.Meta.Usage.Total)

	require.Len(t, resp.ToolCalls, 1)
	call := resp.ToolCalls[0]
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "lookup", call.Name)
	assert.Empty(t, call.ParseError)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "x"}, call.Arguments)
}

func TestDecode_OpenAIArgumentsAsRawObject(t *testing.T) {
	input := `{
		"choices": [{
			"message": {
				"tool_calls": [{
					"id": "call_2",
					"function": {"name": "f", "arguments": {"k": true}}
				}]
			}
		}]
	}`

	resp := newTestDecoder().Decode(input)

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, map[string]any{"k": true}, resp.ToolCalls[0].Arguments)
	assert.Empty(t, resp.ToolCalls[0].ParseError)
}

func TestDecode_OpenAIMalformedArguments(t *testing.T) {
	input := `{
		"choices": [{
			"message": {
				"content": "partial failure",
				"tool_calls": [
					{"id": "ok", "function": {"name": "good", "arguments": "{}"}},
					{"id": "bad", "function": {"name": "broken", "arguments": "{\"x\": "}}
				]
			}
		}]
	}`

	resp := newTestDecoder().Decode(input)

	require.Len(t, resp.ToolCalls, 2, "one malformed call must not abort the rest")
	assert.Empty(t, resp.ToolCalls[0].ParseError)
	assert.NotEmpty(t, resp.ToolCalls[1].ParseError)
	assert.Nil(t, resp.ToolCalls[1].Arguments)
	assert.Equal(t, "partial failure", resp.TextContent)
}

func TestDecode_OpenAILegacyFunctionCall(t *testing.T) {
	input := `{
		"choices": [{
			"message": {
				"function_call": {"name": "legacy", "arguments": "{\"q\": \"go\"}"}
			}
		}]
	}`

	resp := newTestDecoder().Decode(input)

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "legacy", resp.ToolCalls[0].Name)
	assert.NotEmpty(t, resp.ToolCalls[0].ID, "legacy calls get a generated id")
}

func TestDecode_OpenAIFlatMessageAndRootToolCalls(t *testing.T) {
	input := `{
		"message": {"content": "flat form"},
		"tool_calls": [{"id": "r1", "function": {"name": "root_tool", "arguments": ""}}]
	}`

	resp := newTestDecoder().Decode(input)

	assert.Equal(t, "flat form", resp.TextContent)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "root_tool", resp.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{}, resp.ToolCalls[0].Arguments,
		"blank arguments parse to an empty map, not an error")
}

func TestDecode_AnthropicBlocks(t *testing.T) {
	input := `{
		"model": "claude-3-5-sonnet",
		"stop_reason": "tool_use",
		"content": [
			{"type": "text", "text": "First thought."},
			{"type": "tool_use", "id": "toolu_1", "name": "search", "input": {"query": "go"}},
			{"type": "text", "text": "Second thought."},
			{"type": "tool_result", "tool_use_id": "toolu_1", "content": "3 results"}
		],
		"usage": {"input_tokens": 10, "output_tokens": 20}
	}`

	resp := newTestDecoder().Decode(input)

	assert.Equal(t, ProviderAnthropic, resp.Meta.Provider)
	assert.Equal(t, "claude-3-5-sonnet", resp.Meta.Model)
	assert.Equal(t, "tool_use", resp.Meta.FinishReason)
	assert.Equal(t, "First thought.\nSecond thought.", resp.TextContent,
		"text blocks concatenate with newline separators in array order")

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "toolu_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "search", resp.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"query": "go"}, resp.ToolCalls[0].Arguments)

	require.Len(t, resp.ToolResults, 1)
	assert.Equal(t, "toolu_1", resp.ToolResults[0].CallID)
	assert.Equal(t, "3 results", resp.ToolResults[0].Result)
	assert.True(t, resp.ToolResults[0].IsSuccess)

	assert.Equal(t, 30, resp.Meta.Usage.Total)
}

func TestDecode_AnthropicStringContent(t *testing.T) {
	input := `{"model": "claude-3", "stop_reason": "end_turn", "content": "just text"}`

	resp := newTestDecoder().Decode(input)

	assert.Equal(t, ProviderAnthropic, resp.Meta.Provider)
	assert.Equal(t, "just text", resp.TextContent)
	assert.Empty(t, resp.ToolCalls)
}

func TestDecode_AnthropicErroredToolResult(t *testing.T) {
	input := `{
		"stop_reason": "end_turn",
		"content": [
			{"type": "tool_result", "tool_use_id": "toolu_9", "is_error": true,
			 "content": [{"type": "text", "text": "tool exploded"}]}
		]
	}`

	resp := newTestDecoder().Decode(input)

	require.Len(t, resp.ToolResults, 1)
	assert.False(t, resp.ToolResults[0].IsSuccess)
	assert.Equal(t, "tool exploded", resp.ToolResults[0].ErrorMessage)
}

func TestDecode_GenericRecords(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected map[string]any
	}{
		{
			name:     "Arguments as JSON string",
			input:    `{"name": "fetch", "arguments": "{\"url\": \"http://x\"}"}`,
			expected: map[string]any{"url": "http://x"},
		},
		{
			name:     "Parameters as object",
			input:    `{"name": "fetch", "parameters": {"url": "http://x"}}`,
			expected: map[string]any{"url": "http://x"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := newTestDecoder().Decode(tc.input)

			require.Len(t, resp.ToolCalls, 1)
			call := resp.ToolCalls[0]
			assert.Equal(t, "fetch", call.Name)
			assert.Equal(t, tc.expected, call.Arguments)
			assert.Contains(t, call.ID, "func_", "missing ids are generated")
		})
	}
}

func TestDecode_GenericRecordArray(t *testing.T) {
	input := `[
		{"name": "a", "parameters": {}},
		{"name": "b", "arguments": "{\"n\": 2}"}
	]`

	resp := newTestDecoder().Decode(input)

	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, "a", resp.ToolCalls[0].Name)
	assert.Equal(t, "b", resp.ToolCalls[1].Name)
}

func TestDecode_MalformedTopLevel(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "Truncated JSON", input: `{"choices": [{"mess`},
		{name: "Not JSON at all", input: "<html>not json</html>"},
		{name: "Valid JSON without tool shape", input: `{"foo": "bar"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := newTestDecoder().Decode(tc.input)

			assert.Equal(t, tc.input, resp.TextContent,
				"malformed input passes through as raw text")
			assert.Empty(t, resp.ToolCalls)
		})
	}
}

func TestParseArguments(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    map[string]any
		expectError bool
	}{
		{name: "Empty string", input: "", expected: map[string]any{}},
		{name: "Blank string", input: "   \n", expected: map[string]any{}},
		{name: "Valid object", input: `{"a": 1}`, expected: map[string]any{"a": float64(1)}},
		{name: "Unbalanced object", input: `{"a": `, expectError: true},
		{name: "Non-object value", input: `42`, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args, parseErr := ParseArguments(tc.input)

			if tc.expectError {
				assert.Nil(t, args)
				assert.NotEmpty(t, parseErr)
			} else {
				assert.Equal(t, tc.expected, args)
				assert.Empty(t, parseErr)
			}
		})
	}
}

func TestDecode_EventStream(t *testing.T) {
	input := "data: {\"model\": \"gpt-4\", \"choices\": [{\"delta\": {\"content\": \"Hel\"}}]}\n" +
		"data: {\"choices\": [{\"delta\": {\"content\": \"lo\"}}]}\n" +
		"data: {\"choices\": [{\"delta\": {\"tool_calls\": [{\"index\": 0, \"id\": \"call_s\", \"function\": {\"name\": \"f\"}}]}}]}\n" +
		"data: {\"choices\": [{\"delta\": {\"tool_calls\": [{\"index\": 0, \"function\": {\"arguments\": \"{\\\"x\\\":\"}}]}}]}\n" +
		"data: {\"choices\": [{\"delta\": {\"tool_calls\": [{\"index\": 0, \"function\": {\"arguments\": \"1}\"}}]}}], \"usage\": null}\n" +
		"data: {\"choices\": [{\"delta\": {}, \"finish_reason\": \"tool_calls\"}], \"usage\": {\"prompt_tokens\": 5, \"completion_tokens\": 7, \"total_tokens\": 12}}\n" +
		"data: [DONE]\n"

	resp := newTestDecoder().Decode(input)

	assert.Equal(t, "Hello", resp.TextContent)
	assert.Equal(t, "gpt-4", resp.Meta.Model)
	assert.Equal(t, "tool_calls", resp.Meta.FinishReason)
	assert.Equal(t, 12, resp.Meta.Usage.Total)

	require.Len(t, resp.ToolCalls, 1)
	call := resp.ToolCalls[0]
	assert.Equal(t, "call_s", call.ID)
	assert.Equal(t, "f", call.Name)
	assert.Equal(t, `{"x":1}`, call.ArgumentsJSON)
	assert.Equal(t, map[string]any{"x": float64(1)}, call.Arguments)
}

func TestDecode_EventStreamSkipsMalformedChunks(t *testing.T) {
	input := "data: {\"choices\": [{\"delta\": {\"content\": \"ok\"}}]}\n" +
		"data: {not valid json\n" +
		"data: {\"choices\": [{\"delta\": {\"content\": \"!\"}}]}\n"

	resp := newTestDecoder().Decode(input)

	assert.Equal(t, "ok!", resp.TextContent)
}
