package decoder

import (
	"github.com/tidwall/gjson"
	"github.com/zgsm-ai/response-parser/internal/types"
)

// decodeGeneric accepts loosely structured tool-call records outside the
// recognized provider envelopes: a single record, an array of records, or a
// record list under a "tools"/"calls" key. A record supplies either
// {name, arguments: <json-string>} or {name, parameters: <object>}. Anything
// else degrades to a text passthrough of the raw input.
func decodeGeneric(root gjson.Result, raw string) *types.StructuredResponse {
	resp := &types.StructuredResponse{
		Meta: types.StructuredMeta{
			Provider: ProviderGeneric,
			Model:    root.Get("model").String(),
		},
	}

	collect := func(record gjson.Result) {
		if call, ok := decodeGenericRecord(record); ok {
			resp.ToolCalls = append(resp.ToolCalls, call)
		}
	}

	switch {
	case root.IsArray():
		root.ForEach(func(_, record gjson.Result) bool {
			collect(record)
			return true
		})
	case root.IsObject():
		collect(root)
		for _, key := range []string{"tools", "calls"} {
			root.Get(key).ForEach(func(_, record gjson.Result) bool {
				collect(record)
				return true
			})
		}
	}

	if len(resp.ToolCalls) == 0 {
		// Valid JSON, but nothing resembling a tool record
		return &types.StructuredResponse{TextContent: raw}
	}

	if text := contentAsString(root.Get("content")); text != "" {
		resp.TextContent = text
	}

	return resp
}

func decodeGenericRecord(record gjson.Result) (types.StructuredToolCall, bool) {
	name := record.Get("name").String()
	if name == "" {
		return types.StructuredToolCall{}, false
	}

	argsField := record.Get("arguments")
	if !argsField.Exists() {
		argsField = record.Get("parameters")
	}
	if !argsField.Exists() {
		return types.StructuredToolCall{}, false
	}

	id := record.Get("id").String()
	if id == "" {
		id = newCallID()
	}

	raw, args, parseErr := normalizeArguments(argsField)

	return types.StructuredToolCall{
		ID:            id,
		Name:          name,
		ArgumentsJSON: raw,
		Arguments:     args,
		ParseError:    parseErr,
	}, true
}
