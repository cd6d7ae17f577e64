package decoder

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ParseArguments parses a JSON argument string into a map. It never fails
// hard: a blank string is an empty map, and malformed input yields a nil map
// plus the parse error message. Malformed arguments are an expected outcome,
// not an exceptional one.
func ParseArguments(raw string) (map[string]any, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]any{}, ""
	}

	args := map[string]any{}
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, err.Error()
	}
	return args, ""
}

// normalizeArguments accepts arguments either as a JSON-encoded string or as
// a raw JSON value and returns the canonical (rawJSON, parsedMap, parseError)
// triple.
func normalizeArguments(result gjson.Result) (string, map[string]any, string) {
	if !result.Exists() {
		return "", map[string]any{}, ""
	}

	raw := result.Raw
	if result.Type == gjson.String {
		raw = result.String()
	}

	args, parseErr := ParseArguments(raw)
	return raw, args, parseErr
}

func newCallID() string {
	return "func_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
