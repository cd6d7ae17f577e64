package decoder

import (
	"strings"

	"github.com/tidwall/gjson"
)

// contentAsString flattens a message content field that may be a plain string
// or a list of typed blocks, keeping only the textual parts.
func contentAsString(content gjson.Result) string {
	if !content.Exists() {
		return ""
	}
	if content.Type == gjson.String {
		return content.String()
	}
	if !content.IsArray() {
		return ""
	}

	var parts []string
	content.ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").String() == "text" {
			if text := block.Get("text").String(); text != "" {
				parts = append(parts, text)
			}
		}
		return true
	})
	return strings.Join(parts, "\n")
}
