// Package sniffer classifies raw or partially-buffered model output as
// structured provider JSON or plain text before a parse strategy is
// committed to.
package sniffer

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/zgsm-ai/response-parser/internal/config"
)

// Format is the sniffing verdict
type Format string

const (
	FormatStructured Format = "structured"
	FormatPlainText  Format = "plain_text"
)

// Sniffer applies layered heuristics to distinguish provider JSON from prose.
// A single leading brace is not treated as sufficient evidence; classification
// requires at least one independent provider marker.
type Sniffer struct {
	cfg config.SnifferConfig
}

// New creates a sniffer with the given thresholds
func New(cfg config.SnifferConfig) *Sniffer {
	if cfg.MinDecisionChars <= 0 {
		cfg.MinDecisionChars = 50
	}
	if cfg.ShortCircuitChars <= 0 {
		cfg.ShortCircuitChars = 20
	}
	return &Sniffer{cfg: cfg}
}

// hasKey reports whether the raw text contains the quoted key name
func hasKey(s, key string) bool {
	return strings.Contains(s, `"`+key+`"`)
}

// Detect classifies a complete input, or the prefix buffered so far from a
// stream. Ambiguity defaults to plain text.
func (s *Sniffer) Detect(input string) Format {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return FormatPlainText
	}

	// Event-stream framing is structured regardless of body shape
	if strings.HasPrefix(trimmed, "data:") || strings.HasPrefix(trimmed, "event:") {
		return FormatStructured
	}

	if strings.HasPrefix(trimmed, "{") {
		if s.looksLikeProviderObject(trimmed) {
			return FormatStructured
		}
	}

	// Multi-line input whose first line is a JSON object with tool/role keys,
	// e.g. NDJSON tool records
	if first, rest, found := strings.Cut(trimmed, "\n"); found && rest != "" {
		first = strings.TrimSpace(first)
		if strings.HasPrefix(first, "{") && gjson.Valid(first) {
			line := gjson.Parse(first)
			for _, key := range []string{"tool", "function", "type", "role"} {
				if line.Get(key).Exists() {
					return FormatStructured
				}
			}
		}
	}

	return FormatPlainText
}

// looksLikeProviderObject checks a brace-prefixed input for any one of the
// recognized provider markers. Key presence is checked on the raw text so a
// truncated stream prefix still matches.
func (s *Sniffer) looksLikeProviderObject(trimmed string) bool {
	switch {
	case hasKey(trimmed, "tool_calls"), hasKey(trimmed, "function_call"):
		return true
	case hasKey(trimmed, "choices") && hasKey(trimmed, "message"):
		return true
	case hasKey(trimmed, "content") && hasKey(trimmed, "type") &&
		(strings.Contains(trimmed, "tool_use") || strings.Contains(trimmed, `"text"`)):
		return true
	case hasKey(trimmed, "model") &&
		(hasKey(trimmed, "usage") || hasKey(trimmed, "finish_reason") || hasKey(trimmed, "stop_reason")):
		return true
	case hasKey(trimmed, "delta"), hasKey(trimmed, "chunk"),
		strings.Contains(trimmed, "event:"), strings.Contains(trimmed, "data:"):
		return true
	}
	return false
}

// CanDecide reports whether a stream buffer carries enough signal for a final
// verdict. The decision, once made, is final for that stream.
func (s *Sniffer) CanDecide(buf string) bool {
	if len(buf) > s.cfg.MinDecisionChars {
		return true
	}
	if strings.Contains(buf, "}") {
		return true
	}
	if strings.Contains(buf, "\n\n") {
		return true
	}
	trimmed := strings.TrimSpace(buf)
	if len(buf) > s.cfg.ShortCircuitChars &&
		!strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return true
	}
	return false
}
