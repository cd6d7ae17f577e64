package types

// ValidationIssue describes one structural problem found in a tree
type ValidationIssue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ValidationResult aggregates validator findings. IsValid is false iff any
// issue carries SeverityError.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Issues  []ValidationIssue `json:"issues,omitempty"`
}

// Capabilities describes what the parser supports, for callers that select
// among parser implementations at runtime.
type Capabilities struct {
	SupportsStreaming bool     `json:"supportsStreaming"`
	SupportsToolCalls bool     `json:"supportsToolCalls"`
	SupportedFormats  []string `json:"supportedFormats"`
}
