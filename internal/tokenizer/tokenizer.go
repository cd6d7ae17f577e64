// Package tokenizer counts tokens for responses whose providers did not
// report usage.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/zgsm-ai/response-parser/internal/logger"
	"go.uber.org/zap"
)

// TokenCounter provides token counting functionality
type TokenCounter struct {
	encoder *tiktoken.Tiktoken
}

// NewTokenCounter creates a token counter for the given encoding. The
// cl100k_base encoding covers GPT-3.5/4-era models and is a reasonable
// approximation for the rest.
func NewTokenCounter(encoding string) (*TokenCounter, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	encoder, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}

	return &TokenCounter{encoder: encoder}, nil
}

// CountTokens counts tokens in a text string
func (tc *TokenCounter) CountTokens(text string) int {
	if tc == nil || tc.encoder == nil {
		logger.Warn("token encoder not initialized, falling back to estimation",
			zap.Int("textLength", len(text)),
		)
		return EstimateTokens(text)
	}

	tokens := tc.encoder.Encode(text, nil, nil)
	return len(tokens)
}

// EstimateTokens provides a simple token estimation without tiktoken
func EstimateTokens(text string) int {
	// Simple estimation: roughly 4 characters per token
	return len(text) / 4
}
