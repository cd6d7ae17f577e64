// Package parser ties the sniffer, the structured decoders, the streaming
// accumulator and the text-parser fallback into two total entry points: a
// one-shot parse and a streaming parse. Neither ever returns an error;
// callers inspect the returned tree instead.
package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zgsm-ai/response-parser/internal/accumulator"
	"github.com/zgsm-ai/response-parser/internal/config"
	"github.com/zgsm-ai/response-parser/internal/decoder"
	"github.com/zgsm-ai/response-parser/internal/logger"
	"github.com/zgsm-ai/response-parser/internal/metrics"
	"github.com/zgsm-ai/response-parser/internal/sniffer"
	"github.com/zgsm-ai/response-parser/internal/textparser"
	"github.com/zgsm-ai/response-parser/internal/tokenizer"
	"github.com/zgsm-ai/response-parser/internal/types"
	"github.com/zgsm-ai/response-parser/internal/validator"
	"go.uber.org/zap"
)

// errCodeTotalFailure marks trees where both structured and text parsing failed
const errCodeTotalFailure = "response-parser.total_failure"

// TextParser is the free-text collaborator. It owns markdown and code-block
// handling for input that is not structured provider JSON.
type TextParser interface {
	Parse(text string) *types.ResponseNode
	ParseStream(ctx context.Context, chunks <-chan string) *types.ResponseNode
}

// Parser is the orchestrator. It is safe for concurrent use: per-parse state
// (chunk buffers, accumulator slots) lives in the call, not on the struct.
type Parser struct {
	cfg     config.Config
	sniff   *sniffer.Sniffer
	dec     *decoder.Decoder
	text    TextParser
	counter *tokenizer.TokenCounter
	met     *metrics.Metrics
}

// Option customizes a Parser
type Option func(*Parser)

// WithTextParser replaces the default markdown-based text parser
func WithTextParser(tp TextParser) Option {
	return func(p *Parser) { p.text = tp }
}

// WithMetrics enables Prometheus recording
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Parser) { p.met = m }
}

// WithPartialCalls registers an advisory callback for non-final tool-call
// snapshots during SSE decoding, for live display
func WithPartialCalls(fn accumulator.PartialFunc) Option {
	return func(p *Parser) { p.dec.OnPartial(fn) }
}

// New creates a parser with the given configuration
func New(cfg config.Config, opts ...Option) *Parser {
	if cfg.Provider == "" {
		cfg.Provider = "hybrid"
	}

	p := &Parser{
		cfg:   cfg,
		sniff: sniffer.New(cfg.Sniffer),
		dec:   decoder.New(cfg.Accumulator),
		text:  textparser.New(),
	}

	counter, err := tokenizer.NewTokenCounter(cfg.Tokenizer.Encoding)
	if err != nil {
		// CountTokens degrades to estimation on a nil counter
		logger.Warn("failed to initialize token counter",
			zap.String("encoding", cfg.Tokenizer.Encoding),
			zap.Error(err),
		)
	}
	p.counter = counter

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts one complete input into a node tree. It is total: for any
// string, including empty or malformed, it returns a non-nil tree.
func (p *Parser) Parse(input string) *types.ResponseNode {
	if strings.TrimSpace(input) == "" {
		p.record("empty", p.cfg.Provider)
		return p.emptyTree()
	}

	format := p.sniff.Detect(input)

	if format == sniffer.FormatStructured {
		if tree, ok := p.parseStructured(input); ok {
			p.record("structured", tree.Provider)
			return tree
		}
		if p.met != nil {
			p.met.RecordFallback()
		}
		logger.Debug("structured decode yielded nothing usable, falling back to text",
			zap.Int("length", len(input)),
		)
	}

	tree, err := p.safeTextParse(input)
	if err != nil {
		return p.failureTree(input, err)
	}
	p.record("text", tree.Provider)
	return tree
}

// parseStructured decodes and builds a tree, reporting ok=false when the
// decoder degraded to a raw-text passthrough or panicked.
func (p *Parser) parseStructured(input string) (tree *types.ResponseNode, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("structured decode panicked",
				zap.Any("panic", r),
			)
			tree, ok = nil, false
		}
	}()

	resp := p.dec.Decode(input)
	if resp.Meta.Provider == "" && len(resp.ToolCalls) == 0 && len(resp.ToolResults) == 0 {
		return nil, false
	}
	return p.buildTree(resp), true
}

// safeTextParse shields the orchestrator from a misbehaving collaborator
func (p *Parser) safeTextParse(input string) (tree *types.ResponseNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			tree, err = nil, fmt.Errorf("text parser panicked: %v", r)
		}
	}()

	tree = p.text.Parse(input)
	if tree == nil {
		return nil, fmt.Errorf("text parser returned no tree")
	}
	return tree, nil
}

// safeTextParseStream is the streaming counterpart of safeTextParse
func (p *Parser) safeTextParseStream(ctx context.Context, chunks <-chan string) (tree *types.ResponseNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			tree, err = nil, fmt.Errorf("text parser panicked: %v", r)
		}
	}()

	tree = p.text.ParseStream(ctx, chunks)
	if tree == nil {
		return nil, fmt.Errorf("text parser returned no tree")
	}
	return tree, nil
}

// emptyTree is the terminal result for blank input
func (p *Parser) emptyTree() *types.ResponseNode {
	return &types.ResponseNode{
		Provider:  p.cfg.Provider,
		Timestamp: time.Now(),
		Metadata:  types.ResponseMeta{IsComplete: true},
	}
}

// failureTree is the terminal result when both strategies failed: an error
// node plus the raw input for diagnostics.
func (p *Parser) failureTree(input string, err error) *types.ResponseNode {
	if p.met != nil {
		p.met.RecordFailure()
	}
	logger.Error("both structured and text parsing failed",
		zap.Error(err),
	)

	return &types.ResponseNode{
		Provider:  p.cfg.Provider,
		Timestamp: time.Now(),
		Metadata:  types.ResponseMeta{IsComplete: false},
		Children: []types.ContentNode{
			&types.ErrorNode{
				Message:  err.Error(),
				Severity: types.SeverityError,
				Code:     errCodeTotalFailure,
			},
			&types.TextNode{Content: input, Format: "plain"},
		},
	}
}

// Validate checks structural invariants of a finished tree
func (p *Parser) Validate(tree *types.ResponseNode) types.ValidationResult {
	return validator.Validate(tree)
}

// Capabilities describes this parser's feature surface
func (p *Parser) Capabilities() types.Capabilities {
	return types.Capabilities{
		SupportsStreaming: true,
		SupportsToolCalls: true,
		SupportedFormats: []string{
			decoder.ProviderOpenAI,
			decoder.ProviderAnthropic,
			decoder.ProviderGeneric,
			"sse",
			"text",
		},
	}
}

func (p *Parser) record(format, provider string) {
	if p.met != nil {
		p.met.RecordParse(format, provider)
	}
}
