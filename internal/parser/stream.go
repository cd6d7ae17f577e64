package parser

import (
	"context"
	"strings"
	"sync"

	"github.com/zgsm-ai/response-parser/internal/logger"
	"github.com/zgsm-ai/response-parser/internal/sniffer"
	"github.com/zgsm-ai/response-parser/internal/timeout"
	"github.com/zgsm-ai/response-parser/internal/types"
	"go.uber.org/zap"
)

// ParseStreaming consumes an open fragment stream and returns one tree when
// the stream ends. Fragments are buffered until the sniffer can classify the
// prefix; the decision is final for the stream. Like Parse, it is total:
// cancellation or a misbehaving stream still yields a best-effort tree from
// whatever was buffered.
func (p *Parser) ParseStreaming(ctx context.Context, chunks <-chan string) *types.ResponseNode {
	watchCtx, watchdog := timeout.NewIdleWatchdog(ctx, p.cfg.Stream.IdleTimeout)
	defer watchdog.Stop()

	// Phase 1: buffer until the sniffer has enough signal
	var buffered []string
	var buf strings.Builder
	for {
		select {
		case <-watchCtx.Done():
			logger.Warn("stream ended before sniffing decision",
				zap.Int("bufferedChunks", len(buffered)),
				zap.Bool("idleExpired", watchdog.Expired()),
			)
			return p.parseUndecided(buf.String())

		case chunk, ok := <-chunks:
			if !ok {
				return p.parseUndecided(buf.String())
			}
			watchdog.Reset()
			if p.met != nil {
				p.met.RecordStreamChunk()
			}
			buffered = append(buffered, chunk)
			buf.WriteString(chunk)
		}

		if p.sniff.CanDecide(buf.String()) {
			break
		}
	}

	if p.sniff.Detect(buf.String()) == sniffer.FormatPlainText {
		return p.streamToTextParser(watchCtx, watchdog, buffered, chunks)
	}

	// Structured: keep buffering without attempting to parse until the
	// stream ends, then parse once.
	for {
		select {
		case <-watchCtx.Done():
			logger.Warn("structured stream interrupted, parsing buffered content",
				zap.Int("bufferedBytes", buf.Len()),
			)
			return p.Parse(buf.String())

		case chunk, ok := <-chunks:
			if !ok {
				return p.Parse(buf.String())
			}
			watchdog.Reset()
			if p.met != nil {
				p.met.RecordStreamChunk()
			}
			buf.WriteString(chunk)
		}
	}
}

// streamToTextParser hands the whole logical stream to the text parser's own
// streaming entry: the already-buffered chunks first, in arrival order, then
// the live remainder. No chunk is dropped or duplicated. Like the one-shot
// path, a misbehaving collaborator is contained: its panic becomes a failure
// tree over everything consumed so far.
func (p *Parser) streamToTextParser(ctx context.Context, watchdog *timeout.IdleWatchdog, buffered []string, chunks <-chan string) *types.ResponseNode {
	forwardCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// seen mirrors every chunk handed to the collaborator, so a failure tree
	// can still carry the raw input
	var mu sync.Mutex
	var seen strings.Builder
	for _, chunk := range buffered {
		seen.WriteString(chunk)
	}

	merged := make(chan string)
	go func() {
		defer close(merged)
		for _, chunk := range buffered {
			select {
			case <-forwardCtx.Done():
				return
			case merged <- chunk:
			}
		}
		for {
			select {
			case <-forwardCtx.Done():
				return
			case chunk, ok := <-chunks:
				if !ok {
					return
				}
				watchdog.Reset()
				if p.met != nil {
					p.met.RecordStreamChunk()
				}
				mu.Lock()
				seen.WriteString(chunk)
				mu.Unlock()
				select {
				case <-forwardCtx.Done():
					return
				case merged <- chunk:
				}
			}
		}
	}()

	tree, err := p.safeTextParseStream(forwardCtx, merged)
	if err != nil {
		cancel()
		mu.Lock()
		raw := seen.String()
		mu.Unlock()
		return p.failureTree(raw, err)
	}
	p.record("text_stream", tree.Provider)
	return tree
}

// parseUndecided handles a stream that ended before the sniffer committed:
// try structured first, then plain text on the same buffer.
func (p *Parser) parseUndecided(buf string) *types.ResponseNode {
	if strings.TrimSpace(buf) == "" {
		p.record("empty", p.cfg.Provider)
		return p.emptyTree()
	}

	if tree, ok := p.parseStructured(buf); ok {
		p.record("structured", tree.Provider)
		return tree
	}

	tree, err := p.safeTextParse(buf)
	if err != nil {
		return p.failureTree(buf, err)
	}
	p.record("text", tree.Provider)
	return tree
}
