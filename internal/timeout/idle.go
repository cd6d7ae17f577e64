// Package timeout provides an idle watchdog for streaming reads: the derived
// context is cancelled when no fragment arrives within the idle window.
package timeout

import (
	"context"
	"sync"
	"time"

	"github.com/zgsm-ai/response-parser/internal/logger"
	"go.uber.org/zap"
)

// IdleWatchdog cancels its context when the stream stays silent longer than
// the configured window. Reset is called on every received fragment.
type IdleWatchdog struct {
	ctx    context.Context
	cancel context.CancelFunc

	window time.Duration
	timer  *time.Timer

	mu      sync.Mutex
	stopped bool
	expired bool
}

// NewIdleWatchdog derives a context from parent that is cancelled after
// window of inactivity. A window of zero disables the watchdog; the returned
// context is then just the derived parent context.
func NewIdleWatchdog(parent context.Context, window time.Duration) (context.Context, *IdleWatchdog) {
	ctx, cancel := context.WithCancel(parent)

	w := &IdleWatchdog{
		ctx:    ctx,
		cancel: cancel,
		window: window,
	}

	if window <= 0 {
		return ctx, w
	}

	w.timer = time.NewTimer(window)
	go w.watch()

	return ctx, w
}

func (w *IdleWatchdog) watch() {
	select {
	case <-w.ctx.Done():
		w.mu.Lock()
		w.timer.Stop()
		w.mu.Unlock()

	case <-w.timer.C:
		w.mu.Lock()
		if !w.stopped {
			w.expired = true
			logger.Warn("stream idle window expired",
				zap.Duration("window", w.window),
			)
			w.cancel()
		}
		w.mu.Unlock()
	}
}

// Reset restarts the idle window; called when a fragment arrives
func (w *IdleWatchdog) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped || w.timer == nil {
		return
	}
	w.timer.Stop()
	w.timer.Reset(w.window)
}

// Expired reports whether cancellation came from the watchdog rather than
// the parent context
func (w *IdleWatchdog) Expired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expired
}

// Stop releases the watchdog and its derived context
func (w *IdleWatchdog) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		if w.timer != nil {
			w.timer.Stop()
		}
	}
	w.mu.Unlock()
	w.cancel()
}
