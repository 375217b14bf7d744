// Package signal cancels gitmate's root context on SIGINT or SIGTERM.
//
// The first signal cancels the context, which stops the running git invocation
// and lets `gitmate serve` drain its connections. A second signal calls the
// force-exit hook, for the case where a child process ignores cancellation.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ForceExitCode is the status used when a second signal forces the process down.
const ForceExitCode = 130

// Handler owns the root context of one gitmate invocation.
type Handler struct {
	ctx         context.Context //nolint:containedctx // the handler owns the root context
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal
	forceExit   func()

	mu       sync.Mutex
	received int
	stopOnce sync.Once
}

// Option configures a Handler.
type Option func(*Handler)

// WithForceExit replaces the hook run on the second signal. The default
// exits the process with ForceExitCode.
func WithForceExit(fn func()) Option {
	return func(h *Handler) {
		h.forceExit = fn
	}
}

// NewHandler derives a cancellable context from parent and starts listening
// for SIGINT and SIGTERM. Call Stop when the invocation ends.
func NewHandler(parent context.Context, opts ...Option) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
		forceExit:   func() { os.Exit(ForceExitCode) },
	}
	for _, opt := range opts {
		opt(h)
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled by the first signal.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted closes when the first signal arrives.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// WasInterrupted reports whether a signal has been received.
func (h *Handler) WasInterrupted() bool {
	select {
	case <-h.interrupted:
		return true
	default:
		return false
	}
}

// Stop unregisters the handler and cancels its context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// handleSignal records one received signal.
func (h *Handler) handleSignal() {
	h.mu.Lock()
	h.received++
	n := h.received
	h.mu.Unlock()

	switch n {
	case 1:
		h.cancel()
		close(h.interrupted)
	case 2:
		h.forceExit()
	}
}

// listen runs until Stop. It keeps draining after the first signal so the
// second one can force the exit.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case <-h.sigChan:
			h.handleSignal()
		}
	}
}
