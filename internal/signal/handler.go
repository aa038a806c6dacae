// Package signal turns SIGINT and SIGTERM into context cancellation so that
// long-running commands such as watch shut down cleanly.
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

// Handler cancels its context when the process receives an interrupt.
type Handler struct {
	ctx    context.Context //nolint:containedctx // the handler owns this context's lifecycle
	cancel context.CancelFunc

	sigCh       chan os.Signal
	stopCh      chan struct{}
	interrupted chan struct{}

	mu       sync.Mutex
	received os.Signal

	stopOnce sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM. Call Stop when done.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := run(h.Context())
func NewHandler(parent context.Context) *Handler {
	h := newHandler(parent)
	signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()
	return h
}

func newHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	return &Handler{
		ctx:         ctx,
		cancel:      cancel,
		sigCh:       make(chan os.Signal, 1),
		stopCh:      make(chan struct{}),
		interrupted: make(chan struct{}),
	}
}

// Context returns the context that is cancelled on interrupt.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel closed when the first signal arrives.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Signal returns the first signal received, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop stops listening and cancels the context. It is safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigCh)
		close(h.stopCh)
		h.cancel()
	})
}

// listen handles signals until Stop is called or the parent is cancelled.
// Later signals are drained so delivery never blocks.
func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.stopCh:
			return
		case sig := <-h.sigCh:
			h.interrupt(sig)
		}
	}
}

func (h *Handler) interrupt(sig os.Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.received != nil {
		return
	}
	h.received = sig
	h.cancel()
	close(h.interrupted)
}
