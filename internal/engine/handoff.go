package engine

import (
	"context"
	"errors"
	"sync"
)

// errHandoffClosed is returned by send once the processing line has exited.
var errHandoffClosed = errors.New("handoff closed")

// envelope carries one message across the handoff.
// ack, when non-nil, is closed by the line after the message's cascade has
// been published.
type envelope[M comparable] struct {
	msg M
	ack chan struct{}
}

// handoff is the rendezvous point between producers and the processing line.
//
// It has ZERO buffering capacity: a send completes only when the line
// receives it. This bounds memory and keeps a fast producer from running
// ahead of the line.
//
// Thread-safety: send is safe from any goroutine; receive must only be
// called by the processing line.
type handoff[M comparable] struct {
	ch     chan envelope[M]
	closed chan struct{}
	once   sync.Once
}

// newHandoff creates an open handoff.
func newHandoff[M comparable]() *handoff[M] {
	return &handoff[M]{
		ch:     make(chan envelope[M]),
		closed: make(chan struct{}),
	}
}

// send blocks until the line takes env, ctx ends, or the handoff closes.
func (h *handoff[M]) send(ctx context.Context, env envelope[M]) error {
	select {
	case <-h.closed:
		return errHandoffClosed
	default:
	}

	select {
	case h.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.closed:
		return errHandoffClosed
	}
}

// receive blocks until a producer sends or ctx ends.
func (h *handoff[M]) receive(ctx context.Context) (envelope[M], error) {
	select {
	case env := <-h.ch:
		return env, nil
	case <-ctx.Done():
		return envelope[M]{}, ctx.Err()
	}
}

// close wakes every blocked sender. Safe to call more than once.
func (h *handoff[M]) close() {
	h.once.Do(func() {
		close(h.closed)
	})
}

// done returns a channel closed once the handoff is closed.
func (h *handoff[M]) done() <-chan struct{} {
	return h.closed
}
