package engine

import (
	"context"
	"sync"
)

// hub fans values produced by the processing line out to a dynamic set of
// subscribers.
//
// It remembers the latest value: a subscriber that attaches after values
// have been published receives the latest one first, then everything that
// follows. Earlier history is not replayed.
//
// publish blocks until every current subscriber has taken the value, so a
// slow subscriber slows the line down instead of growing a buffer. A
// subscriber that leaves is skipped.
type hub[T any] struct {
	mu        sync.Mutex
	subs      map[*subscriber[T]]struct{}
	latest    T
	hasLatest bool

	closed    chan struct{}
	closeOnce sync.Once
	err       error
}

// subscriber is the hub-side end of one subscription.
type subscriber[T any] struct {
	// ch has capacity 1 so the latest value can be replayed on attach
	// without blocking.
	ch        chan T
	left      chan struct{}
	leaveOnce sync.Once
}

func newHub[T any]() *hub[T] {
	return &hub[T]{
		subs:   make(map[*subscriber[T]]struct{}),
		closed: make(chan struct{}),
	}
}

// subscribe attaches a new subscriber. If the hub has already closed the
// subscriber is returned detached and receives nothing.
func (h *hub[T]) subscribe() *subscriber[T] {
	sub := &subscriber[T]{
		ch:   make(chan T, 1),
		left: make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.closed:
		return sub
	default:
	}

	if h.hasLatest {
		sub.ch <- h.latest
	}
	h.subs[sub] = struct{}{}
	return sub
}

// unsubscribe detaches sub and releases a publish blocked on it.
func (h *hub[T]) unsubscribe(sub *subscriber[T]) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()

	sub.leaveOnce.Do(func() {
		close(sub.left)
	})
}

// publish records v as the latest value and delivers it to every subscriber
// attached at this moment. Only the processing line calls publish.
func (h *hub[T]) publish(ctx context.Context, v T) error {
	h.mu.Lock()
	h.latest = v
	h.hasLatest = true
	targets := make([]*subscriber[T], 0, len(h.subs))
	for sub := range h.subs {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- v:
		case <-sub.left:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// close marks the end of the stream with its terminal error.
func (h *hub[T]) close(err error) {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		close(h.closed)
	})
}

// done returns a channel closed when the stream has ended.
func (h *hub[T]) done() <-chan struct{} {
	return h.closed
}

// Err returns the terminal error, or nil while the hub is open.
func (h *hub[T]) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Len returns the number of attached subscribers.
func (h *hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
