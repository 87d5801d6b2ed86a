package engine

import (
	"context"
	"sync"
)

// Subscription is one observer's view of an engine's snapshot stream.
//
// Snapshots is closed when the subscription ends: its context was
// cancelled, Close was called, or the engine's processing line stopped.
// Err reports why once Snapshots is closed.
type Subscription[M comparable, S any, C comparable] struct {
	out    chan Snapshot[M, S, C]
	done   chan struct{}
	cancel context.CancelFunc

	// terminal reports the engine's end-of-life error, nil while it lives.
	terminal func() error

	mu  sync.Mutex
	err error
}

func newSubscription[M comparable, S any, C comparable](cancel context.CancelFunc, terminal func() error) *Subscription[M, S, C] {
	return &Subscription[M, S, C]{
		out:      make(chan Snapshot[M, S, C]),
		done:     make(chan struct{}),
		cancel:   cancel,
		terminal: terminal,
	}
}

// Snapshots returns the stream of snapshots for this subscriber.
func (s *Subscription[M, S, C]) Snapshots() <-chan Snapshot[M, S, C] {
	return s.out
}

// Done returns a channel closed after Snapshots has been closed.
func (s *Subscription[M, S, C]) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the subscription ended, or nil while it is live.
//
// A subscriber that cancelled its own context sees that context's error.
// When the processing line stops, every subscriber sees the line's terminal
// error (a RuntimeError; disposal matches ErrDisposed). This holds when the
// subscriber's context is the engine's own scope too.
func (s *Subscription[M, S, C]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops this subscriber's observation and its message forwarding.
// The engine and other subscribers are unaffected. Blocks until Snapshots
// is closed.
func (s *Subscription[M, S, C]) Close() {
	s.cancel()
	<-s.done
}

func (s *Subscription[M, S, C]) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// relay moves snapshots from the hub-side queue to the caller-facing channel.
// It owns s.out and is the only goroutine that closes it.
func (s *Subscription[M, S, C]) relay(ctx context.Context, h *hub[Snapshot[M, S, C]], sub *subscriber[Snapshot[M, S, C]]) {
	defer close(s.done)
	defer close(s.out)
	defer h.unsubscribe(sub)

	for {
		select {
		case snap := <-sub.ch:
			if !s.deliver(ctx, snap) {
				return
			}

		case <-h.done():
			// The line has stopped; hand over whatever was already queued.
			for {
				select {
				case snap := <-sub.ch:
					if !s.deliver(ctx, snap) {
						return
					}
				default:
					s.setErr(h.Err())
					return
				}
			}

		case <-ctx.Done():
			s.setErr(s.stopErr(ctx))
			return
		}
	}
}

func (s *Subscription[M, S, C]) deliver(ctx context.Context, snap Snapshot[M, S, C]) bool {
	select {
	case s.out <- snap:
		return true
	case <-ctx.Done():
		s.setErr(s.stopErr(ctx))
		return false
	}
}

// stopErr explains a cancelled ctx: the engine's terminal error if the
// engine has ended, otherwise the subscriber's own cancellation.
func (s *Subscription[M, S, C]) stopErr(ctx context.Context) error {
	if s.terminal != nil {
		if err := s.terminal(); err != nil {
			return err
		}
	}
	return ctx.Err()
}
