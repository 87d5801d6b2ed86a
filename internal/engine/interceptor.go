package engine

import (
	"context"
	"log/slog"
)

// Interceptor observes every snapshot as the processing line produces it,
// before the snapshot is delivered to subscribers.
//
// Interceptors run on the line itself, in registration order, and all see
// the identical sequence. They must not modify the snapshot; a slow
// interceptor slows the line down.
type Interceptor[M comparable, S any, C comparable] func(ctx context.Context, snap Snapshot[M, S, C])

// Chain composes interceptors into one that runs them in order.
func Chain[M comparable, S any, C comparable](interceptors ...Interceptor[M, S, C]) Interceptor[M, S, C] {
	return func(ctx context.Context, snap Snapshot[M, S, C]) {
		for _, ic := range interceptors {
			if ic != nil {
				ic(ctx, snap)
			}
		}
	}
}

// LogInterceptor logs each snapshot at debug level.
func LogInterceptor[M comparable, S any, C comparable](logger *slog.Logger) Interceptor[M, S, C] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, snap Snapshot[M, S, C]) {
		if snap.IsInitial() {
			logger.DebugContext(ctx, "snapshot",
				"seq", snap.Seq,
				"kind", snap.Kind.String(),
				"commands", snap.Commands.Len(),
			)
			return
		}
		logger.DebugContext(ctx, "snapshot",
			"seq", snap.Seq,
			"kind", snap.Kind.String(),
			"message", snap.Message,
			"commands", snap.Commands.Len(),
		)
	}
}
