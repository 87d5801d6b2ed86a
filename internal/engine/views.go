package engine

import "context"

// States projects a snapshot stream onto its states, dropping commands and
// message detail. The returned channel closes when in closes or ctx ends.
func States[M comparable, S any, C comparable](ctx context.Context, in <-chan Snapshot[M, S, C]) <-chan S {
	out := make(chan S)
	go func() {
		defer close(out)
		for {
			select {
			case snap, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- snap.State:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
