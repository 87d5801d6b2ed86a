package testutil

import (
	"testing"
	"time"

	"github.com/roach88/mucore/internal/engine"
)

// CollectTimeout bounds how long Collect waits for each snapshot.
const CollectTimeout = 5 * time.Second

// Collect reads exactly n snapshots from sub, failing the test if the
// stream closes early or a snapshot takes longer than CollectTimeout.
func Collect[M comparable, S any, C comparable](t testing.TB, sub *engine.Subscription[M, S, C], n int) []engine.Snapshot[M, S, C] {
	t.Helper()

	out := make([]engine.Snapshot[M, S, C], 0, n)
	for len(out) < n {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				t.Fatalf("stream closed after %d of %d snapshots: %v", len(out), n, sub.Err())
				return out
			}
			out = append(out, snap)
		case <-time.After(CollectTimeout):
			t.Fatalf("timed out after %d of %d snapshots", len(out), n)
			return out
		}
	}
	return out
}

// States returns the state of each snapshot, in order.
func States[M comparable, S any, C comparable](snaps []engine.Snapshot[M, S, C]) []S {
	out := make([]S, len(snaps))
	for i, s := range snaps {
		out[i] = s.State
	}
	return out
}
