package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type (
	testEngine = Engine[string, string, string]
	testSnap   = Snapshot[string, string, string]
	testOption = Option[string, string, string]
	testSub    = Subscription[string, string, string]
)

const waitTimeout = 5 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticInit returns an initializer yielding state and cmds.
func staticInit(state string, cmds ...string) Initializer[string, string] {
	return func(ctx context.Context) (string, Set[string], error) {
		return state, NewSet(cmds...), nil
	}
}

// appendUpdate concatenates the message onto the state and emits no commands.
func appendUpdate(msg, state string) (string, Set[string]) {
	return state + msg, Set[string]{}
}

// emptyResolver resolves every command to no messages.
func emptyResolver(ctx context.Context, cmd string) (Set[string], error) {
	return Set[string]{}, nil
}

// echoResolver resolves every command to a message equal to the command.
func echoResolver(ctx context.Context, cmd string) (Set[string], error) {
	return NewSet(cmd), nil
}

// newTestEngine builds an engine whose scope is cancelled at test cleanup.
func newTestEngine(
	t *testing.T,
	init Initializer[string, string],
	update Update[string, string, string],
	resolve Resolver[string, string],
	opts ...testOption,
) (*testEngine, context.CancelFunc) {
	t.Helper()

	scope, cancel := context.WithCancel(context.Background())
	base := []testOption{
		WithLogger[string, string, string](discardLogger()),
		WithIDGenerator[string, string, string](NewFixedGenerator("engine-test")),
	}
	e := New(scope, init, update, resolve, append(base, opts...)...)
	t.Cleanup(e.Close)
	return e, cancel
}

// recorder drains a subscription in the background so the processing line
// is never blocked by the test goroutine.
type recorder struct {
	mu    sync.Mutex
	snaps []testSnap
	done  chan struct{}
}

func record(sub *testSub) *recorder {
	r := &recorder{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		for snap := range sub.Snapshots() {
			r.mu.Lock()
			r.snaps = append(r.snaps, snap)
			r.mu.Unlock()
		}
	}()
	return r
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) all() []testSnap {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]testSnap, len(r.snaps))
	copy(out, r.snaps)
	return out
}

// waitFor blocks until at least n snapshots have arrived.
func (r *recorder) waitFor(t *testing.T, n int) []testSnap {
	t.Helper()
	require.Eventually(t, func() bool { return r.len() >= n }, waitTimeout, time.Millisecond,
		"expected %d snapshots", n)
	return r.all()[:n]
}

// waitClosed blocks until the subscription's stream has closed.
func (r *recorder) waitClosed(t *testing.T) []testSnap {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(waitTimeout):
		t.Fatal("subscription did not close")
	}
	return r.all()
}

func states(snaps []testSnap) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.State
	}
	return out
}
