package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStepper(update Update[string, string, string], resolve Resolver[string, string]) *stepper[string, string, string] {
	return &stepper[string, string, string]{
		engineID: "cascade-test",
		update:   update,
		resolve:  resolve,
		clock:    NewClock(),
		maxDepth: DefaultMaxCascadeDepth,
	}
}

func drain(t *testing.T, seq func(func(testSnap, error) bool)) ([]testSnap, error) {
	t.Helper()
	var snaps []testSnap
	var last error
	for snap, err := range seq {
		if err != nil {
			last = err
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, last
}

func TestCascade_NoCommands(t *testing.T) {
	st := newTestStepper(appendUpdate, emptyResolver)

	snaps, err := drain(t, st.cascade(context.Background(), "s", "a"))
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	assert.Equal(t, KindRegular, snaps[0].Kind)
	assert.Equal(t, "a", snaps[0].Message)
	assert.Equal(t, "s", snaps[0].Previous)
	assert.Equal(t, "sa", snaps[0].State)
}

func TestCascade_FirstMessageOnly(t *testing.T) {
	update := func(msg, state string) (string, Set[string]) {
		if msg == "a" {
			return state + msg, NewSet("a")
		}
		return state + msg, Set[string]{}
	}
	resolve := func(ctx context.Context, cmd string) (Set[string], error) {
		return NewSet("b", "c", "d"), nil
	}
	st := newTestStepper(update, resolve)

	snaps, err := drain(t, st.cascade(context.Background(), "s", "a"))
	require.NoError(t, err)

	assert.Equal(t, []string{"sa", "sab"}, states(snaps))
	assert.Equal(t, "sa", snaps[1].Previous)
	assert.Equal(t, "b", snaps[1].Message)
}

func TestCascade_IsLazy(t *testing.T) {
	resolved := false
	update := func(msg, state string) (string, Set[string]) {
		return state + msg, NewSet("cmd")
	}
	resolve := func(ctx context.Context, cmd string) (Set[string], error) {
		resolved = true
		return NewSet("next"), nil
	}
	st := newTestStepper(update, resolve)

	for snap, err := range st.cascade(context.Background(), "", "a") {
		require.NoError(t, err)
		assert.Equal(t, "a", snap.State)
		break
	}
	assert.False(t, resolved, "commands of a step resolve only after its snapshot is consumed")
}

func TestCascade_ResolutionErrorIsLast(t *testing.T) {
	boom := errors.New("boom")
	update := func(msg, state string) (string, Set[string]) {
		return state + msg, NewSet("fail")
	}
	resolve := func(ctx context.Context, cmd string) (Set[string], error) {
		return Set[string]{}, boom
	}
	st := newTestStepper(update, resolve)

	var snaps []testSnap
	var errs []error
	for snap, err := range st.cascade(context.Background(), "", "a") {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		require.Empty(t, errs, "no snapshot after an error")
		snaps = append(snaps, snap)
	}

	require.Len(t, snaps, 1)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestCascade_DepthLimit(t *testing.T) {
	update := func(msg, state string) (string, Set[string]) {
		return state + msg, NewSet("loop")
	}
	st := newTestStepper(update, echoResolver)
	st.maxDepth = 5

	snaps, err := drain(t, st.cascade(context.Background(), "", "x"))
	require.Error(t, err)
	assert.True(t, IsCascadeLimitError(err))
	assert.Len(t, snaps, 5)
}

func TestCascade_SeqIncreases(t *testing.T) {
	update := func(msg, state string) (string, Set[string]) {
		if len(state) < 3 {
			return state + msg, NewSet("go")
		}
		return state + msg, Set[string]{}
	}
	resolve := func(ctx context.Context, cmd string) (Set[string], error) {
		return NewSet("x"), nil
	}
	st := newTestStepper(update, resolve)

	snaps, err := drain(t, st.cascade(context.Background(), "", "x"))
	require.NoError(t, err)
	require.Len(t, snaps, 4)
	for i, snap := range snaps {
		assert.Equal(t, int64(i+1), snap.Seq)
	}
}

func TestCascade_DeepChainUnbounded(t *testing.T) {
	const depth = 50000
	steps := 0
	update := func(msg, state string) (string, Set[string]) {
		steps++
		if steps == depth {
			return "done", Set[string]{}
		}
		return state, NewSet("x")
	}
	st := newTestStepper(update, echoResolver)
	st.maxDepth = 0

	var n int
	var last testSnap
	for snap, err := range st.cascade(context.Background(), "", "x") {
		require.NoError(t, err)
		n++
		last = snap
	}
	assert.Equal(t, depth, n)
	assert.Equal(t, "done", last.State)
	assert.Equal(t, int64(depth), last.Seq)
}

func TestCascade_StopsWhenConsumerBreaks(t *testing.T) {
	resolved := 0
	update := func(msg, state string) (string, Set[string]) {
		return state + msg, NewSet("again")
	}
	resolve := func(ctx context.Context, cmd string) (Set[string], error) {
		resolved++
		return NewSet("x"), nil
	}
	st := newTestStepper(update, resolve)

	var n int
	for range st.cascade(context.Background(), "", "x") {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, resolved, "nothing is resolved after the consumer stops")
}
