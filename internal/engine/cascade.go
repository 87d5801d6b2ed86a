package engine

import (
	"context"
	"iter"
)

// stepper holds everything a cascade needs. It belongs to the processing
// line and is never shared with another goroutine.
type stepper[M comparable, S any, C comparable] struct {
	engineID string
	update   Update[M, S, C]
	resolve  Resolver[M, C]
	clock    Sequencer
	maxDepth int
}

// cascade applies msg to state and follows the commands it produces.
//
// The returned sequence is lazy, finite and single-use:
//  1. Update(msg, state) is applied and its Regular snapshot is yielded
//     before anything else is evaluated
//  2. the step's commands are resolved sequentially
//  3. if any messages come back, ONLY the first one is applied next,
//     starting from the new state; the remaining messages are dropped
//  4. an empty resolution ends the cascade
//
// Since only one follow-up is kept, the cascade is a chain and runs as a
// loop; each step costs the same however deep it is.
//
// A non-nil error is always the last element yielded.
func (st *stepper[M, S, C]) cascade(ctx context.Context, state S, msg M) iter.Seq2[Snapshot[M, S, C], error] {
	return func(yield func(Snapshot[M, S, C], error) bool) {
		quota := newDepthQuota(st.maxDepth)
		for {
			if err := quota.Check(st.engineID); err != nil {
				yield(Snapshot[M, S, C]{}, err)
				return
			}

			next, cmds := st.update(msg, state)
			snap := Regular(next, cmds, state, msg)
			snap.Seq = st.clock.Next()
			if !yield(snap, nil) {
				return
			}

			followUps, err := resolveAll(ctx, st.resolve, cmds)
			if err != nil {
				yield(Snapshot[M, S, C]{}, err)
				return
			}

			first, ok := followUps.First()
			if !ok {
				return
			}
			state, msg = next, first
		}
	}
}
