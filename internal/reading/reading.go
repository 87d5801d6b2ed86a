package reading

import (
	"context"

	"github.com/roach88/mucore/internal/engine"
)

// Engine is the reading-list component type.
type Engine = engine.Engine[Msg, State, Cmd]

// Subscription is a subscriber's view of the reading-list snapshots.
type Subscription = engine.Subscription[Msg, State, Cmd]

// Option configures the reading-list engine.
type Option = engine.Option[Msg, State, Cmd]

// New builds a reading-list engine bound to scope and backed by st.
func New(scope context.Context, st Store, opts ...Option) *Engine {
	init := func(ctx context.Context) (State, engine.Set[Cmd], error) {
		state, cmds := Init()
		return state, cmds, nil
	}
	return engine.New(scope, init, Update, NewResolver(st), opts...)
}
