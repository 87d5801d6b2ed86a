package engine

import (
	"context"
	"fmt"
)

// Kind distinguishes the two snapshot variants.
type Kind int

const (
	// KindInitial is produced exactly once per engine, first in the sequence.
	KindInitial Kind = iota + 1
	// KindRegular is produced once per applied message.
	KindRegular
)

// String returns the lower-case variant name.
func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindRegular:
		return "regular"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Snapshot is the unit of the engine's output stream.
//
// For KindInitial only State and Commands are meaningful. For KindRegular,
// Previous is the state before Message was applied and State is the result
// of Update(Message, Previous).
//
// Seq is stamped by the engine's logical clock when the snapshot is
// produced; it is strictly increasing within one engine.
type Snapshot[M comparable, S any, C comparable] struct {
	Kind     Kind
	Seq      int64
	State    S
	Commands Set[C]
	Previous S
	Message  M
}

// Initial builds an initial snapshot.
func Initial[M comparable, S any, C comparable](state S, cmds Set[C]) Snapshot[M, S, C] {
	return Snapshot[M, S, C]{
		Kind:     KindInitial,
		State:    state,
		Commands: cmds,
	}
}

// Regular builds the snapshot for applying msg to previous.
func Regular[M comparable, S any, C comparable](state S, cmds Set[C], previous S, msg M) Snapshot[M, S, C] {
	return Snapshot[M, S, C]{
		Kind:     KindRegular,
		State:    state,
		Commands: cmds,
		Previous: previous,
		Message:  msg,
	}
}

// IsInitial reports whether s is the initial snapshot.
func (s Snapshot[M, S, C]) IsInitial() bool {
	return s.Kind == KindInitial
}

// Initializer produces the initial state and commands. Called at most once
// per engine, on the processing line.
type Initializer[S any, C comparable] func(ctx context.Context) (S, Set[C], error)

// Update applies a message to a state. It must be pure: no I/O, no blocking.
type Update[M comparable, S any, C comparable] func(msg M, state S) (S, Set[C])

// Resolver performs the side effect described by a command and maps the
// outcome to follow-up messages. Recoverable failures should be returned as
// messages; a non-nil error aborts the processing line.
type Resolver[M comparable, C comparable] func(ctx context.Context, cmd C) (Set[M], error)
