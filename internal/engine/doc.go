// Package engine implements the mucore component runtime.
//
// A component is built from three functions supplied by a feature module:
// an Initializer, a pure Update reducer, and an effectful Resolver. The
// engine turns them into one shared, ordered, cancellable stream of
// Snapshots that any number of subscribers can observe concurrently.
//
// ARCHITECTURE:
//
// Single Processing Line:
// One goroutine per Engine runs the initializer, applies every message and
// resolves every command. Nothing else touches the current state, so callers
// never take a lock. The line starts lazily on the first Invoke or Dispatch.
//
// Message Flow:
//  1. Producers hand messages to a zero-capacity rendezvous (handoff)
//  2. The upstream driver prepends the messages resolved from the
//     initializer's commands, then receives external messages one at a time
//  3. Each top-level message runs its full cascade (see below) before the
//     next one is received
//  4. Every snapshot passes through the interceptors, then the hub fans it
//     out to all current subscribers
//
// Cascade:
// Applying a message yields a Regular snapshot immediately, then resolves
// that step's commands. If the merged set of follow-up messages is non-empty
// only its FIRST message is applied, recursively; the others are dropped.
// Initial commands are not truncated: all of their messages are applied as
// top-level messages.
//
// Late Join:
// Subscribers attaching after the line has published snapshots receive the
// latest snapshot first, then everything produced afterwards.
//
// Disposal:
// An Engine is bound to the context passed to New. Once that context is
// cancelled (or Close is called) the line stops, every subscription closes,
// and further Invoke/Dispatch calls fail with ErrDisposed.
package engine
