package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Engine is one component instance: an initializer, a reducer and a
// resolver driven by a single processing line and shared by any number of
// subscribers.
//
// Thread-safety model:
//   - Invoke, InvokeWith, Dispatch, Close: safe from any goroutine
//   - The processing line is the only goroutine that calls Initializer,
//     Update and Resolver, and the only one that sees the current state
//
// INVARIANTS:
//   - The initializer runs at most once
//   - The line runs at most once and never interleaves two cascades
//   - The output begins with exactly one Initial snapshot
type Engine[M comparable, S any, C comparable] struct {
	id           string
	init         Initializer[S, C]
	steps        *stepper[M, S, C]
	interceptors []Interceptor[M, S, C]
	logger       *slog.Logger
	idGen        IDGenerator

	scope   context.Context
	cancel  context.CancelFunc
	handoff *handoff[M]
	hub     *hub[Snapshot[M, S, C]]

	start   sync.Once
	started atomic.Bool
	stopped chan struct{}
	err     error // terminal error; written before stopped closes
}

// Option configures an Engine.
type Option[M comparable, S any, C comparable] func(*Engine[M, S, C])

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger[M comparable, S any, C comparable](logger *slog.Logger) Option[M, S, C] {
	return func(e *Engine[M, S, C]) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithInterceptors appends interceptors, run in the order given.
func WithInterceptors[M comparable, S any, C comparable](interceptors ...Interceptor[M, S, C]) Option[M, S, C] {
	return func(e *Engine[M, S, C]) {
		for _, ic := range interceptors {
			if ic != nil {
				e.interceptors = append(e.interceptors, ic)
			}
		}
	}
}

// WithMaxCascadeDepth bounds the number of steps in one cascade.
//
// Default: 1000 (DefaultMaxCascadeDepth). A value <= 0 removes the bound.
func WithMaxCascadeDepth[M comparable, S any, C comparable](depth int) Option[M, S, C] {
	return func(e *Engine[M, S, C]) {
		e.steps.maxDepth = depth
	}
}

// WithClock sets the logical clock used to stamp snapshots.
// Default: a fresh Clock starting at 0.
func WithClock[M comparable, S any, C comparable](clock Sequencer) Option[M, S, C] {
	return func(e *Engine[M, S, C]) {
		if clock != nil {
			e.steps.clock = clock
		}
	}
}

// WithIDGenerator sets the generator for the engine instance ID.
// Default: UUIDv7Generator.
func WithIDGenerator[M comparable, S any, C comparable](gen IDGenerator) Option[M, S, C] {
	return func(e *Engine[M, S, C]) {
		if gen != nil {
			e.idGen = gen
		}
	}
}

// New creates an engine bound to scope.
//
// Nothing runs until the first Invoke or Dispatch. When scope is cancelled
// the engine is disposed: the processing line stops, every subscription
// closes and later calls fail with ErrDisposed.
func New[M comparable, S any, C comparable](
	scope context.Context,
	init Initializer[S, C],
	update Update[M, S, C],
	resolve Resolver[M, C],
	opts ...Option[M, S, C],
) *Engine[M, S, C] {
	ctx, cancel := context.WithCancel(scope)

	e := &Engine[M, S, C]{
		init: init,
		steps: &stepper[M, S, C]{
			update:   update,
			resolve:  resolve,
			clock:    NewClock(),
			maxDepth: DefaultMaxCascadeDepth,
		},
		logger:  slog.Default(),
		idGen:   UUIDv7Generator{},
		scope:   ctx,
		cancel:  cancel,
		handoff: newHandoff[M](),
		hub:     newHub[Snapshot[M, S, C]](),
		stopped: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.id = e.idGen.Generate()
	e.steps.engineID = e.id

	return e
}

// ID returns the engine instance identifier.
func (e *Engine[M, S, C]) ID() string {
	return e.id
}

// Invoke subscribes to the snapshot stream and forwards every message
// received from in to the processing line.
//
// Each call starts its own forwarding goroutine; messages from one call keep
// their order, messages from concurrent calls interleave in arrival order.
// in may be nil to observe without sending. Closing in stops forwarding but
// not observation.
//
// Cancelling ctx stops this subscriber only. Returns ErrDisposed if the
// engine's scope has already ended.
func (e *Engine[M, S, C]) Invoke(ctx context.Context, in <-chan M) (*Subscription[M, S, C], error) {
	if err := e.checkAlive(); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := newSubscription[M, S, C](cancel, e.terminalErr)

	// Attach before launching so the first subscriber sees Initial.
	sub := e.hub.subscribe()
	go s.relay(subCtx, e.hub, sub)

	e.launch()

	if in != nil {
		go e.forward(subCtx, in)
	}

	return s, nil
}

// InvokeWith is Invoke with a fixed list of messages (possibly empty).
func (e *Engine[M, S, C]) InvokeWith(ctx context.Context, msgs ...M) (*Subscription[M, S, C], error) {
	in := make(chan M, len(msgs))
	for _, msg := range msgs {
		in <- msg
	}
	close(in)
	return e.Invoke(ctx, in)
}

// Dispatch sends msgs one at a time and returns once the full cascade of
// each has been published, or with the line's terminal error if it stopped.
func (e *Engine[M, S, C]) Dispatch(ctx context.Context, msgs ...M) error {
	if err := e.checkAlive(); err != nil {
		return err
	}

	e.launch()

	for _, msg := range msgs {
		ack := make(chan struct{})
		if err := e.handoff.send(ctx, envelope[M]{msg: msg, ack: ack}); err != nil {
			return e.sendError(err)
		}

		select {
		case <-ack:
		case <-e.stopped:
			select {
			case <-ack:
			default:
				return e.err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// Close disposes the engine and waits for the processing line to exit.
func (e *Engine[M, S, C]) Close() {
	e.cancel()
	if e.started.Load() {
		<-e.stopped
	}
}

// Done returns a channel closed when the processing line has exited.
// It never closes for an engine whose line was never started.
func (e *Engine[M, S, C]) Done() <-chan struct{} {
	return e.stopped
}

// Err returns the line's terminal error once Done is closed, nil before.
func (e *Engine[M, S, C]) Err() error {
	select {
	case <-e.stopped:
		return e.err
	default:
		return nil
	}
}

// Subscribers returns the number of currently attached subscribers.
// Used for testing and diagnostics.
func (e *Engine[M, S, C]) Subscribers() int {
	return e.hub.Len()
}

func (e *Engine[M, S, C]) checkAlive() error {
	if e.scope.Err() != nil {
		return NewDisposedError(e.id, context.Cause(e.scope))
	}
	return nil
}

// terminalErr returns the error an ended engine reports to subscribers, or
// nil while its scope is alive.
func (e *Engine[M, S, C]) terminalErr() error {
	select {
	case <-e.stopped:
		return e.err
	default:
	}
	if e.scope.Err() != nil {
		return NewDisposedError(e.id, context.Cause(e.scope))
	}
	return nil
}

// launch starts the processing line exactly once.
func (e *Engine[M, S, C]) launch() {
	e.start.Do(func() {
		e.started.Store(true)
		go e.runLine()
	})
}

// forward moves messages from one producer into the handoff until in
// closes, ctx ends, or the line stops.
func (e *Engine[M, S, C]) forward(ctx context.Context, in <-chan M) {
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				return
			}
			if err := e.handoff.send(ctx, envelope[M]{msg: msg}); err != nil {
				return
			}
		case <-ctx.Done():
			return
		case <-e.handoff.done():
			return
		}
	}
}

func (e *Engine[M, S, C]) sendError(err error) error {
	if errors.Is(err, errHandoffClosed) {
		<-e.stopped
		return e.err
	}
	return err
}

// runLine runs the single processing line and tears everything down after.
// CRITICAL: the only goroutine that touches the current state.
func (e *Engine[M, S, C]) runLine() {
	err := e.run(e.scope)
	if e.scope.Err() != nil && (err == nil || errors.Is(err, e.scope.Err())) {
		err = NewDisposedError(e.id, context.Cause(e.scope))
		e.logger.Info("engine stopping: scope ended", "engine_id", e.id)
	} else {
		e.logger.Error("engine line failed", "engine_id", e.id, "error", err)
	}

	e.err = err
	e.handoff.close()
	e.hub.close(err)
	close(e.stopped)
}

// run is the upstream driver: initial snapshot, initial commands, then
// external messages, each fed through a full cascade.
func (e *Engine[M, S, C]) run(ctx context.Context) error {
	// Disposed between Invoke/Dispatch and launch: never initialize.
	if err := ctx.Err(); err != nil {
		return err
	}
	e.logger.Info("engine line starting", "engine_id", e.id)

	state, cmds, err := e.init(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return NewInitError(e.id, err)
	}

	initial := Initial[M](state, cmds)
	initial.Seq = e.steps.clock.Next()
	if err := e.publish(ctx, initial); err != nil {
		return err
	}

	// Initial commands are resolved once and ALL resulting messages are
	// applied as top-level messages.
	msgs, err := resolveAll(ctx, e.steps.resolve, cmds)
	if err != nil {
		return e.lineError(ctx, err)
	}
	e.logger.Debug("initial commands resolved",
		"engine_id", e.id,
		"commands", cmds.Len(),
		"messages", msgs.Len(),
	)

	for msg := range msgs.All() {
		if state, err = e.apply(ctx, state, msg); err != nil {
			return err
		}
	}

	for {
		env, err := e.handoff.receive(ctx)
		if err != nil {
			return err
		}

		state, err = e.apply(ctx, state, env.msg)
		if err != nil {
			return err
		}
		if env.ack != nil {
			close(env.ack)
		}
	}
}

// apply runs the cascade for one top-level message and returns the state
// after its last step.
func (e *Engine[M, S, C]) apply(ctx context.Context, state S, msg M) (S, error) {
	for snap, err := range e.steps.cascade(ctx, state, msg) {
		if err != nil {
			return state, e.lineError(ctx, err)
		}
		if err := e.publish(ctx, snap); err != nil {
			return state, err
		}
		state = snap.State
	}
	return state, nil
}

func (e *Engine[M, S, C]) publish(ctx context.Context, snap Snapshot[M, S, C]) error {
	for _, ic := range e.interceptors {
		ic(ctx, snap)
	}
	return e.hub.publish(ctx, snap)
}

// lineError classifies a failure raised inside a cascade.
func (e *Engine[M, S, C]) lineError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if IsCascadeLimitError(err) {
		return NewCascadeLimitRuntimeError(e.id, err)
	}
	return NewResolutionError(e.id, err)
}
