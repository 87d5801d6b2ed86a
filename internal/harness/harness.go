package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/mucore/internal/engine"
	"github.com/roach88/mucore/internal/reading"
	"github.com/roach88/mucore/internal/store"
	"github.com/roach88/mucore/internal/testutil"
)

type interceptor = engine.Interceptor[reading.Msg, reading.State, reading.Cmd]

// Option configures a run.
type Option func(*runConfig)

type runConfig struct {
	logger       *slog.Logger
	interceptors []interceptor
	maxDepth     int
}

// WithLogger sets the logger handed to the engine. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithInterceptors adds interceptors that run after the trace recorder.
func WithInterceptors(interceptors ...interceptor) Option {
	return func(c *runConfig) {
		c.interceptors = append(c.interceptors, interceptors...)
	}
}

// WithMaxCascadeDepth bounds each cascade. Default: engine.DefaultMaxCascadeDepth.
func WithMaxCascadeDepth(depth int) Option {
	return func(c *runConfig) {
		c.maxDepth = depth
	}
}

// Run executes a scenario against a real reading-list engine and evaluates
// its assertions.
//
// Each run gets a fresh in-memory store, a deterministic clock and a fixed
// engine ID, so two runs of one scenario produce byte-identical traces.
//
// A returned error means the scenario could not be executed (bad step, store
// failure, engine stopped). Failed assertions are reported in Result.Errors.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: engine.DefaultMaxCascadeDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := seed(ctx, st, scenario.Seed); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	engineID := scenario.EngineID
	if engineID == "" {
		engineID = DefaultEngineID
	}

	rec := &recorder{}
	scope, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := reading.New(scope, st,
		engine.WithLogger[reading.Msg, reading.State, reading.Cmd](cfg.logger),
		engine.WithClock[reading.Msg, reading.State, reading.Cmd](testutil.NewDeterministicClock()),
		engine.WithIDGenerator[reading.Msg, reading.State, reading.Cmd](testutil.NewFixedIDGenerator(engineID)),
		engine.WithMaxCascadeDepth[reading.Msg, reading.State, reading.Cmd](cfg.maxDepth),
		engine.WithInterceptors(append([]interceptor{rec.intercept}, cfg.interceptors...)...),
	)
	defer eng.Close()

	for i, step := range scenario.Steps {
		msg, err := reading.ParseMsg(step.Msg, step.Args)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if err := eng.Dispatch(ctx, msg); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Msg, err)
		}
		cfg.logger.Debug("step completed", "step", i, "msg", step.Msg, "snapshots", rec.len())
	}

	result := NewResult(scenario.Name, eng.ID())
	result.Trace, result.State = rec.snapshot()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// seed writes the scenario's starting articles in order.
func seed(ctx context.Context, st *store.Store, articles []SeedArticle) error {
	for i, a := range articles {
		title := a.Title
		if title == "" {
			title = a.URL
		}
		saved, _, err := st.WriteArticle(ctx, a.URL, title)
		if err != nil {
			return fmt.Errorf("seed[%d]: %w", i, err)
		}
		if a.Read {
			if err := st.MarkRead(ctx, saved.ID); err != nil {
				return fmt.Errorf("seed[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// recorder is the trace-collecting interceptor.
type recorder struct {
	mu     sync.Mutex
	events []TraceEvent
	last   reading.State
}

func (r *recorder) intercept(_ context.Context, snap engine.Snapshot[reading.Msg, reading.State, reading.Cmd]) {
	event := NewTraceEvent(snap)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.last = snap.State
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) snapshot() ([]TraceEvent, reading.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TraceEvent{}, r.events...), r.last
}
