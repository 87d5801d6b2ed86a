package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mucore/internal/engine"
	"github.com/roach88/mucore/internal/harness"
	"github.com/roach88/mucore/internal/ir"
	"github.com/roach88/mucore/internal/reading"
	"github.com/roach88/mucore/internal/store"
	"github.com/roach88/mucore/internal/telemetry"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	MaxDepth int

	// IDGenerator allows overriding the engine ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reading list, one message per input line",
		Long: `Start a reading-list engine backed by a SQLite database and feed it
messages read from stdin, one per line:

  add {url: "https://go.dev", title: "Go"}
  mark_read {url: "https://go.dev"}
  remove {id: "<article id>"}

The arguments are a YAML flow mapping. Blank lines and lines starting with
# are skipped. Every snapshot is printed as it is produced; with --format
json each snapshot is one canonical JSON object per line.

The database and cascade bound default to MUCORE_DB and
MUCORE_MAX_CASCADE_DEPTH. Tracing is exported when MUCORE_OTEL_ENDPOINT
is set.

Example:
  printf 'add {url: "https://go.dev"}\n' | mucore run --db ./mucore.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				opts.Database = opts.Config.DB
			}
			if !cmd.Flags().Changed("max-depth") {
				opts.MaxDepth = opts.Config.MaxCascadeDepth
			}
			return runEngine(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $MUCORE_DB)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", engine.DefaultMaxCascadeDepth, "maximum steps in one cascade, <= 0 for unbounded")

	return cmd
}

func runEngine(opts *RunOptions, cmd *cobra.Command) error {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up tracing", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down tracing", "error", err)
		}
	}()

	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	idGen := opts.IDGenerator
	if idGen == nil {
		idGen = engine.UUIDv7Generator{}
	}
	// Generated up front so spans carry the same ID as the engine.
	engineID := idGen.Generate()

	eng := reading.New(ctx, st,
		engine.WithLogger[reading.Msg, reading.State, reading.Cmd](slog.Default()),
		engine.WithIDGenerator[reading.Msg, reading.State, reading.Cmd](engine.NewFixedGenerator(engineID)),
		engine.WithMaxCascadeDepth[reading.Msg, reading.State, reading.Cmd](opts.MaxDepth),
		engine.WithInterceptors(
			engine.LogInterceptor[reading.Msg, reading.State, reading.Cmd](slog.Default()),
			telemetry.Interceptor[reading.Msg, reading.State, reading.Cmd](nil, engineID, telemetry.Describe[reading.Msg, reading.Cmd]{
				Message: reading.Msg.Name,
				Command: reading.Cmd.Name,
			}),
		),
	)
	defer eng.Close()

	// Not bound to ctx: after Close the subscription still drains what the
	// line published, then ends with the disposed error.
	sub, err := eng.Invoke(context.WithoutCancel(ctx), nil)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to subscribe", err)
	}

	slog.Info("engine started", "engine_id", eng.ID(), "db", opts.Database)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return printSnapshots(cmd.OutOrStdout(), opts.Format, sub)
	})
	g.Go(func() error {
		// Closing the engine ends the subscription once it has drained.
		defer eng.Close()
		return feed(gctx, eng, cmd.InOrStdin())
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("engine stopped by signal")
			return nil
		}
		return WrapExitError(ExitFailure, "engine error", err)
	}

	slog.Info("engine stopped gracefully", "engine_id", eng.ID())
	return nil
}

// feed dispatches one message per input line until EOF or ctx ends.
// Lines are read on their own goroutine so a signal is not stuck behind a
// blocking read.
func feed(ctx context.Context, eng *reading.Engine, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	lineNo := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return ctx.Err()
				}
			}
			lineNo++

			msg, err := ParseLine(line)
			if err != nil {
				slog.Warn("skipping input line", "line", lineNo, "error", err)
				continue
			}
			if msg == nil {
				continue
			}
			if err := eng.Dispatch(ctx, msg); err != nil {
				return err
			}
		}
	}
}

// ParseLine parses one input line of the form `name {key: value, ...}`.
// Returns nil, nil for blank lines and comments.
func ParseLine(line string) (reading.Msg, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	name, rest, _ := strings.Cut(line, " ")
	var args map[string]string
	if rest = strings.TrimSpace(rest); rest != "" {
		if err := yaml.Unmarshal([]byte(rest), &args); err != nil {
			return nil, fmt.Errorf("%s: invalid arguments: %w", name, err)
		}
	}
	return reading.ParseMsg(name, args)
}

// printSnapshots writes every snapshot until the subscription ends.
// A disposed engine is a normal end.
func printSnapshots(w io.Writer, format string, sub *reading.Subscription) error {
	for snap := range sub.Snapshots() {
		if err := printSnapshot(w, format, harness.NewTraceEvent(snap)); err != nil {
			return err
		}
	}
	if err := sub.Err(); err != nil && !engine.IsDisposed(err) {
		return err
	}
	return nil
}

func printSnapshot(w io.Writer, format string, event harness.TraceEvent) error {
	if format == "json" {
		line, err := ir.MarshalCanonical(event.Object())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", line)
		return err
	}
	_, err := fmt.Fprintln(w, describeEvent(event))
	return err
}

// describeEvent renders a one-line human summary of a snapshot.
func describeEvent(event harness.TraceEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d", event.Seq)
	if event.Message == nil {
		b.WriteString(" initial")
	} else {
		fmt.Fprintf(&b, " %s", event.MessageType())
	}

	if len(event.Commands) > 0 {
		names := make([]string, 0, len(event.Commands))
		for _, c := range event.Commands {
			if obj, ok := c.(ir.Object); ok {
				if t, ok := obj["type"].(ir.String); ok {
					names = append(names, string(t))
				}
			}
		}
		fmt.Fprintf(&b, " -> %s", strings.Join(names, ","))
	}

	if articles, ok := event.State["articles"].(ir.Array); ok {
		fmt.Fprintf(&b, " articles=%d", len(articles))
	}
	if unread, ok := event.State["unread"].(ir.Int); ok {
		fmt.Fprintf(&b, " unread=%d", unread)
	}
	if lastErr, ok := event.State["last_error"].(ir.String); ok && lastErr != "" {
		fmt.Fprintf(&b, " error=%q", string(lastErr))
	}
	return b.String()
}
