package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mucore/internal/harness"
	"github.com/roach88/mucore/internal/ir"
)

// TraceResult holds the trace output for one scenario.
type TraceResult struct {
	Scenario string      `json:"scenario"`
	EngineID string      `json:"engine_id"`
	Digest   string      `json:"digest"`
	Pass     bool        `json:"pass"`
	Errors   []string    `json:"errors,omitempty"`
	Timeline []ir.Object `json:"timeline"`
	Stats    TraceStats  `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Snapshots int `json:"snapshots"`
	Messages  int `json:"messages"`
	Commands  int `json:"commands"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <scenario-file>",
		Short: "Print the snapshot timeline of a scenario",
		Long: `Run one scenario and print every snapshot it produces: the message
that caused it, the commands it requested and the resulting state.

The output includes:
- Timeline: every snapshot in seq order
- Digest: a content hash of the canonical trace
- Stats: snapshot, message and command counts

Examples:
  mucore trace ./testdata/scenarios/add_and_read.yaml
  mucore trace ./testdata/scenarios/add_and_read.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTrace(opts *RootOptions, scenarioFile string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts, cmd)

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result, err := harness.Run(context.Background(), scenario, runOptions(opts)...)
	if err != nil {
		return WrapExitError(ExitFailure, "scenario execution failed", err)
	}

	digest, err := result.Digest()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash trace", err)
	}

	out := TraceResult{
		Scenario: result.Scenario,
		EngineID: result.EngineID,
		Digest:   digest,
		Pass:     result.Pass,
		Errors:   result.Errors,
		Timeline: make([]ir.Object, 0, len(result.Trace)),
	}
	for _, event := range result.Trace {
		out.Timeline = append(out.Timeline, event.Object())
		out.Stats.Snapshots++
		if event.Message != nil {
			out.Stats.Messages++
		}
		out.Stats.Commands += len(event.Commands)
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Scenario: %s (engine %s)\n\n", out.Scenario, out.EngineID)
	for _, event := range result.Trace {
		fmt.Fprintf(w, "  %s\n", describeEvent(event))
	}
	fmt.Fprintf(w, "\nSnapshots: %d  Messages: %d  Commands: %d\n",
		out.Stats.Snapshots, out.Stats.Messages, out.Stats.Commands)
	fmt.Fprintf(w, "Digest: %s\n", out.Digest)

	if !out.Pass {
		for _, e := range out.Errors {
			formatter.VerboseLog("%s", e)
		}
		fmt.Fprintf(w, "Assertions: %d failed\n", len(out.Errors))
	}
	return nil
}

// runOptions maps global flags onto harness options.
// Engine logs are only shown with --verbose.
func runOptions(opts *RootOptions) []harness.Option {
	var hopts []harness.Option
	if opts.Verbose {
		hopts = append(hopts, harness.WithLogger(slog.Default()))
	}
	if opts.Config.MaxCascadeDepth != 0 {
		hopts = append(hopts, harness.WithMaxCascadeDepth(opts.Config.MaxCascadeDepth))
	}
	return hopts
}
