package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mucore/internal/harness"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Runs int
}

// ReplayResult holds the determinism check for one scenario.
type ReplayResult struct {
	Scenario      string   `json:"scenario"`
	Runs          int      `json:"runs"`
	Digests       []string `json:"digests"`
	Snapshots     int      `json:"snapshots"`
	Deterministic bool     `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario-file>",
		Short: "Replay a scenario and verify determinism",
		Long: `Run a scenario several times from a fresh store and verify that every
run produces the same canonical trace digest.

Exit codes:
  0 - All runs produced the same trace
  1 - Determinism verification failed (digests differ)
  2 - Command error (scenario not found, etc.)

Examples:
  mucore replay ./testdata/scenarios/add_and_read.yaml
  mucore replay ./testdata/scenarios/add_and_read.yaml --runs 5 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Runs, "runs", 2, "number of runs to compare (at least 2)")

	return cmd
}

func runReplay(opts *ReplayOptions, scenarioFile string, cmd *cobra.Command) error {
	if opts.Runs < 2 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--runs must be at least 2, got %d", opts.Runs))
	}
	formatter := NewOutputFormatter(opts.RootOptions, cmd)

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result := ReplayResult{
		Scenario:      scenario.Name,
		Runs:          opts.Runs,
		Digests:       make([]string, 0, opts.Runs),
		Deterministic: true,
	}

	for i := 0; i < opts.Runs; i++ {
		run, err := harness.Run(context.Background(), scenario, runOptions(opts.RootOptions)...)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("run %d failed", i+1), err)
		}
		digest, err := run.Digest()
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("run %d: failed to hash trace", i+1), err)
		}
		formatter.VerboseLog("run %d: %d snapshots, digest %s", i+1, len(run.Trace), digest)

		if i > 0 && digest != result.Digests[0] {
			result.Deterministic = false
		}
		result.Digests = append(result.Digests, digest)
		result.Snapshots = len(run.Trace)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		if result.Deterministic {
			fmt.Fprintf(w, "\u2713 %s: %d runs, %d snapshots, digest %s\n",
				result.Scenario, result.Runs, result.Snapshots, result.Digests[0])
		} else {
			fmt.Fprintf(w, "\u2717 %s: digests differ\n", result.Scenario)
			for i, d := range result.Digests {
				fmt.Fprintf(w, "  run %d: %s\n", i+1, d)
			}
		}
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "replay is not deterministic")
	}
	return nil
}
