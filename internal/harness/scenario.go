package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mucore/internal/reading"
)

// Scenario is a reading-list conformance test: articles to seed, intents to
// dispatch, and assertions over the resulting snapshot trace.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// EngineID is the fixed engine ID for the run.
	// If empty, defaults to "harness".
	EngineID string `yaml:"engine_id,omitempty"`

	// Seed articles are written to the store before the engine starts, so
	// they arrive through the initial load.
	Seed []SeedArticle `yaml:"seed,omitempty"`

	// Steps are dispatched in order; each waits for its full cascade.
	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions"`
}

// SeedArticle is an article present before the run.
type SeedArticle struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
	Read  bool   `yaml:"read,omitempty"`
}

// Step is one intent message, named as reading.ParseMsg expects.
type Step struct {
	Msg  string            `yaml:"msg"`
	Args map[string]string `yaml:"args,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of snapshot_count, trace_contains, trace_order, final_state.
	Type string `yaml:"type"`

	// Count is the exact number of snapshots (snapshot_count).
	Count int `yaml:"count,omitempty"`

	// Message is a message type name (trace_contains).
	Message string `yaml:"message,omitempty"`

	// Fields must all match the message (trace_contains). Subset match.
	Fields map[string]any `yaml:"fields,omitempty"`

	// Messages must appear in this order, not necessarily adjacent (trace_order).
	Messages []string `yaml:"messages,omitempty"`

	// Expect must all match the encoded final state (final_state). Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertSnapshotCount = "snapshot_count"
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertFinalState    = "final_state"
)

// DefaultEngineID is used when a scenario does not name its engine.
const DefaultEngineID = "harness"

// LoadScenario reads, validates and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario validates data against the scenario schema and decodes it.
// Unknown fields are rejected so typos do not silently drop assertions.
func ParseScenario(filename string, data []byte) (*Scenario, error) {
	if err := ValidateScenario(filename, data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSteps(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateSteps catches step arguments the schema cannot express, such as
// mark_read with neither id nor url.
func validateSteps(s *Scenario) error {
	for i, step := range s.Steps {
		if _, err := reading.ParseMsg(step.Msg, step.Args); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}
