package harness

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/mucore/internal/ir"
	"github.com/roach88/mucore/internal/reading"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Message == nil {
				fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, event.Kind)
				continue
			}
			fmt.Fprintf(&buf, "  [%d] %s %s\n", event.Seq, event.Kind, event.MessageType())
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertSnapshotCount:
			err = assertSnapshotCount(result.Trace, assertion)
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result.State, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

// assertSnapshotCount checks the exact number of snapshots, initial included.
func assertSnapshotCount(trace []TraceEvent, assertion Assertion) error {
	if len(trace) != assertion.Count {
		return &AssertionError{
			Type:     AssertSnapshotCount,
			Expected: fmt.Sprintf("%d snapshots", assertion.Count),
			Actual:   fmt.Sprintf("%d snapshots", len(trace)),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceContains checks that some snapshot carries a message of the
// given type whose fields include assertion.Fields.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.MessageType() != assertion.Message {
			continue
		}
		ok, err := matchFields(event.Message, assertion.Fields)
		if err != nil {
			return fmt.Errorf("trace_contains %s: %w", assertion.Message, err)
		}
		if ok {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("message %s with fields %v", assertion.Message, assertion.Fields),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the messages appear in the given order.
// Intervening messages are allowed.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(assertion.Messages) {
			break
		}
		if event.MessageType() == assertion.Messages[next] {
			next++
		}
	}

	if next < len(assertion.Messages) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("messages in order: %v", assertion.Messages),
			Actual:   fmt.Sprintf("matched %v, missing %s", assertion.Messages[:next], assertion.Messages[next]),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState compares assertion.Expect with the encoded final state.
// Only listed keys are checked; each is compared exactly.
func assertFinalState(state reading.State, assertion Assertion) error {
	actual := reading.EncodeState(state)

	keys := make([]string, 0, len(assertion.Expect))
	for k := range assertion.Expect {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		want, err := ir.FromAny(assertion.Expect[key])
		if err != nil {
			return fmt.Errorf("final_state %s: %w", key, err)
		}
		got, exists := actual[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("state has fields %v", actual.SortedKeys()),
			}
		}
		equal, err := valuesEqual(got, want)
		if err != nil {
			return fmt.Errorf("final_state %s: %w", key, err)
		}
		if !equal {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s = %s", key, render(want)),
				Actual:   fmt.Sprintf("%s = %s", key, render(got)),
			}
		}
	}
	return nil
}

// matchFields reports whether actual holds every field in expected.
// Extra fields in actual are ignored.
func matchFields(actual ir.Object, expected map[string]any) (bool, error) {
	for key, raw := range expected {
		want, err := ir.FromAny(raw)
		if err != nil {
			return false, fmt.Errorf("field %q: %w", key, err)
		}
		got, exists := actual[key]
		if !exists {
			return false, nil
		}
		equal, err := valuesEqual(got, want)
		if err != nil || !equal {
			return false, err
		}
	}
	return true, nil
}

// valuesEqual compares canonical encodings, so Object key order and
// representation never matter.
func valuesEqual(a, b ir.Value) (bool, error) {
	ab, err := ir.MarshalCanonical(a)
	if err != nil {
		return false, err
	}
	bb, err := ir.MarshalCanonical(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}

func render(v ir.Value) string {
	b, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}
