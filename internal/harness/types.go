package harness

import (
	"bytes"

	"github.com/roach88/mucore/internal/engine"
	"github.com/roach88/mucore/internal/ir"
	"github.com/roach88/mucore/internal/reading"
)

// TraceEvent is one snapshot in canonical form.
type TraceEvent struct {
	Seq  int64
	Kind string

	// Message is nil for the initial snapshot.
	Message  ir.Object
	Commands ir.Array
	State    ir.Object
}

// NewTraceEvent encodes a reading-list snapshot.
func NewTraceEvent(snap engine.Snapshot[reading.Msg, reading.State, reading.Cmd]) TraceEvent {
	event := TraceEvent{
		Seq:      snap.Seq,
		Kind:     snap.Kind.String(),
		Commands: make(ir.Array, 0, snap.Commands.Len()),
		State:    reading.EncodeState(snap.State),
	}
	if !snap.IsInitial() {
		event.Message = reading.EncodeMsg(snap.Message)
	}
	for cmd := range snap.Commands.All() {
		event.Commands = append(event.Commands, reading.EncodeCmd(cmd))
	}
	return event
}

// MessageType returns the message's "type" field, or "" for the initial
// snapshot.
func (e TraceEvent) MessageType() string {
	if t, ok := e.Message["type"].(ir.String); ok {
		return string(t)
	}
	return ""
}

// Object renders the event as a canonical object.
func (e TraceEvent) Object() ir.Object {
	obj := ir.Object{
		"seq":      ir.Int(e.Seq),
		"kind":     ir.String(e.Kind),
		"commands": e.Commands,
		"state":    e.State,
	}
	if e.Message != nil {
		obj["message"] = e.Message
	}
	return obj
}

// Result is the outcome of a scenario run.
type Result struct {
	Scenario string
	EngineID string

	// Pass is true when every assertion held.
	Pass bool

	Trace []TraceEvent

	// State is the state of the last snapshot.
	State reading.State

	Errors []string
}

// NewResult creates a passing result with an empty trace.
func NewResult(scenario, engineID string) *Result {
	return &Result{
		Scenario: scenario,
		EngineID: engineID,
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
	}
}

// AddError records a failed assertion and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// TraceArray returns the trace as a canonical array.
func (r *Result) TraceArray() ir.Array {
	arr := make(ir.Array, len(r.Trace))
	for i, e := range r.Trace {
		arr[i] = e.Object()
	}
	return arr
}

// CanonicalTrace renders the trace one canonical JSON object per line.
// This is the golden file format.
func (r *Result) CanonicalTrace() ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range r.Trace {
		line, err := ir.MarshalCanonical(e.Object())
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Digest returns the content hash of the trace.
func (r *Result) Digest() (string, error) {
	return ir.TraceDigest(r.TraceArray())
}
