// Package harness runs reading-list conformance scenarios against a real
// engine.
//
// # Scenario Format
//
// Scenarios are YAML files checked against an embedded CUE schema
// (schema.cue) before decoding:
//
//	name: add_and_read
//	description: "What this scenario validates"
//	seed:
//	  - url: https://go.dev
//	    title: Go
//	    read: true
//	steps:
//	  - msg: add
//	    args: { url: https://pkg.go.dev }
//	assertions:
//	  - type: snapshot_count
//	    count: 5
//	  - type: trace_contains
//	    message: saved
//	    fields: { inserted: true }
//	  - type: trace_order
//	    messages: [add, saved]
//	  - type: final_state
//	    expect: { unread: 1 }
//
// # Assertion Types
//
//   - snapshot_count: exact number of snapshots, initial included
//   - trace_contains: some message of the type has the listed fields
//   - trace_order: message types appear in order, gaps allowed
//   - final_state: the encoded final state has the listed fields
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory SQLite store, testutil.DeterministicClock
// for seq and testutil.FixedIDGenerator for the engine ID, so the canonical
// trace is byte-identical across runs and can be compared with golden files
// under testdata/golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/add_and_read.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
