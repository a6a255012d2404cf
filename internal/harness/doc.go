// Package harness runs conformance scenarios against the resource oracle and
// the scheduling engine.
//
// A scenario drives one or more branches of resource state through a list of
// steps and checks the answers the oracle gives along the way. Every step is
// recorded as a trace event; the trace together with the final busy-until
// state of every branch is compared against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: two_qubit_example
//	description: "What this scenario validates"
//	platform: platforms/two_qubit.yaml
//	steps:
//	  - reserve: {gate: x90, qubits: [0], cycle: 0}
//	  - available: {gate: y90, qubits: [1], cycle: 0}
//	    expect: false
//	  - available: {gate: cz, qubits: [1, 0], cycle: 3}
//	    expect_error: ILLEGAL_EDGE
//	  - fork: late
//	  - use: late
//	  - schedule:
//	      - {name: x90, qubits: [0]}
//	    lookahead: 4
//	    expect_makespan: 2
//	  - verify: true
//	  - use: main
//	  - assign: late
//	assertions:
//	  - type: busy_until
//	    resource: qwgs
//	    expect: [1]
//	  - type: playing
//	    line: 0
//	    gate: x90
//	  - type: trace_count
//	    op: available
//	    count: 2
//
// The platform path is relative to the scenario file. Execution starts on
// the branch "main". fork copies the current branch under a new name, use
// switches the current branch, and assign replaces the current branch's state
// with a copy of the named branch.
//
// # Determinism
//
// Each scenario runs against a fresh in-memory store with sequential run ids
// (run-1, run-2, ...), so traces are reproducible byte for byte.
package harness
