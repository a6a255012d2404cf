// Package engine schedules programs against a resource.Manager.
//
// The engine is a driver for the resource oracle: it walks a program, asks
// the Manager for the earliest conflict-free start cycle of each candidate
// instruction, and commits the choice with Reserve. It never bypasses the
// check-then-reserve contract, so every busy-until value it produces is
// monotone over a pass.
//
// STRATEGIES:
//
// ASAP places instructions in program order, each at its earliest start.
// Lookahead (WithLookahead(n), n > 1) considers the next n unplaced
// instructions whose qubits are free of earlier pending work and commits the
// one that can start first. Each strategy runs on its own fork of the
// Manager; the shorter schedule wins and is assigned back, so a lookahead
// pass never produces a longer makespan than ASAP on the same input.
//
// DETERMINISM:
//
// Candidates are ordered by (start cycle, program index). Placements are
// stamped with a logical Clock in commit order; no wall-clock time is used
// for ordering.
package engine
