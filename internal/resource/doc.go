// Package resource implements the resource-conflict oracle consulted by the
// scheduler on every placement decision.
//
// A Manager owns one variant per resource kind declared by the platform, in
// declaration order:
//   - QubitResource: a qubit runs one operation at a time
//   - DriveLineResource: microwave operations on qubits sharing a line must be
//     the same operation to overlap
//   - MeasurementResource: readouts on qubits sharing a digitizer must start in
//     the same cycle to overlap
//   - CouplingEdgeResource: flux operations occupy their coupling edge and every
//     edge in crosstalk with it
//
// CONTRACT:
//
// Callers check then reserve in lockstep: Available(c, ins) immediately followed
// by Reserve(c, ins) with the same arguments. Reserving over a conflict is caller
// error; the busy-until values simply take the last write.
//
// A false result from Available is a normal outcome, not an error. Errors are
// reserved for configuration faults (at New) and usage faults such as a flux
// instruction on a qubit pair with no coupling edge.
//
// BRANCHING:
//
// Clone returns a Manager that shares no mutable state with the original, so
// each scheduling branch owns its own copy. Connectivity maps are immutable
// after construction and are shared between clones.
//
// The package is synchronous and does no I/O. A Manager is not safe for
// concurrent use; give each goroutine its own clone.
package resource
