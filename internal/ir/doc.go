// Package ir provides the shared types for qsched.
//
// This package contains type definitions and small pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Cycles and durations are int64, never floats
//   - Instructions are read-only inputs; nothing in the oracle mutates them
//   - All JSON tags use snake_case
//   - Platform is the typed form of the hardware descriptor; loaders produce it,
//     the resource oracle consumes it and never re-parses documents
package ir
