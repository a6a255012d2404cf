// Package store provides SQLite-backed durable storage for schedule runs.
//
// Tables:
//   - runs: one row per committed schedule (run id, platform and program
//     hashes, makespan, versions)
//   - placements: one row per placed instruction, keyed by (run_id, seq)
//
// # Ordering
//
// All ordering uses seq INTEGER (logical clock), never timestamps. Runs are
// numbered in write order; placements keep the engine's commit order. Every
// multi-row query has an ORDER BY on seq so reads are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
