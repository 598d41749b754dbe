// Package helper collects small structural utilities shared across the
// framework.
//
// # Reading Guide
//
// The packages with real invariants live in sub-packages:
//   - helper/transpose: list of records <-> record of lists, recursive over nested records
//   - helper/tree: deep merge, policy-driven deep update, flatten/unflatten, YAML trees
//   - helper/space: bounded resizable slot counter and the mutex-guarded admission Gate
//   - helper/rng: explicit seeding and per-subsystem random sources
//
// This package holds the glue: Squeeze, DefaultGet, ListSplit, ErrorWrapper and
// the Override method-contract check.
package helper
