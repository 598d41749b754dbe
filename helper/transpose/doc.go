// Package transpose converts between a batch of uniform records and a single
// record of per-key sequences.
//
// A Record is either a *Map (ordered key/value pairs, any comparable key) or a
// *Fields value (a fixed set of named fields described by a *Schema). Plain Go
// maps and structs are adapted through AsRecord, so callers can hand in
// []any{map[string]int{...}, ...} or a slice of structs directly.
//
//	batch := []any{
//		map[string]any{"value": 1, "obs": map[string]any{"scalar": 0.5}},
//		map[string]any{"value": 2, "obs": map[string]any{"scalar": 0.7}},
//	}
//	rec, err := transpose.ListToRecord(batch, transpose.WithRecursive())
//	// rec["value"] == []any{1, 2}
//	// rec["obs"] is itself a *Map with "scalar" == []any{0.5, 0.7}
//
// All functions are pure: inputs are never mutated and results never alias
// the caller's containers.
package transpose
