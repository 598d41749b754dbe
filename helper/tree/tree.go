// Package tree merges, updates and flattens nested configuration trees.
//
// A Tree is a map[string]any whose values are leaves or nested trees. Nested
// trees may be typed either as Tree or as plain map[string]any (what YAML and
// JSON decoders produce); both are treated alike. No function in this package
// mutates its arguments.
package tree

import (
	"slices"
	"strings"
)

// Tree is a nested key/value structure. It must be acyclic.
type Tree map[string]any

const (
	// DefaultSeparator joins nested keys into a flat key.
	DefaultSeparator = "/"

	// TypeKey holds the discriminator of a polymorphic sub-tree.
	TypeKey = "type"
)

// AsTree reports whether v is a nested tree and returns it as a Tree.
func AsTree(v any) (Tree, bool) {
	switch t := v.(type) {
	case Tree:
		return t, true
	case map[string]any:
		return Tree(t), true
	default:
		return nil, false
	}
}

// Keys returns the keys of t in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup follows path (joined by DefaultSeparator) and returns the value found.
func (t Tree) Lookup(path string) (any, bool) {
	var cur any = t
	for _, part := range strings.Split(path, DefaultSeparator) {
		node, ok := AsTree(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = node[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Clone returns a deep copy of t. Nested trees and []any slices are copied;
// other values are shared.
func Clone(t Tree) Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if sub, ok := AsTree(v); ok {
		return Clone(sub)
	}
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// DeepMerge merges override into base and returns the result. For every key in
// override: if both sides hold trees they are merged recursively, otherwise the
// override value replaces the base value wholesale. Keys only in base are
// kept, keys only in override are added.
func DeepMerge(base, override Tree) Tree {
	out := Clone(base)
	if out == nil {
		out = make(Tree, len(override))
	}
	for k, v := range override {
		baseSub, baseIsTree := AsTree(out[k])
		overSub, overIsTree := AsTree(v)
		if baseIsTree && overIsTree {
			out[k] = DeepMerge(baseSub, overSub)
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}
