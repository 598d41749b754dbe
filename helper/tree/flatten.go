package tree

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrConflict is wrapped by every *ConflictError.
var ErrConflict = errors.New("conflicting flat keys")

// ConflictError reports a flat key that is both a leaf and the prefix of
// another flat key.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("flat key %q is both a leaf and a sub-tree", e.Path)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Flatten maps every leaf of t to the path of keys leading to it, joined by
// sep (DefaultSeparator when empty). Empty sub-trees have no leaves and do not
// appear in the result. Keys that themselves contain sep make paths ambiguous;
// the lexically later source wins.
func Flatten(t Tree, sep string) map[string]any {
	if sep == "" {
		sep = DefaultSeparator
	}
	out := make(map[string]any)
	flattenInto(out, t, "", sep)
	return out
}

func flattenInto(out map[string]any, t Tree, prefix, sep string) {
	for _, k := range t.Keys() {
		path := joinPath(prefix, k, sep)
		if sub, ok := AsTree(t[k]); ok {
			flattenInto(out, sub, path, sep)
			continue
		}
		out[path] = cloneValue(t[k])
	}
}

// Unflatten rebuilds a tree from flat keys joined by sep (DefaultSeparator
// when empty). It is the inverse of Flatten for trees without empty sub-trees.
func Unflatten(flat map[string]any, sep string) (Tree, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(Tree)
	for _, key := range keys {
		parts := strings.Split(key, sep)
		node := out
		for i, part := range parts[:len(parts)-1] {
			next, exists := node[part]
			if !exists {
				sub := make(Tree)
				node[part] = sub
				node = sub
				continue
			}
			sub, ok := next.(Tree)
			if !ok {
				return nil, &ConflictError{Path: strings.Join(parts[:i+1], sep)}
			}
			node = sub
		}
		leaf := parts[len(parts)-1]
		if _, exists := node[leaf]; exists {
			return nil, &ConflictError{Path: key}
		}
		node[leaf] = cloneValue(flat[key])
	}
	return out, nil
}
