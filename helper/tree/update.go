package tree

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnknownKey is wrapped by every *UnknownKeyError.
var ErrUnknownKey = errors.New("unknown key")

// UnknownKeyError reports a key introduced by an update without permission.
type UnknownKeyError struct {
	// Path is the flat key of the rejected entry.
	Path string
	// Known lists the keys present at that level of the original tree.
	Known []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown config parameter %q; base config has: [%s]", e.Path, strings.Join(e.Known, ", "))
}

func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

type updatePolicy struct {
	newKeysAllowed bool
	whitelist      map[string]bool
	overrideOnType map[string]bool
}

// UpdateOption configures DeepUpdate.
type UpdateOption func(*updatePolicy)

// WithNewKeysAllowed permits keys absent from the original anywhere in the tree.
func WithNewKeysAllowed(allowed bool) UpdateOption {
	return func(p *updatePolicy) { p.newKeysAllowed = allowed }
}

// WithWhitelist opens the sub-trees at the given flat key paths: the key itself
// may be new, and any key beneath it may be new. "b" names a top-level key,
// "b/d" a nested one.
func WithWhitelist(paths ...string) UpdateOption {
	return func(p *updatePolicy) { addPaths(&p.whitelist, paths) }
}

// WithOverrideAllIfTypeChanges marks polymorphic sub-trees: when the TypeKey
// value differs between original and update, the original sub-tree is dropped
// and replaced by the update's sub-tree verbatim.
func WithOverrideAllIfTypeChanges(paths ...string) UpdateOption {
	return func(p *updatePolicy) { addPaths(&p.overrideOnType, paths) }
}

func addPaths(set *map[string]bool, paths []string) {
	if *set == nil {
		*set = make(map[string]bool, len(paths))
	}
	for _, path := range paths {
		(*set)[strings.Trim(path, DefaultSeparator)] = true
	}
}

// DeepUpdate applies update onto original under a strict policy and returns the
// resulting tree. By default update may only refine keys that already exist;
// see WithNewKeysAllowed, WithWhitelist and WithOverrideAllIfTypeChanges for the
// escape hatches. Non-tree values replace the original value wholesale.
//
// Returns an *UnknownKeyError for the first disallowed key, visiting keys in
// sorted order at each level.
func DeepUpdate(original, update Tree, opts ...UpdateOption) (Tree, error) {
	var p updatePolicy
	for _, opt := range opts {
		opt(&p)
	}
	out := Clone(original)
	if out == nil {
		out = make(Tree, len(update))
	}
	if err := p.apply(out, update, "", p.newKeysAllowed); err != nil {
		return nil, err
	}
	return out, nil
}

// apply writes update into dst, which is owned by the caller and may be
// modified in place.
func (p *updatePolicy) apply(dst, update Tree, prefix string, allowNew bool) error {
	for _, k := range update.Keys() {
		v := update[k]
		path := joinPath(prefix, k, DefaultSeparator)
		cur, exists := dst[k]
		if !exists && !allowNew && !p.whitelist[path] {
			return &UnknownKeyError{Path: path, Known: dst.Keys()}
		}

		curSub, curIsTree := AsTree(cur)
		newSub, newIsTree := AsTree(v)
		if !exists || !curIsTree || !newIsTree {
			dst[k] = cloneValue(v)
			continue
		}
		if p.overrideOnType[path] && typeChanged(curSub, newSub) {
			dst[k] = Clone(newSub)
			continue
		}
		if err := p.apply(curSub, newSub, path, allowNew || p.whitelist[path]); err != nil {
			return err
		}
	}
	return nil
}

func typeChanged(old, updated Tree) bool {
	oldType, ok := old[TypeKey]
	if !ok {
		return false
	}
	newType, ok := updated[TypeKey]
	if !ok {
		return false
	}
	return !reflect.DeepEqual(oldType, newType)
}

func joinPath(prefix, key, sep string) string {
	if prefix == "" {
		return key
	}
	return prefix + sep + key
}
