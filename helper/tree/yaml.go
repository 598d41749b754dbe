package tree

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML document from path into a Tree.
func Load(path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tree %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %w", path, err)
	}
	return t, nil
}

// Decode parses one YAML document. An empty document yields an empty Tree; a
// document whose top level is not a mapping is an error. Nested mappings are
// returned as Tree values.
func Decode(r io.Reader) (Tree, error) {
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return make(Tree), nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if raw == nil {
		return make(Tree), nil
	}
	v, err := normalize(raw, "")
	if err != nil {
		return nil, err
	}
	t, ok := v.(Tree)
	if !ok {
		return nil, fmt.Errorf("top level of document is %T, want a mapping", raw)
	}
	return t, nil
}

// normalize turns decoder output into Tree values, rejecting non-string keys.
func normalize(v any, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(Tree, len(t))
		for k, e := range t {
			n, err := normalize(e, joinPath(path, k, DefaultSeparator))
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(Tree, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("key %v (%T) under %q is not a string", k, k, path)
			}
			n, err := normalize(e, joinPath(path, ks, DefaultSeparator))
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			n, err := normalize(e, joinPath(path, fmt.Sprint(i), DefaultSeparator))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

// Encode writes t as a YAML document with sorted keys.
func Encode(w io.Writer, t Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(t)); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
