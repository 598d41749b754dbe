package tree

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTree() Tree {
	return Tree{
		"a": 3,
		"b": Tree{
			"c": 3,
			"d": Tree{"e": 6, "f": 5},
			"z": 4,
		},
	}
}

func TestDeepMerge(t *testing.T) {
	base := Tree{
		"a": 3,
		"b": Tree{
			"c": 3,
			"d": Tree{"e": 6, "f": 5},
		},
	}
	override := Tree{
		"b": Tree{"c": 5, "d": 6, "g": 4},
	}

	got := DeepMerge(base, override)

	// THEN scalar d in override replaces nested d in base wholesale
	assert.Equal(t, Tree{"a": 3, "b": Tree{"c": 5, "d": 6, "g": 4}}, got)

	// AND neither input changed
	assert.Equal(t, Tree{"a": 3, "b": Tree{"c": 3, "d": Tree{"e": 6, "f": 5}}}, base)
	assert.Equal(t, Tree{"b": Tree{"c": 5, "d": 6, "g": 4}}, override)
}

func TestDeepMerge_TreeReplacesScalar(t *testing.T) {
	got := DeepMerge(Tree{"a": 1}, Tree{"a": Tree{"x": 1}})
	assert.Equal(t, Tree{"a": Tree{"x": 1}}, got)
}

func TestDeepMerge_PlainMapsAreTrees(t *testing.T) {
	base := Tree{"m": map[string]any{"x": 1, "y": 2}}
	got := DeepMerge(base, Tree{"m": map[string]any{"y": 3}})
	assert.Equal(t, Tree{"m": Tree{"x": 1, "y": 3}}, got)
}

func TestDeepMerge_NilBase(t *testing.T) {
	got := DeepMerge(nil, Tree{"a": Tree{"b": 1}})
	assert.Equal(t, Tree{"a": Tree{"b": 1}}, got)
}

func TestDeepMerge_ResultDoesNotAliasOverride(t *testing.T) {
	override := Tree{"n": Tree{"x": 1}, "l": []any{1, 2}}
	got := DeepMerge(Tree{}, override)
	got["n"].(Tree)["x"] = 99
	got["l"].([]any)[0] = 99
	assert.Equal(t, 1, override["n"].(Tree)["x"])
	assert.Equal(t, 1, override["l"].([]any)[0])
}

func TestDeepUpdate_UnknownKeyRejected(t *testing.T) {
	update := Tree{"b": Tree{"c": 5, "d": 6, "g": 4}}

	_, err := DeepUpdate(baseTree(), update, WithNewKeysAllowed(false))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKey))
	var uk *UnknownKeyError
	require.ErrorAs(t, err, &uk)
	assert.Equal(t, "b/g", uk.Path)
	assert.Equal(t, []string{"c", "d", "z"}, uk.Known)
}

func TestDeepUpdate_WhitelistOpensSubtree(t *testing.T) {
	original := baseTree()
	update := Tree{"b": Tree{"c": 5, "d": 6, "g": 4}}

	got, err := DeepUpdate(original, update, WithNewKeysAllowed(false), WithWhitelist("b"))
	require.NoError(t, err)

	assert.Equal(t, 3, got["a"])
	b := got["b"].(Tree)
	assert.Equal(t, 5, b["c"])
	assert.Equal(t, 6, b["d"])
	assert.Equal(t, 4, b["g"])
	assert.Equal(t, 4, b["z"], "sibling keys not in the update are preserved")

	// original untouched
	assert.Equal(t, baseTree(), original)
}

func TestDeepUpdate_WhitelistAppliesToWholeSubtree(t *testing.T) {
	original := Tree{"b": Tree{"d": Tree{"e": 1}}}
	update := Tree{"b": Tree{"d": Tree{"new": 2}}}

	got, err := DeepUpdate(original, update, WithWhitelist("b"))
	require.NoError(t, err)
	assert.Equal(t, Tree{"b": Tree{"d": Tree{"e": 1, "new": 2}}}, got)
}

func TestDeepUpdate_NestedWhitelistPath(t *testing.T) {
	original := Tree{"b": Tree{"d": Tree{"e": 1}, "c": 1}}

	t.Run("whitelisted path accepts new keys", func(t *testing.T) {
		got, err := DeepUpdate(original, Tree{"b": Tree{"d": Tree{"x": 2}}}, WithWhitelist("b/d"))
		require.NoError(t, err)
		v, ok := got.Lookup("b/d/x")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("sibling of whitelisted path stays closed", func(t *testing.T) {
		_, err := DeepUpdate(original, Tree{"b": Tree{"y": 2}}, WithWhitelist("b/d"))
		var uk *UnknownKeyError
		require.ErrorAs(t, err, &uk)
		assert.Equal(t, "b/y", uk.Path)
	})

	t.Run("whitelisted new key at top level", func(t *testing.T) {
		got, err := DeepUpdate(original, Tree{"fresh": Tree{"k": 1}}, WithWhitelist("fresh"))
		require.NoError(t, err)
		assert.Equal(t, Tree{"k": 1}, got["fresh"])
	})
}

func TestDeepUpdate_NewKeysAllowed(t *testing.T) {
	got, err := DeepUpdate(Tree{"a": 1}, Tree{"b": Tree{"c": 2}}, WithNewKeysAllowed(true))
	require.NoError(t, err)
	assert.Equal(t, Tree{"a": 1, "b": Tree{"c": 2}}, got)
}

func TestDeepUpdate_OverrideAllIfTypeChanges(t *testing.T) {
	original := Tree{
		"a": 3,
		"b": Tree{"type": "old", "z": 4},
	}
	update := Tree{
		"b": Tree{"type": "new", "c": 5},
	}

	t.Run("type change replaces the subtree", func(t *testing.T) {
		got, err := DeepUpdate(original, update,
			WithNewKeysAllowed(true), WithOverrideAllIfTypeChanges("b"))
		require.NoError(t, err)
		assert.Equal(t, 3, got["a"])
		assert.Equal(t, Tree{"type": "new", "c": 5}, got["b"])
		assert.NotContains(t, got["b"], "z")
	})

	t.Run("same type merges", func(t *testing.T) {
		same := Tree{"b": Tree{"type": "old", "c": 5}}
		got, err := DeepUpdate(original, same,
			WithNewKeysAllowed(true), WithOverrideAllIfTypeChanges("b"))
		require.NoError(t, err)
		assert.Equal(t, Tree{"type": "old", "z": 4, "c": 5}, got["b"])
	})

	t.Run("unlisted key merges despite type change", func(t *testing.T) {
		got, err := DeepUpdate(original, update, WithNewKeysAllowed(true))
		require.NoError(t, err)
		assert.Equal(t, Tree{"type": "new", "z": 4, "c": 5}, got["b"])
	})

	t.Run("type change bypasses the new key check", func(t *testing.T) {
		got, err := DeepUpdate(original, update, WithOverrideAllIfTypeChanges("b"))
		require.NoError(t, err)
		assert.Equal(t, Tree{"type": "new", "c": 5}, got["b"])
	})

	t.Run("missing discriminator merges", func(t *testing.T) {
		noType := Tree{"b": Tree{"z": 7}}
		got, err := DeepUpdate(original, noType, WithOverrideAllIfTypeChanges("b"))
		require.NoError(t, err)
		assert.Equal(t, Tree{"type": "old", "z": 7}, got["b"])
	})
}

func TestDeepUpdate_ScalarReplacement(t *testing.T) {
	got, err := DeepUpdate(baseTree(), Tree{"b": Tree{"d": 6}})
	require.NoError(t, err)
	assert.Equal(t, 6, got["b"].(Tree)["d"])
}

func TestDeepUpdate_DoesNotMutateUpdate(t *testing.T) {
	update := Tree{"b": Tree{"d": Tree{"e": 1}}}
	got, err := DeepUpdate(baseTree(), update)
	require.NoError(t, err)
	got["b"].(Tree)["d"].(Tree)["e"] = 100
	assert.Equal(t, 1, update["b"].(Tree)["d"].(Tree)["e"])
}

func TestFlatten(t *testing.T) {
	flat := Flatten(baseTree(), "")
	assert.Equal(t, map[string]any{
		"a":     3,
		"b/c":   3,
		"b/d/e": 6,
		"b/d/f": 5,
		"b/z":   4,
	}, flat)
}

func TestFlatten_CustomSeparatorAndEmptySubtree(t *testing.T) {
	flat := Flatten(Tree{"x": Tree{"y": 1}, "empty": Tree{}}, ".")
	assert.Equal(t, map[string]any{"x.y": 1}, flat)
}

func TestUnflatten_RoundTrip(t *testing.T) {
	original := baseTree()
	got, err := Unflatten(Flatten(original, ""), "")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestUnflatten_Conflict(t *testing.T) {
	_, err := Unflatten(map[string]any{"a": 1, "a/b": 2}, "/")
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "a", ce.Path)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLookup(t *testing.T) {
	tr := baseTree()
	v, ok := tr.Lookup("b/d/f")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok = tr.Lookup("b/c/x")
	assert.False(t, ok)
	_, ok = tr.Lookup("missing")
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	doc := `
model:
  type: mlp
  hidden: [64, 64]
  head:
    size: 3
lr: 0.001
`
	got, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	head, ok := got.Lookup("model/head")
	require.True(t, ok)
	assert.IsType(t, Tree{}, head)
	assert.Equal(t, 0.001, got["lr"])
	assert.Equal(t, []any{64, 64}, got["model"].(Tree)["hidden"])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"sequence at top level", "- 1\n- 2\n"},
		{"scalar at top level", "3\n"},
		{"non-string key", "a:\n  1: x\n"},
		{"invalid yaml", "a: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecode_EmptyDocument(t *testing.T) {
	got, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadAndEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("b:\n  c: 1\na: x\n"), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, loaded))
	assert.Equal(t, "a: x\nb:\n  c: 1\n", buf.String())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
