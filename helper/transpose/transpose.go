package transpose

import (
	"fmt"
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

type options struct {
	recursive bool
	opaque    map[any]bool
}

// Option configures ListToRecord.
type Option func(*options)

// WithRecursive transposes nested records too: when the values under a key are
// records in every batch element, the result under that key is itself a
// transposed record rather than a sequence of records.
func WithRecursive() Option {
	return func(o *options) { o.recursive = true }
}

// WithOpaqueKeys lists keys whose values are never recursed into, even in
// recursive mode. Applies at every nesting level.
func WithOpaqueKeys(keys ...any) Option {
	return func(o *options) {
		if o.opaque == nil {
			o.opaque = make(map[any]bool, len(keys))
		}
		for _, k := range keys {
			o.opaque[k] = true
		}
	}
}

// ListToRecord converts a homogeneous batch of records into one record of the
// same kind whose value under each key is the []any of per-element values, in
// batch order.
//
// Returns ErrEmptyInput for an empty batch and a *ShapeError when an element
// is not a record or the batch is not homogeneous.
func ListToRecord(records []any, opts ...Option) (Record, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return listToRecord(records, &o)
}

func listToRecord(records []any, o *options) (Record, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	batch := make([]Record, len(records))
	for i, v := range records {
		r, err := AsRecord(v)
		if err != nil {
			logrus.Debugf("transpose: rejecting element %d:\n%s", i, spew.Sdump(v))
			return nil, shapeErrorf(i, "%T is not a record", v)
		}
		if i > 0 && !batch[0].sameShape(r) {
			logrus.Debugf("transpose: element %d shape differs from element 0:\n%s", i, spew.Sdump(v))
			return nil, shapeErrorf(i, "%s record %v does not match %s record %v",
				r.Kind(), r.Keys(), batch[0].Kind(), batch[0].Keys())
		}
		batch[i] = r
	}

	keys := batch[0].Keys()
	out := make([]any, len(keys))
	for ki, k := range keys {
		values := make([]any, len(batch))
		for i, r := range batch {
			values[i], _ = r.Get(k)
		}
		if o.recursive && !o.opaque[k] && allRecords(values) {
			nested, err := listToRecord(values, o)
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}
			out[ki] = nested
			continue
		}
		out[ki] = values
	}
	return batch[0].rebuild(out), nil
}

func allRecords(values []any) bool {
	for _, v := range values {
		if !IsRecord(v) {
			return false
		}
	}
	return true
}

// RecordToList is the inverse of ListToRecord. Every value of rec must be a
// slice or array, or a record produced by recursive transposition; all must
// have the same length N. The result holds N records of rec's kind.
func RecordToList(rec Record) ([]Record, error) {
	if rec == nil {
		return nil, shapeErrorf(-1, "nil record")
	}
	keys := rec.Keys()
	if len(keys) == 0 {
		return nil, shapeErrorf(-1, "record has no keys, batch size is undefined")
	}

	columns := make([][]any, len(keys))
	n := -1
	for ki, k := range keys {
		v, _ := rec.Get(k)
		col, err := column(v)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", k, err)
		}
		if n >= 0 && len(col) != n {
			return nil, shapeErrorf(-1, "key %v has %d values, key %v has %d", k, len(col), keys[0], n)
		}
		n = len(col)
		columns[ki] = col
	}

	out := make([]Record, n)
	for i := range out {
		row := make([]any, len(keys))
		for ki := range keys {
			row[ki] = columns[ki][i]
		}
		out[i] = rec.rebuild(row)
	}
	return out, nil
}

// column expands one transposed value into its per-element values.
func column(v any) ([]any, error) {
	if r, ok := v.(Record); ok {
		rows, err := RecordToList(r)
		if err != nil {
			return nil, err
		}
		col := make([]any, len(rows))
		for i, row := range rows {
			col[i] = row
		}
		return col, nil
	}
	if s, ok := v.([]any); ok {
		return s, nil
	}
	if v == nil {
		return nil, shapeErrorf(-1, "nil is not a sequence")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		col := make([]any, rv.Len())
		for i := range col {
			col[i] = rv.Index(i).Interface()
		}
		return col, nil
	}
	if IsRecord(v) {
		r, err := AsRecord(v)
		if err != nil {
			return nil, err
		}
		return column(r)
	}
	return nil, shapeErrorf(-1, "%T is not a sequence", v)
}

// Materialize converts a record, recursively, into plain Go values suitable
// for encoders: *Map becomes map[any]any, *Fields becomes map[string]any and
// []any elements are materialized in turn. Other values are returned as-is.
func Materialize(v any) any {
	switch t := v.(type) {
	case *Map:
		out := make(map[any]any, t.Len())
		for i, k := range t.keys {
			out[k] = Materialize(t.vals[i])
		}
		return out
	case *Fields:
		out := make(map[string]any, t.Len())
		for i, name := range t.schema.fields {
			out[name] = Materialize(t.vals[i])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Materialize(e)
		}
		return out
	default:
		return v
	}
}
