package helper

import (
	"reflect"

	"github.com/helperkit/helperkit/helper/transpose"
)

// Squeeze normalizes a container holding values:
//   - exactly one element or entry: that element (the value, for maps and records)
//   - any other count: a []any of the values in iteration order; map entries
//     are ordered by key, records by their key order
//
// Only records and unnamed slice, array and map types count as containers.
// Scalars and named types, such as type Vector []float64, are returned
// unchanged.
func Squeeze(v any) any {
	if r, ok := v.(transpose.Record); ok {
		vals := make([]any, 0, r.Len())
		for _, k := range r.Keys() {
			e, _ := r.Get(k)
			vals = append(vals, e)
		}
		return squeezeValues(vals)
	}
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().Name() != "" {
		return v
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		vals := make([]any, rv.Len())
		for i := range vals {
			vals[i] = rv.Index(i).Interface()
		}
		return squeezeValues(vals)
	case reflect.Map:
		keys := transpose.SortedKeys(rv)
		vals := make([]any, len(keys))
		for i, k := range keys {
			vals[i] = rv.MapIndex(k).Interface()
		}
		return squeezeValues(vals)
	default:
		return v
	}
}

func squeezeValues(vals []any) any {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals
}
