package transpose

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// schemaCache maps a struct reflect.Type to its *Schema so records built from
// the same struct type share a layout.
var schemaCache sync.Map

// AsRecord adapts v into a Record:
//   - a Record is returned as-is
//   - any Go map becomes a *Map with keys in sorted order
//   - a struct or non-nil pointer to struct becomes a *Fields over its exported fields
//
// Anything else yields a *ShapeError.
func AsRecord(v any) (Record, error) {
	if r, ok := v.(Record); ok {
		return r, nil
	}
	if v == nil {
		return nil, shapeErrorf(-1, "nil is not a record")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return mapFromValue(rv), nil
	case reflect.Struct:
		return fieldsFromValue(rv), nil
	default:
		return nil, shapeErrorf(-1, "%T is not a record", v)
	}
}

// IsRecord reports whether AsRecord would accept v.
func IsRecord(v any) bool {
	if _, ok := v.(Record); ok {
		return true
	}
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return true
	case reflect.Pointer:
		return !rv.IsNil() && rv.Elem().Kind() == reflect.Struct
	default:
		return false
	}
}

// SchemaOf returns the cached schema for a struct type. The schema name is the
// type's name; fields are the exported fields in declaration order.
func SchemaOf(t reflect.Type) *Schema {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("transpose: SchemaOf(%s): not a struct type", t))
	}
	if s, ok := schemaCache.Load(t); ok {
		return s.(*Schema)
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.IsExported() {
			names = append(names, f.Name)
		}
	}
	s, _ := schemaCache.LoadOrStore(t, NewSchema(t.Name(), names...))
	return s.(*Schema)
}

func fieldsFromValue(rv reflect.Value) *Fields {
	schema := SchemaOf(rv.Type())
	vals := make([]any, 0, len(schema.fields))
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			vals = append(vals, rv.Field(i).Interface())
		}
	}
	return &Fields{schema: schema, vals: vals}
}

func mapFromValue(rv reflect.Value) *Map {
	keys := SortedKeys(rv)
	m := &Map{
		keys:  make([]any, 0, len(keys)),
		index: make(map[any]int, len(keys)),
		vals:  make([]any, 0, len(keys)),
	}
	for _, k := range keys {
		m.index[k.Interface()] = len(m.keys)
		m.keys = append(m.keys, k.Interface())
		m.vals = append(m.vals, rv.MapIndex(k).Interface())
	}
	return m
}

// SortedKeys returns the keys of map value rv in a deterministic order:
// numeric and string keys by value, everything else by its printed form.
func SortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.String:
			return cmp.Compare(a.String(), b.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.Bool:
			return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
		}
	}
	return cmp.Compare(printKey(a), printKey(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func printKey(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}
	return fmt.Sprintf("%T:%v", v.Interface(), v.Interface())
}
