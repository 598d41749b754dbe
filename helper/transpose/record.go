package transpose

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind distinguishes the two record shapes.
type Kind int

const (
	// KindMap is an ordered key/value record.
	KindMap Kind = iota
	// KindFields is a fixed-field record described by a Schema.
	KindFields
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindFields:
		return "fields"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Record is one batch element. The set of implementations is closed: *Map and
// *Fields.
type Record interface {
	Kind() Kind
	// Keys returns the keys in record order. For *Fields these are the field
	// names as strings.
	Keys() []any
	Get(key any) (any, bool)
	Len() int

	// rebuild returns a record with the same shape holding values, which are
	// given in Keys() order.
	rebuild(values []any) Record
	// sameShape reports whether other has the same kind and key set.
	sameShape(other Record) bool
}

// === Map ===

// Map is an ordered key/value record. Keys must be comparable.
// The zero value is an empty map ready for use.
type Map struct {
	keys  []any
	index map[any]int
	vals  []any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{index: make(map[any]int)}
}

// Set inserts or replaces key. New keys are appended to the key order.
// Panics if key is not comparable.
func (m *Map) Set(key, value any) *Map {
	if key != nil && !reflect.TypeOf(key).Comparable() {
		panic(fmt.Sprintf("transpose: map key of type %T is not comparable", key))
	}
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return m
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
	return m
}

func (m *Map) Kind() Kind { return KindMap }

func (m *Map) Keys() []any { return append([]any(nil), m.keys...) }

// Values returns the values in key order.
func (m *Map) Values() []any { return append([]any(nil), m.vals...) }

func (m *Map) Get(key any) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) rebuild(values []any) Record {
	out := &Map{
		keys:  append([]any(nil), m.keys...),
		index: make(map[any]int, len(m.keys)),
		vals:  values,
	}
	for i, k := range out.keys {
		out.index[k] = i
	}
	return out
}

func (m *Map) sameShape(other Record) bool {
	o, ok := other.(*Map)
	if !ok || o.Len() != m.Len() {
		return false
	}
	for _, k := range m.keys {
		if _, ok := o.index[k]; !ok {
			return false
		}
	}
	return true
}

func (m *Map) String() string {
	parts := make([]string, len(m.keys))
	for i, k := range m.keys {
		parts[i] = fmt.Sprintf("%v:%v", k, m.vals[i])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// === Schema / Fields ===

// Schema is a named, ordered list of field names. Two Fields records share a
// layout only if they point at the same *Schema.
type Schema struct {
	name   string
	fields []string
	index  map[string]int
}

// NewSchema creates a schema. Panics on duplicate field names.
func NewSchema(name string, fields ...string) *Schema {
	s := &Schema{name: name, fields: append([]string(nil), fields...), index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.index[f]; dup {
			panic(fmt.Sprintf("transpose: duplicate field %q in schema %q", f, name))
		}
		s.index[f] = i
	}
	return s
}

func (s *Schema) Name() string { return s.name }

func (s *Schema) Fields() []string { return append([]string(nil), s.fields...) }

// New builds a record of this schema. values are positional.
func (s *Schema) New(values ...any) (*Fields, error) {
	if len(values) != len(s.fields) {
		return nil, shapeErrorf(-1, "schema %s has %d fields, got %d values", s.name, len(s.fields), len(values))
	}
	return &Fields{schema: s, vals: append([]any(nil), values...)}, nil
}

// Fields is a record with a fixed field layout.
type Fields struct {
	schema *Schema
	vals   []any
}

func (f *Fields) Schema() *Schema { return f.schema }

func (f *Fields) Kind() Kind { return KindFields }

func (f *Fields) Keys() []any {
	keys := make([]any, len(f.schema.fields))
	for i, name := range f.schema.fields {
		keys[i] = name
	}
	return keys
}

// Field returns the value of the named field, or nil if the schema has no such
// field.
func (f *Fields) Field(name string) any {
	v, _ := f.Get(name)
	return v
}

// Values returns the field values in schema order.
func (f *Fields) Values() []any { return append([]any(nil), f.vals...) }

func (f *Fields) Get(key any) (any, bool) {
	name, ok := key.(string)
	if !ok {
		return nil, false
	}
	i, ok := f.schema.index[name]
	if !ok {
		return nil, false
	}
	return f.vals[i], true
}

func (f *Fields) Len() int { return len(f.vals) }

func (f *Fields) rebuild(values []any) Record {
	return &Fields{schema: f.schema, vals: values}
}

func (f *Fields) sameShape(other Record) bool {
	o, ok := other.(*Fields)
	return ok && o.schema == f.schema
}

func (f *Fields) String() string {
	parts := make([]string, len(f.vals))
	for i, name := range f.schema.fields {
		parts[i] = fmt.Sprintf("%s:%v", name, f.vals[i])
	}
	return f.schema.name + "{" + strings.Join(parts, " ") + "}"
}
