package helper

import (
	"errors"
	"fmt"
)

// ErrPrecondition is wrapped by every *PreconditionError.
var ErrPrecondition = errors.New("precondition violated")

// PreconditionError is the panic value raised when a helper is misused.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return "precondition violated: " + e.Reason }

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

type getConfig[V any] struct {
	def    V
	hasDef bool
	fn     func() V
	judge  func(V) bool
}

// GetOption configures DefaultGet.
type GetOption[V any] func(*getConfig[V])

// WithDefault sets the value returned when the key is absent.
func WithDefault[V any](v V) GetOption[V] {
	return func(c *getConfig[V]) { c.def, c.hasDef = v, true }
}

// WithDefaultFn computes the value returned when the key is absent. It takes
// precedence over WithDefault and is only called when needed.
func WithDefaultFn[V any](fn func() V) GetOption[V] {
	return func(c *getConfig[V]) { c.fn = fn }
}

// WithJudge requires the resolved value, retrieved or defaulted, to satisfy fn.
func WithJudge[V any](fn func(V) bool) GetOption[V] {
	return func(c *getConfig[V]) { c.judge = fn }
}

// DefaultGet returns m[key] if present, else the configured default.
//
// Panics with a *PreconditionError when key is absent and no default was
// configured, or when the judge rejects the resolved value.
func DefaultGet[K comparable, V any](m map[K]V, key K, opts ...GetOption[V]) V {
	var c getConfig[V]
	for _, opt := range opts {
		opt(&c)
	}

	v, ok := m[key]
	if !ok {
		switch {
		case c.fn != nil:
			v = c.fn()
		case c.hasDef:
			v = c.def
		default:
			panic(&PreconditionError{Reason: fmt.Sprintf("key %v absent and no default given", key)})
		}
	}
	if c.judge != nil && !c.judge(v) {
		panic(&PreconditionError{Reason: fmt.Sprintf("value %v for key %v rejected by judge", v, key)})
	}
	return v
}
