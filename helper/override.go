package helper

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNaming is wrapped by every *NamingError.
var ErrNaming = errors.New("method not found")

// NamingError reports a method claimed as an override that the parent type
// does not declare.
type NamingError struct {
	Type   string
	Method string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("%s has no method %s to override", e.Type, e.Method)
}

func (e *NamingError) Unwrap() error { return ErrNaming }

// Override checks that parent declares a method called method. parent is a
// value of the parent type, a reflect.Type, or a nil interface pointer such as
// (*io.Reader)(nil) to name an interface. For concrete types the pointer
// method set is included.
//
// Intended for package-level declarations next to the overriding type:
//
//	var _ = helper.MustOverride(Base{}, "Step")
func Override(parent any, method string) error {
	t := capabilityType(parent)
	if t == nil {
		return &NamingError{Type: "<nil>", Method: method}
	}
	if hasMethod(t, method) {
		return nil
	}
	return &NamingError{Type: t.String(), Method: method}
}

// MustOverride is Override for package initialization; it panics with the
// *NamingError and otherwise returns true.
func MustOverride(parent any, method string) bool {
	if err := Override(parent, method); err != nil {
		panic(err)
	}
	return true
}

// VerifyOverrides checks every method against both parent and child, so a
// renamed method on either side is caught.
func VerifyOverrides(parent, child any, methods ...string) error {
	var errs []error
	for _, m := range methods {
		if err := Override(parent, m); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := Override(child, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func capabilityType(v any) reflect.Type {
	if t, ok := v.(reflect.Type); ok {
		return t
	}
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		return t.Elem()
	}
	return t
}

func hasMethod(t reflect.Type, name string) bool {
	if _, ok := t.MethodByName(name); ok {
		return true
	}
	if t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer {
		_, ok := reflect.PointerTo(t).MethodByName(name)
		return ok
	}
	return false
}
