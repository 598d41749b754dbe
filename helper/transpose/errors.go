package transpose

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a transpose is asked for on an empty batch.
	ErrEmptyInput = errors.New("empty batch")

	// ErrShape is the sentinel wrapped by every *ShapeError.
	ErrShape = errors.New("shape mismatch")
)

// ShapeError reports an element that is not a record, or a batch whose records
// disagree on kind, keys or lengths. Index is the offending batch position, or
// -1 when the problem is not tied to a single element.
type ShapeError struct {
	Index  int
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("shape mismatch: %s", e.Reason)
	}
	return fmt.Sprintf("shape mismatch at element %d: %s", e.Index, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

func shapeErrorf(index int, format string, args ...any) *ShapeError {
	return &ShapeError{Index: index, Reason: fmt.Sprintf(format, args...)}
}
