package helper

import (
	"fmt"
	"slices"
)

// ListSplit cuts data into consecutive chunks of exactly step elements. The
// trailing under-sized remainder is returned as residual, which is nil when
// len(data) is a multiple of step. Chunks are copies. Panics if step <= 0.
func ListSplit[T any](data []T, step int) (chunks [][]T, residual []T) {
	if step <= 0 {
		panic(fmt.Sprintf("helper: ListSplit step must be positive, got %d", step))
	}
	full := len(data) - len(data)%step
	chunks = make([][]T, 0, full/step)
	for i := 0; i < full; i += step {
		chunks = append(chunks, slices.Clone(data[i:i+step]))
	}
	if full < len(data) {
		residual = slices.Clone(data[full:])
	}
	return chunks, residual
}
