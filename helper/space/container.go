// Package space tracks a resizable pool of admission slots.
//
// Container is the bare counter and is NOT safe for concurrent use; callers
// that share one across goroutines must serialize access themselves. Gate
// wraps a Container with a mutex, optional pacing and releasable leases.
package space

import "fmt"

// Container counts allocated slots in a pool whose capacity can grow and
// shrink at runtime.
//
// Invariant: min <= cur <= max after every method returns.
type Container struct {
	cur    int
	minVal int
	maxVal int
}

// NewContainer creates a Container with cur starting at minVal.
// Panics if minVal > maxVal.
func NewContainer(minVal, maxVal int) *Container {
	if minVal > maxVal {
		panic(fmt.Sprintf("space: min %d exceeds max %d", minVal, maxVal))
	}
	return &Container{cur: minVal, minVal: minVal, maxVal: maxVal}
}

// AcquireSpace takes one slot if any is free and reports whether it did.
func (c *Container) AcquireSpace() bool {
	if c.cur >= c.maxVal {
		return false
	}
	c.cur++
	return true
}

// ReleaseSpace returns one slot. Releasing at the floor is a no-op.
func (c *Container) ReleaseSpace() {
	c.cur = max(c.minVal, c.cur-1)
}

// ResidualSpace returns the number of free slots. It has no side effects.
func (c *Container) ResidualSpace() int {
	return c.maxVal - c.cur
}

// AcquireResidual takes every free slot at once and returns how many it took.
func (c *Container) AcquireResidual() int {
	n := c.maxVal - c.cur
	c.cur = c.maxVal
	return n
}

// IncreaseSpace adds one slot of capacity.
func (c *Container) IncreaseSpace() {
	c.maxVal++
}

// DecreaseSpace removes one slot of capacity. Capacity never drops below the
// slots currently held; in that case nothing changes and it returns false.
func (c *Container) DecreaseSpace() bool {
	if c.maxVal <= c.cur {
		return false
	}
	c.maxVal--
	return true
}

func (c *Container) Cur() int { return c.cur }
func (c *Container) Min() int { return c.minVal }
func (c *Container) Max() int { return c.maxVal }

func (c *Container) String() string {
	return fmt.Sprintf("space{cur=%d min=%d max=%d}", c.cur, c.minVal, c.maxVal)
}
