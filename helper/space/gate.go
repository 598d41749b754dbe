package space

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Gate is a concurrency-safe admission gate over a Container. Admission never
// blocks: TryAcquire either hands out a Lease or reports that the gate is full
// (or, when paced, that the rate budget is spent).
type Gate struct {
	mu      sync.Mutex
	slots   *Container
	limiter *rate.Limiter
	ids     io.Reader
	now     func() time.Time
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithRate additionally caps admissions at perSecond with the given burst.
func WithRate(perSecond float64, burst int) GateOption {
	return func(g *Gate) { g.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithIDSource draws lease IDs from r instead of crypto/rand, which makes them
// reproducible when r is seeded.
func WithIDSource(r io.Reader) GateOption {
	return func(g *Gate) { g.ids = r }
}

// WithClock replaces time.Now for the rate limiter.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a gate with maxVal slots, all free.
func NewGate(maxVal int, opts ...GateOption) *Gate {
	g := &Gate{
		slots: NewContainer(0, maxVal),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Lease is one admitted slot. Release returns it to the gate; calling Release
// more than once has no further effect.
type Lease struct {
	ID   uuid.UUID
	gate *Gate
	once sync.Once
}

func (l *Lease) Release() {
	l.once.Do(func() {
		l.gate.mu.Lock()
		defer l.gate.mu.Unlock()
		l.gate.slots.ReleaseSpace()
	})
}

// TryAcquire admits one unit of work if a slot is free and the rate budget
// allows it.
func (g *Gate) TryAcquire() (*Lease, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.slots.ResidualSpace() <= 0 {
		return nil, false
	}
	if g.limiter != nil && !g.limiter.AllowN(g.now(), 1) {
		return nil, false
	}
	id, err := g.newID()
	if err != nil {
		logrus.WithError(err).Warn("space: generating lease id failed, rejecting admission")
		return nil, false
	}
	g.slots.AcquireSpace()
	return &Lease{ID: id, gate: g}, true
}

func (g *Gate) newID() (uuid.UUID, error) {
	if g.ids == nil {
		return uuid.NewRandom()
	}
	return uuid.NewRandomFromReader(g.ids)
}

// Resize grows (delta > 0) or shrinks (delta < 0) capacity and returns the new
// capacity. Shrinking stops at the number of slots in use.
func (g *Gate) Resize(delta int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	for ; delta > 0; delta-- {
		g.slots.IncreaseSpace()
	}
	for ; delta < 0; delta++ {
		if !g.slots.DecreaseSpace() {
			break
		}
	}
	return g.slots.Max()
}

// Residual returns the number of free slots.
func (g *Gate) Residual() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slots.ResidualSpace()
}

// InUse returns the number of outstanding leases.
func (g *Gate) InUse() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slots.Cur()
}

// Capacity returns the current number of slots.
func (g *Gate) Capacity() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slots.Max()
}
