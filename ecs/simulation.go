package ecs

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jakecoffman/cp"
)

// DefaultTickRate is the fixed frame rate the simulation is tuned for.
const DefaultTickRate = 60

// Clock supplies the time cooldowns and round timers are measured against.
// Only differences between readings matter.
type Clock interface {
	Now() time.Duration
}

// ManualClock only moves when told to. The arena advances it by one tick per
// step so headless runs and tests are deterministic.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// WallClock reads the monotonic clock relative to its creation.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}

// Simulation is the explicit context every system reads instead of package
// globals: arena bounds, floor line, tick rate, clock and random source.
type Simulation struct {
	// Bounds is the playfield in screen coordinates: L/R are the horizontal
	// edges, B is the top edge and T the bottom edge (y grows downward).
	Bounds   cp.BB
	FloorY   float64
	TickRate int

	clock Clock
	rng   *rand.Rand
}

// NewSimulation builds a context. A nil clock becomes a ManualClock and a nil
// rng is seeded from the wall clock.
func NewSimulation(bounds cp.BB, floorY float64, tickRate int, clock Clock, rng *rand.Rand) *Simulation {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if clock == nil {
		clock = &ManualClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulation{
		Bounds:   bounds,
		FloorY:   floorY,
		TickRate: tickRate,
		clock:    clock,
		rng:      rng,
	}
}

// Now returns the current clock reading.
func (s *Simulation) Now() time.Duration {
	return s.clock.Now()
}

// Clock returns the injected clock.
func (s *Simulation) Clock() Clock {
	return s.clock
}

// Rand returns the shared random source. The simulation is single threaded,
// so no locking is done.
func (s *Simulation) Rand() *rand.Rand {
	return s.rng
}

// TickDuration is the length of one frame.
func (s *Simulation) TickDuration() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Advance moves a ManualClock forward by one tick. Other clocks keep their
// own time and are left alone.
func (s *Simulation) Advance() {
	if mc, ok := s.clock.(*ManualClock); ok {
		mc.Advance(s.TickDuration())
	}
}

// Width is the horizontal extent of the playfield.
func (s *Simulation) Width() float64 {
	return s.Bounds.R - s.Bounds.L
}

// ClampX keeps a box of width w inside the horizontal bounds.
func (s *Simulation) ClampX(x, w float64) float64 {
	return cp.Clamp(x, s.Bounds.L, s.Bounds.R-w)
}
