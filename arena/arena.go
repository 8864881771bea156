// Package arena runs rounds between two fighters and the best-of match
// around them.
package arena

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/system"
	"github.com/milk9111/brawler/policy"
)

const (
	DefaultRoundTime       = 60 * time.Second
	DefaultLeftSpawnX      = 100.0
	DefaultRightSpawnInset = 200.0
	DefaultSpawnOffset     = 250.0
)

var (
	ErrNoSimulation = errors.New("arena: simulation is nil")
	ErrNoPolicy     = errors.New("arena: fighter has no control policy")
)

// Entry describes the fighter one side brings into a round.
type Entry struct {
	ID         string
	Character  string
	Kind       policy.Kind
	Policy     policy.Policy
	Tunables   component.Tunables
	Silhouette *component.Silhouette
}

// Config places both fighters and sets the round limit.
type Config struct {
	Round     int
	RoundTime time.Duration
	LeftX     float64
	RightX    float64
	SpawnY    float64
	Left      Entry
	Right     Entry
}

// DefaultConfig uses the standard spawn points for sim's playfield.
func DefaultConfig(sim *ecs.Simulation, left, right Entry) Config {
	return Config{
		Round:     1,
		RoundTime: DefaultRoundTime,
		LeftX:     sim.Bounds.L + DefaultLeftSpawnX,
		RightX:    sim.Bounds.R - DefaultRightSpawnInset,
		SpawnY:    sim.Bounds.T - DefaultSpawnOffset,
		Left:      left,
		Right:     right,
	}
}

// Arena is one round: two fighters, their projectiles and the round clock.
type Arena struct {
	sim   *ecs.Simulation
	world *ecs.World
	sched *ecs.Scheduler
	log   *zap.Logger

	fighters [2]ecs.Entity
	round    int
	start    time.Duration
	limit    time.Duration
	ticks    int

	events  []ecs.Event
	outcome Outcome
	over    bool
}

// New validates both entries and spawns their fighters. An invalid tunable
// fails here, before any tick runs.
func New(sim *ecs.Simulation, cfg Config, log *zap.Logger) (*Arena, error) {
	if sim == nil {
		return nil, ErrNoSimulation
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RoundTime <= 0 {
		cfg.RoundTime = DefaultRoundTime
	}
	if cfg.Round <= 0 {
		cfg.Round = 1
	}

	a := &Arena{
		sim:   sim,
		world: ecs.NewWorld(sim),
		sched: ecs.NewScheduler(
			system.NewControlSystem(),
			system.NewFighterSystem(),
			system.NewProjectileSystem(),
			system.NewCollisionSystem(),
			system.NewAnimationSystem(),
		),
		log:   log.With(zap.Int("round", cfg.Round)),
		round: cfg.Round,
		start: sim.Now(),
		limit: cfg.RoundTime,
	}

	spawns := [2]struct {
		side  component.Side
		entry Entry
		x     float64
	}{
		{component.SideLeft, cfg.Left, cfg.LeftX},
		{component.SideRight, cfg.Right, cfg.RightX},
	}
	for i, s := range spawns {
		e, err := a.spawn(s.side, s.entry, cp.Vector{X: s.x, Y: cfg.SpawnY})
		if err != nil {
			return nil, err
		}
		a.fighters[i] = e
	}
	return a, nil
}

func (a *Arena) spawn(side component.Side, entry Entry, at cp.Vector) (ecs.Entity, error) {
	if err := entry.Tunables.Validate(); err != nil {
		return 0, fmt.Errorf("arena: %s fighter %q: %w", side, entry.Character, err)
	}
	if entry.Policy == nil {
		return 0, fmt.Errorf("%w (%s)", ErrNoPolicy, side)
	}

	t := entry.Tunables
	if c, ok := entry.Policy.(policy.Cadenced); ok {
		cad := c.Cadence()
		if cad.Shoot > 0 {
			t.ShootCooldown = cad.Shoot
		}
		if cad.Melee > 0 {
			t.MeleeCooldown = cad.Melee
		}
		if cad.Burst > 0 {
			t.Burst = min(cad.Burst, 3)
		}
		if cad.MeleeDamage > 0 {
			t.MeleeDamage = cad.MeleeDamage
		}
		if cad.MeleeNudge > 0 {
			t.MeleeNudge = cad.MeleeNudge
		}
	}

	f := component.NewFighter(entry.ID, entry.Character, side, t)
	floor := a.sim.FloorY - t.Height
	pos := cp.Vector{X: a.sim.ClampX(at.X, t.Width), Y: min(at.Y, floor)}
	f.OnGround = pos.Y >= floor

	e := ecs.CreateEntity(a.world)
	if err := ecs.Add(a.world, e, component.FighterComponent.Kind(), f); err != nil {
		return 0, err
	}
	if err := ecs.Add(a.world, e, component.TransformComponent.Kind(), &component.Transform{Pos: pos}); err != nil {
		return 0, err
	}
	if err := ecs.Add(a.world, e, component.BodyComponent.Kind(), &component.Body{Width: t.Width, Height: t.Height, Silhouette: entry.Silhouette}); err != nil {
		return 0, err
	}
	if err := ecs.Add(a.world, e, component.ControlComponent.Kind(), &component.Control{Kind: entry.Kind, Policy: entry.Policy}); err != nil {
		return 0, err
	}

	a.log.Debug("fighter spawned",
		zap.Stringer("side", side),
		zap.String("character", entry.Character),
		zap.String("policy", string(entry.Kind)),
		zap.Float64("x", pos.X))
	return e, nil
}

// Step runs one tick: intents, fighters, projectiles, collisions and the
// render view, then advances the clock and checks for the end of the round.
// Buttons are only read by human-controlled sides. Once the round is over
// Step does nothing and keeps returning the outcome.
func (a *Arena) Step(left, right policy.Buttons) (Outcome, bool) {
	if a.over {
		return a.outcome, true
	}

	for i, b := range [2]policy.Buttons{left, right} {
		if ctrl, ok := ecs.Get(a.world, a.fighters[i], component.ControlComponent.Kind()); ok {
			ctrl.Buttons = b
		}
	}

	a.sched.Update(a.world)
	a.sim.Advance()
	a.ticks++
	a.events = a.world.Events().Drain()

	lh, rh := a.Fighter(component.SideLeft).Health, a.Fighter(component.SideRight).Health
	o, done := decide(lh, rh, a.Elapsed() >= a.limit)
	if !done {
		return Outcome{}, false
	}
	o.Round = a.round
	a.outcome, a.over = o, true
	a.log.Info("round over",
		zap.Stringer("winner", o.Winner),
		zap.Stringer("reason", o.Reason),
		zap.Int("left_health", lh),
		zap.Int("right_health", rh),
		zap.Int("ticks", a.ticks))
	return o, true
}

// Over reports the outcome once the round has ended.
func (a *Arena) Over() (Outcome, bool) {
	return a.outcome, a.over
}

// Fighter returns the live state of one side.
func (a *Arena) Fighter(side component.Side) *component.Fighter {
	f, _ := ecs.Get(a.world, a.Entity(side), component.FighterComponent.Kind())
	return f
}

// Entity returns the entity of one side's fighter.
func (a *Arena) Entity(side component.Side) ecs.Entity {
	if side == component.SideRight {
		return a.fighters[1]
	}
	return a.fighters[0]
}

// World exposes the entity store for renderers and tests.
func (a *Arena) World() *ecs.World { return a.world }

// Simulation returns the context the round runs in.
func (a *Arena) Simulation() *ecs.Simulation { return a.sim }

// Events returns what happened during the last tick.
func (a *Arena) Events() []ecs.Event { return a.events }

func (a *Arena) Round() int { return a.round }

func (a *Arena) Ticks() int { return a.ticks }

// Elapsed is the clock time since the round began.
func (a *Arena) Elapsed() time.Duration {
	return a.sim.Now() - a.start
}

// Remaining is the time left on the round clock, never negative.
func (a *Arena) Remaining() time.Duration {
	return max(a.limit-a.Elapsed(), 0)
}
