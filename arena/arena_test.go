package arena

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/system"
	"github.com/milk9111/brawler/policy"
	"github.com/milk9111/brawler/stats"
)

// fixed always wants the same thing.
type fixed struct{ in policy.Intent }

func (f fixed) Decide(self, opponent policy.View) policy.Intent { return f.in }

func tunables() component.Tunables {
	return component.Tunables{
		Speed: 10, JumpSpeed: -15, Gravity: 0.8,
		Width: 350, Height: 350, AnimationSpeed: 1.1,
		RunFrames: 20, JumpFrames: 49, HitFrames: 37, IdleFrames: 55,
		MeleeDamage: 15, MeleeNudge: 10,
		MeleeCooldown: 500 * time.Millisecond,
		ShootCooldown: 500 * time.Millisecond,
		Burst:         3,
		Projectile: component.ProjectileTunables{
			Type: "ton", Speed: 7.5, Width: 45, Height: 45, Frames: 155, Damage: 1,
		},
	}
}

func entry(id string, p policy.Policy) Entry {
	return Entry{ID: id, Character: "durov", Kind: policy.KindHuman, Policy: p, Tunables: tunables()}
}

func newSim(seed int64) (*ecs.Simulation, *ecs.ManualClock) {
	clock := &ecs.ManualClock{}
	sim := ecs.NewSimulation(cp.BB{L: 0, B: 0, R: 1920, T: 1080}, 980, ecs.DefaultTickRate, clock, rand.New(rand.NewSource(seed)))
	return sim, clock
}

func idleArena(t *testing.T, sim *ecs.Simulation) *Arena {
	t.Helper()
	a, err := New(sim, DefaultConfig(sim, entry("alice", fixed{}), entry("bob", fixed{})), nil)
	require.NoError(t, err)
	return a
}

func TestNewSpawnsOnFloorInsideBounds(t *testing.T) {
	sim, _ := newSim(1)
	a := idleArena(t, sim)

	left := a.Snapshot().Fighters[0]
	right := a.Snapshot().Fighters[1]
	assert.Equal(t, 100.0, left.X)
	// 1920-200 would overhang the edge, so it is pulled back in
	assert.Equal(t, 1570.0, right.X)
	assert.Equal(t, 630.0, left.Y)
	assert.True(t, left.OnGround)
	assert.Equal(t, "right", left.Facing)
	assert.Equal(t, "left", right.Facing)
	assert.Equal(t, component.MaxHealth, a.Fighter(component.SideLeft).Health)
	assert.Equal(t, DefaultRoundTime, a.Remaining())
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	sim, _ := newSim(1)

	_, err := New(nil, Config{}, nil)
	require.ErrorIs(t, err, ErrNoSimulation)

	bad := entry("alice", fixed{})
	bad.Tunables.Speed = 0
	_, err = New(sim, DefaultConfig(sim, bad, entry("bob", fixed{})), nil)
	var cfgErr *component.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "speed", cfgErr.Field)

	_, err = New(sim, DefaultConfig(sim, entry("alice", nil), entry("bob", fixed{})), nil)
	require.ErrorIs(t, err, ErrNoPolicy)
}

func TestNewAppliesBotCadence(t *testing.T) {
	sim, _ := newSim(1)
	bot := policy.NewAggressive(policy.DefaultAggressiveParams(), sim.Rand())
	a, err := New(sim, DefaultConfig(sim, entry("alice", fixed{}), entry("bot", bot)), nil)
	require.NoError(t, err)

	f := a.Fighter(component.SideRight)
	assert.Equal(t, 200*time.Millisecond, f.Shoot.Duration)
	assert.Equal(t, time.Second, f.Melee.Duration)
	assert.Equal(t, 10, f.Tunables.MeleeDamage)
	assert.Equal(t, 15.0, f.Tunables.MeleeNudge)
	assert.Equal(t, 500*time.Millisecond, a.Fighter(component.SideLeft).Shoot.Duration)
}

// A projectile from A overlapping B for one tick costs B one point.
func TestScenarioProjectileHit(t *testing.T) {
	sim, _ := newSim(1)
	a := idleArena(t, sim)
	left, right := a.Fighter(component.SideLeft), a.Fighter(component.SideRight)
	right.Health = 5

	rp := a.Snapshot().Fighters[1]
	system.SpawnProjectile(a.World(), a.Entity(component.SideLeft), left, cp.Vector{X: rp.X + 100, Y: rp.Y + 100}, 1)

	_, over := a.Step(policy.Buttons{}, policy.Buttons{})

	assert.False(t, over)
	assert.Equal(t, 4, right.Health)
	assert.Equal(t, component.MaxHealth, left.Health)
	assert.Empty(t, a.Snapshot().Projectiles)
}

func TestRoundOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		left       int
		right      int
		timeUp     bool
		wantOver   bool
		wantWinner Winner
		wantReason Reason
	}{
		{"running", 60, 40, false, false, WinnerDraw, 0},
		{"time_up_left_ahead", 60, 40, true, true, WinnerLeft, ReasonTimeUp},
		{"time_up_right_ahead", 10, 40, true, true, WinnerRight, ReasonTimeUp},
		{"time_up_level", 50, 50, true, true, WinnerDraw, ReasonTimeUp},
		{"left_ko", 0, 40, false, true, WinnerRight, ReasonKO},
		{"right_ko", 70, 0, true, true, WinnerLeft, ReasonKO},
		{"double_ko", 0, 0, false, true, WinnerDraw, ReasonDoubleKO},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sim, clock := newSim(1)
			a := idleArena(t, sim)
			a.Fighter(component.SideLeft).Health = c.left
			a.Fighter(component.SideRight).Health = c.right
			if c.timeUp {
				clock.Set(DefaultRoundTime)
			}

			o, over := a.Step(policy.Buttons{}, policy.Buttons{})

			require.Equal(t, c.wantOver, over)
			if !over {
				return
			}
			assert.Equal(t, c.wantWinner, o.Winner)
			assert.Equal(t, c.wantReason, o.Reason)
			assert.Equal(t, 1, o.Round)

			// a finished round ignores further ticks
			ticks := a.Ticks()
			again, stillOver := a.Step(policy.Buttons{}, policy.Buttons{})
			assert.True(t, stillOver)
			assert.Equal(t, o, again)
			assert.Equal(t, ticks, a.Ticks())
		})
	}
}

// Both fighters drop to zero in the same tick: a draw.
func TestScenarioDoubleKnockOut(t *testing.T) {
	sim, _ := newSim(1)
	a := idleArena(t, sim)
	left, right := a.Fighter(component.SideLeft), a.Fighter(component.SideRight)
	left.Health, right.Health = 1, 1

	snap := a.Snapshot()
	lp, rp := snap.Fighters[0], snap.Fighters[1]
	system.SpawnProjectile(a.World(), a.Entity(component.SideLeft), left, cp.Vector{X: rp.X + 100, Y: rp.Y + 100}, 1)
	system.SpawnProjectile(a.World(), a.Entity(component.SideRight), right, cp.Vector{X: lp.X + 100, Y: lp.Y + 100}, -1)

	o, over := a.Step(policy.Buttons{}, policy.Buttons{})

	require.True(t, over)
	assert.Equal(t, WinnerDraw, o.Winner)
	assert.Equal(t, ReasonDoubleKO, o.Reason)
	assert.Equal(t, 2, countKind(a.Events(), ecs.EventKnockedOut))
}

// Melee at 0s lands, at 0.3s is dropped, at 0.5s lands again.
func TestScenarioMeleeCooldown(t *testing.T) {
	sim, clock := newSim(1)
	cfg := DefaultConfig(sim, entry("alice", fixed{policy.Intent{Melee: true}}), entry("bob", fixed{}))
	cfg.RightX = 400
	a, err := New(sim, cfg, nil)
	require.NoError(t, err)
	right := a.Fighter(component.SideRight)

	a.Step(policy.Buttons{}, policy.Buttons{})
	assert.Equal(t, 85, right.Health)

	clock.Set(300 * time.Millisecond)
	a.Step(policy.Buttons{}, policy.Buttons{})
	assert.Equal(t, 85, right.Health)

	clock.Set(500 * time.Millisecond)
	a.Step(policy.Buttons{}, policy.Buttons{})
	assert.Equal(t, 70, right.Health)
}

func TestHumanButtonsDriveFighter(t *testing.T) {
	sim, _ := newSim(1)
	a, err := New(sim, DefaultConfig(sim, entry("alice", &policy.Human{}), entry("bob", &policy.Human{})), nil)
	require.NoError(t, err)

	a.Step(policy.Buttons{}.With(policy.ActionRight, true), policy.Buttons{}.With(policy.ActionLeft, true))

	snap := a.Snapshot()
	assert.Equal(t, 110.0, snap.Fighters[0].X)
	assert.Equal(t, 1560.0, snap.Fighters[1].X)
	assert.Equal(t, "moving", snap.Fighters[0].State)
	assert.Equal(t, "run", snap.Fighters[0].Clip)
}

func TestSnapshotJSON(t *testing.T) {
	sim, _ := newSim(1)
	a := idleArena(t, sim)
	a.Step(policy.Buttons{}, policy.Buttons{})

	data, err := json.Marshal(a.Snapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 1, decoded["round"])
	fighters, ok := decoded["fighters"].([]any)
	require.True(t, ok)
	require.Len(t, fighters, 2)
	assert.Equal(t, "alice", fighters[0].(map[string]any)["id"])
	assert.InDelta(t, 60, decoded["remaining"], 0.1)
}

func countKind(events []ecs.Event, kind ecs.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestBotMatchKeepsInvariants(t *testing.T) {
	sim, _ := newSim(42)
	factory := func(round int) (*Arena, error) {
		left := entry("aggro", policy.NewAggressive(policy.DefaultAggressiveParams(), sim.Rand()))
		left.Kind = policy.KindAggressive
		right := entry("turtle", policy.NewDefensive(policy.DefaultDefensiveParams(), sim.Rand()))
		right.Kind = policy.KindDefensive
		cfg := DefaultConfig(sim, left, right)
		cfg.Round = round
		return New(sim, cfg, nil)
	}
	rec := stats.NewMemoryStore()
	m, err := NewMatch(factory, DefaultRules(), rec, nil)
	require.NoError(t, err)

	limit := DefaultMaxRounds * (int(DefaultRoundTime/sim.TickDuration()) + 2)
	state := StateRoundInProgress
	for i := 0; i < limit && state != StateMatchEnded; i++ {
		state, err = m.Step(Inputs{})
		require.NoError(t, err)

		for _, f := range m.Arena().Snapshot().Fighters {
			require.GreaterOrEqual(t, f.Health, 0)
			require.LessOrEqual(t, f.Health, component.MaxHealth)
			require.GreaterOrEqual(t, f.X, 0.0)
			require.LessOrEqual(t, f.X+f.Width, 1920.0)
			require.LessOrEqual(t, f.Y+f.Height, 980.0+1e-9)
		}
	}
	require.Equal(t, StateMatchEnded, state)

	res, done := m.Result()
	require.True(t, done)
	if res.Winner != WinnerDraw {
		assert.Equal(t, 1, rec.Stats(res.WinnerID).Wins)
		assert.Equal(t, 1, rec.Stats(res.LoserID).Losses)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sim, _ := newSim(1)
	m, err := NewMatch(func(int) (*Arena, error) { return idleArena(t, sim), nil }, DefaultRules(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Run(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	_, done := m.Result()
	assert.False(t, done)
}
