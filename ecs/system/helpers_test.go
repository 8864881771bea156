package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

const (
	testWidth  = 1920.0
	testHeight = 1080.0
	testFloor  = testHeight - 100
)

func testTunables() component.Tunables {
	return component.Tunables{
		Speed:          10,
		JumpSpeed:      -15,
		Gravity:        0.8,
		Width:          350,
		Height:         350,
		AnimationSpeed: 1.1,
		RunFrames:      20,
		JumpFrames:     49,
		HitFrames:      37,
		IdleFrames:     55,
		MeleeDamage:    15,
		MeleeNudge:     10,
		MeleeCooldown:  500 * time.Millisecond,
		ShootCooldown:  500 * time.Millisecond,
		Burst:          3,
		Projectile: component.ProjectileTunables{
			Type:   "ton",
			Speed:  7.5,
			Width:  45,
			Height: 45,
			Frames: 155,
			Damage: 1,
		},
	}
}

func newTestWorld(t *testing.T) (*ecs.World, *ecs.ManualClock) {
	t.Helper()
	clock := &ecs.ManualClock{}
	sim := ecs.NewSimulation(cp.BB{L: 0, B: 0, R: testWidth, T: testHeight}, testFloor, ecs.DefaultTickRate, clock, rand.New(rand.NewSource(7)))
	return ecs.NewWorld(sim), clock
}

// spawnFighter places a grounded fighter with its left edge at x.
func spawnFighter(t *testing.T, w *ecs.World, side component.Side, x float64) (ecs.Entity, *component.Fighter) {
	t.Helper()
	tun := testTunables()
	e := ecs.CreateEntity(w)
	f := component.NewFighter(side.String(), "durov", side, tun)
	f.OnGround = true
	require.NoError(t, ecs.Add(w, e, component.FighterComponent.Kind(), f))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Pos: cp.Vector{X: x, Y: testFloor - tun.Height}}))
	require.NoError(t, ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: tun.Width, Height: tun.Height}))
	require.NoError(t, ecs.Add(w, e, component.ControlComponent.Kind(), &component.Control{}))
	return e, f
}

func setIntent(t *testing.T, w *ecs.World, e ecs.Entity, in func(*component.Control)) {
	t.Helper()
	ctrl, ok := ecs.Get(w, e, component.ControlComponent.Kind())
	require.True(t, ok)
	in(ctrl)
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) cp.Vector {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	return tr.Pos
}

func countEvents(events []ecs.Event, kind ecs.EventKind) int {
	n := 0
	for _, evt := range events {
		if evt.Kind == kind {
			n++
		}
	}
	return n
}
