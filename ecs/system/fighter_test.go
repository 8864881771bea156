package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/policy"
)

func TestFighterMoveClampsToBounds(t *testing.T) {
	cases := []struct {
		name      string
		x         float64
		move      policy.Move
		wantX     float64
		wantState component.ActionState
		facing    component.Facing
	}{
		{"free_right", 500, policy.MoveRight, 510, component.ActionMoving, component.FacingRight},
		{"free_left", 500, policy.MoveLeft, 490, component.ActionMoving, component.FacingLeft},
		{"partial_left", 5, policy.MoveLeft, 0, component.ActionMoving, component.FacingLeft},
		{"blocked_left", 0, policy.MoveLeft, 0, component.ActionIdle, component.FacingLeft},
		{"blocked_right", testWidth - 350, policy.MoveRight, testWidth - 350, component.ActionIdle, component.FacingRight},
		{"none", 500, policy.MoveNone, 500, component.ActionIdle, component.FacingRight},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			e, f := spawnFighter(t, w, component.SideLeft, c.x)
			setIntent(t, w, e, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Move: c.move} })

			NewFighterSystem().Update(w)

			assert.InDelta(t, c.wantX, position(t, w, e).X, 1e-9)
			assert.Equal(t, c.wantState, f.State)
			assert.Equal(t, c.facing, f.Facing)
		})
	}
}

func TestFighterMovingFallsBackToIdle(t *testing.T) {
	w, _ := newTestWorld(t)
	e, f := spawnFighter(t, w, component.SideLeft, 500)
	sys := NewFighterSystem()

	setIntent(t, w, e, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Move: policy.MoveRight} })
	sys.Update(w)
	require.Equal(t, component.ActionMoving, f.State)

	setIntent(t, w, e, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{} })
	sys.Update(w)
	assert.Equal(t, component.ActionIdle, f.State)
	assert.False(t, f.Moving)
}

func TestFighterJumpRequiresGround(t *testing.T) {
	w, _ := newTestWorld(t)
	e, f := spawnFighter(t, w, component.SideLeft, 500)
	sys := NewFighterSystem()
	groundY := position(t, w, e).Y

	setIntent(t, w, e, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Jump: true} })
	sys.Update(w)

	require.Equal(t, component.ActionJumping, f.State)
	require.False(t, f.OnGround)
	assert.InDelta(t, -14.2, f.DY, 1e-9)
	assert.InDelta(t, groundY-14.2, position(t, w, e).Y, 1e-9)
	assert.Equal(t, 1, countEvents(w.Events().Drain(), ecs.EventJumped))

	// holding jump in the air does not re-trigger the impulse
	sys.Update(w)
	assert.InDelta(t, -13.4, f.DY, 1e-9)
	assert.Zero(t, countEvents(w.Events().Drain(), ecs.EventJumped))

	landed := false
	for i := 0; i < 120 && !landed; i++ {
		setIntent(t, w, e, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{} })
		sys.Update(w)
		landed = countEvents(w.Events().Drain(), ecs.EventLanded) > 0
	}
	require.True(t, landed)
	assert.True(t, f.OnGround)
	assert.Equal(t, component.ActionIdle, f.State)
	assert.InDelta(t, groundY, position(t, w, e).Y, 1e-9)
	assert.Zero(t, f.DY)
}

func TestFighterJumpFrameSaturates(t *testing.T) {
	w, _ := newTestWorld(t)
	e, f := spawnFighter(t, w, component.SideLeft, 500)
	f.Tunables.JumpFrames = 3
	sys := NewFighterSystem()

	setIntent(t, w, e, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Jump: true} })
	for i := 0; i < 5; i++ {
		sys.Update(w)
	}
	assert.Equal(t, component.ActionJumping, f.State)
	assert.InDelta(t, 2, f.JumpFrame, 1e-9)
}

// A melee at t=0 lands; a repeat at t=0.3s is dropped; t=0.5s lands again.
func TestFighterMeleeCooldown(t *testing.T) {
	w, clock := newTestWorld(t)
	a, fa := spawnFighter(t, w, component.SideLeft, 100)
	_, fb := spawnFighter(t, w, component.SideRight, 400)
	sys := NewFighterSystem()
	melee := func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Melee: true} }

	steps := []struct {
		at      time.Duration
		health  int
		attackX float64
	}{
		{0, 85, 110},
		{300 * time.Millisecond, 85, 110},
		{500 * time.Millisecond, 70, 120},
	}
	for _, s := range steps {
		clock.Set(s.at)
		setIntent(t, w, a, melee)
		sys.Update(w)
		assert.Equal(t, s.health, fb.Health, "at %s", s.at)
		assert.InDelta(t, s.attackX, position(t, w, a).X, 1e-9, "at %s", s.at)
	}
	assert.Equal(t, component.ActionHitting, fa.State)
	assert.Equal(t, 2, countEvents(w.Events().Drain(), ecs.EventMeleeHit))
}

func TestFighterMeleeOutOfReach(t *testing.T) {
	w, _ := newTestWorld(t)
	a, fa := spawnFighter(t, w, component.SideLeft, 100)
	_, fb := spawnFighter(t, w, component.SideRight, 1000)

	setIntent(t, w, a, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Melee: true} })
	NewFighterSystem().Update(w)

	assert.Equal(t, component.MaxHealth, fb.Health)
	assert.Equal(t, component.ActionHitting, fa.State)
	assert.InDelta(t, 110, position(t, w, a).X, 1e-9)
	_, used := fa.Melee.Last()
	assert.True(t, used)
}

func TestFighterHitEndsAfterClip(t *testing.T) {
	w, _ := newTestWorld(t)
	a, fa := spawnFighter(t, w, component.SideLeft, 100)
	spawnFighter(t, w, component.SideRight, 1000)
	fa.Tunables.HitFrames = 3
	sys := NewFighterSystem()

	setIntent(t, w, a, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Melee: true} })
	sys.Update(w)
	setIntent(t, w, a, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{} })
	sys.Update(w)
	require.Equal(t, component.ActionHitting, fa.State)
	sys.Update(w)
	assert.Equal(t, component.ActionIdle, fa.State)
	assert.Zero(t, fa.HitFrame)
}

func TestFighterShootBurst(t *testing.T) {
	cases := []struct {
		name     string
		shooter  component.Side
		wantSign float64
	}{
		{"left_fires_right", component.SideLeft, 1},
		{"right_fires_left", component.SideRight, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, clock := newTestWorld(t)
			a, _ := spawnFighter(t, w, component.SideLeft, 100)
			b, _ := spawnFighter(t, w, component.SideRight, 1000)
			shooter := a
			if c.shooter == component.SideRight {
				shooter = b
			}
			center := position(t, w, shooter)
			center.X += 175
			center.Y += 175

			sys := NewFighterSystem()
			setIntent(t, w, shooter, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Shoot: true} })
			sys.Update(w)

			shots := w.Query(component.ProjectileComponent.Kind())
			require.Len(t, shots, 3)
			for _, s := range shots {
				p, _ := ecs.Get(w, s, component.ProjectileComponent.Kind())
				assert.Equal(t, uint64(shooter), p.Owner)
				assert.Equal(t, c.shooter, p.OwnerSide)
				assert.InDelta(t, 7.5*c.wantSign, p.VX, 1e-9)
				assert.Equal(t, c.wantSign < 0, p.Mirrored)
				pos := position(t, w, s)
				assert.GreaterOrEqual(t, pos.X, center.X+10)
				assert.LessOrEqual(t, pos.X, center.X+50)
				assert.InDelta(t, center.Y, pos.Y, 20)
			}
			assert.Equal(t, 1, countEvents(w.Events().Drain(), ecs.EventShot))

			// still cooling down
			clock.Set(499 * time.Millisecond)
			sys.Update(w)
			assert.Len(t, w.Query(component.ProjectileComponent.Kind()), 3)

			clock.Set(500 * time.Millisecond)
			sys.Update(w)
			assert.Len(t, w.Query(component.ProjectileComponent.Kind()), 6)
		})
	}
}
