package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// Burst fan geometry.
const (
	burstSpacing = 10.0
	jitterMinX   = 10
	jitterMaxX   = 50
	jitterY      = 10
	maxBurst     = 3
)

// FighterSystem runs each fighter's state machine against the intent the
// control system stored, then fires shots and integrates gravity.
type FighterSystem struct{}

func NewFighterSystem() *FighterSystem {
	return &FighterSystem{}
}

func (s *FighterSystem) Update(w *ecs.World) {
	if w == nil || w.Simulation() == nil {
		return
	}

	for _, e := range w.Query(component.FighterComponent.Kind(), component.TransformComponent.Kind(), component.BodyComponent.Kind()) {
		s.step(w, e)
	}
}

func (s *FighterSystem) step(w *ecs.World, e ecs.Entity) {
	sim := w.Simulation()
	f, _ := ecs.Get(w, e, component.FighterComponent.Kind())
	t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
	if f == nil || t == nil || body == nil {
		return
	}

	ctx := &component.FighterStateContext{Fighter: f, Now: sim.Now()}
	if ctrl, ok := ecs.Get(w, e, component.ControlComponent.Kind()); ok {
		ctx.Intent = ctrl.Intent
	}

	opp, hasOpp := opponentOf(w, e)

	ctx.Move = func(dir float64) bool {
		if dir == 0 {
			f.Moving = false
			return false
		}
		f.Face(dir)
		before := t.Pos.X
		t.Pos.X = sim.ClampX(t.Pos.X+dir*f.Tunables.Speed, body.Width)
		f.Moving = t.Pos.X != before
		return f.Moving
	}
	ctx.Strike = func() {
		if !hasOpp {
			return
		}
		s.strike(w, e, f, t, body, opp)
	}
	ctx.ChangeState = func(next component.ActionState) {
		fighterState(f.State).Exit(ctx)
		f.State = next
		fighterState(next).Enter(ctx)
		if next == component.ActionJumping {
			w.Events().Push(ecs.Event{Kind: ecs.EventJumped, Source: e})
		}
	}

	fighterState(f.State).HandleIntent(ctx)

	if ctx.Intent.Shoot && f.Shoot.TryTrigger(ctx.Now) {
		s.shoot(w, e, f, t, body, opp, hasOpp)
	}

	applyGravity(w, e, f, t, body)
	fighterState(f.State).Update(ctx)
}

// strike nudges the attacker toward the opponent and, if their boxes now
// touch, deals melee damage in the same tick.
func (s *FighterSystem) strike(w *ecs.World, e ecs.Entity, f *component.Fighter, t *component.Transform, body *component.Body, opp ecs.Entity) {
	sim := w.Simulation()
	of, ok := ecs.Get(w, opp, component.FighterComponent.Kind())
	if !ok {
		return
	}
	ot, okT := ecs.Get(w, opp, component.TransformComponent.Kind())
	ob, okB := ecs.Get(w, opp, component.BodyComponent.Kind())
	if !okT || !okB {
		return
	}

	dir := f.Facing.Sign()
	if d := ob.Center(ot.Pos).X - body.Center(t.Pos).X; d > 0 {
		dir = 1
	} else if d < 0 {
		dir = -1
	}
	t.Pos.X = sim.ClampX(t.Pos.X+dir*f.Tunables.MeleeNudge, body.Width)

	if !body.Box(t.Pos).Intersects(ob.Box(ot.Pos)) {
		return
	}
	wasAlive := of.Alive()
	dealt := of.ApplyDamage(f.Tunables.MeleeDamage)
	if dealt == 0 {
		return
	}
	w.Events().Push(ecs.Event{Kind: ecs.EventMeleeHit, Source: e, Target: opp, Amount: dealt})
	if wasAlive && !of.Alive() {
		w.Events().Push(ecs.Event{Kind: ecs.EventKnockedOut, Source: e, Target: opp})
	}
}

// shoot spawns a vertical fan of projectiles around the fighter's center,
// heading toward the side the opponent stands on.
func (s *FighterSystem) shoot(w *ecs.World, e ecs.Entity, f *component.Fighter, t *component.Transform, body *component.Body, opp ecs.Entity, hasOpp bool) {
	rng := w.Simulation().Rand()

	dir := f.Facing.Sign()
	if hasOpp {
		if ot, ok := ecs.Get(w, opp, component.TransformComponent.Kind()); ok {
			dir = 1
			if t.Pos.X >= ot.Pos.X {
				dir = -1
			}
		}
	}

	n := f.Tunables.Burst
	if n < 1 {
		n = 1
	}
	if n > maxBurst {
		n = maxBurst
	}

	center := body.Center(t.Pos)
	for i := 0; i < n; i++ {
		offset := (float64(i) - float64(n-1)/2) * burstSpacing
		pos := cp.Vector{
			X: center.X + float64(jitterMinX+rng.Intn(jitterMaxX-jitterMinX+1)),
			Y: center.Y + offset + float64(rng.Intn(2*jitterY+1)-jitterY),
		}
		SpawnProjectile(w, e, f, pos, dir)
	}
	w.Events().Push(ecs.Event{Kind: ecs.EventShot, Source: e, Amount: n})
}

// SpawnProjectile creates one projectile owned by the fighter e at pos,
// flying in direction dir.
func SpawnProjectile(w *ecs.World, owner ecs.Entity, f *component.Fighter, pos cp.Vector, dir float64) ecs.Entity {
	pt := f.Tunables.Projectile
	p := ecs.CreateEntity(w)
	_ = ecs.Add(w, p, component.TransformComponent.Kind(), &component.Transform{Pos: pos})
	_ = ecs.Add(w, p, component.BodyComponent.Kind(), &component.Body{
		Width:      pt.Width,
		Height:     pt.Height,
		Silhouette: pt.Silhouette,
	})
	damage := pt.Damage
	if damage <= 0 {
		damage = 1
	}
	_ = ecs.Add(w, p, component.ProjectileComponent.Kind(), &component.Projectile{
		VX:         pt.Speed * dir,
		Owner:      uint64(owner),
		OwnerSide:  f.Side,
		Type:       pt.Type,
		Damage:     damage,
		FrameCount: pt.Frames,
		Mirrored:   dir < 0,
	})
	return p
}

// applyGravity integrates vertical motion and clamps the fighter's feet to
// the floor line.
func applyGravity(w *ecs.World, e ecs.Entity, f *component.Fighter, t *component.Transform, body *component.Body) {
	floor := w.Simulation().FloorY - body.Height
	f.DY += f.Tunables.Gravity
	t.Pos.Y += f.DY
	if t.Pos.Y < floor {
		return
	}
	t.Pos.Y = floor
	f.DY = 0
	if !f.OnGround {
		f.OnGround = true
		w.Events().Push(ecs.Event{Kind: ecs.EventLanded, Source: e})
	}
}
