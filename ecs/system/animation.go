package system

import (
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// Clip names the renderer looks sheets up by.
const (
	ClipIdle       = "idle"
	ClipRun        = "run"
	ClipJump       = "jump"
	ClipHit        = "hit"
	ClipProjectile = "fly"
)

// AnimationSystem derives the render view of fighters and projectiles. It
// never touches gameplay state.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.FighterComponent.Kind(), func(e ecs.Entity, f *component.Fighter) {
		anim := fighterAnimation(f)
		setAnimation(w, e, anim)
	})

	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		setAnimation(w, e, component.Animation{
			Sheet:    p.Type,
			Clip:     ClipProjectile,
			Frame:    p.Frame,
			Mirrored: p.Mirrored,
		})
	})
}

// fighterAnimation picks the clip by priority: airborne, striking, running,
// then idle.
func fighterAnimation(f *component.Fighter) component.Animation {
	anim := component.Animation{
		Sheet:    f.Character,
		Mirrored: f.Facing == component.FacingLeft,
	}
	switch {
	case !f.OnGround:
		anim.Clip, anim.Frame = ClipJump, int(f.JumpFrame)
	case f.State == component.ActionHitting:
		anim.Clip, anim.Frame = ClipHit, int(f.HitFrame)
	case f.State == component.ActionMoving:
		anim.Clip, anim.Frame = ClipRun, int(f.RunFrame)
	default:
		anim.Clip, anim.Frame = ClipIdle, int(f.IdleFrame)
	}
	return anim
}

func setAnimation(w *ecs.World, e ecs.Entity, anim component.Animation) {
	if cur, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		*cur = anim
		return
	}
	_ = ecs.Add(w, e, component.AnimationComponent.Kind(), &anim)
}
