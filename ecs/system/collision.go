package system

import (
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// CollisionSystem resolves projectile hits after all motion for the tick.
// A projectile scores on at most one fighter and never on its owner; it is
// destroyed on the first hit.
type CollisionSystem struct{}

func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

func (s *CollisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	fighters := w.Query(component.FighterComponent.Kind(), component.TransformComponent.Kind(), component.BodyComponent.Kind())
	if len(fighters) == 0 {
		return
	}

	ecs.ForEach3(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), component.BodyComponent.Kind(), func(pe ecs.Entity, p *component.Projectile, pt *component.Transform, pb *component.Body) {
		for _, fe := range fighters {
			if uint64(fe) == p.Owner {
				continue
			}
			f, _ := ecs.Get(w, fe, component.FighterComponent.Kind())
			ft, _ := ecs.Get(w, fe, component.TransformComponent.Kind())
			fb, _ := ecs.Get(w, fe, component.BodyComponent.Kind())
			if f == nil || ft == nil || fb == nil {
				continue
			}
			if !component.Overlaps(*pb, pt.Pos, p.Mirrored, *fb, ft.Pos, f.Facing == component.FacingLeft) {
				continue
			}

			wasAlive := f.Alive()
			dealt := f.ApplyDamage(p.Damage)
			w.Events().Push(ecs.Event{Kind: ecs.EventProjectileHit, Source: ecs.Entity(p.Owner), Target: fe, Amount: dealt})
			if wasAlive && !f.Alive() {
				w.Events().Push(ecs.Event{Kind: ecs.EventKnockedOut, Source: ecs.Entity(p.Owner), Target: fe})
			}
			ecs.DestroyEntity(w, pe)
			return
		}
	})
}
