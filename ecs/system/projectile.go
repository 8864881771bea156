package system

import (
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// ProjectileSystem moves projectiles in a straight line, cycles their
// cosmetic frame and destroys the ones fully past either side of the arena.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil || w.Simulation() == nil {
		return
	}
	bounds := w.Simulation().Bounds

	ecs.ForEach3(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform, b *component.Body) {
		t.Pos.X += p.VX
		if p.FrameCount > 0 {
			p.Frame = (p.Frame + 1) % p.FrameCount
		}
		if t.Pos.X+b.Width < bounds.L || t.Pos.X > bounds.R {
			ecs.DestroyEntity(w, e)
		}
	})
}
