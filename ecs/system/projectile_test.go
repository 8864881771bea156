package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

func TestProjectileLifecycle(t *testing.T) {
	cases := []struct {
		name  string
		x     float64
		dir   float64
		alive bool
		wantX float64
	}{
		{"in_flight_right", 500, 1, true, 507.5},
		{"in_flight_left", 500, -1, true, 492.5},
		{"leaves_right", 1915, 1, false, 0},
		{"leaves_left", -40, -1, false, 0},
		{"partly_visible_left", -30, -1, true, -37.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			a, fa := spawnFighter(t, w, component.SideLeft, 100)
			shot := SpawnProjectile(w, a, fa, cp.Vector{X: c.x, Y: 500}, c.dir)

			NewProjectileSystem().Update(w)

			assert.Equal(t, c.alive, ecs.IsAlive(w, shot))
			if c.alive {
				assert.InDelta(t, c.wantX, position(t, w, shot).X, 1e-9)
				p, _ := ecs.Get(w, shot, component.ProjectileComponent.Kind())
				assert.Equal(t, 1, p.Frame)
			}
		})
	}
}

func TestProjectileFrameWraps(t *testing.T) {
	w, _ := newTestWorld(t)
	a, fa := spawnFighter(t, w, component.SideLeft, 100)
	fa.Tunables.Projectile.Frames = 2
	shot := SpawnProjectile(w, a, fa, cp.Vector{X: 500, Y: 500}, 1)
	sys := NewProjectileSystem()

	sys.Update(w)
	sys.Update(w)

	p, _ := ecs.Get(w, shot, component.ProjectileComponent.Kind())
	assert.Zero(t, p.Frame)
}
