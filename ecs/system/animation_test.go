package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

func TestFighterAnimationPriority(t *testing.T) {
	cases := []struct {
		name     string
		state    component.ActionState
		onGround bool
		facing   component.Facing
		want     string
	}{
		{"idle", component.ActionIdle, true, component.FacingRight, ClipIdle},
		{"run", component.ActionMoving, true, component.FacingRight, ClipRun},
		{"hit", component.ActionHitting, true, component.FacingLeft, ClipHit},
		{"airborne_hit_shows_jump", component.ActionHitting, false, component.FacingRight, ClipJump},
		{"jump", component.ActionJumping, false, component.FacingLeft, ClipJump},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			e, f := spawnFighter(t, w, component.SideLeft, 100)
			f.State = c.state
			f.OnGround = c.onGround
			f.Facing = c.facing

			NewAnimationSystem().Update(w)

			anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, c.want, anim.Clip)
			assert.Equal(t, "durov", anim.Sheet)
			assert.Equal(t, c.facing == component.FacingLeft, anim.Mirrored)
		})
	}
}
