package system

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/policy"
)

func TestControlSystemHumanButtons(t *testing.T) {
	w, _ := newTestWorld(t)
	a, _ := spawnFighter(t, w, component.SideLeft, 100)
	spawnFighter(t, w, component.SideRight, 1000)

	setIntent(t, w, a, func(ctrl *component.Control) {
		ctrl.Kind = policy.KindHuman
		ctrl.Policy = &policy.Human{}
		ctrl.Buttons = policy.Buttons{}.With(policy.ActionLeft, true).With(policy.ActionRight, true).With(policy.ActionShoot, true)
	})

	NewControlSystem().Update(w)

	ctrl, _ := ecs.Get(w, a, component.ControlComponent.Kind())
	assert.Equal(t, policy.Intent{Move: policy.MoveLeft, Shoot: true}, ctrl.Intent)
}

func TestControlSystemBotSeesOpponent(t *testing.T) {
	w, _ := newTestWorld(t)
	a, _ := spawnFighter(t, w, component.SideLeft, 100)
	spawnFighter(t, w, component.SideRight, 1200)

	setIntent(t, w, a, func(ctrl *component.Control) {
		ctrl.Kind = policy.KindAggressive
		ctrl.Policy = policy.NewAggressive(policy.DefaultAggressiveParams(), rand.New(rand.NewSource(1)))
	})

	NewControlSystem().Update(w)

	ctrl, _ := ecs.Get(w, a, component.ControlComponent.Kind())
	// 1100 apart is beyond the far range, so the bot always closes in
	assert.Equal(t, policy.MoveRight, ctrl.Intent.Move)
	assert.True(t, ctrl.Intent.Shoot)
}

func TestControlSystemWithoutPolicyClearsIntent(t *testing.T) {
	w, _ := newTestWorld(t)
	a, _ := spawnFighter(t, w, component.SideLeft, 100)
	setIntent(t, w, a, func(ctrl *component.Control) { ctrl.Intent = policy.Intent{Jump: true} })

	NewControlSystem().Update(w)

	ctrl, _ := ecs.Get(w, a, component.ControlComponent.Kind())
	assert.Equal(t, policy.Intent{}, ctrl.Intent)
}
