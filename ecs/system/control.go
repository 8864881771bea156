package system

import (
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/policy"
)

// ControlSystem asks every fighter's policy for this tick's intent. Human
// policies receive the button snapshot stored on the Control component first.
type ControlSystem struct{}

func NewControlSystem() *ControlSystem {
	return &ControlSystem{}
}

func (s *ControlSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.ControlComponent.Kind(), component.FighterComponent.Kind(), func(e ecs.Entity, ctrl *component.Control, f *component.Fighter) {
		if ctrl.Policy == nil {
			ctrl.Intent = policy.Intent{}
			return
		}
		if r, ok := ctrl.Policy.(policy.ButtonReceiver); ok {
			r.Press(ctrl.Buttons)
		}

		self := fighterView(w, e)
		opp := self
		if other, ok := opponentOf(w, e); ok {
			opp = fighterView(w, other)
		}
		ctrl.Intent = ctrl.Policy.Decide(self, opp)
	})
}

// opponentOf returns the first other live fighter.
func opponentOf(w *ecs.World, e ecs.Entity) (ecs.Entity, bool) {
	for _, other := range w.Query(component.FighterComponent.Kind()) {
		if other != e {
			return other, true
		}
	}
	return 0, false
}

func fighterView(w *ecs.World, e ecs.Entity) policy.View {
	var v policy.View
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		v.X, v.Y = t.Pos.X, t.Pos.Y
	}
	if b, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
		v.Width, v.Height = b.Width, b.Height
	}
	if f, ok := ecs.Get(w, e, component.FighterComponent.Kind()); ok {
		v.OnGround = f.OnGround
		v.Health = f.Health
	}
	return v
}
