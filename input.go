package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/brawler/policy"
)

const stickDeadzone = 0.2

// Binding maps every action to a key, plus an optional gamepad.
type Binding struct {
	Keys    map[policy.Action]ebiten.Key
	Gamepad int // index into ebiten.GamepadIDs(), -1 for none
}

func defaultBindings() [2]Binding {
	return [2]Binding{
		{
			Keys: map[policy.Action]ebiten.Key{
				policy.ActionLeft:  ebiten.KeyA,
				policy.ActionRight: ebiten.KeyD,
				policy.ActionJump:  ebiten.KeyW,
				policy.ActionShoot: ebiten.KeySpace,
				policy.ActionMelee: ebiten.KeyE,
			},
			Gamepad: 0,
		},
		{
			Keys: map[policy.Action]ebiten.Key{
				policy.ActionLeft:  ebiten.KeyArrowLeft,
				policy.ActionRight: ebiten.KeyArrowRight,
				policy.ActionJump:  ebiten.KeyArrowUp,
				policy.ActionShoot: ebiten.KeyControlRight,
				policy.ActionMelee: ebiten.KeyAltLeft,
			},
			Gamepad: 1,
		},
	}
}

// Buttons samples the keyboard and gamepad for this frame.
func (b Binding) Buttons() policy.Buttons {
	var out policy.Buttons
	for action, key := range b.Keys {
		out = out.With(action, ebiten.IsKeyPressed(key))
	}

	pads := ebiten.AppendGamepadIDs(nil)
	if b.Gamepad < 0 || b.Gamepad >= len(pads) {
		return out
	}
	id := pads[b.Gamepad]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return out
	}

	x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	if x < -stickDeadzone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
		out = out.With(policy.ActionLeft, true)
	}
	if x > stickDeadzone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
		out = out.With(policy.ActionRight, true)
	}
	if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
		out = out.With(policy.ActionJump, true)
	}
	if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft) ||
		ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight) {
		out = out.With(policy.ActionShoot, true)
	}
	if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight) {
		out = out.With(policy.ActionMelee, true)
	}
	return out
}
