package component

import "github.com/milk9111/brawler/policy"

// Control binds a fighter to the policy that drives it. Intent holds the
// decision for the current tick; the control system refreshes it before the
// fighter system reads it.
type Control struct {
	Kind    policy.Kind
	Policy  policy.Policy
	Buttons policy.Buttons
	Intent  policy.Intent
}

var ControlComponent = NewComponent[Control]("control")
