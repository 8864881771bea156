package component

import (
	"time"

	"github.com/milk9111/brawler/policy"
)

// FighterState defines the interface for fighter state machine states.
// Each state owns its enter/exit, intent handling and per-tick update.
type FighterState interface {
	State() ActionState
	Enter(ctx *FighterStateContext)
	Exit(ctx *FighterStateContext)
	HandleIntent(ctx *FighterStateContext)
	Update(ctx *FighterStateContext)
}

// FighterStateContext gives a state controlled access to the fighter and its
// surroundings through callbacks, keeping states free of world lookups.
type FighterStateContext struct {
	Fighter *Fighter
	Intent  policy.Intent
	Now     time.Duration

	// Move shifts the fighter horizontally by dir*speed, clamped to the
	// arena, and reports whether its position changed.
	Move func(dir float64) bool
	// Strike nudges toward the opponent and resolves melee damage.
	Strike      func()
	ChangeState func(next ActionState)
}
