// Package policy decides, once per tick, what a fighter wants to do.
//
// Every controller (keyboard, heuristic bots, scripted bots) satisfies the
// same Policy contract and feeds the same fighter state machine, so none of
// them can do anything a human could not.
package policy

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Move is the horizontal intent for one tick.
type Move int

const (
	MoveNone Move = iota
	MoveLeft
	MoveRight
)

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return "none"
	}
}

// Sign is -1 for left, +1 for right and 0 otherwise.
func (m Move) Sign() float64 {
	switch m {
	case MoveLeft:
		return -1
	case MoveRight:
		return 1
	default:
		return 0
	}
}

// Toward returns the move that heads in the direction of sign.
func Toward(sign float64) Move {
	switch {
	case sign < 0:
		return MoveLeft
	case sign > 0:
		return MoveRight
	default:
		return MoveNone
	}
}

// Intent is a one-tick bundle of requested actions.
type Intent struct {
	Move  Move
	Jump  bool
	Shoot bool
	Melee bool
}

// View is the read-only state a policy sees of a fighter.
type View struct {
	X, Y          float64
	Width, Height float64
	OnGround      bool
	Health        int
}

// CenterX is the horizontal center of the fighter box.
func (v View) CenterX() float64 {
	return v.X + v.Width/2
}

// DirectionTo is +1 when other stands to the right of v, else -1.
func (v View) DirectionTo(other View) float64 {
	if other.X > v.X {
		return 1
	}
	return -1
}

// DistanceTo is the horizontal center-to-center distance.
func (v View) DistanceTo(other View) float64 {
	d := v.CenterX() - other.CenterX()
	if d < 0 {
		return -d
	}
	return d
}

// Policy produces an intent from the fighter's and its opponent's state.
type Policy interface {
	Decide(self, opponent View) Intent
}

// Cadence overrides a fighter's action cooldowns and, optionally, its melee
// strength. Bots shoot and strike on their own rhythm rather than the
// character default. Zero fields keep the character value.
type Cadence struct {
	Shoot time.Duration
	Melee time.Duration
	Burst int

	MeleeDamage int
	MeleeNudge  float64
}

// Cadenced is implemented by policies that carry their own cadence.
type Cadenced interface {
	Cadence() Cadence
}

// Kind names a policy implementation.
type Kind string

const (
	KindHuman      Kind = "human"
	KindAggressive Kind = "aggressive"
	KindDefensive  Kind = "defensive"
	KindScripted   Kind = "scripted"
)

var ErrUnknownKind = errors.New("policy: unknown kind")

// ParseKind accepts the kind names case-insensitively; "ai" and "bot" are
// aliases for the aggressive bot.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindHuman, KindAggressive, KindDefensive, KindScripted:
		return k, nil
	case "ai", "bot":
		return KindAggressive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// IsBot reports whether the kind is computer controlled.
func (k Kind) IsBot() bool {
	return k != KindHuman
}

// Params configures New. Only the block matching the kind is read.
type Params struct {
	Aggressive AggressiveParams
	Defensive  DefensiveParams
	Script     ScriptParams
}

// DefaultParams returns the tuned values for every bot.
func DefaultParams() Params {
	return Params{
		Aggressive: DefaultAggressiveParams(),
		Defensive:  DefaultDefensiveParams(),
	}
}

// New builds the policy for kind. rng drives every random choice a bot
// makes; passing a seeded source makes the bot deterministic.
func New(kind Kind, params Params, rng *rand.Rand) (Policy, error) {
	if rng == nil && kind.IsBot() {
		return nil, fmt.Errorf("policy: %s needs a random source", kind)
	}
	switch kind {
	case KindHuman:
		return &Human{}, nil
	case KindAggressive:
		return NewAggressive(params.Aggressive, rng), nil
	case KindDefensive:
		return NewDefensive(params.Defensive, rng), nil
	case KindScripted:
		return NewScripted(params.Script, rng)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
