package component

import "time"

// MaxHealth is the health every fighter starts a round with.
const MaxHealth = 100

// Side identifies which corner a fighter spawned in.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Facing is a pure orientation flag; the renderer mirrors frames from it.
type Facing int

const (
	FacingRight Facing = iota
	FacingLeft
)

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// Sign is +1 when facing right and -1 when facing left.
func (f Facing) Sign() float64 {
	if f == FacingLeft {
		return -1
	}
	return 1
}

// ActionState is the single animation/action state a fighter is in.
type ActionState int

const (
	ActionIdle ActionState = iota
	ActionMoving
	ActionJumping
	ActionHitting
)

func (a ActionState) String() string {
	switch a {
	case ActionMoving:
		return "moving"
	case ActionJumping:
		return "jumping"
	case ActionHitting:
		return "hitting"
	default:
		return "idle"
	}
}

// ProjectileTunables describe the shots a fighter fires.
type ProjectileTunables struct {
	Type   string
	Speed  float64
	Width  float64
	Height float64
	Frames int
	Damage int
	// Silhouette, when set, refines hit tests to the shot's opaque pixels.
	Silhouette *Silhouette
}

// Tunables are the per-character constants read at construction.
type Tunables struct {
	Speed          float64
	JumpSpeed      float64
	Gravity        float64
	Width          float64
	Height         float64
	AnimationSpeed float64

	RunFrames  int
	JumpFrames int
	HitFrames  int
	IdleFrames int

	MeleeDamage   int
	MeleeNudge    float64
	MeleeCooldown time.Duration
	ShootCooldown time.Duration
	Burst         int

	Projectile ProjectileTunables
}

// Fighter is the combatant state the systems mutate every tick.
type Fighter struct {
	ID        string
	Character string
	Side      Side

	Health   int
	DY       float64
	OnGround bool
	Facing   Facing
	State    ActionState
	Moving   bool

	RunFrame  float64
	JumpFrame float64
	HitFrame  float64
	IdleFrame float64

	Shoot Cooldown
	Melee Cooldown

	Tunables Tunables
}

// NewFighter returns a fighter at full health with cooldowns taken from t.
func NewFighter(id, character string, side Side, t Tunables) *Fighter {
	f := &Fighter{
		ID:        id,
		Character: character,
		Side:      side,
		Health:    MaxHealth,
		Tunables:  t,
	}
	if side == SideRight {
		f.Facing = FacingLeft
	}
	f.Shoot.Duration = t.ShootCooldown
	f.Melee.Duration = t.MeleeCooldown
	return f
}

// Alive reports whether the fighter still has health.
func (f *Fighter) Alive() bool {
	return f != nil && f.Health > 0
}

// ApplyDamage lowers health by amount, clamped to [0, MaxHealth], and
// returns how much was actually taken.
func (f *Fighter) ApplyDamage(amount int) int {
	if f == nil || amount <= 0 || f.Health <= 0 {
		return 0
	}
	before := f.Health
	f.Health -= amount
	if f.Health < 0 {
		f.Health = 0
	}
	return before - f.Health
}

// Face turns the fighter toward dir (negative left, positive right). A zero
// dir leaves facing untouched.
func (f *Fighter) Face(dir float64) {
	switch {
	case dir < 0:
		f.Facing = FacingLeft
	case dir > 0:
		f.Facing = FacingRight
	}
}

var FighterComponent = NewComponent[Fighter]("fighter")
