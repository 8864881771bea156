package policy

import (
	"math/rand"
	"time"
)

// AggressiveParams tunes the chasing bot. Distances are horizontal, between
// box centers.
type AggressiveParams struct {
	CloseRange    float64       `yaml:"close_range"`
	FarRange      float64       `yaml:"far_range"`
	RetreatChance float64       `yaml:"retreat_chance"`
	JitterChance  float64       `yaml:"jitter_chance"`
	JumpChance    float64       `yaml:"jump_chance"`
	StrikeRange   float64       `yaml:"strike_range"`
	StrikeChance  float64       `yaml:"strike_chance"`
	ShootCooldown time.Duration `yaml:"shoot_cooldown"`
	MeleeCooldown time.Duration `yaml:"melee_cooldown"`
	Burst         int           `yaml:"burst"`
	MeleeDamage   int           `yaml:"melee_damage"`
	MeleeNudge    float64       `yaml:"melee_nudge"`
}

func DefaultAggressiveParams() AggressiveParams {
	return AggressiveParams{
		CloseRange:    180,
		FarRange:      800,
		RetreatChance: 0.1,
		JitterChance:  0.02,
		JumpChance:    0.03,
		StrikeRange:   110,
		StrikeChance:  0.6,
		ShootCooldown: 200 * time.Millisecond,
		MeleeCooldown: time.Second,
		Burst:         3,
		MeleeDamage:   10,
		MeleeNudge:    15,
	}
}

// Aggressive closes in on the opponent, fires whenever its cooldown allows
// and strikes when in reach.
type Aggressive struct {
	p   AggressiveParams
	rng *rand.Rand
}

func NewAggressive(p AggressiveParams, rng *rand.Rand) *Aggressive {
	return &Aggressive{p: p, rng: rng}
}

func (a *Aggressive) Params() AggressiveParams { return a.p }

func (a *Aggressive) Cadence() Cadence {
	return Cadence{
		Shoot:       a.p.ShootCooldown,
		Melee:       a.p.MeleeCooldown,
		Burst:       a.p.Burst,
		MeleeDamage: a.p.MeleeDamage,
		MeleeNudge:  a.p.MeleeNudge,
	}
}

func (a *Aggressive) Decide(self, opponent View) Intent {
	dir := self.DirectionTo(opponent)
	dist := self.DistanceTo(opponent)

	var in Intent
	switch {
	case dist < a.p.CloseRange:
		if a.rng.Float64() < a.p.RetreatChance {
			in.Move = Toward(-dir)
		} else {
			in.Move = Toward(dir)
		}
	case dist > a.p.FarRange:
		in.Move = Toward(dir)
	default:
		if a.rng.Float64() < a.p.JitterChance {
			in.Move = randomStep(a.rng)
		}
	}

	if self.OnGround && a.rng.Float64() < a.p.JumpChance {
		in.Jump = true
	}

	// the fighter's cooldown gates the actual shot
	in.Shoot = true

	if dist < a.p.StrikeRange && a.rng.Float64() < a.p.StrikeChance {
		in.Melee = true
	}
	return in
}

func randomStep(rng *rand.Rand) Move {
	if rng.Intn(2) == 0 {
		return MoveLeft
	}
	return MoveRight
}
