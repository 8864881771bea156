package policy

import (
	"math/rand"
	"time"
)

// DefensiveParams tunes the ranged bot.
type DefensiveParams struct {
	MinRange      float64       `yaml:"min_range"`
	MaxRange      float64       `yaml:"max_range"`
	JitterChance  float64       `yaml:"jitter_chance"`
	JumpChance    float64       `yaml:"jump_chance"`
	StrikeRange   float64       `yaml:"strike_range"`
	ShootCooldown time.Duration `yaml:"shoot_cooldown"`
	MeleeCooldown time.Duration `yaml:"melee_cooldown"`
	Burst         int           `yaml:"burst"`
}

func DefaultDefensiveParams() DefensiveParams {
	return DefensiveParams{
		MinRange:      200,
		MaxRange:      400,
		JitterChance:  0.02,
		JumpChance:    0.02,
		StrikeRange:   100,
		ShootCooldown: 350 * time.Millisecond,
		MeleeCooldown: 750 * time.Millisecond,
		Burst:         3,
	}
}

// DefensiveRange keeps the opponent inside a preferred distance band and
// only fires from inside it.
type DefensiveRange struct {
	p   DefensiveParams
	rng *rand.Rand
}

func NewDefensive(p DefensiveParams, rng *rand.Rand) *DefensiveRange {
	return &DefensiveRange{p: p, rng: rng}
}

func (d *DefensiveRange) Params() DefensiveParams { return d.p }

func (d *DefensiveRange) Cadence() Cadence {
	return Cadence{Shoot: d.p.ShootCooldown, Melee: d.p.MeleeCooldown, Burst: d.p.Burst}
}

// InBand reports whether dist lies within the preferred band, inclusive.
func (d *DefensiveRange) InBand(dist float64) bool {
	return dist >= d.p.MinRange && dist <= d.p.MaxRange
}

func (d *DefensiveRange) Decide(self, opponent View) Intent {
	dir := self.DirectionTo(opponent)
	dist := self.DistanceTo(opponent)

	var in Intent
	switch {
	case dist > d.p.MaxRange:
		in.Move = Toward(dir)
	case dist < d.p.MinRange:
		in.Move = Toward(-dir)
	default:
		if d.rng.Float64() < d.p.JitterChance {
			in.Move = randomStep(d.rng)
		}
		in.Shoot = true
	}

	if self.OnGround && d.rng.Float64() < d.p.JumpChance {
		in.Jump = true
	}
	if dist < d.p.StrikeRange {
		in.Melee = true
	}
	return in
}
