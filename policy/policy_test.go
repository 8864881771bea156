package policy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource makes every Float64 draw return the same value.
type fixedSource struct{ v int64 }

func (s fixedSource) Int63() int64 { return s.v }
func (s fixedSource) Seed(int64)   {}

func rollOf(f float64) *rand.Rand {
	return rand.New(fixedSource{v: int64(f * (1 << 63))})
}

func pair(dist float64) (View, View) {
	self := View{X: 100, Y: 830, Width: 300, Height: 300, OnGround: true, Health: 100}
	opp := View{X: 100 + dist, Y: 830, Width: 300, Height: 300, OnGround: true, Health: 100}
	return self, opp
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		err  bool
	}{
		{"human", KindHuman, false},
		{" Aggressive ", KindAggressive, false},
		{"ai", KindAggressive, false},
		{"defensive", KindDefensive, false},
		{"scripted", KindScripted, false},
		{"sniper", "", true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			k, err := ParseKind(c.in)
			if c.err {
				require.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, k)
		})
	}
}

func TestNewRequiresRandomForBots(t *testing.T) {
	_, err := New(KindAggressive, DefaultParams(), nil)
	require.Error(t, err)

	p, err := New(KindHuman, DefaultParams(), nil)
	require.NoError(t, err)
	_, ok := p.(ButtonReceiver)
	assert.True(t, ok)

	p, err = New(KindDefensive, DefaultParams(), rollOf(0.5))
	require.NoError(t, err)
	c, ok := p.(Cadenced)
	require.True(t, ok)
	assert.Equal(t, DefaultDefensiveParams().ShootCooldown, c.Cadence().Shoot)
}

func TestHumanDecide(t *testing.T) {
	cases := []struct {
		name    string
		buttons Buttons
		want    Intent
	}{
		{"nothing", Buttons{}, Intent{}},
		{"right", Buttons{}.With(ActionRight, true), Intent{Move: MoveRight}},
		{"left_wins_over_right", Buttons{}.With(ActionLeft, true).With(ActionRight, true), Intent{Move: MoveLeft}},
		{"jump_and_shoot", Buttons{}.With(ActionJump, true).With(ActionShoot, true), Intent{Jump: true, Shoot: true}},
		{"melee", Buttons{}.With(ActionMelee, true), Intent{Melee: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := &Human{}
			h.Press(c.buttons)
			self, opp := pair(400)
			assert.Equal(t, c.want, h.Decide(self, opp))
		})
	}
}

func TestAggressiveDecide(t *testing.T) {
	cases := []struct {
		name     string
		dist     float64
		roll     float64
		airborne bool
		want     Intent
	}{
		{"close_closes_in", 150, 0.5, false, Intent{Move: MoveRight, Shoot: true}},
		{"close_backs_away", 150, 0.02, false, Intent{Move: MoveLeft, Jump: true, Shoot: true}},
		{"far_closes_in", 900, 0.99, false, Intent{Move: MoveRight, Shoot: true}},
		{"mid_idles", 500, 0.5, false, Intent{Shoot: true}},
		{"mid_jitters", 500, 0, true, Intent{Move: MoveLeft, Shoot: true}},
		{"strike_range", 100, 0.5, true, Intent{Move: MoveRight, Shoot: true, Melee: true}},
		{"strike_skipped", 100, 0.9, true, Intent{Move: MoveRight, Shoot: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewAggressive(DefaultAggressiveParams(), rollOf(c.roll))
			self, opp := pair(c.dist)
			self.OnGround = !c.airborne
			assert.Equal(t, c.want, a.Decide(self, opp))
		})
	}
}

func TestAggressiveFacesOpponentOnLeft(t *testing.T) {
	a := NewAggressive(DefaultAggressiveParams(), rollOf(0.5))
	self, opp := pair(900)
	self, opp = opp, self
	assert.Equal(t, MoveLeft, a.Decide(self, opp).Move)
}

func TestDefensiveDecide(t *testing.T) {
	cases := []struct {
		name string
		dist float64
		want Intent
	}{
		{"too_far_advances", 500, Intent{Move: MoveRight}},
		{"band_holds_and_shoots", 300, Intent{Shoot: true}},
		{"band_edge_inclusive", 200, Intent{Shoot: true}},
		{"too_close_retreats", 150, Intent{Move: MoveLeft}},
		{"very_close_strikes", 50, Intent{Move: MoveLeft, Melee: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDefensive(DefaultDefensiveParams(), rollOf(0.5))
			self, opp := pair(c.dist)
			assert.Equal(t, c.want, d.Decide(self, opp))
		})
	}
}

const chaseScript = `
decide := func(self, opponent, state) {
	state.ticks = (state.ticks || 0) + 1
	move := "left"
	if opponent.center_x > self.center_x {
		move = "right"
	}
	return {move: move, shoot: state.ticks > 1, jump: roll() < 0.5}
}
`

func TestScriptedDecide(t *testing.T) {
	s, err := NewScripted(ScriptParams{Name: "chase", Source: []byte(chaseScript)}, rollOf(0.25))
	require.NoError(t, err)

	self, opp := pair(400)
	assert.Equal(t, Intent{Move: MoveRight, Jump: true}, s.Decide(self, opp))
	assert.Equal(t, Intent{Move: MoveRight, Jump: true, Shoot: true}, s.Decide(self, opp))

	self, opp = opp, self
	assert.Equal(t, MoveLeft, s.Decide(self, opp).Move)
	assert.Zero(t, s.Failures())
}

func TestScriptedErrors(t *testing.T) {
	_, err := NewScripted(ScriptParams{Name: "empty"}, rollOf(0))
	require.ErrorIs(t, err, ErrEmptyScript)

	_, err = NewScripted(ScriptParams{Name: "broken", Source: []byte("decide := func(")}, rollOf(0))
	require.Error(t, err)

	s, err := NewScripted(ScriptParams{Name: "arity", Source: []byte("decide := func(a) { return {} }")}, rollOf(0))
	require.NoError(t, err)
	self, opp := pair(100)
	assert.Equal(t, Intent{}, s.Decide(self, opp))
	assert.Equal(t, 1, s.Failures())
}
