package policy

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
)

// ScriptParams configures a tengo-driven bot. Source must define
//
//	decide := func(self, opponent, state) { ... }
//
// returning a map with any of the keys move ("left", "right" or ""), jump,
// shoot and melee. self and opponent carry x, y, width, height, center_x,
// on_ground and health; state is a map kept between ticks. roll() returns a
// float in [0, 1) drawn from the bot's random source.
type ScriptParams struct {
	Name          string        `yaml:"name"`
	Source        []byte        `yaml:"-"`
	ShootCooldown time.Duration `yaml:"shoot_cooldown"`
	MeleeCooldown time.Duration `yaml:"melee_cooldown"`
	Burst         int           `yaml:"burst"`
	Log           *zap.Logger   `yaml:"-"`
}

var ErrEmptyScript = errors.New("policy: empty script")

const scriptDispatch = `
__intent := decide(__self, __opponent, __state)
`

// Scripted runs a compiled tengo script once per Decide. A failing script
// yields an empty intent for that tick.
type Scripted struct {
	p        ScriptParams
	compiled *tengo.Compiled
	state    *tengo.Map
	rng      *rand.Rand
	log      *zap.Logger
	failures int
}

func NewScripted(p ScriptParams, rng *rand.Rand) (*Scripted, error) {
	if len(strings.TrimSpace(string(p.Source))) == 0 {
		return nil, ErrEmptyScript
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scripted{
		p:     p,
		state: &tengo.Map{Value: map[string]tengo.Object{}},
		rng:   rng,
		log:   log.With(zap.String("script", p.Name)),
	}

	script := tengo.NewScript(append(append([]byte{}, p.Source...), scriptDispatch...))
	_ = script.Add("__self", map[string]any{})
	_ = script.Add("__opponent", map[string]any{})
	_ = script.Add("__state", s.state)
	_ = script.Add("roll", &tengo.UserFunction{Name: "roll", Value: s.roll})
	script.SetImports(stdlib.GetModuleMap("math", "text"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("policy: compile script %q: %w", p.Name, err)
	}
	s.compiled = compiled
	return s, nil
}

func (s *Scripted) Cadence() Cadence {
	return Cadence{Shoot: s.p.ShootCooldown, Melee: s.p.MeleeCooldown, Burst: s.p.Burst}
}

// Failures counts the ticks the script errored on.
func (s *Scripted) Failures() int { return s.failures }

func (s *Scripted) Decide(self, opponent View) Intent {
	if err := s.run(self, opponent); err != nil {
		s.failures++
		if s.failures == 1 || s.failures%600 == 0 {
			s.log.Warn("script decide failed", zap.Int("failures", s.failures), zap.Error(err))
		}
		return Intent{}
	}
	return intentFromMap(s.compiled.Get("__intent").Map())
}

func (s *Scripted) run(self, opponent View) error {
	if err := s.compiled.Set("__self", viewMap(self)); err != nil {
		return err
	}
	if err := s.compiled.Set("__opponent", viewMap(opponent)); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *Scripted) roll(args ...tengo.Object) (tengo.Object, error) {
	return &tengo.Float{Value: s.rng.Float64()}, nil
}

func viewMap(v View) map[string]any {
	return map[string]any{
		"x":         v.X,
		"y":         v.Y,
		"width":     v.Width,
		"height":    v.Height,
		"center_x":  v.CenterX(),
		"on_ground": v.OnGround,
		"health":    float64(v.Health),
	}
}

func intentFromMap(m map[string]any) Intent {
	var in Intent
	if m == nil {
		return in
	}
	if mv, ok := m["move"].(string); ok {
		switch strings.ToLower(strings.TrimSpace(mv)) {
		case "left":
			in.Move = MoveLeft
		case "right":
			in.Move = MoveRight
		}
	}
	in.Jump = truthy(m["jump"])
	in.Shoot = truthy(m["shoot"])
	in.Melee = truthy(m["melee"])
	return in
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
