package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/policy"
)

// ConfigurationError reports a missing or invalid spec value.
type ConfigurationError = component.ConfigurationError

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type MovementSpec struct {
	Speed     float64 `yaml:"speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
	Gravity   float64 `yaml:"gravity"`
}

type AnimationSpec struct {
	Speed float64 `yaml:"speed"`
	Run   int     `yaml:"run"`
	Jump  int     `yaml:"jump"`
	Hit   int     `yaml:"hit"`
	Idle  int     `yaml:"idle"`
}

type MeleeSpec struct {
	Damage   int           `yaml:"damage"`
	Nudge    float64       `yaml:"nudge"`
	Cooldown time.Duration `yaml:"cooldown"`
}

type ShootSpec struct {
	Cooldown time.Duration `yaml:"cooldown"`
	Burst    int           `yaml:"burst"`
}

type ProjectileSpec struct {
	Type   string     `yaml:"type"`
	Speed  float64    `yaml:"speed"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Frames int        `yaml:"frames"`
	Damage int        `yaml:"damage"`
	Color  *YAMLColor `yaml:"color"`
}

// FighterSpec is one playable character.
type FighterSpec struct {
	Name        string         `yaml:"name"`
	DisplayName string         `yaml:"display_name"`
	Color       *YAMLColor     `yaml:"color"`
	Size        SizeSpec       `yaml:"size"`
	Movement    MovementSpec   `yaml:"movement"`
	Animation   AnimationSpec  `yaml:"animation"`
	Melee       MeleeSpec      `yaml:"melee"`
	Shoot       ShootSpec      `yaml:"shoot"`
	Projectile  ProjectileSpec `yaml:"projectile"`
	// Silhouette is "ellipse" for a pixel mask or empty for plain boxes.
	Silhouette string `yaml:"silhouette"`
}

func LoadFighterSpec(name string) (*FighterSpec, error) {
	spec, err := LoadSpec[FighterSpec](fighterPath(name))
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(name, ".yaml")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: fighter %s: %w", name, err)
	}
	return &spec, nil
}

// Tunables converts the fighter file into the values a fighter runs on.
func (s *FighterSpec) Tunables() component.Tunables {
	t := component.Tunables{
		Speed:          s.Movement.Speed,
		JumpSpeed:      s.Movement.JumpSpeed,
		Gravity:        s.Movement.Gravity,
		Width:          s.Size.Width,
		Height:         s.Size.Height,
		AnimationSpeed: s.Animation.Speed,
		RunFrames:      s.Animation.Run,
		JumpFrames:     s.Animation.Jump,
		HitFrames:      s.Animation.Hit,
		IdleFrames:     s.Animation.Idle,
		MeleeDamage:    s.Melee.Damage,
		MeleeNudge:     s.Melee.Nudge,
		MeleeCooldown:  s.Melee.Cooldown,
		ShootCooldown:  s.Shoot.Cooldown,
		Burst:          s.Shoot.Burst,
		Projectile: component.ProjectileTunables{
			Type:   s.Projectile.Type,
			Speed:  s.Projectile.Speed,
			Width:  s.Projectile.Width,
			Height: s.Projectile.Height,
			Frames: s.Projectile.Frames,
			Damage: s.Projectile.Damage,
		},
	}
	if s.Silhouette == "ellipse" {
		t.Projectile.Silhouette = component.NewEllipseSilhouette(int(t.Projectile.Width), int(t.Projectile.Height))
	}
	return t
}

// BodySilhouette returns the fighter's hit mask, or nil for box tests.
func (s *FighterSpec) BodySilhouette() *component.Silhouette {
	if s.Silhouette != "ellipse" {
		return nil
	}
	return component.NewEllipseSilhouette(int(s.Size.Width), int(s.Size.Height))
}

func (s *FighterSpec) Validate() error {
	if s.Name == "" {
		return &ConfigurationError{Field: "name", Reason: "is required"}
	}
	switch s.Silhouette {
	case "", "ellipse", "box":
	default:
		return &ConfigurationError{Field: "silhouette", Reason: fmt.Sprintf("unknown kind %q", s.Silhouette)}
	}
	return s.Tunables().Validate()
}

// ArenaSpec lays out the playfield and the match rules.
type ArenaSpec struct {
	Name            string        `yaml:"name"`
	Width           float64       `yaml:"width"`
	Height          float64       `yaml:"height"`
	FloorOffset     float64       `yaml:"floor_offset"`
	SpawnOffset     float64       `yaml:"spawn_offset"`
	LeftSpawnX      float64       `yaml:"left_spawn_x"`
	RightSpawnInset float64       `yaml:"right_spawn_inset"`
	RoundTime       time.Duration `yaml:"round_time"`
	RoundsToWin     int           `yaml:"rounds_to_win"`
	MaxRounds       int           `yaml:"max_rounds"`
	Background      *YAMLColor    `yaml:"background"`
	FloorColor      *YAMLColor    `yaml:"floor_color"`
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec]("arena.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: arena: %w", err)
	}
	return &spec, nil
}

func (s *ArenaSpec) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return &ConfigurationError{Field: "size", Reason: "must be positive"}
	case s.FloorOffset < 0 || s.FloorOffset >= s.Height:
		return &ConfigurationError{Field: "floor_offset", Reason: "must lie inside the arena"}
	case s.RoundTime <= 0:
		return &ConfigurationError{Field: "round_time", Reason: "must be positive"}
	case s.RoundsToWin <= 0:
		return &ConfigurationError{Field: "rounds_to_win", Reason: "must be positive"}
	case s.MaxRounds < s.RoundsToWin:
		return &ConfigurationError{Field: "max_rounds", Reason: "must allow a side to reach rounds_to_win"}
	}
	return nil
}

// Bounds is the playfield box (L/R horizontal, B top, T bottom).
func (s *ArenaSpec) Bounds() cp.BB {
	return cp.BB{L: 0, B: 0, R: s.Width, T: s.Height}
}

func (s *ArenaSpec) FloorY() float64 {
	return s.Height - s.FloorOffset
}

// BotsSpec holds the tuning of every bot policy.
type BotsSpec struct {
	Aggressive policy.AggressiveParams `yaml:"aggressive"`
	Defensive  policy.DefensiveParams  `yaml:"defensive"`
	Scripted   ScriptedSpec            `yaml:"scripted"`
}

type ScriptedSpec struct {
	Name          string        `yaml:"name"`
	Script        string        `yaml:"script"`
	ShootCooldown time.Duration `yaml:"shoot_cooldown"`
	MeleeCooldown time.Duration `yaml:"melee_cooldown"`
	Burst         int           `yaml:"burst"`
}

// LoadPolicyParams reads bots.yaml and the scripted bot's source. Values
// missing from the file keep their defaults.
func LoadPolicyParams() (policy.Params, error) {
	params := policy.DefaultParams()
	spec := BotsSpec{Aggressive: params.Aggressive, Defensive: params.Defensive}

	data, err := Load("bots.yaml")
	if err != nil {
		return params, fmt.Errorf("prefabs: load bots.yaml: %w", err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return params, fmt.Errorf("prefabs: unmarshal bots.yaml: %w", err)
	}
	if spec.Defensive.MinRange > spec.Defensive.MaxRange {
		return params, &ConfigurationError{Field: "defensive.min_range", Reason: "exceeds max_range"}
	}

	params.Aggressive = spec.Aggressive
	params.Defensive = spec.Defensive
	if spec.Scripted.Script != "" {
		src, err := LoadScript(spec.Scripted.Script)
		if err != nil {
			return params, fmt.Errorf("prefabs: load script %s: %w", spec.Scripted.Script, err)
		}
		params.Script = policy.ScriptParams{
			Name:          spec.Scripted.Name,
			Source:        src,
			ShootCooldown: spec.Scripted.ShootCooldown,
			MeleeCooldown: spec.Scripted.MeleeCooldown,
			Burst:         spec.Scripted.Burst,
		}
	}
	return params, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed color, or fallback when the yaml left it out.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
