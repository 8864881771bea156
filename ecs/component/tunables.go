package component

import "fmt"

// ConfigurationError reports a missing or invalid tunable.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}

// Validate checks that every tunable a fighter needs is usable.
func (t Tunables) Validate() error {
	switch {
	case t.Speed <= 0:
		return invalid("speed", "must be positive")
	case t.JumpSpeed >= 0:
		return invalid("jump_speed", "must be negative (upward)")
	case t.Gravity <= 0:
		return invalid("gravity", "must be positive")
	case t.Width <= 0 || t.Height <= 0:
		return invalid("size", "must be positive")
	case t.AnimationSpeed <= 0:
		return invalid("animation_speed", "must be positive")
	case t.RunFrames <= 0, t.JumpFrames <= 0, t.HitFrames <= 0, t.IdleFrames <= 0:
		return invalid("frames", "every clip needs at least one frame")
	case t.MeleeDamage < 0:
		return invalid("melee.damage", "must not be negative")
	case t.MeleeNudge < 0:
		return invalid("melee.nudge", "must not be negative")
	case t.MeleeCooldown < 0:
		return invalid("melee.cooldown", "must not be negative")
	case t.ShootCooldown < 0:
		return invalid("shoot.cooldown", "must not be negative")
	case t.Burst < 1 || t.Burst > 3:
		return invalid("shoot.burst", "must be between 1 and 3")
	}
	return t.Projectile.Validate()
}

func (p ProjectileTunables) Validate() error {
	switch {
	case p.Type == "":
		return invalid("projectile.type", "is required")
	case p.Speed <= 0:
		return invalid("projectile.speed", "must be positive")
	case p.Width <= 0 || p.Height <= 0:
		return invalid("projectile.size", "must be positive")
	case p.Frames <= 0:
		return invalid("projectile.frames", "must be positive")
	case p.Damage <= 0:
		return invalid("projectile.damage", "must be positive")
	}
	return nil
}
