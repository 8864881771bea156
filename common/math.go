package common

// Lerp moves a toward b by the fraction t.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Approach eases cur toward target and snaps once the gap is below eps, so
// HUD bars settle on the exact value instead of creeping forever.
func Approach(cur, target, rate, eps float32) float32 {
	next := Lerp(cur, target, rate)
	if d := target - next; d < eps && d > -eps {
		return target
	}
	return next
}

// Fraction returns v/max clamped to [0,1]. A non-positive max yields 0.
func Fraction(v, max float32) float32 {
	if max <= 0 {
		return 0
	}
	f := v / max
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
