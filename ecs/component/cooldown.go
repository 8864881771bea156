package component

import "time"

// Cooldown gates an action on elapsed clock time since it last fired. The
// zero value is ready immediately.
type Cooldown struct {
	Duration time.Duration

	last time.Duration
	used bool
}

// Ready reports whether at least Duration has passed since the last trigger.
func (c *Cooldown) Ready(now time.Duration) bool {
	return !c.used || now-c.last >= c.Duration
}

// Remaining is how long until the cooldown is ready, zero when it is.
func (c *Cooldown) Remaining(now time.Duration) time.Duration {
	if c.Ready(now) {
		return 0
	}
	return c.Duration - (now - c.last)
}

// Trigger records now as the last use.
func (c *Cooldown) Trigger(now time.Duration) {
	c.last = now
	c.used = true
}

// TryTrigger fires the cooldown if it is ready and reports whether it did.
func (c *Cooldown) TryTrigger(now time.Duration) bool {
	if !c.Ready(now) {
		return false
	}
	c.Trigger(now)
	return true
}

// Last returns the time of the last trigger and whether there was one.
func (c *Cooldown) Last() (time.Duration, bool) {
	return c.last, c.used
}

// Reset makes the cooldown ready again.
func (c *Cooldown) Reset() {
	c.last = 0
	c.used = false
}
