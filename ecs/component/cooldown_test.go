package component

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown(t *testing.T) {
	c := Cooldown{Duration: 500 * time.Millisecond}

	assert.True(t, c.Ready(0))
	assert.Zero(t, c.Remaining(0))
	assert.True(t, c.TryTrigger(100*time.Millisecond))

	tests := []struct {
		now       time.Duration
		ready     bool
		remaining time.Duration
	}{
		{now: 100 * time.Millisecond, ready: false, remaining: 500 * time.Millisecond},
		{now: 400 * time.Millisecond, ready: false, remaining: 200 * time.Millisecond},
		{now: 600 * time.Millisecond, ready: true},
		{now: time.Second, ready: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ready, c.Ready(tt.now), tt.now)
		assert.Equal(t, tt.remaining, c.Remaining(tt.now), tt.now)
	}

	assert.False(t, c.TryTrigger(200*time.Millisecond))
	last, used := c.Last()
	assert.True(t, used)
	assert.Equal(t, 100*time.Millisecond, last)

	c.Reset()
	assert.True(t, c.Ready(0))
}
