package sensor

import (
	"testing"
	"time"

	"github.com/ericogr/dht22-monitor/pkg/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryBeginRead(t *testing.T) {
	h := &Handle{name: "test", pin: hal.NewSimLine("GPIO5", nil), valid: true}
	rl := RateLimiter{MinInterval: 2 * time.Second}
	t0 := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	require.NoError(t, rl.TryBeginRead(h, t0), "zero timestamp is infinitely in the past")
	assert.Equal(t, t0, h.LastRead())

	err := rl.TryBeginRead(h, t0.Add(1999*time.Millisecond))
	assert.ErrorIs(t, err, ErrTooFrequent)
	assert.Equal(t, t0, h.LastRead(), "denied attempt must not move the window")

	require.NoError(t, rl.TryBeginRead(h, t0.Add(2000*time.Millisecond)))
	assert.Equal(t, t0.Add(2*time.Second), h.LastRead())

	require.NoError(t, rl.TryBeginRead(h, t0.Add(time.Minute)))
}

func TestTryBeginReadDefaultInterval(t *testing.T) {
	h := &Handle{name: "test", pin: hal.NewSimLine("GPIO5", nil), valid: true}
	var rl RateLimiter
	t0 := time.Unix(1000, 0)

	require.NoError(t, rl.TryBeginRead(h, t0))
	assert.ErrorIs(t, rl.TryBeginRead(h, t0.Add(DefaultMinInterval-time.Nanosecond)), ErrTooFrequent)
	assert.NoError(t, rl.TryBeginRead(h, t0.Add(DefaultMinInterval)))
}
