package sensor

import (
	"fmt"
	"time"
)

// DefaultMinInterval is the shortest gap the sensor tolerates between reads.
const DefaultMinInterval = 2 * time.Second

// RateLimiter enforces MinInterval between read attempts on a handle.
type RateLimiter struct {
	MinInterval time.Duration
}

// TryBeginRead opens a read attempt at now. The handle's timestamp moves to
// now before the bus is touched, so a failed read still uses up the window.
func (rl RateLimiter) TryBeginRead(h *Handle, now time.Time) error {
	interval := rl.MinInterval
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	if !h.lastRead.IsZero() {
		if elapsed := now.Sub(h.lastRead); elapsed < interval {
			return &Error{
				Kind: ErrTooFrequent,
				Op:   "read",
				Pin:  h.Pin(),
				Msg:  fmt.Sprintf("%s since last attempt, minimum %s", elapsed, interval),
			}
		}
	}
	h.lastRead = now
	return nil
}
