package websocket

import (
	"time"

	"pricefeed/pkg/exception"
)

// DefaultBackoff provides the reconnect defaults of the public market stream.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:        time.Second,
		Max:         30 * time.Second,
		MaxAttempts: 5,
	}
}

// Delay returns min(Base * 2^attempt, Max).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	wait := b.Base
	if wait >= b.Max {
		return b.Max
	}
	for i := 0; i < attempt; i++ {
		next := wait * 2
		if next >= b.Max || next <= wait {
			return b.Max
		}
		wait = next
	}

	return wait
}

// Validate reports whether the backoff can drive a reconnect loop.
func (b Backoff) Validate() error {
	if b.Base <= 0 || b.Max <= 0 || b.Max < b.Base || b.MaxAttempts < 0 {
		return exception.ErrWebSocketBadBackoff
	}
	return nil
}
