package webhook

import (
	"math/rand/v2"
	"time"
)

const (
	defaultBackoffBase = 200 * time.Millisecond
	maxBackoff         = 5 * time.Second
)

// Backoff returns the delay before retry number attempt, starting at 1.
type Backoff func(attempt int) time.Duration

// ExponentialBackoff doubles base on each attempt, adds up to 10% jitter and
// caps the result at five seconds.
func ExponentialBackoff(base time.Duration) Backoff {
	if base <= 0 {
		base = defaultBackoffBase
	}

	return func(attempt int) time.Duration {
		if attempt <= 0 {
			return 0
		}

		delay := base
		for i := 1; i < attempt && delay < maxBackoff; i++ {
			delay *= 2
		}
		delay = min(delay, maxBackoff)

		jitter := time.Duration(rand.Int64N(int64(delay)/10 + 1))
		return min(delay+jitter, maxBackoff)
	}
}

// NoBackoff retries immediately.
func NoBackoff(int) time.Duration { return 0 }
