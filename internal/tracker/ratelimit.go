package tracker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a minimum cooldown between consecutive outbound
// requests. One limiter may be shared by several clients so that sessions
// rebuilt at runtime keep pacing against a single clock.
type RateLimiter struct {
	cooldown time.Duration
	limiter  *rate.Limiter
}

// NewRateLimiter builds a limiter for the given cooldown. A non-positive
// cooldown disables pacing.
func NewRateLimiter(cooldown time.Duration) *RateLimiter {
	limit := rate.Inf
	if cooldown > 0 {
		limit = rate.Every(cooldown)
	}
	return &RateLimiter{
		cooldown: cooldown,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Hit blocks until at least the cooldown has elapsed since the previous
// dispatch through this limiter, then records the new dispatch. Concurrent
// callers serialize internally; it returns early only when ctx is done.
func (r *RateLimiter) Hit(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Cooldown returns the configured pacing interval.
func (r *RateLimiter) Cooldown() time.Duration {
	return r.cooldown
}
