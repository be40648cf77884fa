package itcom

import (
	"time"

	catrate "github.com/joeycumines/go-catrate"
)

// RateLimiter enforces the per-connection outbound message cap described
// in spec §3/§4.1 step 4 ("allowed_messages per time_window_ms"), built
// over a sliding-window multi-category limiter rather than a hand-rolled
// counter/window-reset pair.
type RateLimiter struct {
	allowedMessages int
	timeWindow      time.Duration
	limiter         *catrate.Limiter
}

// NewRateLimiter constructs a limiter admitting allowedMessages events
// per timeWindowMs milliseconds, independently for every category passed
// to Allow (one category per destination connection).
func NewRateLimiter(allowedMessages int, timeWindowMs int) *RateLimiter {
	window := time.Duration(timeWindowMs) * time.Millisecond
	return &RateLimiter{
		allowedMessages: allowedMessages,
		timeWindow:      window,
		limiter: catrate.NewLimiter(map[time.Duration]int{
			window: allowedMessages,
		}),
	}
}

// Allow attempts to register one outbound message for category (the
// destination connection role). It reports whether the message may be
// sent now.
func (r *RateLimiter) Allow(category any) bool {
	_, ok := r.limiter.Allow(category)
	return ok
}

// AllowedMessages returns the configured per-window message cap.
func (r *RateLimiter) AllowedMessages() int {
	return r.allowedMessages
}

// TimeWindow returns the configured sliding window duration.
func (r *RateLimiter) TimeWindow() time.Duration {
	return r.timeWindow
}
