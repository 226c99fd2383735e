package github

import (
	"time"

	"github.com/google/go-github/v66/github"
)

// MinRemainingRequests is the remaining request count below which the rate
// limit is reported as low
const MinRemainingRequests = 100

// RateLimitStatus is the rate limit GitHub reported on the most recent response
type RateLimitStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
}

// Low reports whether few requests are left before the reset
func (s RateLimitStatus) Low() bool {
	return s.Remaining < MinRemainingRequests
}

// rateLimitTracker remembers the last rate limit seen on a response. Like the
// Client that owns it, it is not safe for concurrent use.
type rateLimitTracker struct {
	status RateLimitStatus
	known  bool
}

// UpdateLimits records the rate limit carried by resp
func (rt *rateLimitTracker) UpdateLimits(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	rt.status = RateLimitStatus{
		Limit:     resp.Rate.Limit,
		Remaining: resp.Rate.Remaining,
		ResetTime: resp.Rate.Reset.Time,
	}
	rt.known = true
}

// Status returns the last recorded rate limit and whether one was seen
func (rt *rateLimitTracker) Status() (RateLimitStatus, bool) {
	return rt.status, rt.known
}
