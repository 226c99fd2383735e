package github

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitTracker(t *testing.T) {
	var tracker rateLimitTracker

	tracker.UpdateLimits(nil)
	tracker.UpdateLimits(&github.Response{Response: &http.Response{}})
	_, known := tracker.Status()
	assert.False(t, known)

	reset := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker.UpdateLimits(&github.Response{Rate: github.Rate{Limit: 5000, Remaining: 4000, Reset: github.Timestamp{Time: reset}}})
	tracker.UpdateLimits(&github.Response{Rate: github.Rate{Limit: 5000, Remaining: 12, Reset: github.Timestamp{Time: reset}}})

	status, known := tracker.Status()
	assert.True(t, known)
	assert.Equal(t, RateLimitStatus{Limit: 5000, Remaining: 12, ResetTime: reset}, status)
	assert.True(t, status.Low())
	assert.False(t, RateLimitStatus{Remaining: MinRemainingRequests}.Low())
}
