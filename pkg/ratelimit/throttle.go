package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/chirper-app/gatekit/pkg/otp"
)

// IssueThrottle caps how often one identity may request a verification code.
// It satisfies the flow controller's Throttle interface.
type IssueThrottle struct {
	limiter *RateLimiter
}

// NewIssueThrottle allows capacity code requests in a burst per identity,
// refilling at refillRate requests per second.
func NewIssueThrottle(capacity int, refillRate float64, ttl time.Duration) *IssueThrottle {
	return &IssueThrottle{
		limiter: NewRateLimiter(capacity, refillRate, ttl),
	}
}

// Allow rejects with a rate-limit error when the identity's bucket is empty.
func (t *IssueThrottle) Allow(ctx context.Context, identity string) error {
	if !t.limiter.Allow(identity) {
		return fmt.Errorf("%w: too many code requests, try again later", otp.ErrRateLimited)
	}
	return nil
}
