package login

import (
	"context"
	"fmt"
	"time"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/otp"
)

// ResetDayThrottle limits password resets to one per local calendar day.
// The comparison is date equality at a fixed offset, not a rolling 24 hours:
// a reset at 23:55 allows another at 00:05. Observed product behavior,
// kept as-is.
type ResetDayThrottle struct {
	accounts account.AccountRepository
	offset   time.Duration
	now      func() time.Time
}

// NewResetDayThrottle creates a throttle evaluating calendar dates at
// UTC+offset.
func NewResetDayThrottle(accounts account.AccountRepository, offset time.Duration) *ResetDayThrottle {
	return &ResetDayThrottle{
		accounts: accounts,
		offset:   offset,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the time source. Used by tests.
func (t *ResetDayThrottle) WithNow(now func() time.Time) *ResetDayThrottle {
	t.now = now
	return t
}

// Allow rejects when the account already completed a reset today.
func (t *ResetDayThrottle) Allow(ctx context.Context, identity string) error {
	acct, err := t.accounts.GetByEmail(ctx, identity)
	if err != nil {
		return err
	}

	if acct.LastPasswordResetAt != nil && t.sameLocalDay(*acct.LastPasswordResetAt, t.now()) {
		return fmt.Errorf("%w: password can be reset only once per day", otp.ErrRateLimited)
	}
	return nil
}

func (t *ResetDayThrottle) sameLocalDay(a, b time.Time) bool {
	aY, aM, aD := a.UTC().Add(t.offset).Date()
	bY, bM, bD := b.UTC().Add(t.offset).Date()
	return aY == bY && aM == bM && aD == bD
}
