package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/timewindow"
)

// Throttle limits code issuing for a purpose beyond the time-window policy.
// Allow returns nil or an error explaining the denial (typically wrapping
// otp.ErrRateLimited).
type Throttle interface {
	Allow(ctx context.Context, identity string) error
}

// FlowService drives the verification state machine for every
// (identity, purpose) pair.
type FlowService struct {
	otpService *otp.OtpService
	flows      *flowStore
	policies   map[otp.Purpose]timewindow.Policy
	throttles  map[otp.Purpose]Throttle
	grantTTL   time.Duration
	now        func() time.Time
}

// FlowServiceOption defines configuration options
type FlowServiceOption func(*FlowService)

// WithPolicy attaches a time-window policy to a purpose. Purposes without a
// policy are always allowed to start.
func WithPolicy(purpose otp.Purpose, policy timewindow.Policy) FlowServiceOption {
	return func(s *FlowService) {
		s.policies[purpose] = policy
	}
}

// WithThrottle attaches an issue throttle to a purpose.
func WithThrottle(purpose otp.Purpose, throttle Throttle) FlowServiceOption {
	return func(s *FlowService) {
		s.throttles[purpose] = throttle
	}
}

// WithGrantTTL sets how long a verification grant stays usable.
func WithGrantTTL(ttl time.Duration) FlowServiceOption {
	return func(s *FlowService) {
		s.grantTTL = ttl
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) FlowServiceOption {
	return func(s *FlowService) {
		s.now = now
	}
}

// NewFlowService creates a new verification flow service.
func NewFlowService(otpService *otp.OtpService, opts ...FlowServiceOption) *FlowService {
	service := &FlowService{
		otpService: otpService,
		flows:      newFlowStore(),
		policies:   make(map[otp.Purpose]timewindow.Policy),
		throttles:  make(map[otp.Purpose]Throttle),
		grantTTL:   10 * time.Minute,
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// RequestCode starts a flow: policy check, throttle check, then code issue.
// Nothing is minted when either gate rejects.
func (s *FlowService) RequestCode(ctx context.Context, identity string, purpose otp.Purpose) error {
	if policy, ok := s.policies[purpose]; ok && !policy.Allowed(s.now()) {
		slog.Warn("Code request outside allowed window", "identity", identity, "purpose", purpose, "window", policy.String())
		return fmt.Errorf("%w: allowed between %s", ErrPolicyDenied, policy.String())
	}

	if throttle, ok := s.throttles[purpose]; ok {
		if err := throttle.Allow(ctx, identity); err != nil {
			slog.Warn("Code request throttled", "identity", identity, "purpose", purpose, "error", err)
			return err
		}
	}

	if err := s.otpService.Issue(ctx, identity, purpose); err != nil {
		return err
	}

	s.flows.noteRequested(identity, purpose)
	return nil
}

// SubmitCode consumes the code and, on success, records a verification grant.
func (s *FlowService) SubmitCode(ctx context.Context, identity string, purpose otp.Purpose, code string) error {
	if err := s.otpService.Consume(ctx, identity, purpose, code); err != nil {
		return err
	}

	s.flows.grant(identity, purpose, s.now().Add(s.grantTTL))
	slog.Info("Verification grant issued", "identity", identity, "purpose", purpose)
	return nil
}

// Perform executes a guarded action under a live grant. The grant is spent
// only when the action succeeds; a failed action leaves it intact so the
// caller can retry without re-verifying.
func (s *FlowService) Perform(ctx context.Context, identity string, purpose otp.Purpose, action func(context.Context) error) error {
	if !s.flows.hasGrant(identity, purpose, s.now()) {
		slog.Warn("Guarded action attempted without grant", "identity", identity, "purpose", purpose)
		return ErrNotVerified
	}

	if err := action(ctx); err != nil {
		slog.Error("Guarded action failed, grant retained", "identity", identity, "purpose", purpose, "error", err)
		return err
	}

	s.flows.consume(identity, purpose)
	slog.Info("Guarded action completed", "identity", identity, "purpose", purpose)
	return nil
}

// State reports the flow position for (identity, purpose).
func (s *FlowService) State(identity string, purpose otp.Purpose) State {
	return s.flows.stateOf(identity, purpose, s.now())
}
