package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/notice"
	"github.com/chirper-app/gatekit/pkg/notification"
	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/timewindow"
	"github.com/chirper-app/gatekit/pkg/tokengenerator"
	"github.com/chirper-app/gatekit/pkg/useragent"
	"github.com/chirper-app/gatekit/pkg/verification"
)

const generatedPasswordLength = 12

// LoginRecorder captures successful sign-ins for the history listing.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, identity, userAgent, ipAddress string) error
}

// LoginService handles sign-in and the two login-adjacent guarded actions:
// finalizing a step-up login and resetting a password.
type LoginService struct {
	accounts            account.AccountRepository
	hasher              PasswordHasher
	flow                *verification.FlowService
	tokenGenerator      tokengenerator.TokenGenerator
	notificationManager *notification.NotificationManager
	history             LoginRecorder
	mobileWindow        *timewindow.Policy
	tokenExpiry         time.Duration
	now                 func() time.Time
}

// LoginServiceOption defines configuration options
type LoginServiceOption func(*LoginService)

// WithMobileWindow restricts mobile logins to a time window.
func WithMobileWindow(policy timewindow.Policy) LoginServiceOption {
	return func(s *LoginService) {
		s.mobileWindow = &policy
	}
}

// WithLoginHistory records every successful sign-in through the given
// recorder.
func WithLoginHistory(recorder LoginRecorder) LoginServiceOption {
	return func(s *LoginService) {
		s.history = recorder
	}
}

// WithTokenExpiry sets the access token lifetime.
func WithTokenExpiry(expiry time.Duration) LoginServiceOption {
	return func(s *LoginService) {
		s.tokenExpiry = expiry
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) LoginServiceOption {
	return func(s *LoginService) {
		s.now = now
	}
}

// NewLoginService creates a new login service.
func NewLoginService(
	accounts account.AccountRepository,
	hasher PasswordHasher,
	flow *verification.FlowService,
	tokenGenerator tokengenerator.TokenGenerator,
	notificationManager *notification.NotificationManager,
	opts ...LoginServiceOption,
) *LoginService {
	service := &LoginService{
		accounts:            accounts,
		hasher:              hasher,
		flow:                flow,
		tokenGenerator:      tokenGenerator,
		notificationManager: notificationManager,
		tokenExpiry:         24 * time.Hour,
		now:                 func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// LoginResult is the outcome of a credential check.
type LoginResult struct {
	StepUpRequired bool
	Token          string
	ExpiresAt      time.Time
	Account        account.Account
}

// Login validates credentials and applies the per-client rules: Microsoft
// browsers are rejected, mobile clients only sign in inside the mobile
// window, and desktop Chrome must complete an OTP step-up before a token is
// issued.
func (s *LoginService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (LoginResult, error) {
	if useragent.IsMicrosoftBrowser(userAgent) {
		slog.Warn("Login rejected for Microsoft browser", "email", email)
		return LoginResult{}, ErrBrowserNotSupported
	}

	if s.mobileWindow != nil && useragent.IsMobileDevice(userAgent) && !s.mobileWindow.Allowed(s.now()) {
		slog.Warn("Mobile login outside window", "email", email, "window", s.mobileWindow.String())
		return LoginResult{}, fmt.Errorf("%w: mobile logins allowed between %s", verification.ErrPolicyDenied, s.mobileWindow.String())
	}

	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to look up account: %w", err)
	}

	match, err := s.hasher.Verify(password, acct.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return LoginResult{}, ErrInvalidCredentials
	}

	if useragent.IsChromeDesktop(userAgent) {
		slog.Info("Step-up verification required", "email", email)
		return LoginResult{StepUpRequired: true, Account: acct}, nil
	}

	result, err := s.issueToken(acct)
	if err != nil {
		return LoginResult{}, err
	}

	s.recordLogin(ctx, email, userAgent, ipAddress)
	return result, nil
}

// RequestStepUpCode starts the step-up flow for an account that passed the
// credential check.
func (s *LoginService) RequestStepUpCode(ctx context.Context, email string) error {
	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}
	return s.flow.RequestCode(ctx, email, otp.PurposeLoginStepUp)
}

// CompleteStepUp consumes the submitted code and finalizes the login. Token
// issuance is the guarded action; if it fails the verification survives and
// the caller may retry.
func (s *LoginService) CompleteStepUp(ctx context.Context, email, code, userAgent, ipAddress string) (LoginResult, error) {
	if err := s.flow.SubmitCode(ctx, email, otp.PurposeLoginStepUp, code); err != nil {
		return LoginResult{}, err
	}

	var result LoginResult
	err := s.flow.Perform(ctx, email, otp.PurposeLoginStepUp, func(ctx context.Context) error {
		acct, err := s.accounts.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		result, err = s.issueToken(acct)
		return err
	})
	if err != nil {
		return LoginResult{}, err
	}

	s.recordLogin(ctx, email, userAgent, ipAddress)
	return result, nil
}

// RequestPasswordReset starts the reset flow. The once-per-day throttle is
// enforced by the flow controller's registered throttle before any code is
// minted.
func (s *LoginService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		return err
	}
	return s.flow.RequestCode(ctx, email, otp.PurposePasswordReset)
}

// ConfirmPasswordReset consumes the code and performs the guarded reset:
// generate a fresh 12-letter password, overwrite the hash, stamp the reset
// time, and deliver the new password by email. The password never appears in
// an API response.
func (s *LoginService) ConfirmPasswordReset(ctx context.Context, email, code string) error {
	if err := s.flow.SubmitCode(ctx, email, otp.PurposePasswordReset, code); err != nil {
		return err
	}

	return s.flow.Perform(ctx, email, otp.PurposePasswordReset, func(ctx context.Context) error {
		acct, err := s.accounts.GetByEmail(ctx, email)
		if err != nil {
			return err
		}

		newPassword, err := GeneratePassword(generatedPasswordLength)
		if err != nil {
			return err
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}

		if err := s.accounts.UpdatePassword(ctx, acct.ID, hash, s.now()); err != nil {
			slog.Error("Failed to update password", "email", email, "error", err)
			return err
		}

		// Best effort, like code delivery: the reset stands even if the
		// email bounces. The user can run the flow again tomorrow.
		if err := s.sendNewPassword(email, newPassword); err != nil {
			slog.Error("Failed to send new password email", "email", email, "error", err)
		}

		slog.Info("Password reset completed", "email", email)
		return nil
	})
}

func (s *LoginService) issueToken(acct account.Account) (LoginResult, error) {
	token, expiresAt, err := s.tokenGenerator.GenerateToken(acct.Email, s.tokenExpiry, map[string]interface{}{
		"account_id": acct.ID.String(),
	})
	if err != nil {
		slog.Error("Failed to generate access token", "email", acct.Email, "error", err)
		return LoginResult{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt, Account: acct}, nil
}

// recordLogin is best effort, like notice delivery: a history write failure
// never fails the sign-in itself.
func (s *LoginService) recordLogin(ctx context.Context, email, userAgent, ipAddress string) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordLogin(ctx, email, userAgent, ipAddress); err != nil {
		slog.Error("Failed to record login event", "email", email, "error", err)
	}
}

func (s *LoginService) sendNewPassword(email, newPassword string) error {
	if s.notificationManager == nil {
		slog.Warn("Notification manager not configured, skipping new password email")
		return nil
	}
	return s.notificationManager.Send(notice.NewPasswordNotice, notification.NotificationData{
		To: email,
		Data: map[string]string{
			"NewPassword": newPassword,
		},
	})
}
