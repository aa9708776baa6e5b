package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chirper-app/gatekit/pkg/notice"
	"github.com/chirper-app/gatekit/pkg/notification"
)

// OtpService issues and consumes verification codes. Delivery is a single
// best-effort attempt through the notification manager: a failed delivery is
// logged but never fails issuance, and the code itself is never surfaced to
// the caller.
type OtpService struct {
	repo                OtpRepository
	notificationManager *notification.NotificationManager
	codeExpiry          time.Duration
	now                 func() time.Time
}

// OtpServiceOption defines configuration options
type OtpServiceOption func(*OtpService)

// WithCodeExpiry sets the code expiration duration
func WithCodeExpiry(expiry time.Duration) OtpServiceOption {
	return func(s *OtpService) {
		s.codeExpiry = expiry
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) OtpServiceOption {
	return func(s *OtpService) {
		s.now = now
	}
}

// NewOtpService creates a new code service
func NewOtpService(repo OtpRepository, notificationManager *notification.NotificationManager, opts ...OtpServiceOption) *OtpService {
	service := &OtpService{
		repo:                repo,
		notificationManager: notificationManager,
		codeExpiry:          10 * time.Minute,
		now:                 func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Issue supersedes any unused code for (identity, purpose), stores a fresh
// 6-digit code, and triggers one delivery attempt.
func (s *OtpService) Issue(ctx context.Context, identity string, purpose Purpose) error {
	if err := ValidatePurpose(purpose); err != nil {
		return err
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(s.codeExpiry)
	entity, err := s.repo.Replace(ctx, ReplaceCodeParams{
		Identity:  identity,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		slog.Error("Failed to store verification code", "identity", identity, "purpose", purpose, "error", err)
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	// Delivery is best effort. The code stays valid even when the email
	// bounces; the caller can re-request if it never arrives.
	if err := s.deliver(identity, purpose, code); err != nil {
		slog.Error("Failed to deliver verification code", "identity", identity, "purpose", purpose, "error", err)
	}

	slog.Info("Verification code issued", "identity", identity, "purpose", purpose, "code_id", entity.ID, "expires_at", expiresAt)
	return nil
}

// Consume validates and marks the submitted code as used. Every miss maps to
// the same ErrInvalidOrExpiredCode.
func (s *OtpService) Consume(ctx context.Context, identity string, purpose Purpose, submitted string) error {
	if err := ValidatePurpose(purpose); err != nil {
		return err
	}

	entity, err := s.repo.Consume(ctx, ConsumeCodeParams{
		Identity: identity,
		Purpose:  purpose,
		Code:     submitted,
		Now:      s.now(),
	})
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			slog.Warn("Verification code rejected", "identity", identity, "purpose", purpose)
			return ErrInvalidOrExpiredCode
		}
		slog.Error("Failed to consume verification code", "identity", identity, "purpose", purpose, "error", err)
		return fmt.Errorf("failed to consume verification code: %w", err)
	}

	slog.Info("Verification code consumed", "identity", identity, "purpose", purpose, "code_id", entity.ID)
	return nil
}

func (s *OtpService) deliver(identity string, purpose Purpose, code string) error {
	if s.notificationManager == nil {
		slog.Warn("Notification manager not configured, skipping code delivery")
		return nil
	}

	noticeType, ok := notice.NoticeTypeForPurpose(string(purpose))
	if !ok {
		return fmt.Errorf("no notice registered for purpose: %s", purpose)
	}

	return s.notificationManager.Send(noticeType, notification.NotificationData{
		To: identity,
		Data: map[string]string{
			"Code":          code,
			"ExpiryMinutes": fmt.Sprintf("%.0f", s.codeExpiry.Minutes()),
		},
	})
}
