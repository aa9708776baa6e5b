package loginhistory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chirper-app/gatekit/pkg/useragent"
)

// LoginHistoryService records sign-ins and lists them back, newest first.
type LoginHistoryService struct {
	repo LoginHistoryRepository
}

// NewLoginHistoryService creates a new login history service.
func NewLoginHistoryService(repo LoginHistoryRepository) *LoginHistoryService {
	return &LoginHistoryService{repo: repo}
}

// RecordLogin classifies the client from its User-Agent string and stores a
// login event for the identity.
func (s *LoginHistoryService) RecordLogin(ctx context.Context, identity, userAgent, ipAddress string) error {
	info := useragent.Parse(userAgent)
	if ipAddress == "" {
		ipAddress = "unknown"
	}

	_, err := s.repo.Record(ctx, RecordEventParams{
		Identity:   identity,
		Browser:    info.Browser,
		OS:         info.OS,
		DeviceType: string(info.DeviceType),
		IPAddress:  ipAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}

	slog.Info("Login recorded", "identity", identity, "browser", info.Browser, "device", info.DeviceType)
	return nil
}

// List returns the identity's most recent login events.
func (s *LoginHistoryService) List(ctx context.Context, identity string, limit int) ([]LoginEvent, error) {
	return s.repo.ListByIdentity(ctx, identity, limit)
}
