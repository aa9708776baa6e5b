package account

import (
	"context"
	"fmt"
	"log/slog"
)

// AccountService exposes the account operations the gate flows need. The
// language switch is a guarded action: callers must hold a verification
// grant before invoking ChangeLanguage (enforced by the flow controller,
// not here).
type AccountService struct {
	repo AccountRepository
}

// NewAccountService creates a new account service.
func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// GetByEmail looks up an account by email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

// ChangeLanguage updates the account's preferred display language.
func (s *AccountService) ChangeLanguage(ctx context.Context, email, language string) error {
	if err := ValidateLanguage(language); err != nil {
		return err
	}

	acct, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		slog.Error("Failed to get account for language change", "email", email, "error", err)
		return err
	}

	if err := s.repo.UpdateLanguage(ctx, acct.ID, language); err != nil {
		slog.Error("Failed to update language", "email", email, "language", language, "error", err)
		return fmt.Errorf("failed to update language: %w", err)
	}

	slog.Info("Preferred language updated", "email", email, "language", language)
	return nil
}
