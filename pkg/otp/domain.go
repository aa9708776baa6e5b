package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Purpose distinguishes concurrent verification flows for the same identity.
// It is a closed set: the storage layer rejects anything else, so a typo at
// a call site cannot create a silently-dead verification scope.
type Purpose string

const (
	PurposeLoginStepUp    Purpose = "login_step_up"
	PurposePasswordReset  Purpose = "password_reset"
	PurposeAudioPost      Purpose = "audio_post"
	PurposeLanguageChange Purpose = "language_change"
)

// ValidatePurpose checks that the given purpose is one of the known scopes.
func ValidatePurpose(purpose Purpose) error {
	switch purpose {
	case PurposeLoginStepUp, PurposePasswordReset, PurposeAudioPost, PurposeLanguageChange:
		return nil
	default:
		return fmt.Errorf("invalid purpose: %s", purpose)
	}
}

// CodeEntity is a stored verification code.
type CodeEntity struct {
	ID        uuid.UUID
	Identity  string
	Purpose   Purpose
	Code      string
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ReplaceCodeParams carries the fields for superseding and inserting a code.
type ReplaceCodeParams struct {
	Identity  string
	Purpose   Purpose
	Code      string
	ExpiresAt time.Time
}

// ConsumeCodeParams identifies the code to consume. Now is passed in so the
// expiry comparison happens against a single instant.
type ConsumeCodeParams struct {
	Identity string
	Purpose  Purpose
	Code     string
	Now      time.Time
}

// GenerateCode returns a uniformly random 6-digit numeric code in
// [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
