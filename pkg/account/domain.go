package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Account is a Chirper user as the gate service sees it.
type Account struct {
	ID                  uuid.UUID
	Email               string
	Name                string
	PasswordHash        string
	PreferredLanguage   string
	LastPasswordResetAt *time.Time
	CreatedAt           time.Time
}

// CreateAccountParams carries the fields for creating an account.
type CreateAccountParams struct {
	Email             string
	Name              string
	PasswordHash      string
	PreferredLanguage string
}

// Language codes the UI supports.
const (
	LangEnglish = "en"
	LangFrench  = "fr"
	LangSpanish = "es"
	LangGerman  = "de"
	LangHindi   = "hi"
)

// ValidateLanguage checks the code against the supported set.
func ValidateLanguage(code string) error {
	switch code {
	case LangEnglish, LangFrench, LangSpanish, LangGerman, LangHindi:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLanguage, code)
	}
}
