package account

import "errors"

var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailTaken is returned when creating an account with an email that
	// already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidLanguage is returned for language codes outside the
	// supported set.
	ErrInvalidLanguage = errors.New("unsupported language code")
)
