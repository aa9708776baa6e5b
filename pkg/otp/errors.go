package otp

import "errors"

var (
	// ErrInvalidOrExpiredCode is returned for every consume miss: wrong code,
	// expired code, already-used code, or no code at all. The cases are
	// deliberately indistinguishable to avoid giving callers an oracle.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// ErrCodeNotFound is the repository-level miss; the service maps it to
	// ErrInvalidOrExpiredCode before it reaches a caller.
	ErrCodeNotFound = errors.New("code not found")

	// ErrRateLimited is returned when issuing is throttled for the scope.
	ErrRateLimited = errors.New("code issuing rate limit exceeded")
)
