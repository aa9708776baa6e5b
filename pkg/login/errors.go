package login

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a caller cannot tell accounts apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrBrowserNotSupported is returned for Microsoft browsers, which the
	// product does not allow to sign in.
	ErrBrowserNotSupported = errors.New("this browser is not supported for login")
)
