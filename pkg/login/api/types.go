package api

import "time"

// LoginRequest is the body for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned when a login finishes, immediately or after
// step-up.
type LoginResponse struct {
	Token     string          `json:"token,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Account   AccountResponse `json:"account"`
}

// StepUpResponse tells the client to run the OTP step-up before a token is
// issued.
type StepUpResponse struct {
	StepUpRequired bool   `json:"step_up_required"`
	Message        string `json:"message"`
}

// AccountResponse is the public view of an account. Password hash and reset
// timestamps stay server-side.
type AccountResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	PreferredLanguage string `json:"preferred_language"`
}

// SendCodeRequest is the body for the code issue endpoints.
type SendCodeRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest is the body for the code verify endpoints.
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// MessageResponse is a generic success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
