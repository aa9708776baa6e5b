package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/login"
	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/tokengenerator"
	"github.com/chirper-app/gatekit/pkg/verification"
)

// Handler serves the public login and password reset endpoints.
type Handler struct {
	service *login.LoginService
}

// NewHandler creates a new login API handler.
func NewHandler(service *login.LoginService) *Handler {
	return &Handler{service: service}
}

// Routes mounts the login endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/login/otp/send", h.SendStepUpCode)
	r.Post("/login/otp/verify", h.VerifyStepUpCode)
	r.Post("/password/reset/send", h.SendPasswordResetCode)
	r.Post("/password/reset/verify", h.VerifyPasswordResetCode)
}

// Login handles POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password, r.UserAgent(), clientIP(r))
	if err != nil {
		h.renderLoginError(w, r, err)
		return
	}

	if result.StepUpRequired {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, StepUpResponse{
			StepUpRequired: true,
			Message:        "Verification code required. Request one via /login/otp/send",
		})
		return
	}

	h.renderLoginResult(w, r, result)
}

// SendStepUpCode handles POST /api/login/otp/send
func (h *Handler) SendStepUpCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.RequestStepUpCode(r.Context(), req.Email); err != nil {
		h.renderLoginError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Verification code sent"})
}

// VerifyStepUpCode handles POST /api/login/otp/verify
func (h *Handler) VerifyStepUpCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.service.CompleteStepUp(r.Context(), req.Email, req.Code, r.UserAgent(), clientIP(r))
	if err != nil {
		h.renderLoginError(w, r, err)
		return
	}

	h.renderLoginResult(w, r, result)
}

// SendPasswordResetCode handles POST /api/password/reset/send
func (h *Handler) SendPasswordResetCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.renderLoginError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Password reset code sent"})
}

// VerifyPasswordResetCode handles POST /api/password/reset/verify
func (h *Handler) VerifyPasswordResetCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.ConfirmPasswordReset(r.Context(), req.Email, req.Code); err != nil {
		h.renderLoginError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Password reset. Check your email for the new password"})
}

func (h *Handler) renderLoginResult(w http.ResponseWriter, r *http.Request, result login.LoginResult) {
	var acctResponse AccountResponse
	if err := copier.Copy(&acctResponse, &result.Account); err != nil {
		slog.Error("Failed to map account response", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred"})
		return
	}
	acctResponse.ID = result.Account.ID.String()

	tokengenerator.SetAccessTokenCookie(w, result.Token, result.ExpiresAt)

	expiresAt := result.ExpiresAt
	render.Status(r, http.StatusOK)
	render.JSON(w, r, LoginResponse{
		Token:     result.Token,
		ExpiresAt: &expiresAt,
		Account:   acctResponse,
	})
}

// clientIP strips the port from RemoteAddr. Behind the RealIP middleware
// RemoteAddr already carries the forwarded client address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "An error occurred"

	switch {
	case errors.Is(err, login.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid email or password"
	case errors.Is(err, login.ErrBrowserNotSupported):
		status = http.StatusForbidden
		message = "This browser is not supported for login"
	case errors.Is(err, verification.ErrPolicyDenied):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, verification.ErrNotVerified):
		status = http.StatusForbidden
		message = "Verification required"
	case errors.Is(err, otp.ErrRateLimited):
		status = http.StatusTooManyRequests
		message = err.Error()
	case errors.Is(err, otp.ErrInvalidOrExpiredCode):
		status = http.StatusBadRequest
		message = "Invalid or expired verification code"
	case errors.Is(err, account.ErrAccountNotFound):
		status = http.StatusNotFound
		message = "Account not found"
	default:
		slog.Error("Login request failed", "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
