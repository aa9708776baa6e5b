package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/verification"
)

// Handler serves the authenticated code endpoints: audio-post and
// language-change verification.
type Handler struct {
	flow     *verification.FlowService
	accounts *account.AccountService
}

// NewHandler creates a new verification API handler.
func NewHandler(flow *verification.FlowService, accounts *account.AccountService) *Handler {
	return &Handler{flow: flow, accounts: accounts}
}

// Routes mounts the authenticated OTP endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/otp/audio/send", h.SendAudioCode)
	r.Post("/otp/audio/verify", h.VerifyAudioCode)
	r.Post("/otp/language/send", h.SendLanguageCode)
	r.Post("/otp/language/verify", h.VerifyLanguageCode)
}

// SendAudioCode handles POST /api/otp/audio/send
func (h *Handler) SendAudioCode(w http.ResponseWriter, r *http.Request) {
	h.sendCode(w, r, otp.PurposeAudioPost)
}

// SendLanguageCode handles POST /api/otp/language/send
func (h *Handler) SendLanguageCode(w http.ResponseWriter, r *http.Request) {
	h.sendCode(w, r, otp.PurposeLanguageChange)
}

func (h *Handler) sendCode(w http.ResponseWriter, r *http.Request, purpose otp.Purpose) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.flow.RequestCode(r.Context(), identity, purpose); err != nil {
		h.renderFlowError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Verification code sent"})
}

// VerifyAudioCode handles POST /api/otp/audio/verify. A successful verify
// unlocks one audio post publish.
func (h *Handler) VerifyAudioCode(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.flow.SubmitCode(r.Context(), identity, otp.PurposeAudioPost, req.Code); err != nil {
		h.renderFlowError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Verified. You may publish one audio post"})
}

// VerifyLanguageCode handles POST /api/otp/language/verify. The language
// switch itself is the guarded action and runs under the fresh grant.
func (h *Handler) VerifyLanguageCode(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req LanguageVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Reject bad languages before the single-use code is consumed.
	if err := account.ValidateLanguage(req.Language); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.flow.SubmitCode(r.Context(), identity, otp.PurposeLanguageChange, req.Code); err != nil {
		h.renderFlowError(w, r, err)
		return
	}

	err = h.flow.Perform(r.Context(), identity, otp.PurposeLanguageChange, func(ctx context.Context) error {
		return h.accounts.ChangeLanguage(ctx, identity, req.Language)
	})
	if err != nil {
		h.renderFlowError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: fmt.Sprintf("Preferred language changed to %s", req.Language)})
}

func (h *Handler) renderFlowError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "An error occurred"

	switch {
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
	case errors.Is(err, account.ErrInvalidLanguage):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, account.ErrAccountNotFound):
		status = http.StatusNotFound
		message = "Account not found"
	default:
		slog.Error("Verification request failed", "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// IdentityFromContext extracts the caller's email from the verified JWT,
// falling back to the subject claim.
func IdentityFromContext(ctx context.Context) (string, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", err
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	if token != nil {
		if sub := token.Subject(); sub != "" {
			return sub, nil
		}
	}
	return "", jwt.ErrInvalidJWT()
}
