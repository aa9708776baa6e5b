package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/post"
	"github.com/chirper-app/gatekit/pkg/verification"
	verificationapi "github.com/chirper-app/gatekit/pkg/verification/api"
)

// Handler serves the guarded audio publish endpoint.
type Handler struct {
	service *post.PostService
}

// NewHandler creates a new post API handler.
func NewHandler(service *post.PostService) *Handler {
	return &Handler{service: service}
}

// Routes mounts the post endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/posts/audio", h.PublishAudio)
}

// PublishAudio handles POST /api/posts/audio
func (h *Handler) PublishAudio(w http.ResponseWriter, r *http.Request) {
	identity, err := verificationapi.IdentityFromContext(r.Context())
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req PublishAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	var params post.PublishAudioParams
	if err := copier.Copy(&params, &req); err != nil {
		slog.Error("Failed to map publish request", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred"})
		return
	}
	params.Identity = identity

	published, err := h.service.PublishAudio(r.Context(), params)
	if err != nil {
		h.renderPublishError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, PostResponse{
		ID:        published.ID.String(),
		AuthorID:  published.AuthorID.String(),
		Content:   published.Content,
		AudioURL:  published.AudioURL,
		CreatedAt: published.CreatedAt,
	})
}

func (h *Handler) renderPublishError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "An error occurred"

	switch {
	case errors.Is(err, verification.ErrNotVerified):
		status = http.StatusForbidden
		message = "Audio post verification required"
	case errors.Is(err, post.ErrAudioMissing),
		errors.Is(err, post.ErrAudioTooLarge),
		errors.Is(err, post.ErrAudioTooLong):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, otp.ErrInvalidOrExpiredCode):
		status = http.StatusBadRequest
		message = "Invalid or expired verification code"
	default:
		slog.Error("Audio publish failed", "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
