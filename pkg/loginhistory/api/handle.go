package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chirper-app/gatekit/pkg/loginhistory"
	verificationapi "github.com/chirper-app/gatekit/pkg/verification/api"
)

// Handler serves the authenticated login history listing.
type Handler struct {
	service *loginhistory.LoginHistoryService
}

// NewHandler creates a new login history API handler.
func NewHandler(service *loginhistory.LoginHistoryService) *Handler {
	return &Handler{service: service}
}

// Routes mounts the login history endpoint on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/login/history", h.ListHistory)
}

// ListHistory handles GET /api/login/history. Events come back newest first;
// the optional limit query parameter caps the page size.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	identity, err := verificationapi.IdentityFromContext(r.Context())
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	events, err := h.service.List(r.Context(), identity, limit)
	if err != nil {
		slog.Error("Failed to list login history", "identity", identity, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred"})
		return
	}

	responses := make([]LoginEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, LoginEventResponse{
			ID:         event.ID.String(),
			Browser:    event.Browser,
			OS:         event.OS,
			DeviceType: event.DeviceType,
			IPAddress:  event.IPAddress,
			CreatedAt:  event.CreatedAt,
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, responses)
}
