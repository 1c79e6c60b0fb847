package unlockhandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"qbhouse/internal/domain/auth"
	"qbhouse/internal/transport/http/api"
	"qbhouse/internal/transport/http/middleware"
	"qbhouse/internal/transport/http/shared"
)

const (
	unlockAttempts = 5
	unlockWindow   = time.Minute
)

type Handler struct {
	Unlocker *auth.Unlocker
}

func NewHandler(unlocker *auth.Unlocker) *Handler {
	return &Handler{Unlocker: unlocker}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RateLimit(unlockAttempts, unlockWindow)).Post("/unlock", h.handleUnlock)
	r.Get("/unlock", h.handleStatus)
}

type unlockPayload struct {
	Code string `json:"code"`
}

type unlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var payload unlockPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("code", payload.Code, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	token, expires, err := h.Unlocker.Unlock(payload.Code)
	if errors.Is(err, auth.ErrInvalidCode) {
		api.Fail(w, http.StatusUnauthorized, "invalid_code", "unlock code is incorrect", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "unlock_failed", "failed to issue unlock token", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, unlockResponse{Token: token, ExpiresAt: expires}, middleware.GetRequestID(r.Context()))
}

// handleStatus tells the UI whether its stored token still unlocks the manager section.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]bool{"unlocked": middleware.ManagerUnlocked(r.Context())}, middleware.GetRequestID(r.Context()))
}
