package interviewhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"qbhouse/internal/domain/interview"
	"qbhouse/internal/requestctx"
	"qbhouse/internal/transport/http/api"
	"qbhouse/internal/transport/http/middleware"
	"qbhouse/internal/transport/http/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Handler struct {
	Service *interview.Service
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewHandler(service *interview.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: service, Logger: logger, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/options", h.handleOptions)
		r.Get("/draft", h.handleDraft)
		r.Get("/{interviewID}", h.handleGet)
		r.Put("/{interviewID}", h.handleUpdate)
		r.Delete("/{interviewID}", h.handleDelete)
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	switch {
	case v.Check(err):
		v.Reject(w, reqID)
	case errors.Is(err, interview.ErrInterviewNotFound):
		api.Fail(w, http.StatusNotFound, "interview_not_found", "interview record not found", reqID)
	default:
		requestctx.Logger(r.Context(), h.Logger).Warn("interview request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, fallback, "request failed", reqID)
	}
}

// handleList supports ?employeeId=, ?q= and limit/offset paging. The total is before paging.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	recs, err := h.Service.List(r.Context(), interview.Filter{
		EmployeeID: query.Get("employeeId"),
		Query:      query.Get("q"),
	})
	if err != nil {
		h.writeError(w, r, err, "interviews_list_failed")
		return
	}
	page := shared.ParsePagination(r, defaultPageSize, maxPageSize)
	api.Success(w, map[string]any{
		"items":  shared.Page(recs, page),
		"total":  len(recs),
		"limit":  page.Limit,
		"offset": page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{
		"importances":  interview.Importances,
		"statuses":     interview.Statuses,
		"statusLabels": interview.StatusLabels,
		"meetingTypes": interview.MeetingTypes,
	}, middleware.GetRequestID(r.Context()))
}

// handleDraft returns blank form values, prefilled from the query and dated today.
func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	draft := interview.Draft(query.Get("storeName"), query.Get("employeeName"), query.Get("employeeId"), shared.QueryDate(r, "date", h.Now()))
	api.Success(w, draft, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "interviewID"))
	if err != nil {
		h.writeError(w, r, err, "interview_get_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload interview.Record
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.ID = ""
	rec, err := h.Service.Save(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err, "interview_create_failed")
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "interviewID")
	if _, err := h.Service.Get(r.Context(), id); err != nil {
		h.writeError(w, r, err, "interview_update_failed")
		return
	}
	var payload interview.Record
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.ID = id
	rec, err := h.Service.Save(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err, "interview_update_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "interviewID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "interview_delete_failed")
		return
	}
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}
