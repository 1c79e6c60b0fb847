package evaluationhandler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"qbhouse/internal/domain/evaluation"
	"qbhouse/internal/domain/report"
	"qbhouse/internal/platform/metrics"
	"qbhouse/internal/requestctx"
	"qbhouse/internal/transport/http/api"
	"qbhouse/internal/transport/http/middleware"
	"qbhouse/internal/transport/http/shared"
)

type Handler struct {
	Service *evaluation.Service
	Metrics *metrics.Collector
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewHandler(service *evaluation.Service, collector *metrics.Collector, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: service, Metrics: collector, Logger: logger, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/catalog", h.handleCatalog)
	r.Get("/catalog/options", h.handleOptions)
	r.Post("/performance/preview", h.handlePerformancePreview)
	r.Get("/schedule", h.handleSchedule)

	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{recordID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleReplace)
			r.Delete("/", h.handleDelete)
			r.Post("/copy", h.handleCopy)
			r.Put("/metadata", h.handleMetadata)
			r.Put("/performance", h.handlePerformance)
			r.With(middleware.RequireUnlock).Delete("/manager", h.handleClearManager)
			r.Put("/items/{no}/score", h.handleScore)
			r.Put("/items/{no}/memo", h.handleMemo)
			r.Post("/items/{no}/incidents", h.handleAddIncident)
			r.Delete("/items/{no}/incidents/{incidentID}", h.handleRemoveIncident)
			r.Get("/dashboard", h.handleDashboard)
			r.Get("/charts", h.handleCharts)
			r.Get("/history", h.handleHistory)
			r.Get("/compare/{otherID}", h.handleCompare)
			r.Get("/schedule", h.handleRecordSchedule)
			r.Get("/export.csv", h.handleRecordCSV)
			r.Get("/export.pdf", h.handleRecordPDF)
		})
	})

	r.Get("/exports/all.csv", h.handleAllCSV)
	r.Get("/exports/all.pdf", h.handleAllPDF)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{evaluation.ErrRecordNotFound, http.StatusNotFound, "record_not_found", "evaluation record not found"},
	{evaluation.ErrItemNotFound, http.StatusNotFound, "item_not_found", "evaluation item not found"},
	{evaluation.ErrIncidentNotFound, http.StatusNotFound, "incident_not_found", "incident not found"},
	{evaluation.ErrManagerLocked, http.StatusForbidden, "manager_locked", "manager section is locked"},
	{evaluation.ErrDerivedScore, http.StatusBadRequest, "derived_score", "score is derived from incidents"},
	{evaluation.ErrScoreOutOfRange, http.StatusBadRequest, "score_out_of_range", "score outside the item's valid range"},
	{evaluation.ErrNotIncidentItem, http.StatusBadRequest, "not_incident_item", "item does not record incidents"},
	{evaluation.ErrInvalidDeduction, http.StatusBadRequest, "invalid_deduction", "deduction is not an allowed option"},
	{evaluation.ErrInvalidImprovement, http.StatusBadRequest, "invalid_improvement", "improvement is not an allowed option"},
	{evaluation.ErrRecordCorrupt, http.StatusInternalServerError, "record_corrupt", "stored record could not be parsed"},
}

// writeError maps domain errors to the envelope. Anything unknown is logged and reported as fallback.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	if v.Check(err) {
		v.Reject(w, reqID)
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			api.Fail(w, m.status, m.code, m.message, reqID)
			return
		}
	}
	requestctx.Logger(r.Context(), h.Logger).Warn("evaluation request failed", "path", r.URL.Path, "err", err)
	api.Fail(w, http.StatusInternalServerError, fallback, "request failed", reqID)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func itemNo(w http.ResponseWriter, r *http.Request) (int, bool) {
	no, ok := shared.PathInt(r, "no")
	if !ok || no <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_item", "item number must be a positive integer", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return no, true
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Catalog(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{
		"deductions":      evaluation.DeductionTables,
		"improvements":    evaluation.ImprovementOptions,
		"negativeChoices": evaluation.NegativeChoices,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePerformancePreview(w http.ResponseWriter, r *http.Request) {
	var payload evaluation.PerformanceData
	if !h.decode(w, r, &payload) {
		return
	}
	api.Success(w, map[string]any{
		"stats":   evaluation.ComputePerformance(payload),
		"monthly": evaluation.MonthlyLine(payload),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	date := shared.QueryDate(r, "date", h.Now())
	if _, ok := v.Date("date", date); !ok {
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, alertsOrEmpty(evaluation.ScheduleAlerts(date)), middleware.GetRequestID(r.Context()))
}

func alertsOrEmpty(alerts []evaluation.ScheduleAlert) []evaluation.ScheduleAlert {
	if alerts == nil {
		return []evaluation.ScheduleAlert{}
	}
	return alerts
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	index, err := h.Service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err, "records_list_failed")
		return
	}
	api.Success(w, index, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var meta evaluation.Metadata
	if !h.decode(w, r, &meta) {
		return
	}
	rec, err := h.Service.Create(r.Context(), meta)
	if err != nil {
		h.writeError(w, r, err, "record_create_failed")
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCopy(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.CreateFrom(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "record_copy_failed")
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "record_get_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	var rec evaluation.Record
	if !h.decode(w, r, &rec) {
		return
	}
	rec.Metadata.ID = chi.URLParam(r, "recordID")
	saved, err := h.Service.Replace(r.Context(), rec, middleware.ManagerUnlocked(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "record_save_failed")
		return
	}
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "record_delete_failed")
		return
	}
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClearManager(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.ClearManagerScores(r.Context(), chi.URLParam(r, "recordID"), middleware.ManagerUnlocked(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "record_save_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var meta evaluation.Metadata
	if !h.decode(w, r, &meta) {
		return
	}
	rec, err := h.Service.UpdateMetadata(r.Context(), chi.URLParam(r, "recordID"), meta)
	if err != nil {
		h.writeError(w, r, err, "record_metadata_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	var data evaluation.PerformanceData
	if !h.decode(w, r, &data) {
		return
	}
	rec, err := h.Service.UpdatePerformance(r.Context(), chi.URLParam(r, "recordID"), data)
	if err != nil {
		h.writeError(w, r, err, "record_performance_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

type scorePayload struct {
	Score *int `json:"score"`
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	no, ok := itemNo(w, r)
	if !ok {
		return
	}
	var payload scorePayload
	if !h.decode(w, r, &payload) {
		return
	}
	rec, err := h.Service.UpdateScore(r.Context(), chi.URLParam(r, "recordID"), no, payload.Score, middleware.ManagerUnlocked(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "item_score_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

type memoPayload struct {
	Memo string `json:"memo"`
}

func (h *Handler) handleMemo(w http.ResponseWriter, r *http.Request) {
	no, ok := itemNo(w, r)
	if !ok {
		return
	}
	var payload memoPayload
	if !h.decode(w, r, &payload) {
		return
	}
	rec, err := h.Service.UpdateMemo(r.Context(), chi.URLParam(r, "recordID"), no, payload.Memo)
	if err != nil {
		h.writeError(w, r, err, "item_memo_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddIncident(w http.ResponseWriter, r *http.Request) {
	no, ok := itemNo(w, r)
	if !ok {
		return
	}
	var payload evaluation.Incident
	if !h.decode(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	if payload.Date != "" {
		v.Date("date", payload.Date)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	rec, added, err := h.Service.AddIncident(r.Context(), chi.URLParam(r, "recordID"), no, payload)
	if err != nil {
		h.writeError(w, r, err, "incident_add_failed")
		return
	}
	api.Created(w, map[string]any{"record": rec, "incident": added}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveIncident(w http.ResponseWriter, r *http.Request) {
	no, ok := itemNo(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.RemoveIncident(r.Context(), chi.URLParam(r, "recordID"), no, chi.URLParam(r, "incidentID"))
	if err != nil {
		h.writeError(w, r, err, "incident_remove_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "dashboard_failed")
		return
	}
	api.Success(w, evaluation.BuildDashboard(rec.Items, rec.PerformanceScore, rec.Metadata.Performance), middleware.GetRequestID(r.Context()))
}

// handleCharts accepts ?compare=<id> to fill the B series of the staff radar.
func (h *Handler) handleCharts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")
	var (
		rec evaluation.Record
		err error
	)
	if other := r.URL.Query().Get("compare"); other != "" {
		rec, err = h.Service.Compare(r.Context(), id, other)
	} else {
		rec, err = h.Service.Get(r.Context(), id)
	}
	if err != nil {
		h.writeError(w, r, err, "charts_failed")
		return
	}
	api.Success(w, evaluation.BuildCharts(rec), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	terms, err := h.Service.History(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "history_failed")
		return
	}
	if terms == nil {
		terms = []evaluation.HistoryTerm{}
	}
	api.Success(w, terms, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Compare(r.Context(), chi.URLParam(r, "recordID"), chi.URLParam(r, "otherID"))
	if err != nil {
		h.writeError(w, r, err, "compare_failed")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordSchedule(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "schedule_failed")
		return
	}
	api.Success(w, alertsOrEmpty(evaluation.ScheduleAlerts(rec.Metadata.Date)), middleware.GetRequestID(r.Context()))
}

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypePDF = "application/pdf"
)

func (h *Handler) handleRecordCSV(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "export_failed")
		return
	}
	var buf bytes.Buffer
	if err := report.WriteRecordCSV(&buf, rec); err != nil {
		h.writeError(w, r, err, "export_failed")
		return
	}
	h.recordExport()
	api.Attachment(w, contentTypeCSV, report.RecordCSVName(rec), buf.Bytes())
}

func (h *Handler) handleRecordPDF(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "export_failed")
		return
	}
	h.writePDF(w, r, []evaluation.Record{rec}, report.PrintName(rec)+".pdf")
}

func (h *Handler) handleAllCSV(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Service.LoadAll(r.Context())
	if err != nil {
		h.writeError(w, r, err, "export_failed")
		return
	}
	var buf bytes.Buffer
	if err := report.WriteAllCSV(&buf, recs, h.Service.Catalog()); err != nil {
		h.writeError(w, r, err, "export_failed")
		return
	}
	h.recordExport()
	api.Attachment(w, contentTypeCSV, report.AllCSVName(h.Now()), buf.Bytes())
}

func (h *Handler) handleAllPDF(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Service.LoadAll(r.Context())
	if err != nil {
		h.writeError(w, r, err, "export_failed")
		return
	}
	h.writePDF(w, r, recs, "qb_all_staff_"+h.Now().Format("2006-01-02")+".pdf")
}

func (h *Handler) writePDF(w http.ResponseWriter, r *http.Request, recs []evaluation.Record, filename string) {
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, recs); err != nil {
		if errors.Is(err, report.ErrNothingToPrint) {
			api.Fail(w, http.StatusNotFound, "nothing_to_print", "no records to print", middleware.GetRequestID(r.Context()))
			return
		}
		h.writeError(w, r, err, "export_failed")
		return
	}
	h.recordExport()
	api.Attachment(w, contentTypePDF, filename, buf.Bytes())
}

func (h *Handler) recordExport() {
	if h.Metrics != nil {
		h.Metrics.RecordExport()
	}
}
