package systemhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"qbhouse/internal/platform/metrics"
	"qbhouse/internal/platform/watch"
	"qbhouse/internal/transport/http/api"
	"qbhouse/internal/transport/http/middleware"
)

const defaultHeartbeat = 15 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	DB        Pinger
	Metrics   *metrics.Collector
	Hub       *watch.Hub
	Logger    *slog.Logger
	Heartbeat time.Duration
}

func NewHandler(db Pinger, collector *metrics.Collector, hub *watch.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{DB: db, Metrics: collector, Hub: hub, Logger: logger, Heartbeat: defaultHeartbeat}
}

// RegisterProbes mounts the unversioned liveness and readiness endpoints.
func (h *Handler) RegisterProbes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", h.handleReady)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	if h.Metrics != nil {
		r.Get("/metrics", h.handleMetrics)
	}
	if h.Hub != nil {
		r.Get("/events", h.handleEvents)
	}
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "db not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := h.Metrics.Snapshot()
	if h.Hub != nil {
		snapshot["eventSubscribers"] = h.Hub.Subscribers()
	}
	api.Success(w, snapshot, middleware.GetRequestID(r.Context()))
}

// handleEvents streams storage-change events as server-sent events until the client goes away.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The stream outlives any server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.Logger.Warn("event stream cannot flush", "err", err)
		return
	}

	events, cancel := h.Hub.Subscribe(8)
	defer cancel()

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				h.Logger.Warn("encode event failed", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
