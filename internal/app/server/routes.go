package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"qbhouse/internal/platform/metrics"
	evaluationhandler "qbhouse/internal/transport/http/handlers/evaluation"
	interviewhandler "qbhouse/internal/transport/http/handlers/interview"
	systemhandler "qbhouse/internal/transport/http/handlers/system"
	unlockhandler "qbhouse/internal/transport/http/handlers/unlock"
	"qbhouse/internal/transport/http/middleware"
)

// Router wires the middleware chain, the JSON API under /api/v1 and the UI bundle.
func (a *App) Router() http.Handler {
	var collector *metrics.Collector
	if a.Config.MetricsEnabled {
		collector = a.Metrics
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(a.Logger, collector))
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))
	router.Use(middleware.Unlock(a.Unlocker))

	system := systemhandler.NewHandler(a.DB, collector, a.Hub, a.Logger)
	system.RegisterProbes(router)

	router.Route("/api/v1", func(r chi.Router) {
		evaluationhandler.NewHandler(a.Evaluations, a.Metrics, a.Logger).RegisterRoutes(r)
		interviewhandler.NewHandler(a.Interviews, a.Logger).RegisterRoutes(r)
		unlockhandler.NewHandler(a.Unlocker).RegisterRoutes(r)
		system.RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: a.Config.FrontendDir, indexPath: "index.html"})
	return router
}
