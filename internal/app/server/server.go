package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"qbhouse/internal/domain/auth"
	"qbhouse/internal/domain/evaluation"
	"qbhouse/internal/domain/interview"
	"qbhouse/internal/platform/config"
	"qbhouse/internal/platform/db"
	"qbhouse/internal/platform/kv"
	"qbhouse/internal/platform/metrics"
	"qbhouse/internal/platform/watch"
)

const shutdownTimeout = 10 * time.Second

// App holds everything the serve command and the CLI subcommands share.
type App struct {
	Config      config.Config
	DB          *sql.DB
	Logger      *slog.Logger
	Metrics     *metrics.Collector
	Hub         *watch.Hub
	Evaluations *evaluation.Service
	Interviews  *interview.Service
	Unlocker    *auth.Unlocker
}

// New opens and migrates the data file and builds the services. Close releases the database.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	conn, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	if err := db.Migrate(ctx, conn, db.Migrations()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	unlocker, err := auth.NewUnlocker(cfg.UnlockCode, cfg.UnlockSecret, cfg.UnlockTTL)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	collector := metrics.New()
	store := kv.New(conn)
	hooks := evaluation.Hooks{
		OnSave:      func(evaluation.Summary) { collector.RecordSave() },
		OnRecompute: collector.RecordRecompute,
	}
	return &App{
		Config:      cfg,
		DB:          conn,
		Logger:      logger,
		Metrics:     collector,
		Hub:         watch.NewHub(),
		Evaluations: evaluation.NewService(evaluation.NewStore(store, logger), nil, hooks, logger),
		Interviews:  interview.NewService(interview.NewStore(store)),
		Unlocker:    unlocker,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// Run listens on the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves HTTP on ln and, when enabled, watches the data file until ctx is cancelled.
// Shutdown closes the event hub so open streams end instead of holding the drain.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	if a.Hub != nil {
		srv.RegisterOnShutdown(a.Hub.Close)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("qbhouse listening", "addr", ln.Addr().String(), "data", a.Config.DataPath)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if a.Config.WatchEnabled {
		watcher, err := watch.NewWatcher(a.Config.DataPath, a.Config.WatchDebounce, a.Logger, a.publish)
		if err != nil {
			// Events are best-effort; the API still works without them.
			a.Logger.Warn("storage watcher disabled", "err", err)
		} else {
			g.Go(func() error { return watcher.Run(ctx) })
		}
	}
	return g.Wait()
}

func (a *App) publish(ev watch.Event) {
	a.Metrics.RecordStorageEvent()
	delivered := a.Hub.Publish(ev)
	a.Logger.Debug("storage change published", "type", ev.Type, "subscribers", delivered)
}
