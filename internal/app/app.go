package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	apphttp "github.com/yungbote/roadmap-backend/internal/http"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Repos    Repos
	Services Services
	Events   bus.Bus
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
}

// New connects the store, migrates when configured and wires every layer.
func New(ctx context.Context, cfg Config, log *logger.Logger, version string) (*App, error) {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Env,
		Version:     version,
	})
	metrics := observability.Init(log)

	store, err := db.NewService(cfg.DBOptions(), log)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := store.AutoMigrateAll(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	events, err := wireEvents(log, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	reposet := wireRepos(store.DB(), log)
	serviceset := wireServices(store.DB(), log, cfg, reposet, events, metrics)
	server := apphttp.NewServer(cfg.HTTP.Addr, wireRouterConfig(log, cfg, serviceset, store, metrics))

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           store,
		Repos:        reposet,
		Services:     serviceset,
		Events:       events,
		Metrics:      metrics,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBCollector(gctx, a.Log, a.DB.DB())
	if err := a.Events.StartForwarder(gctx, a.logEvent); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTP.Addr)
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Log.Info("Shutting down HTTP server", "timeout", a.Cfg.HTTP.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) logEvent(evt realtime.ChangeEvent) {
	a.Log.Debug("roadmap change", "type", evt.Type, "roadmap_id", evt.RoadmapID, "user_id", evt.UserID)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Events != nil {
		_ = a.Events.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// Migrate applies the schema and exits.
func Migrate(cfg Config, log *logger.Logger) error {
	store, err := db.NewService(cfg.DBOptions(), log)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer store.Close()
	return store.AutoMigrateAll()
}
