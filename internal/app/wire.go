package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/aggregates"
	"github.com/yungbote/roadmap-backend/internal/data/repos"
	apphttp "github.com/yungbote/roadmap-backend/internal/http"
	httpH "github.com/yungbote/roadmap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/roadmap-backend/internal/http/middleware"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type Repos struct {
	Roadmap   repos.RoadmapRepo
	Milestone repos.MilestoneRepo
	Section   repos.SectionRepo
	Task      repos.TaskRepo
	AuditLog  repos.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Roadmap:   repos.NewRoadmapRepo(db, log),
		Milestone: repos.NewMilestoneRepo(db, log),
		Section:   repos.NewSectionRepo(db, log),
		Task:      repos.NewTaskRepo(db, log),
		AuditLog:  repos.NewAuditLogRepo(db, log),
	}
}

type Services struct {
	Auth      services.AuthService
	Audit     services.AuditService
	Roadmap   services.RoadmapService
	Query     services.QueryService
	Dashboard services.DashboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, events bus.Bus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	validator := services.NewValidator()
	audit := services.NewAuditService(db, log, r.AuditLog, validator, nil)

	agg := aggregates.NewRoadmapAggregate(aggregates.RoadmapAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(db),
			Hooks:  aggregates.NewObservabilityHooks(metrics),
		},
		Roadmaps:   r.Roadmap,
		Milestones: r.Milestone,
		Sections:   r.Section,
		Tasks:      r.Task,
	})

	return Services{
		Auth:  services.NewAuthService(log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Audit: audit,
		Roadmap: services.NewRoadmapService(services.RoadmapServiceDeps{
			DB:         db,
			Log:        log,
			Aggregate:  agg,
			Roadmaps:   r.Roadmap,
			Milestones: r.Milestone,
			Sections:   r.Section,
			Tasks:      r.Task,
			Audit:      audit,
			Events:     events,
			Metrics:    metrics,
			Validator:  validator,
		}),
		Query:     services.NewQueryService(db, log, r.Roadmap, cfg.QueryConfig(), nil),
		Dashboard: services.NewDashboardService(db, log, r.Roadmap, cfg.QueryConfig(), nil),
	}
}

// wireEvents uses redis pub/sub when REDIS_ADDR is configured and an
// in-process bus otherwise.
func wireEvents(log *logger.Logger, cfg Config) (bus.Bus, error) {
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		log.Info("Redis not configured; using in-process event bus")
		return bus.NewMemoryBus(), nil
	}
	b, err := bus.NewRedisBus(log, bus.RedisOptions{Addr: cfg.Redis.Addr, Channel: cfg.Redis.Channel})
	if err != nil {
		return nil, fmt.Errorf("init redis event bus: %w", err)
	}
	return b, nil
}

func wireRouterConfig(log *logger.Logger, cfg Config, svc Services, health httpH.Pinger, metrics *observability.Metrics) apphttp.RouterConfig {
	log.Info("Wiring handlers...")
	return apphttp.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      cfg.Otel.ServiceName,
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, svc.Auth),
		RoadmapHandler:   httpH.NewRoadmapHandler(log, svc.Roadmap, svc.Query),
		DashboardHandler: httpH.NewDashboardHandler(svc.Dashboard),
		AuditHandler:     httpH.NewAuditHandler(svc.Audit),
		HealthHandler:    httpH.NewHealthHandler(log, health),
	}
}
