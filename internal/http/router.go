package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/roadmap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/roadmap-backend/internal/http/middleware"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log          *logger.Logger
	Metrics      *observability.Metrics
	ServiceName  string
	AllowOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	RoadmapHandler   *httpH.RoadmapHandler
	DashboardHandler *httpH.DashboardHandler
	AuditHandler     *httpH.AuditHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Roadmaps
		if cfg.RoadmapHandler != nil {
			api.GET("/roadmaps", cfg.RoadmapHandler.List)
			api.POST("/roadmaps", cfg.RoadmapHandler.Create)
			api.GET("/roadmaps/:id", cfg.RoadmapHandler.Details)
			api.PATCH("/roadmaps/:id", cfg.RoadmapHandler.Patch)
			api.PATCH("/roadmaps/:id/completion", cfg.RoadmapHandler.SetCompletion)
			api.POST("/roadmaps/:id/publish", cfg.RoadmapHandler.Publish)
			api.DELETE("/roadmaps/:id", cfg.RoadmapHandler.Delete)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			api.GET("/dashboard", cfg.DashboardHandler.Summary)
		}

		// Audit trail
		if cfg.AuditHandler != nil {
			api.GET("/audit-logs", cfg.AuditHandler.List)
			api.POST("/audit-logs", cfg.AuditHandler.Record)
		}
	}

	return r
}
