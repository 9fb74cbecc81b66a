package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	reporoadmap "github.com/yungbote/roadmap-backend/internal/data/repos/roadmap"
	roadmapmod "github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type DashboardSummary struct {
	Total     int64 `json:"totalRoadmaps"`
	Completed int64 `json:"completedRoadmaps"`
	Draft     int64 `json:"draftRoadmaps"`
	Published int64 `json:"publishedRoadmaps"`
	NearDue   int64 `json:"nearDueRoadmaps"`
	Overdue   int64 `json:"overdueRoadmaps"`
}

type DashboardService interface {
	Summarize(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	db       *gorm.DB
	log      *logger.Logger
	roadmaps repos.RoadmapRepo
	window   time.Duration
	now      func() time.Time
}

func NewDashboardService(db *gorm.DB, baseLog *logger.Logger, roadmaps repos.RoadmapRepo, cfg QueryConfig, now func() time.Time) DashboardService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &dashboardService{
		db:       db,
		log:      baseLog.With("service", "DashboardService"),
		roadmaps: roadmaps,
		window:   cfg.withDefaults().NearDueWindow,
		now:      now,
	}
}

// Summarize counts active roadmaps. Both due categories only consider
// published roadmaps, and roadmaps without active tasks fall in neither.
func (s *dashboardService) Summarize(ctx context.Context) (*DashboardSummary, error) {
	now := s.now().UTC()
	out := &DashboardSummary{}
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}

	g.Go(func() error {
		n, err := s.roadmaps.Count(dbc, repos.RoadmapFilter{})
		out.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.roadmaps.Count(dbc, repos.RoadmapFilter{Status: reporoadmap.StatusCompleted})
		out.Completed = n
		return err
	})
	g.Go(func() error {
		n, err := s.roadmaps.Count(dbc, repos.RoadmapFilter{Status: reporoadmap.StatusDraft})
		out.Draft = n
		return err
	})
	g.Go(func() error {
		n, err := s.roadmaps.Count(dbc, repos.RoadmapFilter{
			Status: reporoadmap.StatusPublished,
			Due:    dueRange(roadmapmod.DueNear, now, s.window),
		})
		out.NearDue = n
		return err
	})
	g.Go(func() error {
		n, err := s.roadmaps.Count(dbc, repos.RoadmapFilter{
			Status: reporoadmap.StatusPublished,
			Due:    dueRange(roadmapmod.DueOverdue, now, s.window),
		})
		out.Overdue = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("dashboard summary failed", "error", err)
		return nil, err
	}
	out.Published = out.Total - out.Draft
	return out, nil
}
