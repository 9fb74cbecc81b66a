package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/aggregates"
	"github.com/yungbote/roadmap-backend/internal/data/repos"
	repotest "github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/realtime"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
)

var svcNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return svcNow }

func intPtr(v int) *int { return &v }

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

type testStack struct {
	db        *gorm.DB
	agg       *aggregates.RoadmapAggregate
	roadmaps  RoadmapService
	audit     AuditService
	query     QueryService
	dashboard DashboardService
	events    []realtime.ChangeEvent
	userID    uuid.UUID
}

// baseOption overrides the aggregate's transaction plumbing for one stack.
type baseOption func(db *gorm.DB, base *aggregates.BaseDeps)

func newTestStack(t *testing.T, opts ...baseOption) *testStack {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)

	base := aggregates.BaseDeps{DB: db, Log: log}
	for _, opt := range opts {
		opt(db, &base)
	}

	roadmapRepo := repos.NewRoadmapRepo(db, log)
	milestoneRepo := repos.NewMilestoneRepo(db, log)
	sectionRepo := repos.NewSectionRepo(db, log)
	taskRepo := repos.NewTaskRepo(db, log)

	agg := aggregates.NewRoadmapAggregate(aggregates.RoadmapAggregateDeps{
		Base:       base,
		Roadmaps:   roadmapRepo,
		Milestones: milestoneRepo,
		Sections:   sectionRepo,
		Tasks:      taskRepo,
		Clock:      fixedNow,
	})

	st := &testStack{db: db, agg: agg, userID: uuid.New()}
	events := bus.NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := events.StartForwarder(ctx, func(evt realtime.ChangeEvent) { st.events = append(st.events, evt) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	validator := NewValidator()
	st.audit = NewAuditService(db, log, repos.NewAuditLogRepo(db, log), validator, fixedNow)
	st.query = NewQueryService(db, log, roadmapRepo, DefaultQueryConfig(), fixedNow)
	st.dashboard = NewDashboardService(db, log, roadmapRepo, DefaultQueryConfig(), fixedNow)
	st.roadmaps = NewRoadmapService(RoadmapServiceDeps{
		DB:         db,
		Log:        log,
		Aggregate:  agg,
		Roadmaps:   roadmapRepo,
		Milestones: milestoneRepo,
		Sections:   sectionRepo,
		Tasks:      taskRepo,
		Audit:      st.audit,
		Events:     events,
		Validator:  validator,
		Now:        fixedNow,
	})
	return st
}

func (st *testStack) ctx() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: st.userID})
}

// seedDashboardExample inserts three roadmaps: a completed published one due
// in 3 days, a draft one due 2 days ago and a published one due 1 day ago.
func seedDashboardExample(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	repotest.SeedTree(t, ctx, db, repotest.RoadmapSeed{
		Title:       "Alpha",
		IsCompleted: true,
		CreatedAt:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}, svcNow.Add(days(3)))
	repotest.SeedTree(t, ctx, db, repotest.RoadmapSeed{
		Title:     "Beta",
		IsDraft:   true,
		CreatedAt: time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
	}, svcNow.Add(-days(2)))
	repotest.SeedTree(t, ctx, db, repotest.RoadmapSeed{
		Title:     "Gamma",
		CreatedAt: time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC),
	}, svcNow.Add(-days(1)))
}
