package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

// RoadmapSeed describes a roadmap row to insert.
type RoadmapSeed struct {
	Title       string
	CreatedBy   uuid.UUID
	IsDraft     bool
	IsCompleted bool
	IsDeleted   bool
	CreatedAt   time.Time
}

func SeedRoadmap(tb testing.TB, ctx context.Context, tx *gorm.DB, s RoadmapSeed) *types.Roadmap {
	tb.Helper()
	at := s.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	title := s.Title
	if title == "" {
		title = "roadmap " + uuid.NewString()[:8]
	}
	rm := &types.Roadmap{
		ID:          uuid.New(),
		Title:       title,
		Description: "seeded",
		CreatedBy:   s.CreatedBy,
		IsDraft:     s.IsDraft,
		IsCompleted: s.IsCompleted,
		IsDeleted:   s.IsDeleted,
		CreatedAt:   at.UTC(),
		UpdatedAt:   at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(rm).Error; err != nil {
		tb.Fatalf("seed roadmap: %v", err)
	}
	return rm
}

func SeedMilestone(tb testing.TB, ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID, name string, position int) *types.Milestone {
	tb.Helper()
	now := time.Now().UTC()
	m := &types.Milestone{
		ID:          uuid.New(),
		RoadmapID:   roadmapID,
		Name:        name,
		Description: "seeded",
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed milestone: %v", err)
	}
	return m
}

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID, name string, position int) *types.Section {
	tb.Helper()
	now := time.Now().UTC()
	s := &types.Section{
		ID:          uuid.New(),
		MilestoneID: milestoneID,
		Name:        name,
		Description: "seeded",
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, name string, end time.Time, position int) *types.Task {
	tb.Helper()
	now := time.Now().UTC()
	tk := &types.Task{
		ID:        uuid.New(),
		SectionID: sectionID,
		Name:      name,
		DateStart: end.UTC().Add(-72 * time.Hour),
		DateEnd:   end.UTC(),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(tk).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return tk
}

// SeedTree inserts roadmap -> one milestone -> one section -> one task per
// end date and returns the roots for assertions.
func SeedTree(tb testing.TB, ctx context.Context, tx *gorm.DB, s RoadmapSeed, ends ...time.Time) (*types.Roadmap, *types.Milestone, *types.Section, []*types.Task) {
	tb.Helper()
	rm := SeedRoadmap(tb, ctx, tx, s)
	m := SeedMilestone(tb, ctx, tx, rm.ID, "milestone", 0)
	sec := SeedSection(tb, ctx, tx, m.ID, "section", 0)
	tasks := make([]*types.Task, 0, len(ends))
	for i, end := range ends {
		tasks = append(tasks, SeedTask(tb, ctx, tx, sec.ID, "task", end, i))
	}
	return rm, m, sec, tasks
}

// MarkDeleted flips is_deleted on any roadmap tree row.
func MarkDeleted(tb testing.TB, ctx context.Context, tx *gorm.DB, model any, id uuid.UUID) {
	tb.Helper()
	if err := tx.WithContext(ctx).Model(model).Where("id = ?", id).Update("is_deleted", true).Error; err != nil {
		tb.Fatalf("mark deleted: %v", err)
	}
}
