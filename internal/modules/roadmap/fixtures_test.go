package roadmap

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// treeBuilder assembles in-memory snapshots for planner tests.
type treeBuilder struct {
	rm         *types.Roadmap
	milestones []*types.Milestone
	sections   []*types.Section
	tasks      []*types.Task
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{rm: &types.Roadmap{
		ID:        uuid.New(),
		Title:     "Backend roadmap",
		IsDraft:   true,
		CreatedAt: testNow.Add(-48 * time.Hour),
		UpdatedAt: testNow.Add(-48 * time.Hour),
	}}
}

func (b *treeBuilder) milestone(name string) *types.Milestone {
	m := &types.Milestone{ID: uuid.New(), RoadmapID: b.rm.ID, Name: name, Position: len(b.milestones)}
	b.milestones = append(b.milestones, m)
	return m
}

func (b *treeBuilder) section(m *types.Milestone, name string) *types.Section {
	s := &types.Section{ID: uuid.New(), MilestoneID: m.ID, Name: name, Position: len(b.sections)}
	b.sections = append(b.sections, s)
	return s
}

func (b *treeBuilder) task(s *types.Section, name string, end time.Time) *types.Task {
	tk := &types.Task{
		ID:        uuid.New(),
		SectionID: s.ID,
		Name:      name,
		DateStart: end.Add(-72 * time.Hour),
		DateEnd:   end,
		Position:  len(b.tasks),
	}
	b.tasks = append(b.tasks, tk)
	return tk
}

func (b *treeBuilder) build() *Tree {
	return NewTree(b.rm, b.milestones, b.sections, b.tasks)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func sequentialIDs(ids ...uuid.UUID) IDFunc {
	i := 0
	return func() uuid.UUID {
		id := ids[i%len(ids)]
		i++
		return id
	}
}
