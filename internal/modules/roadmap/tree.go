package roadmap

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

// Tree is an in-memory snapshot of one roadmap, addressed by id. It holds
// soft-deleted rows too so identity lookups can tell "deleted" from "unknown".
type Tree struct {
	Roadmap *types.Roadmap

	milestones map[uuid.UUID]*types.Milestone
	sections   map[uuid.UUID]*types.Section
	tasks      map[uuid.UUID]*types.Task

	milestoneOrder []uuid.UUID
	sectionsOf     map[uuid.UUID][]uuid.UUID
	tasksOf        map[uuid.UUID][]uuid.UUID
}

// NewTree indexes the loaded rows. Rows whose parent is not part of the
// snapshot are ignored.
func NewTree(rm *types.Roadmap, milestones []*types.Milestone, sections []*types.Section, tasks []*types.Task) *Tree {
	t := &Tree{
		Roadmap:    rm,
		milestones: make(map[uuid.UUID]*types.Milestone, len(milestones)),
		sections:   make(map[uuid.UUID]*types.Section, len(sections)),
		tasks:      make(map[uuid.UUID]*types.Task, len(tasks)),
		sectionsOf: map[uuid.UUID][]uuid.UUID{},
		tasksOf:    map[uuid.UUID][]uuid.UUID{},
	}

	ms := append([]*types.Milestone(nil), milestones...)
	sort.SliceStable(ms, func(i, j int) bool {
		return siblingLess(ms[i].Position, ms[j].Position, ms[i].ID, ms[j].ID)
	})
	for _, m := range ms {
		if m != nil && rm != nil && m.RoadmapID == rm.ID {
			t.addMilestone(m)
		}
	}

	ss := append([]*types.Section(nil), sections...)
	sort.SliceStable(ss, func(i, j int) bool {
		return siblingLess(ss[i].Position, ss[j].Position, ss[i].ID, ss[j].ID)
	})
	for _, s := range ss {
		if s == nil {
			continue
		}
		if _, ok := t.milestones[s.MilestoneID]; ok {
			t.addSection(s)
		}
	}

	ts := append([]*types.Task(nil), tasks...)
	sort.SliceStable(ts, func(i, j int) bool {
		return siblingLess(ts[i].Position, ts[j].Position, ts[i].ID, ts[j].ID)
	})
	for _, tk := range ts {
		if tk == nil {
			continue
		}
		if _, ok := t.sections[tk.SectionID]; ok {
			t.addTask(tk)
		}
	}
	return t
}

func siblingLess(pa, pb int, a, b uuid.UUID) bool {
	if pa != pb {
		return pa < pb
	}
	return a.String() < b.String()
}

func (t *Tree) addMilestone(m *types.Milestone) {
	t.milestones[m.ID] = m
	t.milestoneOrder = append(t.milestoneOrder, m.ID)
}

func (t *Tree) addSection(s *types.Section) {
	t.sections[s.ID] = s
	t.sectionsOf[s.MilestoneID] = append(t.sectionsOf[s.MilestoneID], s.ID)
}

func (t *Tree) addTask(tk *types.Task) {
	t.tasks[tk.ID] = tk
	t.tasksOf[tk.SectionID] = append(t.tasksOf[tk.SectionID], tk.ID)
}

// Milestone returns the milestone with id, deleted or not.
func (t *Tree) Milestone(id uuid.UUID) (*types.Milestone, bool) {
	m, ok := t.milestones[id]
	return m, ok
}

// Section returns the section with id, deleted or not.
func (t *Tree) Section(id uuid.UUID) (*types.Section, bool) {
	s, ok := t.sections[id]
	return s, ok
}

// Task returns the task with id, deleted or not.
func (t *Tree) Task(id uuid.UUID) (*types.Task, bool) {
	tk, ok := t.tasks[id]
	return tk, ok
}

// KindOf reports which node, deleted or not, already uses id.
func (t *Tree) KindOf(id uuid.UUID) (domainagg.NodeType, bool) {
	switch {
	case id == uuid.Nil:
		return "", false
	case t.Roadmap != nil && t.Roadmap.ID == id:
		return domainagg.NodeRoadmap, true
	}
	if _, ok := t.milestones[id]; ok {
		return domainagg.NodeMilestone, true
	}
	if _, ok := t.sections[id]; ok {
		return domainagg.NodeSection, true
	}
	if _, ok := t.tasks[id]; ok {
		return domainagg.NodeTask, true
	}
	return "", false
}

// ActiveMilestone reports a milestone that is not deleted.
func (t *Tree) ActiveMilestone(id uuid.UUID) (*types.Milestone, bool) {
	m, ok := t.milestones[id]
	if !ok || m.IsDeleted {
		return nil, false
	}
	return m, true
}

// ActiveSection reports a section that is not deleted and whose milestone is active.
func (t *Tree) ActiveSection(id uuid.UUID) (*types.Section, bool) {
	s, ok := t.sections[id]
	if !ok || s.IsDeleted {
		return nil, false
	}
	if _, ok := t.ActiveMilestone(s.MilestoneID); !ok {
		return nil, false
	}
	return s, true
}

// ActiveTask reports a task that is not deleted and whose ancestors are active.
func (t *Tree) ActiveTask(id uuid.UUID) (*types.Task, bool) {
	tk, ok := t.tasks[id]
	if !ok || tk.IsDeleted {
		return nil, false
	}
	if _, ok := t.ActiveSection(tk.SectionID); !ok {
		return nil, false
	}
	return tk, true
}

// ActiveMilestones lists non-deleted milestones in sibling order.
func (t *Tree) ActiveMilestones() []*types.Milestone {
	out := make([]*types.Milestone, 0, len(t.milestoneOrder))
	for _, id := range t.milestoneOrder {
		if m := t.milestones[id]; !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out
}

// ActiveSections lists the non-deleted sections of a milestone in sibling order.
func (t *Tree) ActiveSections(milestoneID uuid.UUID) []*types.Section {
	ids := t.sectionsOf[milestoneID]
	out := make([]*types.Section, 0, len(ids))
	for _, id := range ids {
		if s := t.sections[id]; !s.IsDeleted {
			out = append(out, s)
		}
	}
	return out
}

// ActiveTasks lists the non-deleted tasks of a section in sibling order.
func (t *Tree) ActiveTasks(sectionID uuid.UUID) []*types.Task {
	ids := t.tasksOf[sectionID]
	out := make([]*types.Task, 0, len(ids))
	for _, id := range ids {
		if tk := t.tasks[id]; !tk.IsDeleted {
			out = append(out, tk)
		}
	}
	return out
}

// ActiveTasksUnder returns every active task below an active milestone.
func (t *Tree) ActiveTasksUnder(milestoneID uuid.UUID) []*types.Task {
	var out []*types.Task
	for _, s := range t.ActiveSections(milestoneID) {
		out = append(out, t.ActiveTasks(s.ID)...)
	}
	return out
}

// AllActiveTasks returns every task reachable through active ancestors.
func (t *Tree) AllActiveTasks() []*types.Task {
	var out []*types.Task
	for _, m := range t.ActiveMilestones() {
		out = append(out, t.ActiveTasksUnder(m.ID)...)
	}
	return out
}

func (t *Tree) nextMilestonePosition() int {
	next := 0
	for _, id := range t.milestoneOrder {
		if p := t.milestones[id].Position + 1; p > next {
			next = p
		}
	}
	return next
}

func (t *Tree) nextSectionPosition(milestoneID uuid.UUID) int {
	next := 0
	for _, id := range t.sectionsOf[milestoneID] {
		if p := t.sections[id].Position + 1; p > next {
			next = p
		}
	}
	return next
}

func (t *Tree) nextTaskPosition(sectionID uuid.UUID) int {
	next := 0
	for _, id := range t.tasksOf[sectionID] {
		if p := t.tasks[id].Position + 1; p > next {
			next = p
		}
	}
	return next
}
