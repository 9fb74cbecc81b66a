package roadmap

import (
	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

// Rollup counts completed leaves over a set of active tasks.
type Rollup struct {
	Completed int
	Total     int
}

// Percent is floor(100 * Completed / Total), or 0 for an empty rollup.
func (r Rollup) Percent() int {
	if r.Total <= 0 {
		return 0
	}
	return r.Completed * 100 / r.Total
}

// Complete is true only for a non-empty rollup with every leaf done. Empty
// containers are never complete for percentage purposes.
func (r Rollup) Complete() bool {
	return r.Total > 0 && r.Completed == r.Total
}

// RollupTasks counts the given active tasks.
func RollupTasks(tasks []*types.Task) Rollup {
	r := Rollup{Total: len(tasks)}
	for _, tk := range tasks {
		if tk.IsCompleted {
			r.Completed++
		}
	}
	return r
}

// SectionCompleted is the all-of rule over active tasks; true when there are none.
func SectionCompleted(tasks []*types.Task) bool {
	for _, tk := range tasks {
		if !tk.IsCompleted {
			return false
		}
	}
	return true
}

// MilestoneCompleted is the all-of rule over active sections; true when there are none.
func MilestoneCompleted(sections []*types.Section) bool {
	for _, s := range sections {
		if !s.IsCompleted {
			return false
		}
	}
	return true
}

// MilestoneProgress rolls up the active tasks under an active milestone.
func MilestoneProgress(t *Tree, milestoneID uuid.UUID) (bool, int) {
	r := RollupTasks(t.ActiveTasksUnder(milestoneID))
	return r.Complete(), r.Percent()
}

// RoadmapProgress rolls up every active task in the tree.
func RoadmapProgress(t *Tree) (bool, int) {
	r := RollupTasks(t.AllActiveTasks())
	return r.Complete(), r.Percent()
}
