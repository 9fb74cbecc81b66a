package roadmap

import (
	"time"

	"github.com/google/uuid"
)

// DefaultNearDueWindow is how far ahead a due date counts as near.
const DefaultNearDueWindow = 7 * 24 * time.Hour

type DueStatus int

const (
	// DueNone means the roadmap has no active tasks.
	DueNone DueStatus = iota
	DueLater
	DueNear
	DueOverdue
)

func (s DueStatus) String() string {
	switch s {
	case DueLater:
		return "later"
	case DueNear:
		return "near_due"
	case DueOverdue:
		return "overdue"
	default:
		return "none"
	}
}

// Classify places a due date relative to now: overdue when strictly before
// now, near when in (now, now+window], later otherwise. A zero due date is DueNone.
func Classify(due, now time.Time, window time.Duration) DueStatus {
	if due.IsZero() {
		return DueNone
	}
	if window <= 0 {
		window = DefaultNearDueWindow
	}
	switch {
	case due.Before(now):
		return DueOverdue
	case due.After(now) && !due.After(now.Add(window)):
		return DueNear
	default:
		return DueLater
	}
}

// TaskDue is one active task end date, keyed by its roadmap.
type TaskDue struct {
	RoadmapID uuid.UUID
	DateEnd   time.Time
}

// LatestDue returns each roadmap's due date: the maximum end date among its
// active tasks. Roadmaps without rows are absent from the result.
func LatestDue(rows []TaskDue) map[uuid.UUID]time.Time {
	out := make(map[uuid.UUID]time.Time)
	for _, r := range rows {
		if cur, ok := out[r.RoadmapID]; !ok || r.DateEnd.After(cur) {
			out[r.RoadmapID] = r.DateEnd.UTC()
		}
	}
	return out
}

// TreeDue is LatestDue over a loaded snapshot.
func TreeDue(t *Tree) time.Time {
	var due time.Time
	for _, tk := range t.AllActiveTasks() {
		if tk.DateEnd.After(due) {
			due = tk.DateEnd.UTC()
		}
	}
	return due
}
