package roadmap

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status narrows roadmaps by a stored flag.
type Status string

const (
	StatusAny       Status = ""
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCompleted Status = "completed"
)

// RoadmapFilter is the predicate shared by the list, count and due-date
// queries. Soft-deleted roadmaps are always excluded.
type RoadmapFilter struct {
	Status      Status
	Search      string
	CreatedFrom *time.Time

	// RestrictIDs limits matches to IDs, even when IDs is empty.
	RestrictIDs bool
	IDs         []uuid.UUID

	// Due keeps roadmaps whose latest active task end date is in range.
	// Roadmaps without active tasks never match.
	Due *DueRange
}

// DueRange bounds a roadmap's latest active task end date. Nil bounds are open.
type DueRange struct {
	Before   *time.Time // strictly before
	After    *time.Time // strictly after
	NotAfter *time.Time // at or before
}

// Page selects a window over an ordered result.
type Page struct {
	Offset  int
	Limit   int
	OrderBy string
	Asc     bool
}

func applyRoadmapFilter(q *gorm.DB, f RoadmapFilter) *gorm.DB {
	q = q.Where("roadmap.is_deleted = ?", false)
	switch f.Status {
	case StatusDraft:
		q = q.Where("roadmap.is_draft = ?", true)
	case StatusPublished:
		q = q.Where("roadmap.is_draft = ?", false)
	case StatusCompleted:
		q = q.Where("roadmap.is_completed = ?", true)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where(`LOWER(roadmap.title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	if f.CreatedFrom != nil {
		q = q.Where("roadmap.created_at >= ?", f.CreatedFrom.UTC())
	}
	if f.Due != nil {
		q = q.Where("roadmap.id IN (?)", latestDueSubquery(q, *f.Due))
	}
	if f.RestrictIDs {
		if len(f.IDs) == 0 {
			q = q.Where("1 = 0")
		} else {
			q = q.Where("roadmap.id IN ?", f.IDs)
		}
	}
	return q
}

// latestDueSubquery selects roadmap ids grouped over active tasks reachable
// through active ancestors, filtered on MAX(task.date_end).
func latestDueSubquery(q *gorm.DB, d DueRange) *gorm.DB {
	sub := q.Session(&gorm.Session{NewDB: true}).
		Table("task").
		Select("milestone.roadmap_id").
		Joins("JOIN section ON section.id = task.section_id AND section.is_deleted = ?", false).
		Joins("JOIN milestone ON milestone.id = section.milestone_id AND milestone.is_deleted = ?", false).
		Where("task.is_deleted = ?", false).
		Group("milestone.roadmap_id")
	if d.Before != nil {
		sub = sub.Having("MAX(task.date_end) < ?", d.Before.UTC())
	}
	if d.After != nil {
		sub = sub.Having("MAX(task.date_end) > ?", d.After.UTC())
	}
	if d.NotAfter != nil {
		sub = sub.Having("MAX(task.date_end) <= ?", d.NotAfter.UTC())
	}
	return sub
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func applyPage(q *gorm.DB, table string, p Page) *gorm.DB {
	if p.OrderBy != "" {
		dir := " DESC"
		if p.Asc {
			dir = " ASC"
		}
		q = q.Order(table + "." + p.OrderBy + dir).Order(table + ".id" + dir)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}
