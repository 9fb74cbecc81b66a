package roadmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

const (
	opCreate  = "roadmap.create"
	opPublish = "roadmap.publish"
	opDelete  = "roadmap.delete"
)

// PlanCreate builds a fresh tree from a nested create payload. Every node gets
// a new id, a sibling position and zero progress.
func PlanCreate(in domainagg.CreateRoadmapInput, at time.Time, newID IDFunc) (*Tree, *Batch, error) {
	if newID == nil {
		newID = uuid.New
	}
	var errs []domainagg.FieldError
	fail := func(field, format string, args ...any) {
		errs = append(errs, domainagg.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	if strings.TrimSpace(in.Title) == "" {
		fail("title", "title is required")
	}
	if !in.IsDraft && len(in.Milestones) == 0 {
		fail("milestones", "a published roadmap needs at least one milestone")
	}
	for i, m := range in.Milestones {
		for j, s := range m.Sections {
			for k, tk := range s.Tasks {
				field := fmt.Sprintf("milestones[%d].sections[%d].tasks[%d]", i, j, k)
				if strings.TrimSpace(tk.Name) == "" || tk.DateStart.IsZero() || tk.DateEnd.IsZero() {
					fail(field, "new task '%s' must have a name, start date, and end date", strings.TrimSpace(tk.Name))
					continue
				}
				if !tk.DateStart.Before(tk.DateEnd) {
					fail(field+".dateEnd", "new task '%s' has an invalid date range. Start date must be before end date", strings.TrimSpace(tk.Name))
				}
			}
		}
	}
	if len(errs) > 0 {
		return nil, nil, domainagg.Validation(opCreate, errs...)
	}

	t := NewTree(nil, nil, nil, nil)
	b := newBatch(t, at)
	rm := &types.Roadmap{
		ID:          newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   in.CreatedBy,
		IsDraft:     in.IsDraft,
	}
	b.insert(domainagg.NodeRoadmap, rm.ID, rm)

	for i, nm := range in.Milestones {
		m := &types.Milestone{
			ID:          newID(),
			RoadmapID:   rm.ID,
			Name:        strings.TrimSpace(nm.Name),
			Description: strings.TrimSpace(nm.Description),
			Position:    i,
		}
		b.insert(domainagg.NodeMilestone, m.ID, m)
		for j, ns := range nm.Sections {
			s := &types.Section{
				ID:          newID(),
				MilestoneID: m.ID,
				Name:        strings.TrimSpace(ns.Name),
				Description: strings.TrimSpace(ns.Description),
				Position:    j,
			}
			b.insert(domainagg.NodeSection, s.ID, s)
			for k, nt := range ns.Tasks {
				tk := &types.Task{
					ID:        newID(),
					SectionID: s.ID,
					Name:      strings.TrimSpace(nt.Name),
					DateStart: nt.DateStart.UTC(),
					DateEnd:   nt.DateEnd.UTC(),
					Position:  k,
				}
				b.insert(domainagg.NodeTask, tk.ID, tk)
			}
		}
	}
	return t, b, nil
}

// PlanPublish flips a draft roadmap to published.
func PlanPublish(t *Tree, in domainagg.PublishRoadmapInput, at time.Time) (*Batch, error) {
	if err := checkRoot(t, in.RoadmapID, opPublish); err != nil {
		return nil, err
	}
	rm := t.Roadmap
	if !rm.IsDraft {
		return nil, domainagg.Validation(opPublish, domainagg.FieldError{
			Field:   "isDraft",
			Message: fmt.Sprintf("roadmap '%s' is already published", rm.ID),
		})
	}
	if len(t.ActiveMilestones()) == 0 {
		return nil, domainagg.Validation(opPublish, domainagg.FieldError{
			Field:   "milestones",
			Message: "roadmap must have at least one milestone to be published",
		})
	}
	b := newBatch(t, at)
	b.set(domainagg.NodeRoadmap, rm.ID, FieldIsDraft, false)
	return b, nil
}

// PlanDelete soft-deletes the roadmap and every descendant not already
// deleted, leaves first.
func PlanDelete(t *Tree, in domainagg.DeleteRoadmapInput, at time.Time) (*Batch, error) {
	if err := checkRoot(t, in.RoadmapID, opDelete); err != nil {
		return nil, err
	}
	b := newBatch(t, at)
	for _, mID := range t.milestoneOrder {
		for _, sID := range t.sectionsOf[mID] {
			for _, tID := range t.tasksOf[sID] {
				if !t.tasks[tID].IsDeleted {
					b.softDelete(domainagg.NodeTask, tID)
				}
			}
			if !t.sections[sID].IsDeleted {
				b.softDelete(domainagg.NodeSection, sID)
			}
		}
		if !t.milestones[mID].IsDeleted {
			b.softDelete(domainagg.NodeMilestone, mID)
		}
	}
	b.softDelete(domainagg.NodeRoadmap, t.Roadmap.ID)
	return b, nil
}
