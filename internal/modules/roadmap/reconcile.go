package roadmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

const opReconcile = "roadmap.reconcile"

// IDFunc assigns identities to nodes the client inserted without one.
type IDFunc func() uuid.UUID

// PlanReconcile merges a partial patch into the snapshot. Milestones are
// applied first, then sections, then tasks, each level against the snapshot
// already holding the previous level. Every validation failure is collected
// and returned together; a non-nil error means nothing may be persisted.
//
// An id that matches a soft-deleted row cannot be revived: deleting it again
// is a no-op, patching it fails validation.
func PlanReconcile(t *Tree, in domainagg.ReconcileRoadmapInput, at time.Time, newID IDFunc) (*Batch, error) {
	if err := checkRoot(t, in.RoadmapID, opReconcile); err != nil {
		return nil, err
	}
	if newID == nil {
		newID = uuid.New
	}
	r := &reconciler{tree: t, b: newBatch(t, at), newID: newID}

	r.applyRoadmap(in.Roadmap)
	for i, p := range in.Milestones {
		r.applyMilestone(i, p)
	}
	for i, p := range in.Sections {
		r.applySection(i, p)
	}
	for i, p := range in.Tasks {
		r.applyTask(i, p)
	}
	if len(r.errs) > 0 {
		return nil, domainagg.Validation(opReconcile, r.errs...)
	}

	recomputeDerived(r.b)
	return r.b, nil
}

type reconciler struct {
	tree  *Tree
	b     *Batch
	newID IDFunc
	errs  []domainagg.FieldError
}

func (r *reconciler) fail(field, format string, args ...any) {
	r.errs = append(r.errs, domainagg.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// idTaken rejects a client-chosen id for a new node when any node of the
// tree, of any kind and deleted or not, already carries it.
func (r *reconciler) idTaken(field string, id uuid.UUID) bool {
	kind, ok := r.tree.KindOf(id)
	if !ok {
		return false
	}
	r.fail(field, "id '%s' is already used by a %s in this roadmap", id, kind)
	return true
}

func (r *reconciler) applyRoadmap(p *domainagg.RoadmapFieldsPatch) {
	rm := r.tree.Roadmap
	if p != nil {
		if p.Title != nil {
			if title := strings.TrimSpace(*p.Title); title == "" {
				r.fail("roadmap.title", "title must not be empty")
			} else {
				r.b.set(domainagg.NodeRoadmap, rm.ID, FieldTitle, title)
			}
		}
		if p.Description != nil {
			r.b.set(domainagg.NodeRoadmap, rm.ID, FieldDescription, strings.TrimSpace(*p.Description))
		}
	}
	r.b.touch(domainagg.NodeRoadmap, rm.ID)
}

func (r *reconciler) applyMilestone(i int, p domainagg.MilestonePatch) {
	field := fmt.Sprintf("milestones[%d]", i)
	existing, known := r.tree.Milestone(p.ID)
	switch {
	case p.ID == uuid.Nil && p.IsDeleted:
		return
	case known && existing.IsDeleted:
		if !p.IsDeleted {
			r.fail(field+".milestoneId", "milestone '%s' has been deleted", p.ID)
		}
		return
	case known && p.IsDeleted:
		r.b.softDelete(domainagg.NodeMilestone, existing.ID)
		return
	case known:
		if p.Name != nil {
			r.b.set(domainagg.NodeMilestone, existing.ID, FieldName, strings.TrimSpace(*p.Name))
		}
		if p.Description != nil {
			r.b.set(domainagg.NodeMilestone, existing.ID, FieldDescription, strings.TrimSpace(*p.Description))
		}
		r.b.touch(domainagg.NodeMilestone, existing.ID)
		return
	case p.IsDeleted:
		return
	}

	if r.idTaken(field+".milestoneId", p.ID) {
		return
	}
	id := p.ID
	if id == uuid.Nil {
		id = r.newID()
	}
	m := &types.Milestone{
		ID:          id,
		RoadmapID:   r.tree.Roadmap.ID,
		Name:        deref(p.Name),
		Description: deref(p.Description),
		Position:    r.tree.nextMilestonePosition(),
	}
	r.b.insert(domainagg.NodeMilestone, id, m)
}

func (r *reconciler) applySection(i int, p domainagg.SectionPatch) {
	field := fmt.Sprintf("sections[%d]", i)
	existing, known := r.tree.Section(p.ID)
	switch {
	case p.ID == uuid.Nil && p.IsDeleted:
		return
	case known && existing.IsDeleted:
		if !p.IsDeleted {
			r.fail(field+".sectionId", "section '%s' has been deleted", p.ID)
		}
		return
	case known && p.MilestoneID != uuid.Nil && p.MilestoneID != existing.MilestoneID:
		r.fail(field+".milestoneId", "section '%s' does not belong to milestone '%s'", p.ID, p.MilestoneID)
		return
	case known && p.IsDeleted:
		r.b.softDelete(domainagg.NodeSection, existing.ID)
		return
	case known:
		if p.Name != nil {
			r.b.set(domainagg.NodeSection, existing.ID, FieldName, strings.TrimSpace(*p.Name))
		}
		if p.Description != nil {
			r.b.set(domainagg.NodeSection, existing.ID, FieldDescription, strings.TrimSpace(*p.Description))
		}
		r.b.touch(domainagg.NodeSection, existing.ID)
		return
	case p.IsDeleted:
		return
	}

	if r.idTaken(field+".sectionId", p.ID) {
		return
	}
	if p.MilestoneID == uuid.Nil {
		r.fail(field+".milestoneId", "new section requires a milestone id")
		return
	}
	if _, ok := r.tree.ActiveMilestone(p.MilestoneID); !ok {
		r.fail(field+".milestoneId", "milestone '%s' not found in roadmap", p.MilestoneID)
		return
	}
	id := p.ID
	if id == uuid.Nil {
		id = r.newID()
	}
	s := &types.Section{
		ID:          id,
		MilestoneID: p.MilestoneID,
		Name:        deref(p.Name),
		Description: deref(p.Description),
		Position:    r.tree.nextSectionPosition(p.MilestoneID),
	}
	r.b.insert(domainagg.NodeSection, id, s)
}

func (r *reconciler) applyTask(i int, p domainagg.TaskPatch) {
	field := fmt.Sprintf("tasks[%d]", i)
	existing, known := r.tree.Task(p.ID)
	switch {
	case p.ID == uuid.Nil && p.IsDeleted:
		return
	case known && existing.IsDeleted:
		if !p.IsDeleted {
			r.fail(field+".taskId", "task '%s' has been deleted", p.ID)
		}
		return
	case known && p.SectionID != uuid.Nil && p.SectionID != existing.SectionID:
		r.fail(field+".sectionId", "task '%s' does not belong to section '%s'", p.ID, p.SectionID)
		return
	case known && p.IsDeleted:
		r.b.softDelete(domainagg.NodeTask, existing.ID)
		return
	case known:
		start, end := existing.DateStart, existing.DateEnd
		if p.DateStart != nil {
			start = p.DateStart.UTC()
		}
		if p.DateEnd != nil {
			end = p.DateEnd.UTC()
		}
		if !start.Before(end) {
			r.fail(field+".dateEnd", "task '%s' has an invalid date range. Start date must be before end date", existing.ID)
			return
		}
		if p.Name != nil {
			r.b.set(domainagg.NodeTask, existing.ID, FieldName, strings.TrimSpace(*p.Name))
		}
		if p.DateStart != nil {
			r.b.set(domainagg.NodeTask, existing.ID, FieldDateStart, start)
		}
		if p.DateEnd != nil {
			r.b.set(domainagg.NodeTask, existing.ID, FieldDateEnd, end)
		}
		r.b.touch(domainagg.NodeTask, existing.ID)
		return
	case p.IsDeleted:
		return
	}

	if r.idTaken(field+".taskId", p.ID) {
		return
	}
	label := p.ID.String()
	if p.ID == uuid.Nil {
		label = field
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" || p.DateStart == nil || p.DateEnd == nil {
		r.fail(field, "new task '%s' must have a name, start date, and end date", label)
		return
	}
	if !p.DateStart.Before(*p.DateEnd) {
		r.fail(field+".dateEnd", "new task '%s' has an invalid date range. Start date must be before end date", label)
		return
	}
	if p.SectionID == uuid.Nil {
		r.fail(field+".sectionId", "new task requires a section id")
		return
	}
	s, ok := r.tree.ActiveSection(p.SectionID)
	if !ok {
		r.fail(field+".sectionId", "section '%s' not found in roadmap", p.SectionID)
		return
	}
	if p.MilestoneID != uuid.Nil && p.MilestoneID != s.MilestoneID {
		r.fail(field+".milestoneId", "section '%s' does not belong to milestone '%s'", s.ID, p.MilestoneID)
		return
	}

	id := p.ID
	if id == uuid.Nil {
		id = r.newID()
	}
	tk := &types.Task{
		ID:        id,
		SectionID: s.ID,
		Name:      strings.TrimSpace(*p.Name),
		DateStart: p.DateStart.UTC(),
		DateEnd:   p.DateEnd.UTC(),
		Position:  r.tree.nextTaskPosition(s.ID),
	}
	r.b.insert(domainagg.NodeTask, id, tk)
}

// recomputeDerived re-derives section and milestone flags and every progress
// value after structural changes, writing only values that moved.
func recomputeDerived(b *Batch) {
	t := b.tree
	for _, m := range t.ActiveMilestones() {
		for _, s := range t.ActiveSections(m.ID) {
			if done := SectionCompleted(t.ActiveTasks(s.ID)); done != s.IsCompleted {
				b.set(domainagg.NodeSection, s.ID, FieldIsCompleted, done)
			}
		}
		if done := MilestoneCompleted(t.ActiveSections(m.ID)); done != m.IsCompleted {
			b.set(domainagg.NodeMilestone, m.ID, FieldIsCompleted, done)
		}
		if _, pct := MilestoneProgress(t, m.ID); pct != m.Progress {
			b.set(domainagg.NodeMilestone, m.ID, FieldProgress, pct)
		}
	}
	rm := t.Roadmap
	_, pct := RoadmapProgress(t)
	if pct != rm.Progress {
		b.set(domainagg.NodeRoadmap, rm.ID, FieldProgress, pct)
	}
	if pct == 100 && !rm.IsCompleted {
		b.set(domainagg.NodeRoadmap, rm.ID, FieldIsCompleted, true)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
