package roadmap

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

const opSetCompletion = "roadmap.set_completion"

// PlanCompletion cascades a checked value from the target node down to every
// active descendant, then recomputes flags and progress upward to the roadmap.
// Rows are re-stamped even when the value does not change.
//
// Sections always take the all-of rule after their tasks are cascaded, so an
// empty section stays vacuously complete. A target milestone or roadmap takes
// the checked value verbatim; descendant milestones take the all-of rule.
func PlanCompletion(t *Tree, in domainagg.SetCompletionInput, at time.Time) (*Batch, error) {
	if err := checkRoot(t, in.RoadmapID, opSetCompletion); err != nil {
		return nil, err
	}
	rm := t.Roadmap
	b := newBatch(t, at)

	switch in.NodeType {
	case domainagg.NodeRoadmap:
		b.set(domainagg.NodeRoadmap, rm.ID, FieldIsCompleted, in.Checked)
		for _, m := range t.ActiveMilestones() {
			cascadeMilestone(b, m, in.Checked, false)
			setMilestoneProgress(b, m.ID)
		}

	case domainagg.NodeMilestone:
		m, err := resolveMilestone(t, in.MilestoneID, "milestoneId")
		if err != nil {
			return nil, err
		}
		cascadeMilestone(b, m, in.Checked, true)
		setMilestoneProgress(b, m.ID)

	case domainagg.NodeSection:
		s, m, err := resolveSection(t, in.SectionID, in.MilestoneID)
		if err != nil {
			return nil, err
		}
		cascadeSection(b, s, in.Checked)
		b.set(domainagg.NodeMilestone, m.ID, FieldIsCompleted, MilestoneCompleted(t.ActiveSections(m.ID)))
		setMilestoneProgress(b, m.ID)

	case domainagg.NodeTask:
		tk, s, m, err := resolveTask(t, in.TaskID, in.SectionID, in.MilestoneID)
		if err != nil {
			return nil, err
		}
		b.set(domainagg.NodeTask, tk.ID, FieldIsCompleted, in.Checked)
		b.set(domainagg.NodeSection, s.ID, FieldIsCompleted, SectionCompleted(t.ActiveTasks(s.ID)))
		b.set(domainagg.NodeMilestone, m.ID, FieldIsCompleted, MilestoneCompleted(t.ActiveSections(m.ID)))
		setMilestoneProgress(b, m.ID)

	default:
		return nil, domainagg.Validation(opSetCompletion, domainagg.FieldError{
			Field:   "type",
			Message: "type must be one of roadmap, milestone, section, task",
		})
	}

	setRoadmapProgress(b)
	return b, nil
}

func cascadeMilestone(b *Batch, m *types.Milestone, checked, target bool) {
	for _, s := range b.tree.ActiveSections(m.ID) {
		cascadeSection(b, s, checked)
	}
	value := checked
	if !target {
		value = MilestoneCompleted(b.tree.ActiveSections(m.ID))
	}
	b.set(domainagg.NodeMilestone, m.ID, FieldIsCompleted, value)
}

func cascadeSection(b *Batch, s *types.Section, checked bool) {
	for _, tk := range b.tree.ActiveTasks(s.ID) {
		b.set(domainagg.NodeTask, tk.ID, FieldIsCompleted, checked)
	}
	b.set(domainagg.NodeSection, s.ID, FieldIsCompleted, SectionCompleted(b.tree.ActiveTasks(s.ID)))
}

func setMilestoneProgress(b *Batch, milestoneID uuid.UUID) {
	_, pct := MilestoneProgress(b.tree, milestoneID)
	b.set(domainagg.NodeMilestone, milestoneID, FieldProgress, pct)
}

// setRoadmapProgress always writes the roadmap row; progress 100 forces
// completion but never clears it.
func setRoadmapProgress(b *Batch) {
	rm := b.tree.Roadmap
	_, pct := RoadmapProgress(b.tree)
	b.set(domainagg.NodeRoadmap, rm.ID, FieldProgress, pct)
	if pct == 100 {
		b.set(domainagg.NodeRoadmap, rm.ID, FieldIsCompleted, true)
	}
}

func checkRoot(t *Tree, roadmapID uuid.UUID, op string) error {
	if t == nil || t.Roadmap == nil || (roadmapID != uuid.Nil && t.Roadmap.ID != roadmapID) {
		return domainagg.NotFound(op, "roadmap", roadmapID)
	}
	if t.Roadmap.IsDeleted {
		return domainagg.AlreadyDeleted(op, "roadmap", t.Roadmap.ID)
	}
	return nil
}

func resolveMilestone(t *Tree, id uuid.UUID, field string) (*types.Milestone, error) {
	if id == uuid.Nil {
		return nil, domainagg.Validation(opSetCompletion, domainagg.FieldError{Field: field, Message: "milestone id is required"})
	}
	m, ok := t.ActiveMilestone(id)
	if !ok {
		return nil, domainagg.NotFound(opSetCompletion, "milestone", id)
	}
	return m, nil
}

func resolveSection(t *Tree, sectionID, milestoneID uuid.UUID) (*types.Section, *types.Milestone, error) {
	if sectionID == uuid.Nil {
		return nil, nil, domainagg.Validation(opSetCompletion, domainagg.FieldError{Field: "sectionId", Message: "section id is required"})
	}
	s, ok := t.ActiveSection(sectionID)
	if !ok || (milestoneID != uuid.Nil && s.MilestoneID != milestoneID) {
		return nil, nil, domainagg.NotFound(opSetCompletion, "section", sectionID)
	}
	m, _ := t.ActiveMilestone(s.MilestoneID)
	return s, m, nil
}

func resolveTask(t *Tree, taskID, sectionID, milestoneID uuid.UUID) (*types.Task, *types.Section, *types.Milestone, error) {
	if taskID == uuid.Nil {
		return nil, nil, nil, domainagg.Validation(opSetCompletion, domainagg.FieldError{Field: "taskId", Message: "task id is required"})
	}
	tk, ok := t.ActiveTask(taskID)
	if !ok || (sectionID != uuid.Nil && tk.SectionID != sectionID) {
		return nil, nil, nil, domainagg.NotFound(opSetCompletion, "task", taskID)
	}
	s, _ := t.ActiveSection(tk.SectionID)
	if milestoneID != uuid.Nil && s.MilestoneID != milestoneID {
		return nil, nil, nil, domainagg.NotFound(opSetCompletion, "task", taskID)
	}
	m, _ := t.ActiveMilestone(s.MilestoneID)
	return tk, s, m, nil
}
