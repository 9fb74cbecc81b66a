package services

import (
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

type CreateRoadmapRequest struct {
	Title       string                   `json:"title" validate:"required,max=100"`
	Description string                   `json:"description" validate:"required,max=500"`
	IsDraft     bool                     `json:"isDraft"`
	Milestones  []CreateMilestoneRequest `json:"milestones" validate:"dive"`
}

type CreateMilestoneRequest struct {
	Name        string                 `json:"name" validate:"required,max=50"`
	Description string                 `json:"description" validate:"required,max=100"`
	Sections    []CreateSectionRequest `json:"sections" validate:"dive"`
}

type CreateSectionRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description" validate:"required"`
	Tasks       []CreateTaskRequest `json:"tasks" validate:"dive"`
}

type CreateTaskRequest struct {
	Name      string    `json:"name" validate:"required,max=50"`
	DateStart time.Time `json:"dateStart" validate:"required"`
	DateEnd   time.Time `json:"dateEnd" validate:"required,gtfield=DateStart"`
}

func (r CreateRoadmapRequest) toInput(createdBy uuid.UUID) domainagg.CreateRoadmapInput {
	in := domainagg.CreateRoadmapInput{
		CreatedBy:   createdBy,
		Title:       r.Title,
		Description: r.Description,
		IsDraft:     r.IsDraft,
		Milestones:  make([]domainagg.NewMilestone, 0, len(r.Milestones)),
	}
	for _, m := range r.Milestones {
		nm := domainagg.NewMilestone{Name: m.Name, Description: m.Description}
		for _, s := range m.Sections {
			ns := domainagg.NewSection{Name: s.Name, Description: s.Description}
			for _, tk := range s.Tasks {
				ns.Tasks = append(ns.Tasks, domainagg.NewTask{Name: tk.Name, DateStart: tk.DateStart, DateEnd: tk.DateEnd})
			}
			nm.Sections = append(nm.Sections, ns)
		}
		in.Milestones = append(in.Milestones, nm)
	}
	return in
}

type PatchRoadmapRequest struct {
	Roadmap    *RoadmapFieldsRequest   `json:"roadmap"`
	Milestones []MilestonePatchRequest `json:"milestones" validate:"dive"`
	Sections   []SectionPatchRequest   `json:"sections" validate:"dive"`
	Tasks      []TaskPatchRequest      `json:"tasks" validate:"dive"`
}

type RoadmapFieldsRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type MilestonePatchRequest struct {
	MilestoneID uuid.UUID `json:"milestoneId"`
	Name        *string   `json:"name" validate:"omitempty,max=50"`
	Description *string   `json:"description" validate:"omitempty,max=100"`
	IsDeleted   bool      `json:"isDeleted"`
}

type SectionPatchRequest struct {
	SectionID   uuid.UUID `json:"sectionId"`
	MilestoneID uuid.UUID `json:"milestoneId"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	IsDeleted   bool      `json:"isDeleted"`
}

type TaskPatchRequest struct {
	TaskID      uuid.UUID  `json:"taskId"`
	SectionID   uuid.UUID  `json:"sectionId"`
	MilestoneID uuid.UUID  `json:"milestoneId"`
	Name        *string    `json:"name" validate:"omitempty,max=50"`
	DateStart   *time.Time `json:"dateStart"`
	DateEnd     *time.Time `json:"dateEnd"`
	IsDeleted   bool       `json:"isDeleted"`
}

func (r PatchRoadmapRequest) toInput(roadmapID uuid.UUID) domainagg.ReconcileRoadmapInput {
	in := domainagg.ReconcileRoadmapInput{RoadmapID: roadmapID}
	if r.Roadmap != nil {
		in.Roadmap = &domainagg.RoadmapFieldsPatch{Title: r.Roadmap.Title, Description: r.Roadmap.Description}
	}
	for _, m := range r.Milestones {
		in.Milestones = append(in.Milestones, domainagg.MilestonePatch{
			ID:          m.MilestoneID,
			Name:        m.Name,
			Description: m.Description,
			IsDeleted:   m.IsDeleted,
		})
	}
	for _, s := range r.Sections {
		in.Sections = append(in.Sections, domainagg.SectionPatch{
			ID:          s.SectionID,
			MilestoneID: s.MilestoneID,
			Name:        s.Name,
			Description: s.Description,
			IsDeleted:   s.IsDeleted,
		})
	}
	for _, tk := range r.Tasks {
		in.Tasks = append(in.Tasks, domainagg.TaskPatch{
			ID:          tk.TaskID,
			SectionID:   tk.SectionID,
			MilestoneID: tk.MilestoneID,
			Name:        tk.Name,
			DateStart:   tk.DateStart,
			DateEnd:     tk.DateEnd,
			IsDeleted:   tk.IsDeleted,
		})
	}
	return in
}

type CompletionRequest struct {
	Type        string    `json:"type" validate:"required"`
	MilestoneID uuid.UUID `json:"milestoneId"`
	SectionID   uuid.UUID `json:"sectionId"`
	TaskID      uuid.UUID `json:"taskId"`
	IsChecked   bool      `json:"isChecked"`
}
