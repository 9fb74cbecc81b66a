package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/aggregates"
	"github.com/yungbote/roadmap-backend/internal/data/repos"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	roadmapmod "github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
)

const opDetails = "roadmap.details"

type RoadmapView struct {
	ID          uuid.UUID       `json:"roadmapId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CreatedBy   uuid.UUID       `json:"createdBy"`
	Progress    int             `json:"progress"`
	IsCompleted bool            `json:"isCompleted"`
	IsDraft     bool            `json:"isDraft"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Milestones  []MilestoneView `json:"milestones"`
}

type MilestoneView struct {
	ID          uuid.UUID     `json:"milestoneId"`
	RoadmapID   uuid.UUID     `json:"roadmapId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Progress    int           `json:"progress"`
	IsCompleted bool          `json:"isCompleted"`
	Sections    []SectionView `json:"sections"`
}

type SectionView struct {
	ID          uuid.UUID  `json:"sectionId"`
	MilestoneID uuid.UUID  `json:"milestoneId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	Tasks       []TaskView `json:"tasks"`
}

type TaskView struct {
	ID          uuid.UUID `json:"taskId"`
	SectionID   uuid.UUID `json:"sectionId"`
	Name        string    `json:"name"`
	DateStart   time.Time `json:"dateStart"`
	DateEnd     time.Time `json:"dateEnd"`
	IsCompleted bool      `json:"isCompleted"`
}

type RoadmapService interface {
	Create(ctx context.Context, req CreateRoadmapRequest) (*RoadmapView, error)
	Details(ctx context.Context, roadmapID uuid.UUID) (*RoadmapView, error)
	Patch(ctx context.Context, roadmapID uuid.UUID, req PatchRoadmapRequest) (*RoadmapView, error)
	SetCompletion(ctx context.Context, roadmapID uuid.UUID, req CompletionRequest) (*domainagg.SetCompletionResult, error)
	Publish(ctx context.Context, roadmapID uuid.UUID) (*domainagg.PublishRoadmapResult, error)
	Delete(ctx context.Context, roadmapID uuid.UUID) (*domainagg.DeleteRoadmapResult, error)
}

type RoadmapServiceDeps struct {
	DB         *gorm.DB
	Log        *logger.Logger
	Aggregate  domainagg.RoadmapAggregate
	Roadmaps   repos.RoadmapRepo
	Milestones repos.MilestoneRepo
	Sections   repos.SectionRepo
	Tasks      repos.TaskRepo
	Audit      AuditService
	Events     bus.Bus
	Metrics    *observability.Metrics
	Validator  *Validator
	Now        func() time.Time
}

type roadmapService struct {
	deps RoadmapServiceDeps
	log  *logger.Logger
}

func NewRoadmapService(deps RoadmapServiceDeps) RoadmapService {
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	return &roadmapService{deps: deps, log: deps.Log.With("service", "RoadmapService")}
}

func (s *roadmapService) Create(ctx context.Context, req CreateRoadmapRequest) (*RoadmapView, error) {
	if err := s.deps.Validator.Struct("roadmap.create", req); err != nil {
		return nil, err
	}
	caller := ctxutil.UserID(ctx)
	res, err := s.deps.Aggregate.Create(ctx, req.toInput(caller))
	if err != nil {
		return nil, err
	}
	s.log.Info("roadmap created", "roadmap_id", res.RoadmapID, "user_id", caller, "tasks", res.Tasks)
	s.afterWrite(ctx, realtime.EventRoadmapCreated, res.RoadmapID,
		fmt.Sprintf("Created roadmap '%s'", req.Title),
		map[string]any{"milestones": res.Milestones, "sections": res.Sections, "tasks": res.Tasks})
	return s.Details(ctx, res.RoadmapID)
}

func (s *roadmapService) Details(ctx context.Context, roadmapID uuid.UUID) (*RoadmapView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rm, err := s.deps.Roadmaps.GetByID(dbc, roadmapID)
	if err != nil {
		return nil, aggregates.MapError(opDetails, err)
	}
	if rm == nil {
		return nil, domainagg.NotFound(opDetails, "roadmap", roadmapID)
	}
	if rm.IsDeleted {
		return nil, domainagg.AlreadyDeleted(opDetails, "roadmap", roadmapID)
	}
	tree, err := aggregates.LoadTree(dbc, rm, s.deps.Milestones, s.deps.Sections, s.deps.Tasks)
	if err != nil {
		return nil, aggregates.MapError(opDetails, err)
	}
	return treeView(tree), nil
}

func (s *roadmapService) Patch(ctx context.Context, roadmapID uuid.UUID, req PatchRoadmapRequest) (*RoadmapView, error) {
	if err := s.deps.Validator.Struct("roadmap.reconcile", req); err != nil {
		return nil, err
	}
	res, err := s.deps.Aggregate.Reconcile(ctx, req.toInput(roadmapID))
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, realtime.EventRoadmapPatched, roadmapID,
		"Updated roadmap",
		map[string]any{"inserted": res.Inserted, "updated": res.Updated, "softDeleted": res.SoftDeleted, "progress": res.Progress})
	return s.Details(ctx, roadmapID)
}

func (s *roadmapService) SetCompletion(ctx context.Context, roadmapID uuid.UUID, req CompletionRequest) (*domainagg.SetCompletionResult, error) {
	const op = "roadmap.set_completion"
	if err := s.deps.Validator.Struct(op, req); err != nil {
		return nil, err
	}
	nodeType, ok := domainagg.ParseNodeType(req.Type)
	if !ok {
		return nil, domainagg.Validation(op, domainagg.FieldError{
			Field:   "type",
			Message: "type must be one of roadmap, milestone, section, task",
		})
	}
	res, err := s.deps.Aggregate.SetCompletion(ctx, domainagg.SetCompletionInput{
		RoadmapID:   roadmapID,
		NodeType:    nodeType,
		MilestoneID: req.MilestoneID,
		SectionID:   req.SectionID,
		TaskID:      req.TaskID,
		Checked:     req.IsChecked,
	})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, realtime.EventRoadmapCompletionChanged, roadmapID,
		fmt.Sprintf("Updated %s completion status", nodeType),
		map[string]any{"type": string(nodeType), "isChecked": req.IsChecked, "progress": res.Progress})
	return &res, nil
}

func (s *roadmapService) Publish(ctx context.Context, roadmapID uuid.UUID) (*domainagg.PublishRoadmapResult, error) {
	res, err := s.deps.Aggregate.Publish(ctx, domainagg.PublishRoadmapInput{RoadmapID: roadmapID})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, realtime.EventRoadmapPublished, roadmapID, "Published roadmap", nil)
	return &res, nil
}

func (s *roadmapService) Delete(ctx context.Context, roadmapID uuid.UUID) (*domainagg.DeleteRoadmapResult, error) {
	res, err := s.deps.Aggregate.Delete(ctx, domainagg.DeleteRoadmapInput{RoadmapID: roadmapID})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, realtime.EventRoadmapDeleted, roadmapID, "Deleted roadmap",
		map[string]any{"softDeleted": res.SoftDeleted})
	return &res, nil
}

// afterWrite records the audit trail and announces the change. Both are best
// effort once the write has committed.
func (s *roadmapService) afterWrite(ctx context.Context, evtType realtime.EventType, roadmapID uuid.UUID, action string, details map[string]any) {
	caller := ctxutil.UserID(ctx)
	if s.deps.Audit != nil {
		s.deps.Audit.RecordActivity(ctx, caller, roadmapID, action, details)
	}
	if s.deps.Events == nil {
		return
	}
	err := s.deps.Events.Publish(ctx, realtime.ChangeEvent{
		Type:      evtType,
		RoadmapID: roadmapID,
		UserID:    caller,
		At:        s.deps.Now().UTC(),
	})
	s.deps.Metrics.IncEventPublished(string(evtType), err == nil)
	if err != nil {
		s.log.Warn("change event not published", "type", evtType, "roadmap_id", roadmapID, "error", err)
	}
}

func treeView(t *roadmapmod.Tree) *RoadmapView {
	rm := t.Roadmap
	out := &RoadmapView{
		ID:          rm.ID,
		Title:       rm.Title,
		Description: rm.Description,
		CreatedBy:   rm.CreatedBy,
		Progress:    rm.Progress,
		IsCompleted: rm.IsCompleted,
		IsDraft:     rm.IsDraft,
		CreatedAt:   rm.CreatedAt,
		UpdatedAt:   rm.UpdatedAt,
		Milestones:  []MilestoneView{},
	}
	if due := roadmapmod.TreeDue(t); !due.IsZero() {
		out.DueDate = &due
	}
	for _, m := range t.ActiveMilestones() {
		mv := MilestoneView{
			ID:          m.ID,
			RoadmapID:   m.RoadmapID,
			Name:        m.Name,
			Description: m.Description,
			Progress:    m.Progress,
			IsCompleted: m.IsCompleted,
			Sections:    []SectionView{},
		}
		for _, sec := range t.ActiveSections(m.ID) {
			sv := SectionView{
				ID:          sec.ID,
				MilestoneID: sec.MilestoneID,
				Name:        sec.Name,
				Description: sec.Description,
				IsCompleted: sec.IsCompleted,
				Tasks:       []TaskView{},
			}
			for _, tk := range t.ActiveTasks(sec.ID) {
				sv.Tasks = append(sv.Tasks, TaskView{
					ID:          tk.ID,
					SectionID:   tk.SectionID,
					Name:        tk.Name,
					DateStart:   tk.DateStart,
					DateEnd:     tk.DateEnd,
					IsCompleted: tk.IsCompleted,
				})
			}
			mv.Sections = append(mv.Sections, sv)
		}
		out.Milestones = append(out.Milestones, mv)
	}
	return out
}
