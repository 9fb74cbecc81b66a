package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	roadmapmod "github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

type RoadmapAggregateDeps struct {
	Base       BaseDeps
	Roadmaps   repos.RoadmapRepo
	Milestones repos.MilestoneRepo
	Sections   repos.SectionRepo
	Tasks      repos.TaskRepo

	Clock func() time.Time
	NewID roadmapmod.IDFunc
}

type RoadmapAggregate struct {
	deps RoadmapAggregateDeps
}

var _ domainagg.RoadmapAggregate = (*RoadmapAggregate)(nil)

func NewRoadmapAggregate(deps RoadmapAggregateDeps) *RoadmapAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Clock == nil {
		deps.Clock = func() time.Time { return time.Now().UTC() }
	}
	if deps.NewID == nil {
		deps.NewID = uuid.New
	}
	return &RoadmapAggregate{deps: deps}
}

func (a *RoadmapAggregate) Contract() domainagg.Contract {
	return domainagg.RoadmapAggregateContract
}

func (a *RoadmapAggregate) Create(ctx context.Context, in domainagg.CreateRoadmapInput) (domainagg.CreateRoadmapResult, error) {
	const op = "roadmap.create"
	var out domainagg.CreateRoadmapResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		tree, batch, err := roadmapmod.PlanCreate(in, a.deps.Clock(), a.deps.NewID)
		if err != nil {
			return err
		}
		exists, err := a.deps.Roadmaps.ActiveTitleExists(dbc, tree.Roadmap.Title, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return ConflictError(fmt.Sprintf("roadmap with title '%s' already exists", tree.Roadmap.Title))
		}
		counts, err := a.persist(dbc, batch, nil)
		if err != nil {
			return err
		}
		out = domainagg.CreateRoadmapResult{
			RoadmapID:  tree.Roadmap.ID,
			Milestones: counts.milestones,
			Sections:   counts.sections,
			Tasks:      counts.tasks,
		}
		return nil
	})
	if err != nil {
		return domainagg.CreateRoadmapResult{}, err
	}
	return out, nil
}

func (a *RoadmapAggregate) Reconcile(ctx context.Context, in domainagg.ReconcileRoadmapInput) (domainagg.ReconcileRoadmapResult, error) {
	const op = "roadmap.reconcile"
	var out domainagg.ReconcileRoadmapResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		tree, err := a.loadTree(dbc, in.RoadmapID, op)
		if err != nil {
			return err
		}
		batch, err := roadmapmod.PlanReconcile(tree, in, a.deps.Clock(), a.deps.NewID)
		if err != nil {
			return err
		}
		if in.Roadmap != nil && in.Roadmap.Title != nil {
			exists, err := a.deps.Roadmaps.ActiveTitleExists(dbc, tree.Roadmap.Title, tree.Roadmap.ID)
			if err != nil {
				return err
			}
			if exists {
				return ConflictError(fmt.Sprintf("roadmap with title '%s' already exists", tree.Roadmap.Title))
			}
		}
		if _, err := a.persist(dbc, batch, nil); err != nil {
			return err
		}
		inserted, updated, deleted := batch.Counts()
		out = domainagg.ReconcileRoadmapResult{
			RoadmapID:   tree.Roadmap.ID,
			Inserted:    inserted,
			Updated:     updated,
			SoftDeleted: deleted,
			Progress:    tree.Roadmap.Progress,
			IsCompleted: tree.Roadmap.IsCompleted,
		}
		return nil
	})
	if err != nil {
		return domainagg.ReconcileRoadmapResult{}, err
	}
	return out, nil
}

func (a *RoadmapAggregate) SetCompletion(ctx context.Context, in domainagg.SetCompletionInput) (domainagg.SetCompletionResult, error) {
	const op = "roadmap.set_completion"
	var out domainagg.SetCompletionResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		tree, err := a.loadTree(dbc, in.RoadmapID, op)
		if err != nil {
			return err
		}
		batch, err := roadmapmod.PlanCompletion(tree, in, a.deps.Clock())
		if err != nil {
			return err
		}
		if _, err := a.persist(dbc, batch, nil); err != nil {
			return err
		}
		out = domainagg.SetCompletionResult{
			RoadmapID:   tree.Roadmap.ID,
			Progress:    tree.Roadmap.Progress,
			IsCompleted: tree.Roadmap.IsCompleted,
			Touched:     len(batch.Updates()),
		}
		return nil
	})
	if err != nil {
		return domainagg.SetCompletionResult{}, err
	}
	return out, nil
}

func (a *RoadmapAggregate) Publish(ctx context.Context, in domainagg.PublishRoadmapInput) (domainagg.PublishRoadmapResult, error) {
	const op = "roadmap.publish"
	var out domainagg.PublishRoadmapResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		tree, err := a.loadTree(dbc, in.RoadmapID, op)
		if err != nil {
			return err
		}
		batch, err := roadmapmod.PlanPublish(tree, in, a.deps.Clock())
		if err != nil {
			return err
		}
		if _, err := a.persist(dbc, batch, map[string]any{"is_draft": true}); err != nil {
			return err
		}
		out = domainagg.PublishRoadmapResult{RoadmapID: tree.Roadmap.ID, PublishedAt: batch.At}
		return nil
	})
	if err != nil {
		return domainagg.PublishRoadmapResult{}, err
	}
	return out, nil
}

func (a *RoadmapAggregate) Delete(ctx context.Context, in domainagg.DeleteRoadmapInput) (domainagg.DeleteRoadmapResult, error) {
	const op = "roadmap.delete"
	var out domainagg.DeleteRoadmapResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		tree, err := a.loadTree(dbc, in.RoadmapID, op)
		if err != nil {
			return err
		}
		batch, err := roadmapmod.PlanDelete(tree, in, a.deps.Clock())
		if err != nil {
			return err
		}
		if _, err := a.persist(dbc, batch, map[string]any{"is_deleted": false}); err != nil {
			return err
		}
		_, _, deleted := batch.Counts()
		out = domainagg.DeleteRoadmapResult{RoadmapID: tree.Roadmap.ID, SoftDeleted: deleted}
		return nil
	})
	if err != nil {
		return domainagg.DeleteRoadmapResult{}, err
	}
	return out, nil
}

// loadTree locks the root and reads every descendant, soft-deleted rows
// included, into a snapshot.
func (a *RoadmapAggregate) loadTree(dbc dbctx.Context, roadmapID uuid.UUID, op string) (*roadmapmod.Tree, error) {
	if roadmapID == uuid.Nil {
		return nil, domainagg.Validation(op, domainagg.FieldError{Field: "roadmapId", Message: "roadmap id is required"})
	}
	rm, err := a.deps.Roadmaps.LockByID(dbc, roadmapID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, domainagg.NotFound(op, "roadmap", roadmapID)
	}
	return LoadTree(dbc, rm, a.deps.Milestones, a.deps.Sections, a.deps.Tasks)
}

// LoadTree reads the descendants of rm, soft-deleted rows included.
func LoadTree(dbc dbctx.Context, rm *types.Roadmap, milestones repos.MilestoneRepo, sections repos.SectionRepo, tasks repos.TaskRepo) (*roadmapmod.Tree, error) {
	ms, err := milestones.ListByRoadmap(dbc, rm.ID, true)
	if err != nil {
		return nil, err
	}
	mIDs := make([]uuid.UUID, 0, len(ms))
	for _, m := range ms {
		mIDs = append(mIDs, m.ID)
	}
	ss, err := sections.ListByMilestones(dbc, mIDs, true)
	if err != nil {
		return nil, err
	}
	sIDs := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		sIDs = append(sIDs, s.ID)
	}
	ts, err := tasks.ListBySections(dbc, sIDs, true)
	if err != nil {
		return nil, err
	}
	return roadmapmod.NewTree(rm, ms, ss, ts), nil
}

type insertCounts struct {
	roadmaps   int
	milestones int
	sections   int
	tasks      int
}

// persist writes inserts parent-first, then one coalesced update per existing
// row. rootGuard, when set, makes the roadmap row update conditional.
func (a *RoadmapAggregate) persist(dbc dbctx.Context, b *roadmapmod.Batch, rootGuard map[string]any) (insertCounts, error) {
	var (
		rms   []*types.Roadmap
		ms    []*types.Milestone
		ss    []*types.Section
		ts    []*types.Task
		count insertCounts
	)
	for _, node := range b.Inserts() {
		switch n := node.(type) {
		case *types.Roadmap:
			rms = append(rms, n)
		case *types.Milestone:
			ms = append(ms, n)
		case *types.Section:
			ss = append(ss, n)
		case *types.Task:
			ts = append(ts, n)
		}
	}
	count = insertCounts{roadmaps: len(rms), milestones: len(ms), sections: len(ss), tasks: len(ts)}
	if _, err := a.deps.Roadmaps.Create(dbc, rms); err != nil {
		return count, err
	}
	if _, err := a.deps.Milestones.Create(dbc, ms); err != nil {
		return count, err
	}
	if _, err := a.deps.Sections.Create(dbc, ss); err != nil {
		return count, err
	}
	if _, err := a.deps.Tasks.Create(dbc, ts); err != nil {
		return count, err
	}

	for _, u := range b.Updates() {
		var err error
		switch u.Kind {
		case domainagg.NodeRoadmap:
			if rootGuard != nil {
				var ok bool
				ok, err = a.deps.Base.Guard.UpdateWhere(dbc, types.Roadmap{}.TableName(), u.ID, rootGuard, u.Columns)
				if err == nil {
					err = RequireGuardSuccess(ok, fmt.Sprintf("roadmap '%s' changed concurrently", u.ID))
				}
			} else {
				err = a.deps.Roadmaps.UpdateFields(dbc, u.ID, u.Columns)
			}
		case domainagg.NodeMilestone:
			err = a.deps.Milestones.UpdateFields(dbc, u.ID, u.Columns)
		case domainagg.NodeSection:
			err = a.deps.Sections.UpdateFields(dbc, u.ID, u.Columns)
		case domainagg.NodeTask:
			err = a.deps.Tasks.UpdateFields(dbc, u.ID, u.Columns)
		default:
			err = InvariantError("unknown node kind " + strings.TrimSpace(string(u.Kind)))
		}
		if err != nil {
			return count, err
		}
	}
	return count, nil
}
