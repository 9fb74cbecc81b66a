package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

var RoadmapAggregateContract = Contract{
	Name:             "Roadmap.RoadmapAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns atomic roadmap tree writes: creation, patch reconciliation, completion propagation, publish and cascading delete.",
}

// RoadmapAggregate owns roadmap tree consistency invariants.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeAlreadyDeleted, CodeConflict, CodeRetryable, CodeInternal.
type RoadmapAggregate interface {
	Aggregate

	// Create inserts a roadmap with its nested milestones, sections and tasks.
	Create(ctx context.Context, in CreateRoadmapInput) (CreateRoadmapResult, error)

	// Reconcile merges a partial tree patch against the persisted roadmap.
	Reconcile(ctx context.Context, in ReconcileRoadmapInput) (ReconcileRoadmapResult, error)

	// SetCompletion cascades a checked state down from a node and recomputes ancestors.
	SetCompletion(ctx context.Context, in SetCompletionInput) (SetCompletionResult, error)

	// Publish flips a draft roadmap to published.
	Publish(ctx context.Context, in PublishRoadmapInput) (PublishRoadmapResult, error)

	// Delete soft-deletes the roadmap and every descendant.
	Delete(ctx context.Context, in DeleteRoadmapInput) (DeleteRoadmapResult, error)
}

// NodeType names one level of the roadmap tree.
type NodeType string

const (
	NodeRoadmap   NodeType = "roadmap"
	NodeMilestone NodeType = "milestone"
	NodeSection   NodeType = "section"
	NodeTask      NodeType = "task"
)

// ParseNodeType accepts the level name case-insensitively.
func ParseNodeType(raw string) (NodeType, bool) {
	switch NodeType(strings.ToLower(strings.TrimSpace(raw))) {
	case NodeRoadmap:
		return NodeRoadmap, true
	case NodeMilestone:
		return NodeMilestone, true
	case NodeSection:
		return NodeSection, true
	case NodeTask:
		return NodeTask, true
	default:
		return "", false
	}
}

type CreateRoadmapInput struct {
	CreatedBy   uuid.UUID
	Title       string
	Description string
	IsDraft     bool
	Milestones  []NewMilestone
}

type NewMilestone struct {
	Name        string
	Description string
	Sections    []NewSection
}

type NewSection struct {
	Name        string
	Description string
	Tasks       []NewTask
}

type NewTask struct {
	Name      string
	DateStart time.Time
	DateEnd   time.Time
}

type CreateRoadmapResult struct {
	RoadmapID  uuid.UUID
	Milestones int
	Sections   int
	Tasks      int
}

type ReconcileRoadmapInput struct {
	RoadmapID  uuid.UUID
	Roadmap    *RoadmapFieldsPatch
	Milestones []MilestonePatch
	Sections   []SectionPatch
	Tasks      []TaskPatch
}

// RoadmapFieldsPatch carries the root-level fields; nil leaves a field untouched.
type RoadmapFieldsPatch struct {
	Title       *string
	Description *string
}

type MilestonePatch struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	IsDeleted   bool
}

type SectionPatch struct {
	ID          uuid.UUID
	MilestoneID uuid.UUID
	Name        *string
	Description *string
	IsDeleted   bool
}

type TaskPatch struct {
	ID          uuid.UUID
	SectionID   uuid.UUID
	MilestoneID uuid.UUID
	Name        *string
	DateStart   *time.Time
	DateEnd     *time.Time
	IsDeleted   bool
}

type ReconcileRoadmapResult struct {
	RoadmapID   uuid.UUID
	Inserted    int
	Updated     int
	SoftDeleted int
	Progress    int
	IsCompleted bool
}

type SetCompletionInput struct {
	RoadmapID   uuid.UUID
	NodeType    NodeType
	MilestoneID uuid.UUID
	SectionID   uuid.UUID
	TaskID      uuid.UUID
	Checked     bool
}

type SetCompletionResult struct {
	RoadmapID   uuid.UUID
	Progress    int
	IsCompleted bool
	Touched     int
}

type PublishRoadmapInput struct {
	RoadmapID uuid.UUID
}

type PublishRoadmapResult struct {
	RoadmapID   uuid.UUID
	PublishedAt time.Time
}

type DeleteRoadmapInput struct {
	RoadmapID uuid.UUID
}

type DeleteRoadmapResult struct {
	RoadmapID   uuid.UUID
	SoftDeleted int
}
