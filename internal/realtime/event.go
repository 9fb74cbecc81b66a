package realtime

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventRoadmapCreated           EventType = "roadmap.created"
	EventRoadmapPatched           EventType = "roadmap.patched"
	EventRoadmapCompletionChanged EventType = "roadmap.completion_changed"
	EventRoadmapPublished         EventType = "roadmap.published"
	EventRoadmapDeleted           EventType = "roadmap.deleted"
)

// ChangeEvent announces a committed write to one roadmap tree.
type ChangeEvent struct {
	Type      EventType `json:"type"`
	RoadmapID uuid.UUID `json:"roadmapId"`
	UserID    uuid.UUID `json:"userId"`
	At        time.Time `json:"at"`
}
