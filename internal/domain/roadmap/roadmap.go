package roadmap

import (
	"time"

	"github.com/google/uuid"
)

// Roadmap is the root of the hierarchy. Progress is the floor percentage of
// completed active tasks across the whole tree.
type Roadmap struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;index" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;column:created_by;index" json:"createdBy"`
	Progress    int       `gorm:"column:progress;not null" json:"progress"`
	IsCompleted bool      `gorm:"column:is_completed;not null;index" json:"isCompleted"`
	IsDraft     bool      `gorm:"column:is_draft;not null;index" json:"isDraft"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;index" json:"isDeleted"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updatedAt"`
}

func (Roadmap) TableName() string { return "roadmap" }

type Milestone struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoadmapID   uuid.UUID `gorm:"type:uuid;column:roadmap_id;not null;index" json:"roadmapId"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Position    int       `gorm:"column:position;not null" json:"position"`
	Progress    int       `gorm:"column:progress;not null" json:"progress"`
	IsCompleted bool      `gorm:"column:is_completed;not null" json:"isCompleted"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;index" json:"isDeleted"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updatedAt"`
}

func (Milestone) TableName() string { return "milestone" }

type Section struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MilestoneID uuid.UUID `gorm:"type:uuid;column:milestone_id;not null;index" json:"milestoneId"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Position    int       `gorm:"column:position;not null" json:"position"`
	IsCompleted bool      `gorm:"column:is_completed;not null" json:"isCompleted"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;index" json:"isDeleted"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updatedAt"`
}

func (Section) TableName() string { return "section" }

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID   uuid.UUID `gorm:"type:uuid;column:section_id;not null;index" json:"sectionId"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	DateStart   time.Time `gorm:"column:date_start;not null" json:"dateStart"`
	DateEnd     time.Time `gorm:"column:date_end;not null;index" json:"dateEnd"`
	Position    int       `gorm:"column:position;not null" json:"position"`
	IsCompleted bool      `gorm:"column:is_completed;not null" json:"isCompleted"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;index" json:"isDeleted"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updatedAt"`
}

func (Task) TableName() string { return "task" }
