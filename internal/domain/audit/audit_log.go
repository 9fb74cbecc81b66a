package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;column:user_id;not null;index" json:"userId"`
	RoadmapID      *uuid.UUID     `gorm:"type:uuid;column:roadmap_id;index" json:"roadmapId,omitempty"`
	ActivityAction string         `gorm:"column:activity_action;not null" json:"activityAction"`
	Details        datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null;index;autoCreateTime:false" json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_log" }
