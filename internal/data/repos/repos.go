package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type RoadmapRepo = roadmap.RoadmapRepo
type MilestoneRepo = roadmap.MilestoneRepo
type SectionRepo = roadmap.SectionRepo
type TaskRepo = roadmap.TaskRepo
type AuditLogRepo = roadmap.AuditLogRepo

type RoadmapFilter = roadmap.RoadmapFilter
type DueRange = roadmap.DueRange
type AuditFilter = roadmap.AuditFilter
type Page = roadmap.Page
type TaskDueRow = roadmap.TaskDueRow

func NewRoadmapRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapRepo {
	return roadmap.NewRoadmapRepo(db, baseLog)
}
func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return roadmap.NewMilestoneRepo(db, baseLog)
}
func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return roadmap.NewSectionRepo(db, baseLog)
}
func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return roadmap.NewTaskRepo(db, baseLog)
}
func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return roadmap.NewAuditLogRepo(db, baseLog)
}
