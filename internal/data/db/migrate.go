package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Roadmap tree
		&types.Roadmap{},
		&types.Milestone{},
		&types.Section{},
		&types.Task{},

		// Activity trail
		&types.AuditLog{},
	)
}

// EnsureRoadmapIndexes creates the composite indexes the list and dashboard
// queries rely on. The statements are portable across postgres and sqlite.
func EnsureRoadmapIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_roadmap_active_created", `CREATE INDEX IF NOT EXISTS idx_roadmap_active_created ON roadmap (is_deleted, created_at)`},
		{"idx_roadmap_active_draft", `CREATE INDEX IF NOT EXISTS idx_roadmap_active_draft ON roadmap (is_deleted, is_draft)`},
		{"idx_milestone_roadmap_active", `CREATE INDEX IF NOT EXISTS idx_milestone_roadmap_active ON milestone (roadmap_id, is_deleted)`},
		{"idx_section_milestone_active", `CREATE INDEX IF NOT EXISTS idx_section_milestone_active ON section (milestone_id, is_deleted)`},
		{"idx_task_section_active_end", `CREATE INDEX IF NOT EXISTS idx_task_section_active_end ON task (section_id, is_deleted, date_end)`},
		{"idx_audit_log_user_created", `CREATE INDEX IF NOT EXISTS idx_audit_log_user_created ON audit_log (user_id, created_at)`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating roadmap tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureRoadmapIndexes(s.db); err != nil {
		s.log.Error("Roadmap index migration failed", "error", err)
		return err
	}
	return nil
}
