package roadmap

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type MilestoneRepo interface {
	Create(dbc dbctx.Context, rows []*types.Milestone) ([]*types.Milestone, error)
	ListByRoadmap(dbc dbctx.Context, roadmapID uuid.UUID, includeDeleted bool) ([]*types.Milestone, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

func (r *milestoneRepo) Create(dbc dbctx.Context, rows []*types.Milestone) ([]*types.Milestone, error) {
	if len(rows) == 0 {
		return []*types.Milestone{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *milestoneRepo) ListByRoadmap(dbc dbctx.Context, roadmapID uuid.UUID, includeDeleted bool) ([]*types.Milestone, error) {
	var out []*types.Milestone
	if roadmapID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("roadmap_id = ?", roadmapID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if err := q.Order("position ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *milestoneRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return updateExpectOne(dbc.Conn(r.db).Model(&types.Milestone{}), id, updates)
}
