package roadmap

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type SectionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Section) ([]*types.Section, error)
	ListByMilestones(dbc dbctx.Context, milestoneIDs []uuid.UUID, includeDeleted bool) ([]*types.Section, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return &sectionRepo{db: db, log: baseLog.With("repo", "SectionRepo")}
}

func (r *sectionRepo) Create(dbc dbctx.Context, rows []*types.Section) ([]*types.Section, error) {
	if len(rows) == 0 {
		return []*types.Section{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sectionRepo) ListByMilestones(dbc dbctx.Context, milestoneIDs []uuid.UUID, includeDeleted bool) ([]*types.Section, error) {
	var out []*types.Section
	if len(milestoneIDs) == 0 {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("milestone_id IN ?", milestoneIDs)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if err := q.Order("position ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sectionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return updateExpectOne(dbc.Conn(r.db).Model(&types.Section{}), id, updates)
}
