package roadmap

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type TaskRepo interface {
	Create(dbc dbctx.Context, rows []*types.Task) ([]*types.Task, error)
	ListBySections(dbc dbctx.Context, sectionIDs []uuid.UUID, includeDeleted bool) ([]*types.Task, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Create(dbc dbctx.Context, rows []*types.Task) ([]*types.Task, error) {
	if len(rows) == 0 {
		return []*types.Task{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *taskRepo) ListBySections(dbc dbctx.Context, sectionIDs []uuid.UUID, includeDeleted bool) ([]*types.Task, error) {
	var out []*types.Task
	if len(sectionIDs) == 0 {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("section_id IN ?", sectionIDs)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if err := q.Order("position ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return updateExpectOne(dbc.Conn(r.db).Model(&types.Task{}), id, updates)
}
