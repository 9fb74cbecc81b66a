package roadmap

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type RoadmapRepo interface {
	Create(dbc dbctx.Context, rows []*types.Roadmap) ([]*types.Roadmap, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Roadmap, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Roadmap, error)
	ActiveTitleExists(dbc dbctx.Context, title string, excludeID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	List(dbc dbctx.Context, f RoadmapFilter, p Page) ([]*types.Roadmap, error)
	Count(dbc dbctx.Context, f RoadmapFilter) (int64, error)
	TaskDueDates(dbc dbctx.Context, f RoadmapFilter) ([]TaskDueRow, error)
}

// TaskDueRow is one active task end date, keyed by its roadmap.
type TaskDueRow struct {
	RoadmapID uuid.UUID `gorm:"column:roadmap_id"`
	DateEnd   time.Time `gorm:"column:date_end"`
}

type roadmapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapRepo {
	return &roadmapRepo{db: db, log: baseLog.With("repo", "RoadmapRepo")}
}

func (r *roadmapRepo) Create(dbc dbctx.Context, rows []*types.Roadmap) ([]*types.Roadmap, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Roadmap{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns the roadmap including soft-deleted rows, or nil when absent.
func (r *roadmapRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Roadmap, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Roadmap
	err := dbc.Conn(r.db).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LockByID reads the root row inside a write transaction. On postgres the row
// is locked FOR UPDATE so concurrent writers on one roadmap serialize.
func (r *roadmapRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Roadmap, error) {
	if dbc.Tx == nil {
		return r.GetByID(dbc, id)
	}
	q := dbc.Conn(r.db)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(lockingClause())
	}
	var out types.Roadmap
	err := q.Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *roadmapRepo) ActiveTitleExists(dbc dbctx.Context, title string, excludeID uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(dbc.Ctx).
		Model(&types.Roadmap{}).
		Where("is_deleted = ? AND LOWER(title) = ?", false, strings.ToLower(strings.TrimSpace(title)))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *roadmapRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return updateExpectOne(dbc.Conn(r.db).Model(&types.Roadmap{}), id, updates)
}

func (r *roadmapRepo) List(dbc dbctx.Context, f RoadmapFilter, p Page) ([]*types.Roadmap, error) {
	var out []*types.Roadmap
	q := applyRoadmapFilter(dbc.Conn(r.db).Model(&types.Roadmap{}), f)
	if err := applyPage(q, "roadmap", p).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roadmapRepo) Count(dbc dbctx.Context, f RoadmapFilter) (int64, error) {
	var count int64
	if err := applyRoadmapFilter(dbc.Conn(r.db).Model(&types.Roadmap{}), f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TaskDueDates returns the end date of every active task reachable through
// active ancestors, for roadmaps matching f. It backs per-page due dates, so
// callers bound f to one page of ids; due filtering over the whole table goes
// through RoadmapFilter.Due instead.
func (r *roadmapRepo) TaskDueDates(dbc dbctx.Context, f RoadmapFilter) ([]TaskDueRow, error) {
	var out []TaskDueRow
	q := dbc.Conn(r.db).
		Table("task").
		Select("milestone.roadmap_id AS roadmap_id, task.date_end AS date_end").
		Joins("JOIN section ON section.id = task.section_id AND section.is_deleted = ?", false).
		Joins("JOIN milestone ON milestone.id = section.milestone_id AND milestone.is_deleted = ?", false).
		Joins("JOIN roadmap ON roadmap.id = milestone.roadmap_id").
		Where("task.is_deleted = ?", false)
	if err := applyRoadmapFilter(q, f).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
