package roadmap

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

// AuditFilter narrows one user's audit trail.
type AuditFilter struct {
	UserID uuid.UUID
	// Action and Search are both case-insensitive substrings of activity_action.
	Action string
	Search string
	// Day keeps entries created on that UTC calendar day.
	Day *time.Time
}

type AuditLogRepo interface {
	Create(dbc dbctx.Context, rows []*types.AuditLog) ([]*types.AuditLog, error)
	List(dbc dbctx.Context, f AuditFilter, p Page) ([]*types.AuditLog, error)
	Count(dbc dbctx.Context, f AuditFilter) (int64, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Create(dbc dbctx.Context, rows []*types.AuditLog) ([]*types.AuditLog, error) {
	if len(rows) == 0 {
		return []*types.AuditLog{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *auditLogRepo) List(dbc dbctx.Context, f AuditFilter, p Page) ([]*types.AuditLog, error) {
	var out []*types.AuditLog
	q := applyAuditFilter(dbc.Conn(r.db).Model(&types.AuditLog{}), f)
	if err := applyPage(q, "audit_log", p).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *auditLogRepo) Count(dbc dbctx.Context, f AuditFilter) (int64, error) {
	var count int64
	if err := applyAuditFilter(dbc.Conn(r.db).Model(&types.AuditLog{}), f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyAuditFilter(q *gorm.DB, f AuditFilter) *gorm.DB {
	if f.UserID != uuid.Nil {
		q = q.Where("audit_log.user_id = ?", f.UserID)
	}
	for _, s := range []string{f.Action, f.Search} {
		if s = strings.TrimSpace(s); s != "" {
			q = q.Where(`LOWER(audit_log.activity_action) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
		}
	}
	if f.Day != nil {
		d := f.Day.UTC()
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("audit_log.created_at >= ? AND audit_log.created_at < ?", start, start.Add(24*time.Hour))
	}
	return q
}
