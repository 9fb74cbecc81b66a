package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const (
	opRecordAudit = "audit.record"
	opListAudit   = "audit.list"

	auditMaxPageSize     = 20
	auditPageSizeStep    = 5
	auditDefaultPageSize = 10
)

// auditFilters maps the accepted filter values to the action substring they match.
var auditFilters = map[string]string{
	"created": "create",
	"updated": "update",
	"deleted": "delete",
}

var auditSortColumns = map[string]string{
	"activityaction": "activity_action",
	"createdat":      "created_at",
}

type RecordAuditRequest struct {
	ActivityAction string `json:"activityAction" validate:"required,min=5,max=100"`
}

type ListAuditLogsQuery struct {
	Filter     string
	Search     string
	CreatedOn  *time.Time
	PageNumber *int
	PageSize   *int
	SortBy     string
	Asc        *int
}

type AuditService interface {
	Record(ctx context.Context, userID uuid.UUID, req RecordAuditRequest) (*types.AuditLog, error)
	// RecordActivity stores a write trail entry; failures are logged, not returned.
	RecordActivity(ctx context.Context, userID, roadmapID uuid.UUID, action string, details map[string]any)
	ListLogs(ctx context.Context, q ListAuditLogsQuery) (*PagedResult[*types.AuditLog], error)
}

type auditService struct {
	db        *gorm.DB
	log       *logger.Logger
	logs      repos.AuditLogRepo
	validator *Validator
	now       func() time.Time
}

func NewAuditService(db *gorm.DB, baseLog *logger.Logger, logs repos.AuditLogRepo, validator *Validator, now func() time.Time) AuditService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if validator == nil {
		validator = NewValidator()
	}
	return &auditService{
		db:        db,
		log:       baseLog.With("service", "AuditService"),
		logs:      logs,
		validator: validator,
		now:       now,
	}
}

func (s *auditService) Record(ctx context.Context, userID uuid.UUID, req RecordAuditRequest) (*types.AuditLog, error) {
	if err := s.validator.Struct(opRecordAudit, req); err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		return nil, domainagg.Validation(opRecordAudit, domainagg.FieldError{Field: "userId", Message: "UserId is required."})
	}
	row := &types.AuditLog{
		ID:             uuid.New(),
		UserID:         userID,
		ActivityAction: strings.TrimSpace(req.ActivityAction),
		CreatedAt:      s.now().UTC(),
	}
	if _, err := s.logs.Create(dbctx.Context{Ctx: ctx}, []*types.AuditLog{row}); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *auditService) RecordActivity(ctx context.Context, userID, roadmapID uuid.UUID, action string, details map[string]any) {
	row := &types.AuditLog{
		ID:             uuid.New(),
		UserID:         userID,
		ActivityAction: action,
		CreatedAt:      s.now().UTC(),
	}
	if roadmapID != uuid.Nil {
		id := roadmapID
		row.RoadmapID = &id
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			s.log.Warn("audit details not encodable", "action", action, "error", err)
		} else {
			row.Details = datatypes.JSON(raw)
		}
	}
	if _, err := s.logs.Create(dbctx.Context{Ctx: ctx}, []*types.AuditLog{row}); err != nil {
		s.log.Warn("audit entry not recorded", "action", action, "roadmap_id", roadmapID, "error", err)
	}
}

func (s *auditService) ListLogs(ctx context.Context, q ListAuditLogsQuery) (*PagedResult[*types.AuditLog], error) {
	pageNumber := intOr(q.PageNumber, 1)
	pageSize := intOr(q.PageSize, auditDefaultPageSize)
	asc := 0
	if q.Asc != nil {
		asc = *q.Asc
	}
	sortBy := strings.ToLower(strings.TrimSpace(q.SortBy))
	if sortBy == "" {
		sortBy = "createdat"
	}

	rules := pageRules{maxPageSize: auditMaxPageSize, step: auditPageSizeStep}
	errs := rules.check(pageNumber, pageSize)
	errs = append(errs, checkAsc(asc)...)
	f := repos.AuditFilter{Search: strings.TrimSpace(q.Search), Day: q.CreatedOn}
	if raw := strings.ToLower(strings.TrimSpace(q.Filter)); raw != "" {
		action, ok := auditFilters[raw]
		if !ok {
			errs = append(errs, domainagg.FieldError{Field: "filter", Message: fmt.Sprintf("Filter must be one of: %s.", allowedList(auditFilters))})
		}
		f.Action = action
	}
	col, ok := auditSortColumns[sortBy]
	if !ok {
		errs = append(errs, domainagg.FieldError{Field: "sortBy", Message: fmt.Sprintf("Sort field must be one of: %s.", allowedList(auditSortColumns))})
	}
	if len(errs) > 0 {
		return nil, domainagg.Validation(opListAudit, errs...)
	}

	dbc := dbctx.Context{Ctx: ctx}
	total, err := s.logs.Count(dbc, f)
	if err != nil {
		return nil, err
	}
	pages := totalPages(total, pageSize)
	if err := checkPageInRange(opListAudit, pageNumber, pages); err != nil {
		return nil, err
	}
	rows, err := s.logs.List(dbc, f, repos.Page{
		Offset:  (pageNumber - 1) * pageSize,
		Limit:   pageSize,
		OrderBy: col,
		Asc:     asc == 1,
	})
	if err != nil {
		return nil, err
	}
	return &PagedResult[*types.AuditLog]{
		Items:       rows,
		TotalCount:  total,
		TotalPages:  pages,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
	}, nil
}
