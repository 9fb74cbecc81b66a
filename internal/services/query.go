package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	reporoadmap "github.com/yungbote/roadmap-backend/internal/data/repos/roadmap"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	roadmapmod "github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const opListRoadmaps = "roadmap.list"

// QueryConfig holds the paging defaults and bounds for roadmap listing.
type QueryConfig struct {
	DefaultPageNumber int
	DefaultPageSize   int
	DefaultSortBy     string
	DefaultAsc        int
	MaxPageNumber     int
	MaxPageSize       int
	PageSizeStep      int
	NearDueWindow     time.Duration
}

func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		DefaultPageNumber: 1,
		DefaultPageSize:   10,
		DefaultSortBy:     "createdAt",
		DefaultAsc:        0,
		MaxPageNumber:     100,
		MaxPageSize:       100,
		PageSizeStep:      5,
		NearDueWindow:     roadmapmod.DefaultNearDueWindow,
	}
}

func (c QueryConfig) withDefaults() QueryConfig {
	d := DefaultQueryConfig()
	if c.DefaultPageNumber <= 0 {
		c.DefaultPageNumber = d.DefaultPageNumber
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = d.DefaultPageSize
	}
	if strings.TrimSpace(c.DefaultSortBy) == "" {
		c.DefaultSortBy = d.DefaultSortBy
	}
	if c.DefaultAsc != 1 {
		c.DefaultAsc = 0
	}
	if c.NearDueWindow <= 0 {
		c.NearDueWindow = d.NearDueWindow
	}
	return c
}

// ListFilter names one of the fixed list filters. Matching is case-insensitive.
type ListFilter string

const (
	FilterNone      ListFilter = ""
	FilterDraft     ListFilter = "draft"
	FilterPublished ListFilter = "published"
	FilterCompleted ListFilter = "completed"
	FilterNearDue   ListFilter = "neardue"
	FilterOverdue   ListFilter = "overdue"
)

var listFilters = map[string]ListFilter{
	"draft":     FilterDraft,
	"published": FilterPublished,
	"completed": FilterCompleted,
	"neardue":   FilterNearDue,
	"overdue":   FilterOverdue,
}

// roadmapSortColumns maps the accepted sortBy values, lowercased, to columns.
var roadmapSortColumns = map[string]string{
	"title":     "title",
	"createdat": "created_at",
	"updatedat": "updated_at",
}

type ListRoadmapsQuery struct {
	Filter       string
	Search       string
	CreatedAfter *time.Time
	// PageNumber and PageSize fall back to QueryConfig when nil; an explicit
	// value, zero included, is validated as given.
	PageNumber *int
	PageSize   *int
	SortBy     string
	Asc        *int
}

// RoadmapSummary is one list row. DueDate is the latest active task end date.
type RoadmapSummary struct {
	ID          uuid.UUID  `json:"roadmapId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	Progress    int        `json:"progress"`
	IsCompleted bool       `json:"isCompleted"`
	IsDraft     bool       `json:"isDraft"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	DueStatus   string     `json:"dueStatus"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type QueryService interface {
	List(ctx context.Context, q ListRoadmapsQuery) (*PagedResult[RoadmapSummary], error)
}

type queryService struct {
	db       *gorm.DB
	log      *logger.Logger
	roadmaps repos.RoadmapRepo
	cfg      QueryConfig
	now      func() time.Time
}

func NewQueryService(db *gorm.DB, baseLog *logger.Logger, roadmaps repos.RoadmapRepo, cfg QueryConfig, now func() time.Time) QueryService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &queryService{
		db:       db,
		log:      baseLog.With("service", "QueryService"),
		roadmaps: roadmaps,
		cfg:      cfg.withDefaults(),
		now:      now,
	}
}

type resolvedListQuery struct {
	filter     ListFilter
	base       repos.RoadmapFilter
	pageNumber int
	pageSize   int
	orderBy    string
	asc        bool
}

func (s *queryService) resolve(q ListRoadmapsQuery) (resolvedListQuery, error) {
	out := resolvedListQuery{
		pageNumber: intOr(q.PageNumber, s.cfg.DefaultPageNumber),
		pageSize:   intOr(q.PageSize, s.cfg.DefaultPageSize),
	}
	asc := s.cfg.DefaultAsc
	if q.Asc != nil {
		asc = *q.Asc
	}
	sortBy := strings.TrimSpace(q.SortBy)
	if sortBy == "" {
		sortBy = s.cfg.DefaultSortBy
	}

	rules := pageRules{maxPageNumber: s.cfg.MaxPageNumber, maxPageSize: s.cfg.MaxPageSize, step: s.cfg.PageSizeStep}
	errs := rules.check(out.pageNumber, out.pageSize)
	errs = append(errs, checkAsc(asc)...)

	if raw := strings.ToLower(strings.TrimSpace(q.Filter)); raw != "" {
		f, ok := listFilters[raw]
		if !ok {
			errs = append(errs, domainagg.FieldError{Field: "filter", Message: fmt.Sprintf("Filter must be one of: %s.", allowedFilterList())})
		}
		out.filter = f
	}
	col, ok := roadmapSortColumns[strings.ToLower(sortBy)]
	if !ok {
		errs = append(errs, domainagg.FieldError{Field: "sortBy", Message: fmt.Sprintf("Sort field must be one of: %s.", allowedList(roadmapSortColumns))})
	}
	if len(errs) > 0 {
		return out, domainagg.Validation(opListRoadmaps, errs...)
	}

	out.orderBy = col
	out.asc = asc == 1
	out.base = repos.RoadmapFilter{Search: strings.TrimSpace(q.Search)}
	if q.CreatedAfter != nil {
		d := q.CreatedAfter.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		out.base.CreatedFrom = &day
	}
	return out, nil
}

func allowedFilterList() string {
	return "draft, published, completed, nearDue, overdue"
}

// List applies the filter, search and creation-day predicates over active
// roadmaps and returns the requested page. nearDue only considers published
// roadmaps; overdue considers drafts too.
func (s *queryService) List(ctx context.Context, q ListRoadmapsQuery) (*PagedResult[RoadmapSummary], error) {
	rq, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	now := s.now().UTC()
	f := rq.base

	switch rq.filter {
	case FilterDraft:
		f.Status = reporoadmap.StatusDraft
	case FilterPublished:
		f.Status = reporoadmap.StatusPublished
	case FilterCompleted:
		f.Status = reporoadmap.StatusCompleted
	case FilterNearDue:
		f.Status = reporoadmap.StatusPublished
		f.Due = dueRange(roadmapmod.DueNear, now, s.cfg.NearDueWindow)
	case FilterOverdue:
		f.Due = dueRange(roadmapmod.DueOverdue, now, s.cfg.NearDueWindow)
	}

	total, err := s.roadmaps.Count(dbc, f)
	if err != nil {
		return nil, err
	}
	pages := totalPages(total, rq.pageSize)
	if err := checkPageInRange(opListRoadmaps, rq.pageNumber, pages); err != nil {
		return nil, err
	}

	rows, err := s.roadmaps.List(dbc, f, repos.Page{
		Offset:  (rq.pageNumber - 1) * rq.pageSize,
		Limit:   rq.pageSize,
		OrderBy: rq.orderBy,
		Asc:     rq.asc,
	})
	if err != nil {
		return nil, err
	}
	items, err := s.summaries(dbc, rows, now)
	if err != nil {
		return nil, err
	}
	return &PagedResult[RoadmapSummary]{
		Items:       items,
		TotalCount:  total,
		TotalPages:  pages,
		CurrentPage: rq.pageNumber,
		PageSize:    rq.pageSize,
	}, nil
}

// dueRange is the store-side form of Classify for one status.
func dueRange(want roadmapmod.DueStatus, now time.Time, window time.Duration) *repos.DueRange {
	if window <= 0 {
		window = roadmapmod.DefaultNearDueWindow
	}
	now = now.UTC()
	switch want {
	case roadmapmod.DueOverdue:
		return &repos.DueRange{Before: &now}
	case roadmapmod.DueNear:
		until := now.Add(window)
		return &repos.DueRange{After: &now, NotAfter: &until}
	}
	return nil
}

func (s *queryService) summaries(dbc dbctx.Context, rows []*types.Roadmap, now time.Time) ([]RoadmapSummary, error) {
	out := make([]RoadmapSummary, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, rm := range rows {
		ids = append(ids, rm.ID)
	}
	dueRows, err := s.roadmaps.TaskDueDates(dbc, repos.RoadmapFilter{RestrictIDs: true, IDs: ids})
	if err != nil {
		return nil, err
	}
	latest := roadmapmod.LatestDue(toTaskDue(dueRows))
	for _, rm := range rows {
		item := RoadmapSummary{
			ID:          rm.ID,
			Title:       rm.Title,
			Description: rm.Description,
			CreatedBy:   rm.CreatedBy,
			Progress:    rm.Progress,
			IsCompleted: rm.IsCompleted,
			IsDraft:     rm.IsDraft,
			CreatedAt:   rm.CreatedAt,
			UpdatedAt:   rm.UpdatedAt,
			DueStatus:   roadmapmod.DueNone.String(),
		}
		if due, ok := latest[rm.ID]; ok {
			d := due
			item.DueDate = &d
			item.DueStatus = roadmapmod.Classify(due, now, s.cfg.NearDueWindow).String()
		}
		out = append(out, item)
	}
	return out, nil
}

func toTaskDue(rows []repos.TaskDueRow) []roadmapmod.TaskDue {
	out := make([]roadmapmod.TaskDue, 0, len(rows))
	for _, r := range rows {
		out = append(out, roadmapmod.TaskDue{RoadmapID: r.RoadmapID, DateEnd: r.DateEnd})
	}
	return out
}
