package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type RoadmapHandler struct {
	log      *logger.Logger
	roadmaps services.RoadmapService
	query    services.QueryService
}

func NewRoadmapHandler(log *logger.Logger, roadmaps services.RoadmapService, query services.QueryService) *RoadmapHandler {
	return &RoadmapHandler{log: log.With("handler", "RoadmapHandler"), roadmaps: roadmaps, query: query}
}

// GET /api/roadmaps
func (h *RoadmapHandler) List(c *gin.Context) {
	p := newQueryParams(c)
	q := services.ListRoadmapsQuery{
		Filter:       p.String("filter"),
		Search:       p.String("search"),
		CreatedAfter: p.Time("createdAfter"),
		PageNumber:   p.OptionalInt("pageNumber"),
		PageSize:     p.OptionalInt("pageSize"),
		SortBy:       p.String("sortBy"),
		Asc:          p.OptionalInt("asc"),
	}
	if err := p.Err("roadmap.list"); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	page, err := h.query.List(c.Request.Context(), q)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /api/roadmaps
func (h *RoadmapHandler) Create(c *gin.Context) {
	var req services.CreateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAggregateError(c, invalidBody("roadmap.create", err))
		return
	}
	view, err := h.roadmaps.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"roadmap": view})
}

// GET /api/roadmaps/:id
func (h *RoadmapHandler) Details(c *gin.Context) {
	id, err := pathID(c, "roadmap.details")
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	view, err := h.roadmaps.Details(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"roadmap": view})
}

// PATCH /api/roadmaps/:id
func (h *RoadmapHandler) Patch(c *gin.Context) {
	id, err := pathID(c, "roadmap.reconcile")
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	var req services.PatchRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAggregateError(c, invalidBody("roadmap.reconcile", err))
		return
	}
	view, err := h.roadmaps.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"roadmap": view})
}

// PATCH /api/roadmaps/:id/completion
func (h *RoadmapHandler) SetCompletion(c *gin.Context) {
	id, err := pathID(c, "roadmap.set_completion")
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	var req services.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAggregateError(c, invalidBody("roadmap.set_completion", err))
		return
	}
	res, err := h.roadmaps.SetCompletion(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"roadmapId":   res.RoadmapID,
		"progress":    res.Progress,
		"isCompleted": res.IsCompleted,
		"touched":     res.Touched,
	})
}

// POST /api/roadmaps/:id/publish
func (h *RoadmapHandler) Publish(c *gin.Context) {
	id, err := pathID(c, "roadmap.publish")
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	res, err := h.roadmaps.Publish(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"roadmapId": res.RoadmapID, "publishedAt": res.PublishedAt})
}

// DELETE /api/roadmaps/:id
func (h *RoadmapHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "roadmap.delete")
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	res, err := h.roadmaps.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"roadmapId": res.RoadmapID, "softDeleted": res.SoftDeleted})
}
