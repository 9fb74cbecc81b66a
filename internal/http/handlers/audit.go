package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type AuditHandler struct {
	audit services.AuditService
}

func NewAuditHandler(audit services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// GET /api/audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	p := newQueryParams(c)
	q := services.ListAuditLogsQuery{
		Filter:     p.String("filter"),
		Search:     p.String("search"),
		CreatedOn:  p.Time("date"),
		PageNumber: p.OptionalInt("pageNumber"),
		PageSize:   p.OptionalInt("pageSize"),
		SortBy:     p.String("sortBy"),
		Asc:        p.OptionalInt("asc"),
	}
	if err := p.Err("audit.list"); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	page, err := h.audit.ListLogs(c.Request.Context(), q)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /api/audit-logs
func (h *AuditHandler) Record(c *gin.Context) {
	var req services.RecordAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAggregateError(c, invalidBody("audit.record", err))
		return
	}
	entry, err := h.audit.Record(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"auditLog": entry})
}
