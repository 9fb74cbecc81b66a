package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GET /api/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	sum, err := h.dashboard.Summarize(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, sum)
}
