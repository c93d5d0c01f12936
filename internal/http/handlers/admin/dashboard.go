package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/http/response"
)

// GetDashboard 仪表盘概览
func (h *Handler) GetDashboard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	overview, err := h.DashboardService.Overview()
	if err != nil {
		respondError(c, response.CodeInternal, "获取仪表盘数据失败", err)
		return
	}
	response.Success(c, overview)
}
