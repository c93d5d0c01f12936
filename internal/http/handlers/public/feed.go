package public

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/http/response"
)

// GetFeedPosts 已发布文章的对外 Feed（API Key 保护）
func (h *Handler) GetFeedPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.FeedDefaultLimit)))

	result, err := h.PostService.Feed(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "获取文章失败", err)
		return
	}
	response.Success(c, result)
}
