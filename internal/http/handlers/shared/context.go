package shared

import (
	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/http/response"
)

// CurrentUserID 从上下文读取会话用户 ID。
// 未登录时统一返回 401。
func CurrentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "未登录", nil)
		return "", false
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		RespondError(c, response.CodeUnauthorized, "未登录", nil)
		return "", false
	}
	return userID, true
}
