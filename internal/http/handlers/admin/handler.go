package admin

import "github.com/tlcms/tlcms/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：该处理器仅服务会话保护的管理端路由。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
