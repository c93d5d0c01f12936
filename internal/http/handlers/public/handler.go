package public

import "github.com/tlcms/tlcms/internal/provider"

// Handler 公开接口处理器入口（登录、登出与对外 Feed）
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
