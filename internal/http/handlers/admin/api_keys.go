package admin

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/http/response"
	"github.com/tlcms/tlcms/internal/service"
)

// APIKeyCreateRequest 创建 API Key 请求
type APIKeyCreateRequest struct {
	Name      string `json:"name" binding:"required"`
	ExpiresAt string `json:"expiresAt"` // RFC3339，可选
}

// GetAPIKeys 密钥列表（不含哈希）
func (h *Handler) GetAPIKeys(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	keys, err := h.APIKeyService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "获取密钥列表失败", err)
		return
	}
	response.Success(c, gin.H{
		"apiKeys": keys,
	})
}

// CreateAPIKey 创建密钥，明文仅在本次响应返回
func (h *Handler) CreateAPIKey(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req APIKeyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			respondError(c, response.CodeBadRequest, "过期时间格式无效", err)
			return
		}
		expiresAt = &parsed
	}

	key, plaintext, err := h.APIKeyService.Generate(req.Name, userID, expiresAt)
	if err != nil {
		respondError(c, response.CodeInternal, "创建密钥失败", err)
		return
	}

	response.Success(c, gin.H{
		"apiKey": key,
		"key":    plaintext,
	})
}

// DeleteAPIKey 删除密钥
func (h *Handler) DeleteAPIKey(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		respondError(c, response.CodeBadRequest, "缺少密钥 ID", nil)
		return
	}

	if err := h.APIKeyService.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "密钥不存在", nil)
		default:
			respondError(c, response.CodeInternal, "删除密钥失败", err)
		}
		return
	}

	requestLog(c).Infow("api_key_deleted", "key_id", id)
	response.Success(c, gin.H{
		"deleted": true,
	})
}
