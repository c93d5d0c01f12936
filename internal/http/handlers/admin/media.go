package admin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/http/response"
	"github.com/tlcms/tlcms/internal/service"
)

// GetMedia 媒体库列表
func (h *Handler) GetMedia(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	items, err := h.MediaService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "获取媒体列表失败", err)
		return
	}
	response.Success(c, gin.H{
		"media": items,
	})
}

// UploadFile 文件上传
func (h *Handler) UploadFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "缺少上传文件", err)
		return
	}

	media, err := h.MediaService.Upload(c.Request.Context(), file, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrUnsupportedMediaType):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "上传失败", err)
		}
		return
	}

	response.Success(c, media)
}

// DeleteMedia 删除媒体
func (h *Handler) DeleteMedia(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		respondError(c, response.CodeBadRequest, "缺少媒体 ID", nil)
		return
	}

	if err := h.MediaService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "媒体不存在", nil)
		default:
			respondError(c, response.CodeInternal, "删除媒体失败", err)
		}
		return
	}

	requestLog(c).Infow("media_deleted", "media_id", id)
	response.Success(c, gin.H{
		"deleted": true,
	})
}
