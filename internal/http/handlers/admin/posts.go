package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/http/response"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/service"
)

// PostCreateRequest 创建文章请求
type PostCreateRequest struct {
	Title       *string     `json:"title"`
	Excerpt     *string     `json:"excerpt"`
	Content     string      `json:"content"`
	ContentJSON models.JSON `json:"contentJson"`
	Status      string      `json:"status"`
	Metadata    models.JSON `json:"metadata"`
	MediaIDs    []string    `json:"mediaIds"`
}

// PostUpdateRequest 更新文章请求，缺省字段保持原值
type PostUpdateRequest struct {
	Title       *string     `json:"title"`
	Excerpt     *string     `json:"excerpt"`
	Content     *string     `json:"content"`
	ContentJSON models.JSON `json:"contentJson"`
	Status      *string     `json:"status"`
	Metadata    models.JSON `json:"metadata"`
	MediaIDs    *[]string   `json:"mediaIds"`
}

// GetPosts 文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.PostService.List(service.PostListParams{
		Page:      page,
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		SortKey:   c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidSortKey):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "获取文章列表失败", err)
		}
		return
	}
	response.Success(c, result)
}

// GetPostEdit 文章编辑数据（文章 + 有序媒体）
func (h *Handler) GetPostEdit(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	detail, err := h.PostService.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "文章不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取文章失败", err)
		return
	}
	response.Success(c, detail)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	post, err := h.PostService.Create(userID, service.CreatePostInput{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		ContentJSON: req.ContentJSON,
		Status:      req.Status,
		Metadata:    req.Metadata,
		MediaIDs:    req.MediaIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "创建文章失败", err)
		}
		return
	}

	requestLog(c).Infow("post_created", "post_id", post.ID, "status", post.Status)
	response.Success(c, post)
}

// UpdatePost 更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		respondError(c, response.CodeBadRequest, "请求参数无效", nil)
		return
	}

	var req PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	post, err := h.PostService.Update(id, service.UpdatePostInput{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		ContentJSON: req.ContentJSON,
		Status:      req.Status,
		Metadata:    req.Metadata,
		MediaIDs:    req.MediaIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "文章不存在", nil)
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "更新文章失败", err)
		}
		return
	}

	response.Success(c, post)
}

// DeletePost 删除文章（路径参数）
func (h *Handler) DeletePost(c *gin.Context) {
	h.deletePostByID(c, c.Param("id"))
}

// DeletePostByQuery 删除文章（查询参数，列表页的删除入口）
func (h *Handler) DeletePostByQuery(c *gin.Context) {
	h.deletePostByID(c, c.Query("id"))
}

func (h *Handler) deletePostByID(c *gin.Context, id string) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	if strings.TrimSpace(id) == "" {
		respondError(c, response.CodeBadRequest, "缺少文章 ID", nil)
		return
	}

	if err := h.PostService.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "文章不存在", nil)
		default:
			respondError(c, response.CodeInternal, "删除文章失败", err)
		}
		return
	}

	requestLog(c).Infow("post_deleted", "post_id", id)
	response.Success(c, gin.H{
		"deleted": true,
	})
}
