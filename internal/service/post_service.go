package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tlcms/tlcms/internal/cache"
	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/logger"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/repository"
)

const feedCacheKeyPrefix = "feed:posts:"
const feedCacheTTL = 60 * time.Second

// PostService 文章服务
type PostService struct {
	postRepo repository.PostRepository
	cache    *cache.Cache
}

// NewPostService 创建文章服务实例
func NewPostService(postRepo repository.PostRepository, c *cache.Cache) *PostService {
	return &PostService{
		postRepo: postRepo,
		cache:    c,
	}
}

// PostListParams 后台文章列表查询参数
type PostListParams struct {
	Page      int
	PageSize  int
	Search    string
	Status    string
	SortKey   string
	SortOrder string
}

// PostListResult 后台文章列表结果
type PostListResult struct {
	Posts    []models.Post `json:"posts"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	HasMore  bool          `json:"hasMore"`
}

// List 文章列表，排序字段走白名单
func (s *PostService) List(params PostListParams) (*PostListResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = constants.PostsPerPage
	}
	if pageSize > 100 {
		pageSize = 100
	}

	status := strings.TrimSpace(params.Status)
	switch status {
	case "", constants.PostStatusAll, constants.PostStatusDraft, constants.PostStatusPublished, constants.PostStatusArchived:
	default:
		return nil, ErrInvalidStatus
	}

	sortKey := strings.TrimSpace(params.SortKey)
	if sortKey == "" {
		sortKey = "createdAt"
	}
	column, ok := constants.AllowedPostSortKeys[sortKey]
	if !ok {
		return nil, ErrInvalidSortKey
	}
	sortDesc := !strings.EqualFold(params.SortOrder, "asc")

	posts, total, err := s.postRepo.List(repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   params.Search,
		Status:   status,
		SortKey:  column,
		SortDesc: sortDesc,
	})
	if err != nil {
		return nil, err
	}

	return &PostListResult{
		Posts:    posts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  int64((page-1)*pageSize+len(posts)) < total,
	}, nil
}

// PostDetail 文章详情及其关联媒体
type PostDetail struct {
	Post  *models.Post   `json:"post"`
	Media []models.Media `json:"media"`
}

// Get 获取文章详情
func (s *PostService) Get(id string) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	media, err := s.postRepo.MediaForPost(id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Media: media}, nil
}

// CreatePostInput 创建文章入参
type CreatePostInput struct {
	Title       *string
	Excerpt     *string
	Content     string
	ContentJSON models.JSON
	Status      string
	Metadata    models.JSON
	MediaIDs    []string
}

// Create 创建文章。已发布的文章自动落 published_at。
func (s *PostService) Create(authorID string, input CreatePostInput) (*models.Post, error) {
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.PostStatusDraft
	}
	if !isValidPostStatus(status) {
		return nil, ErrInvalidStatus
	}

	post := &models.Post{
		Title:       normalizeOptionalText(input.Title),
		Excerpt:     normalizeOptionalText(input.Excerpt),
		Content:     input.Content,
		ContentJSON: input.ContentJSON,
		Status:      status,
		Metadata:    input.Metadata,
		AuthorID:    authorID,
	}
	if status == constants.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(post, input.MediaIDs); err != nil {
		return nil, err
	}
	s.invalidateFeedCache()
	return post, nil
}

// UpdatePostInput 更新文章入参，nil 字段保持原值。
// MediaIDs 非 nil 时全量替换媒体关联。
type UpdatePostInput struct {
	Title       *string
	Excerpt     *string
	Content     *string
	ContentJSON models.JSON
	Status      *string
	Metadata    models.JSON
	MediaIDs    *[]string
}

// Update 更新文章，维护 published_at 与状态的一致性
func (s *PostService) Update(id string, input UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if input.Title != nil {
		post.Title = normalizeOptionalText(input.Title)
	}
	if input.Excerpt != nil {
		post.Excerpt = normalizeOptionalText(input.Excerpt)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.ContentJSON != nil {
		post.ContentJSON = input.ContentJSON
	}
	if input.Metadata != nil {
		post.Metadata = input.Metadata
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !isValidPostStatus(status) {
			return nil, ErrInvalidStatus
		}
		post.Status = status
	}

	// published_at 与状态保持一致：发布时落当前时间，退稿时清空
	if post.Status == constants.PostStatusPublished {
		if post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	} else {
		post.PublishedAt = nil
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	if input.MediaIDs != nil {
		if err := s.postRepo.ReplaceMediaLinks(post.ID, *input.MediaIDs); err != nil {
			return nil, err
		}
	}
	s.invalidateFeedCache()
	return post, nil
}

// Delete 删除文章及其媒体关联
func (s *PostService) Delete(id string) error {
	affected, err := s.postRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateFeedCache()
	return nil
}

// FeedMedia 公开 Feed 中的媒体项
type FeedMedia struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	MimeType  string  `json:"mimeType"`
	MediaType string  `json:"mediaType"`
	AltText   *string `json:"altText"`
	Caption   *string `json:"caption"`
	Width     *int    `json:"width"`
	Height    *int    `json:"height"`
	Duration  *int    `json:"duration"`
}

// FeedPost 公开 Feed 中的文章项
type FeedPost struct {
	ID          string      `json:"id"`
	Title       *string     `json:"title"`
	Content     string      `json:"content"`
	Excerpt     *string     `json:"excerpt"`
	Metadata    models.JSON `json:"metadata"`
	PublishedAt *time.Time  `json:"publishedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	Media       []FeedMedia `json:"media"`
}

// FeedPagination 公开 Feed 分页信息
type FeedPagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// FeedResult 公开 Feed 响应
type FeedResult struct {
	Posts      []FeedPost     `json:"posts"`
	Pagination FeedPagination `json:"pagination"`
}

// Feed 已发布文章的公开列表，带媒体，短 TTL 缓存
func (s *PostService) Feed(ctx context.Context, page, limit int) (*FeedResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = constants.FeedDefaultLimit
	}
	if limit > constants.FeedMaxLimit {
		limit = constants.FeedMaxLimit
	}

	cacheKey := fmt.Sprintf("%s%d:%d", feedCacheKeyPrefix, page, limit)
	var cached FeedResult
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.Warnw("feed_cache_read_failed", "error", err)
	} else if hit {
		return &cached, nil
	}

	posts, total, err := s.postRepo.ListPublished(repository.FeedFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	feedPosts := make([]FeedPost, 0, len(posts))
	for _, post := range posts {
		media, err := s.postRepo.MediaForPost(post.ID)
		if err != nil {
			return nil, err
		}
		feedMedia := make([]FeedMedia, 0, len(media))
		for _, item := range media {
			feedMedia = append(feedMedia, FeedMedia{
				ID:        item.ID,
				URL:       item.URL,
				MimeType:  item.MimeType,
				MediaType: item.MediaType,
				AltText:   item.AltText,
				Caption:   item.Caption,
				Width:     item.Width,
				Height:    item.Height,
				Duration:  item.Duration,
			})
		}
		feedPosts = append(feedPosts, FeedPost{
			ID:          post.ID,
			Title:       post.Title,
			Content:     post.Content,
			Excerpt:     post.Excerpt,
			Metadata:    post.Metadata,
			PublishedAt: post.PublishedAt,
			CreatedAt:   post.CreatedAt,
			Media:       feedMedia,
		})
	}

	result := &FeedResult{
		Posts: feedPosts,
		Pagination: FeedPagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: int64((page-1)*limit+len(posts)) < total,
		},
	}

	if err := s.cache.SetJSON(ctx, cacheKey, result, feedCacheTTL); err != nil {
		logger.Warnw("feed_cache_write_failed", "error", err)
	}
	return result, nil
}

func (s *PostService) invalidateFeedCache() {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.DelByPrefix(context.Background(), feedCacheKeyPrefix); err != nil {
		logger.Warnw("feed_cache_invalidate_failed", "error", err)
	}
}

func isValidPostStatus(status string) bool {
	switch status {
	case constants.PostStatusDraft, constants.PostStatusPublished, constants.PostStatusArchived:
		return true
	}
	return false
}

func normalizeOptionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
