package repository

import (
	"errors"
	"strings"

	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/models"

	"gorm.io/gorm"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	ListPublished(filter FeedFilter) ([]models.Post, int64, error)
	GetByID(id string) (*models.Post, error)
	Create(post *models.Post, mediaIDs []string) error
	Update(post *models.Post) error
	Delete(id string) (int64, error)
	ReplaceMediaLinks(postID string, mediaIDs []string) error
	MediaForPost(postID string) ([]models.Media, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List 文章列表，支持搜索、状态过滤、白名单排序与分页
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildSearchLikeCondition(r.db, []string{"title", "excerpt"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if status := strings.TrimSpace(filter.Status); status != "" && status != constants.PostStatusAll {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderColumn := filter.SortKey
	if orderColumn == "" {
		orderColumn = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query = query.Order(orderColumn + " " + direction)
	query = applyPagination(query, filter.Page, filter.PageSize)

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPublished 已发布文章列表，按创建时间倒序
func (r *GormPostRepository) ListPublished(filter FeedFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{}).Where("status = ?", constants.PostStatusPublished)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	query = applyPagination(query, filter.Page, filter.Limit)

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID 根据 ID 获取文章
func (r *GormPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章，并在同一事务内写入媒体关联
func (r *GormPostRepository) Create(post *models.Post, mediaIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return insertMediaLinks(tx, post.ID, mediaIDs)
	})
}

// Update 更新文章
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete 删除文章及其媒体关联。
// SQLite 驱动默认不开启外键级联，关联行在同一事务内显式删除。
func (r *GormPostRepository) Delete(id string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostMedia{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

// ReplaceMediaLinks 全量替换文章的媒体关联，保持调用方给定的顺序。
// 删除与重插在同一事务内完成。
func (r *GormPostRepository) ReplaceMediaLinks(postID string, mediaIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostMedia{}).Error; err != nil {
			return err
		}
		return insertMediaLinks(tx, postID, mediaIDs)
	})
}

// MediaForPost 获取文章关联的媒体，按展示顺序排列
func (r *GormPostRepository) MediaForPost(postID string) ([]models.Media, error) {
	var items []models.Media
	err := r.db.Model(&models.Media{}).
		Joins("INNER JOIN post_media ON post_media.media_id = media.id").
		Where("post_media.post_id = ?", postID).
		Order("post_media.sort_order ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func insertMediaLinks(tx *gorm.DB, postID string, mediaIDs []string) error {
	if len(mediaIDs) == 0 {
		return nil
	}
	links := make([]models.PostMedia, 0, len(mediaIDs))
	for index, mediaID := range mediaIDs {
		links = append(links, models.PostMedia{
			PostID:    postID,
			MediaID:   mediaID,
			SortOrder: index,
		})
	}
	return tx.Create(&links).Error
}
