package repository

import (
	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/models"

	"gorm.io/gorm"
)

// DashboardStats 仪表盘统计数据
type DashboardStats struct {
	TotalPosts     int64 `json:"total_posts"`
	PublishedPosts int64 `json:"published_posts"`
	DraftPosts     int64 `json:"draft_posts"`
	TotalMedia     int64 `json:"total_media"`
}

// DashboardRepository 仪表盘数据访问接口
type DashboardRepository interface {
	Stats() (*DashboardStats, error)
	RecentPosts(limit int) ([]models.Post, error)
}

// GormDashboardRepository GORM 实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// Stats 统计文章与媒体数量
func (r *GormDashboardRepository) Stats() (*DashboardStats, error) {
	var stats DashboardStats
	if err := r.db.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Post{}).Where("status = ?", constants.PostStatusPublished).Count(&stats.PublishedPosts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Post{}).Where("status = ?", constants.PostStatusDraft).Count(&stats.DraftPosts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Media{}).Count(&stats.TotalMedia).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentPosts 最近创建的文章
func (r *GormDashboardRepository) RecentPosts(limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	var posts []models.Post
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
