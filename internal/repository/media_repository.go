package repository

import (
	"errors"

	"github.com/tlcms/tlcms/internal/models"

	"gorm.io/gorm"
)

// MediaRepository 媒体数据访问接口
type MediaRepository interface {
	List() ([]models.Media, error)
	GetByID(id string) (*models.Media, error)
	Create(media *models.Media) error
	Delete(id string) (int64, error)
}

// GormMediaRepository GORM 实现
type GormMediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository 创建媒体仓库
func NewMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// List 媒体列表，按创建时间倒序
func (r *GormMediaRepository) List() ([]models.Media, error) {
	var items []models.Media
	if err := r.db.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 根据 ID 获取媒体
func (r *GormMediaRepository) GetByID(id string) (*models.Media, error) {
	var media models.Media
	if err := r.db.Where("id = ?", id).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &media, nil
}

// Create 创建媒体记录
func (r *GormMediaRepository) Create(media *models.Media) error {
	return r.db.Create(media).Error
}

// Delete 删除媒体记录及其文章关联
func (r *GormMediaRepository) Delete(id string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", id).Delete(&models.PostMedia{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Media{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}
