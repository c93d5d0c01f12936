package repository

import (
	"errors"
	"time"

	"github.com/tlcms/tlcms/internal/models"

	"gorm.io/gorm"
)

// APIKeyRepository API Key 数据访问接口
type APIKeyRepository interface {
	List() ([]models.APIKey, error)
	Create(key *models.APIKey) error
	Delete(id string) (int64, error)
	FindActiveByPrefix(prefix string) (*models.APIKey, error)
	TouchLastUsed(id string, at time.Time) error
}

// GormAPIKeyRepository GORM 实现
type GormAPIKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository 创建 API Key 仓库
func NewAPIKeyRepository(db *gorm.DB) *GormAPIKeyRepository {
	return &GormAPIKeyRepository{db: db}
}

// List 密钥列表，按创建时间倒序
func (r *GormAPIKeyRepository) List() ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := r.db.Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Create 创建密钥记录
func (r *GormAPIKeyRepository) Create(key *models.APIKey) error {
	return r.db.Create(key).Error
}

// Delete 删除密钥记录
func (r *GormAPIKeyRepository) Delete(id string) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&models.APIKey{})
	return result.RowsAffected, result.Error
}

// FindActiveByPrefix 按前缀查找启用中的密钥
func (r *GormAPIKeyRepository) FindActiveByPrefix(prefix string) (*models.APIKey, error) {
	var key models.APIKey
	err := r.db.Where("key_prefix = ? AND is_active = ?", prefix, true).First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

// TouchLastUsed 更新最近使用时间
func (r *GormAPIKeyRepository) TouchLastUsed(id string, at time.Time) error {
	return r.db.Model(&models.APIKey{}).Where("id = ?", id).Update("last_used_at", at).Error
}
