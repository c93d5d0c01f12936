package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKey 外部只读 API 的访问密钥表。
// 明文密钥只在创建时返回一次，库中仅保存哈希与用于检索的前缀。
type APIKey struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	KeyHash    string     `gorm:"size:255;not null" json:"-"`
	KeyPrefix  string     `gorm:"size:10;not null;index" json:"key_prefix"`
	IsActive   bool       `gorm:"default:true;not null" json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	CreatedBy  string     `gorm:"type:char(36);not null" json:"created_by"`
}

// TableName 指定表名
func (APIKey) TableName() string {
	return "api_keys"
}

// BeforeCreate 创建前补齐 UUID
func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	ensureUUID(&k.ID)
	return nil
}
