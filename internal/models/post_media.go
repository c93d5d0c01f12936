package models

import (
	"time"

	"gorm.io/gorm"
)

// PostMedia 文章-媒体关联表，SortOrder 定义展示顺序
type PostMedia struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:char(36);not null;uniqueIndex:idx_post_media,priority:1;index" json:"post_id"`
	MediaID   string    `gorm:"type:char(36);not null;uniqueIndex:idx_post_media,priority:2" json:"media_id"`
	SortOrder int       `gorm:"default:0;not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (PostMedia) TableName() string {
	return "post_media"
}

// BeforeCreate 创建前补齐 UUID
func (pm *PostMedia) BeforeCreate(tx *gorm.DB) error {
	ensureUUID(&pm.ID)
	return nil
}
