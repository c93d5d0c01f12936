package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 文章表
type Post struct {
	ID          string     `gorm:"type:char(36);primaryKey" json:"id"`
	Title       *string    `gorm:"size:255" json:"title"`                // 可选标题
	Content     string     `gorm:"type:text" json:"content"`             // 编辑器导出的富文本
	ContentJSON JSON       `gorm:"type:json" json:"content_json"`        // 编辑器结构化文档
	Excerpt     *string    `gorm:"type:text" json:"excerpt"`             // 可选摘要
	Status      string     `gorm:"size:20;default:draft;not null;index" json:"status"` // draft/published/archived
	PublishedAt *time.Time `gorm:"index" json:"published_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AuthorID    string     `gorm:"type:char(36);not null;index" json:"author_id"`
	Metadata    JSON       `gorm:"type:json" json:"metadata"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate 创建前补齐 UUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	ensureUUID(&p.ID)
	return nil
}
