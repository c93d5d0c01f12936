package models

import (
	"time"

	"gorm.io/gorm"
)

// Media 媒体文件表
type Media struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	Filename         string    `gorm:"size:255;not null" json:"filename"`          // 存储文件名（随机）
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"` // 上传时的原始文件名
	MimeType         string    `gorm:"size:100;not null" json:"mime_type"`
	Size             int64     `gorm:"not null" json:"size"` // 字节数
	URL              string    `gorm:"type:text;not null" json:"url"`
	StoragePath      string    `gorm:"type:text;not null" json:"storage_path"` // 对象存储中的 key
	MediaType        string    `gorm:"size:10;not null;index" json:"media_type"` // image/video/audio
	Width            *int      `json:"width"`
	Height           *int      `json:"height"`
	Duration         *int      `json:"duration"` // 秒
	AltText          *string   `gorm:"size:255" json:"alt_text"`
	Caption          *string   `gorm:"type:text" json:"caption"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UploadedBy       string    `gorm:"type:char(36);not null" json:"uploaded_by"`
}

// TableName 指定表名
func (Media) TableName() string {
	return "media"
}

// BeforeCreate 创建前补齐 UUID
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	ensureUUID(&m.ID)
	return nil
}
