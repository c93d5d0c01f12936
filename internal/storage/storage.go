package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/constants"
)

// ErrObjectExists 上传目标 key 已存在（upsert 关闭时返回）
var ErrObjectExists = errors.New("存储对象已存在")

// ObjectStorage 对象存储访问接口。
// Upload 不允许覆盖已有 key；Remove 不存在时不视为错误。
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
}

// New 按配置构建对象存储实例
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", constants.StorageDriverLocal:
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	case constants.StorageDriverS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
