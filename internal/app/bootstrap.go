package app

import (
	"errors"
	"fmt"

	"github.com/tlcms/tlcms/internal/cache"
	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/provider"
	"github.com/tlcms/tlcms/internal/router"
	"github.com/tlcms/tlcms/internal/storage"
)

// BuildContainer 连接基础设施并组装依赖容器
func BuildContainer(cfg *config.Config) (*provider.Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := models.Connect(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("初始化对象存储失败: %w", err)
	}

	return provider.NewContainer(cfg, db, cache.New(&cfg.Redis), store), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container := opts.Container
	if container == nil {
		built, err := BuildContainer(opts.Config)
		if err != nil {
			return err
		}
		container = built
	}
	defer container.Cache.Close()

	engine := router.SetupRouter(opts.Config, container)
	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	runner := NewRunner(NewHTTPService(addr, engine))

	opts.Logger.Infow("app_start", "addr", addr)
	return RunWithOptions(runner, opts)
}
