package provider

import (
	"gorm.io/gorm"

	"github.com/tlcms/tlcms/internal/cache"
	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/repository"
	"github.com/tlcms/tlcms/internal/service"
	"github.com/tlcms/tlcms/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config
	DB     *gorm.DB
	Cache  *cache.Cache
	Store  storage.ObjectStorage

	// Repositories
	UserRepo      repository.UserRepository
	PostRepo      repository.PostRepository
	MediaRepo     repository.MediaRepository
	APIKeyRepo    repository.APIKeyRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthService      *service.AuthService
	CaptchaService   *service.CaptchaService
	PostService      *service.PostService
	MediaService     *service.MediaService
	APIKeyService    *service.APIKeyService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB, c *cache.Cache, store storage.ObjectStorage) *Container {
	container := &Container{
		Config: cfg,
		DB:     db,
		Cache:  c,
		Store:  store,
	}

	// 1. 初始化 Repositories
	container.initRepositories()

	// 2. 初始化 Services
	container.initServices()

	return container
}

func (c *Container) initRepositories() {
	c.UserRepo = repository.NewUserRepository(c.DB)
	c.PostRepo = repository.NewPostRepository(c.DB)
	c.MediaRepo = repository.NewMediaRepository(c.DB)
	c.APIKeyRepo = repository.NewAPIKeyRepository(c.DB)
	c.DashboardRepo = repository.NewDashboardRepository(c.DB)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.PostService = service.NewPostService(c.PostRepo, c.Cache)
	c.MediaService = service.NewMediaService(c.Config, c.MediaRepo, c.Store)
	c.APIKeyService = service.NewAPIKeyService(c.APIKeyRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
