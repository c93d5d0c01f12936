package router

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/constants"
	adminhandlers "github.com/tlcms/tlcms/internal/http/handlers/admin"
	publichandlers "github.com/tlcms/tlcms/internal/http/handlers/public"
	"github.com/tlcms/tlcms/internal/logger"
	"github.com/tlcms/tlcms/internal/provider"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/管理分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tlcms"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "登录尝试过多，请稍后再试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SessionGateMiddleware(cfg.Session.CookieName, c.AuthService))

	// 本地存储驱动时由服务进程直接提供上传文件
	if strings.EqualFold(cfg.Storage.Driver, constants.StorageDriverLocal) || cfg.Storage.Driver == "" {
		r.Static("/uploads", filepath.Join(cfg.Storage.LocalDir, "uploads"))
	}

	// 登录/登出
	r.GET("/login", publicHandler.GetLoginPage)
	r.POST("/login", RateLimitMiddleware(c.Cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
	r.POST("/logout", publicHandler.Logout)

	// 管理页面（会话保护）
	r.GET("/", adminHandler.GetDashboard)

	r.GET("/posts", adminHandler.GetPosts)
	r.POST("/posts", adminHandler.CreatePost)
	r.DELETE("/posts", adminHandler.DeletePostByQuery)
	r.GET("/posts/:id/edit", adminHandler.GetPostEdit)
	r.PUT("/posts/:id", adminHandler.UpdatePost)
	r.DELETE("/posts/:id", adminHandler.DeletePost)

	r.GET("/media", adminHandler.GetMedia)
	r.DELETE("/media/:id", adminHandler.DeleteMedia)
	r.POST("/api/upload", adminHandler.UploadFile)

	r.GET("/settings/api-keys", adminHandler.GetAPIKeys)
	r.POST("/settings/api-keys", adminHandler.CreateAPIKey)
	r.DELETE("/settings/api-keys/:id", adminHandler.DeleteAPIKey)

	// 对外只读 API（API Key 保护）
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/posts", APIKeyAuthMiddleware(c.APIKeyService), publicHandler.GetFeedPosts)
	}

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
