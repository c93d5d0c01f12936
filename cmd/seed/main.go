package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/logger"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/repository"
	"github.com/tlcms/tlcms/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := models.Connect(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示用户
	user := seedUser(db, stdLog)

	// 演示文章
	now := time.Now()
	posts := []models.Post{
		{
			Title:   strPtr("欢迎使用 TLCMS"),
			Content: "<p>这是一篇已发布的演示文章，外部 Feed API 可以读到它。</p>",
			ContentJSON: models.JSON(map[string]interface{}{
				"type": "doc",
				"content": []interface{}{
					map[string]interface{}{"type": "paragraph"},
				},
			}),
			Excerpt:     strPtr("已发布的演示文章"),
			Status:      "published",
			PublishedAt: &now,
			AuthorID:    user.ID,
		},
		{
			Title:    strPtr("草稿示例"),
			Content:  "<p>草稿不会出现在对外 Feed 中。</p>",
			Status:   "draft",
			AuthorID: user.ID,
		},
		{
			Content:  "<p>没有标题的文章也是合法的。</p>",
			Status:   "published",
			AuthorID: user.ID,
		},
	}
	for i := range posts {
		if posts[i].Status == "published" && posts[i].PublishedAt == nil {
			posts[i].PublishedAt = &now
		}
		if err := db.Create(&posts[i]).Error; err != nil {
			stdLog.Printf("Failed to create post: %v", err)
		} else {
			stdLog.Printf("Created post: %s", posts[i].ID)
		}
	}

	// 演示媒体记录（仅数据库记录，不写入对象存储）
	width, height := 800, 600
	media := models.Media{
		Filename:         "demo-cover.png",
		OriginalFilename: "cover.png",
		MimeType:         "image/png",
		Size:             123456,
		URL:              "/uploads/demo-cover.png",
		StoragePath:      "uploads/demo-cover.png",
		MediaType:        "image",
		Width:            &width,
		Height:           &height,
		UploadedBy:       user.ID,
	}
	if err := db.Create(&media).Error; err != nil {
		stdLog.Printf("Failed to create media: %v", err)
	} else if err := db.Create(&models.PostMedia{
		PostID:    posts[0].ID,
		MediaID:   media.ID,
		SortOrder: 0,
	}).Error; err != nil {
		stdLog.Printf("Failed to link media: %v", err)
	} else {
		stdLog.Printf("Created media: %s", media.ID)
	}

	// 演示 API Key，明文只打印这一次
	apiKeyService := service.NewAPIKeyService(repository.NewAPIKeyRepository(db))
	if _, plaintext, err := apiKeyService.Generate("demo", user.ID, nil); err != nil {
		stdLog.Printf("Failed to create api key: %v", err)
	} else {
		stdLog.Printf("Created api key (save it now, it will not be shown again): %s", plaintext)
	}

	stdLog.Printf("Seed finished")
}

func seedUser(db *gorm.DB, stdLog *log.Logger) *models.User {
	email := "demo@example.com"
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		stdLog.Printf("User already exists: %s", email)
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Demo1234"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Demo",
	}
	if err := db.Create(&user).Error; err != nil {
		stdLog.Fatalf("Failed to create user: %v", err)
	}
	stdLog.Printf("Created user: %s (password: Demo1234)", email)
	return &user
}

func strPtr(s string) *string {
	return &s
}
