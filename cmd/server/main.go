package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/app"
	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/logger"
	"github.com/tlcms/tlcms/internal/models"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.Session.SecretKey) {
			stdLog.Fatalf("会话 secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.Session.SecretKey) {
		stdLog.Printf("警告: 会话 secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 连接数据库并组装依赖
	container, err := app.BuildContainer(cfg)
	if err != nil {
		stdLog.Fatalf("应用初始化失败: %v", err)
	}

	// 初始化默认后台用户
	defaultEmail := os.Getenv("TLCMS_DEFAULT_USER_EMAIL")
	defaultPass := os.Getenv("TLCMS_DEFAULT_USER_PASSWORD")
	if cfg.Server.Mode == "release" && defaultPass == "" {
		stdLog.Printf("警告: 未设置 TLCMS_DEFAULT_USER_PASSWORD，已跳过默认用户初始化")
	} else if err := models.InitDefaultUser(container.DB, defaultEmail, defaultPass); err != nil {
		stdLog.Printf("警告: 初始化默认用户失败: %v", err)
	}

	if err := app.Run(app.Options{
		Config:    cfg,
		Container: container,
		Logger:    logger.S(),
		Signals:   []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + "████████╗██╗      ██████╗███╗   ███╗███████╗" + ansiReset)
	fmt.Println(ansiCyan + "╚══██╔══╝██║     ██╔════╝████╗ ████║██╔════╝" + ansiReset)
	fmt.Println(ansiCyan + "   ██║   ██║     ██║     ██╔████╔██║███████╗" + ansiReset)
	fmt.Println(ansiCyan + "   ██║   ██║     ██║     ██║╚██╔╝██║╚════██║" + ansiReset)
	fmt.Println(ansiCyan + "   ██║   ███████╗╚██████╗██║ ╚═╝ ██║███████║" + ansiReset)
	fmt.Println(ansiCyan + "   ╚═╝   ╚══════╝ ╚═════╝╚═╝     ╚═╝╚══════╝" + ansiReset)
	fmt.Println(ansiBold + "TLCMS 内容管理后端启动中" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
