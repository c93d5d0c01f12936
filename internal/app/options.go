package app

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/logger"
	"github.com/tlcms/tlcms/internal/provider"
)

// Options 应用启动选项。
// Container 为空时由 Run 自行构建。
type Options struct {
	Config          *config.Config
	Container       *provider.Container
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return opts
}
