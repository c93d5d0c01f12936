package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/http/response"
	"github.com/tlcms/tlcms/internal/service"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// 会话保护的页面前缀（"/" 仅精确匹配）
var protectedPrefixes = []string{"/posts", "/media", "/settings"}

// 允许暴露给页面脚本的响应头白名单
const exposedResponseHeaders = "Content-Range, X-Storage-Api-Version"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionGateMiddleware 会话门卫。
// 解析会话 Cookie 得到身份，任何解析失败一律视为匿名。
// 匿名的 GET/HEAD 导航请求在受保护前缀上 303 跳转登录页；
// 其他方法放行，由具体 handler 返回 401。
func SessionGateMiddleware(cookieName string, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Expose-Headers", exposedResponseHeaders)

		authenticated := false
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if claims, parseErr := authService.ParseSession(token); parseErr == nil {
				c.Set(constants.ContextKeyUserID, claims.UserID)
				c.Set(constants.ContextKeyUserEmail, claims.Email)
				authenticated = true
			}
		}

		path := c.Request.URL.Path
		isNavigation := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead

		// 已登录访问登录页：跳回首页
		if path == "/login" {
			if authenticated && isNavigation {
				c.Redirect(http.StatusSeeOther, "/")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if !authenticated && isNavigation && isProtectedPath(path) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

func isProtectedPath(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// APIKeyAuthMiddleware API Key 鉴权中间件。
// 所有失败路径返回相同的 401 响应，不暴露拒绝原因。
func APIKeyAuthMiddleware(apiKeyService *service.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Unauthorized(c, "无效的 API Key")
			c.Abort()
			return
		}

		key, err := apiKeyService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "无效的 API Key")
			c.Abort()
			return
		}

		c.Set("api_key_id", key.ID)
		c.Next()
	}
}
