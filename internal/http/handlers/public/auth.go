package public

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tlcms/tlcms/internal/http/response"
	"github.com/tlcms/tlcms/internal/service"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captchaId"`
	CaptchaCode string `json:"captchaCode"`
}

// GetLoginPage 登录页数据，启用验证码时附带图片挑战
func (h *Handler) GetLoginPage(c *gin.Context) {
	data := gin.H{
		"captchaRequired": h.CaptchaService.Enabled(),
	}
	if h.CaptchaService.Enabled() {
		challenge, err := h.CaptchaService.GenerateImageChallenge()
		if err != nil {
			respondError(c, response.CodeInternal, "生成验证码失败", err)
			return
		}
		data["captcha"] = challenge
	}
	response.Success(c, data)
}

// Login 登录，成功后写入会话 Cookie
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaRequired), errors.Is(err, service.ErrCaptchaInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "验证码校验失败", err)
		}
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			requestLog(c).Warnw("login_failed",
				"email", req.Email,
				"client_ip", c.ClientIP(),
			)
			respondError(c, response.CodeUnauthorized, "邮箱或密码错误", nil)
		default:
			respondError(c, response.CodeInternal, "登录失败", err)
		}
		return
	}

	h.setSessionCookie(c, token, h.Config.Session.ExpireHours*3600)

	requestLog(c).Infow("login_success", "user_id", user.ID)
	response.Success(c, gin.H{
		"user":      user,
		"expiresAt": expiresAt,
	})
}

// Logout 登出，清除会话 Cookie
func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.Success(c, gin.H{
		"loggedOut": true,
	})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.Config.Session.CookieName,
		token,
		maxAge,
		"/",
		"",
		h.Config.Session.Secure,
		true, // httpOnly
	)
}
