package service

import "errors"

// 服务层哨兵错误，handler 层据此映射 HTTP 状态码
var (
	ErrNotFound             = errors.New("资源不存在")
	ErrInvalidCredentials   = errors.New("邮箱或密码错误")
	ErrWeakPassword         = errors.New("密码强度不足")
	ErrCaptchaRequired      = errors.New("需要验证码")
	ErrCaptchaInvalid       = errors.New("验证码错误")
	ErrInvalidAPIKey        = errors.New("无效的 API Key")
	ErrInvalidStatus        = errors.New("无效的文章状态")
	ErrInvalidSortKey       = errors.New("无效的排序字段")
	ErrFileTooLarge         = errors.New("文件大小超过限制")
	ErrUnsupportedMediaType = errors.New("不支持的文件类型")
)
