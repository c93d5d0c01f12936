package models

import (
	"strings"

	"github.com/tlcms/tlcms/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitDefaultUser 初始化默认后台用户账号
func InitDefaultUser(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(email) == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		DisplayName:  "Admin",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_user_created_with_default_password", "email", user.Email)
		logger.Warnw("default_user_password_change_required", "email", user.Email)
	} else {
		logger.Warnw("default_user_created", "email", user.Email, "password_hidden", true)
	}
	return nil
}
