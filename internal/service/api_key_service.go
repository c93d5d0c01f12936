package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/logger"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/repository"
)

const apiKeyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// APIKeyService API Key 服务。
// 明文密钥只在创建时返回一次，库中仅存 SHA-256 哈希与查找前缀。
type APIKeyService struct {
	keyRepo repository.APIKeyRepository
}

// NewAPIKeyService 创建 API Key 服务实例
func NewAPIKeyService(keyRepo repository.APIKeyRepository) *APIKeyService {
	return &APIKeyService{keyRepo: keyRepo}
}

// List 密钥列表（不含哈希）
func (s *APIKeyService) List() ([]models.APIKey, error) {
	return s.keyRepo.List()
}

// Generate 生成新密钥，返回记录与仅此一次可见的明文
func (s *APIKeyService) Generate(name, createdBy string, expiresAt *time.Time) (*models.APIKey, string, error) {
	random, err := randomString(constants.APIKeyRandomLength)
	if err != nil {
		return nil, "", err
	}
	plaintext := constants.APIKeyPrefix + random

	key := &models.APIKey{
		Name:      strings.TrimSpace(name),
		KeyHash:   hashAPIKey(plaintext),
		KeyPrefix: plaintext[:constants.APIKeyLookupLength],
		IsActive:  true,
		ExpiresAt: expiresAt,
		CreatedBy: createdBy,
	}
	if err := s.keyRepo.Create(key); err != nil {
		return nil, "", err
	}

	logger.Infow("api_key_created",
		"key_id", key.ID,
		"key_prefix", key.KeyPrefix,
	)
	return key, plaintext, nil
}

// Delete 删除密钥
func (s *APIKeyService) Delete(id string) error {
	affected, err := s.keyRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Validate 校验外部请求携带的密钥。
// 所有失败路径统一返回 ErrInvalidAPIKey，不区分原因。
func (s *APIKeyService) Validate(token string) (*models.APIKey, error) {
	token = strings.TrimSpace(token)
	if len(token) < constants.APIKeyLookupLength || !strings.HasPrefix(token, constants.APIKeyPrefix) {
		return nil, ErrInvalidAPIKey
	}

	key, err := s.keyRepo.FindActiveByPrefix(token[:constants.APIKeyLookupLength])
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrInvalidAPIKey
	}

	hash := hashAPIKey(token)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(key.KeyHash)) != 1 {
		return nil, ErrInvalidAPIKey
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidAPIKey
	}

	// 异步记录使用时间，不阻塞请求
	go func(id string) {
		if err := s.keyRepo.TouchLastUsed(id, time.Now()); err != nil {
			logger.Warnw("api_key_touch_failed", "key_id", id, "error", err)
		}
	}(key.ID)

	return key, nil
}

func hashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func randomString(length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(apiKeyCharset)))
	for i := range result {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = apiKeyCharset[index.Int64()]
	}
	return string(result), nil
}
