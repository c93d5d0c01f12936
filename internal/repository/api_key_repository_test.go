package repository

import (
	"testing"
	"time"

	"github.com/tlcms/tlcms/internal/models"
)

func createTestKey(t *testing.T, repo *GormAPIKeyRepository, prefix string, active bool) *models.APIKey {
	t.Helper()
	key := &models.APIKey{
		Name:      "key-" + prefix,
		KeyHash:   "hash-" + prefix,
		KeyPrefix: prefix,
		IsActive:  active,
		CreatedBy: "user-1",
	}
	if err := repo.Create(key); err != nil {
		t.Fatalf("create api key failed: %v", err)
	}
	return key
}

func TestFindActiveByPrefix(t *testing.T) {
	db := newTestDB(t)
	repo := NewAPIKeyRepository(db)

	active := createTestKey(t, repo, "tlcms_ab", true)
	createTestKey(t, repo, "tlcms_cd", false)

	got, err := repo.FindActiveByPrefix("tlcms_ab")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got == nil || got.ID != active.ID {
		t.Fatalf("expected active key, got %+v", got)
	}

	got, err = repo.FindActiveByPrefix("tlcms_cd")
	if err != nil {
		t.Fatalf("find inactive failed: %v", err)
	}
	if got != nil {
		t.Fatalf("inactive key should not be returned")
	}

	got, err = repo.FindActiveByPrefix("missing_")
	if err != nil {
		t.Fatalf("find missing failed: %v", err)
	}
	if got != nil {
		t.Fatalf("missing prefix should return nil")
	}
}

func TestTouchLastUsed(t *testing.T) {
	db := newTestDB(t)
	repo := NewAPIKeyRepository(db)

	key := createTestKey(t, repo, "tlcms_ef", true)
	if key.LastUsedAt != nil {
		t.Fatalf("new key should have nil last_used_at")
	}

	at := time.Now().Truncate(time.Second)
	if err := repo.TouchLastUsed(key.ID, at); err != nil {
		t.Fatalf("touch failed: %v", err)
	}

	var reloaded models.APIKey
	if err := db.Where("id = ?", key.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.LastUsedAt == nil {
		t.Fatalf("last_used_at should be set after touch")
	}
}

func TestAPIKeyDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAPIKeyRepository(db)

	key := createTestKey(t, repo, "tlcms_gh", true)
	affected, err := repo.Delete(key.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}

	affected, err = repo.Delete(key.ID)
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second delete affected want 0 got %d", affected)
	}
}
