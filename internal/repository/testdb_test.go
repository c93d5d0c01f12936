package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tlcms/tlcms/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestDB 为每个测试打开独立的内存库，避免共享缓存导致的用例串扰。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", sanitizeTestName(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func sanitizeTestName(name string) string {
	replacer := strings.NewReplacer("/", "_", "#", "_", " ", "_")
	return replacer.Replace(name)
}
