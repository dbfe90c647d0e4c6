package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStoreRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateStore(db); err != nil {
		t.Fatalf("migrate store models failed: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func int64Ptr(v int64) *int64 {
	return &v
}
