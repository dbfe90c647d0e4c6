//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.PurchaseExtension{},
		&models.CatalogEntry{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.MigrateStore(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresCatalogUpsertAndSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCatalogRepository(db)

	entry := newCatalogEntry(9001, "Motor Driver")
	entry.Categories = models.CategoryRefs{{ID: 15, Name: "Modules"}}
	if err := repo.Upsert(entry); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.Upsert(newCatalogEntry(9001, "Motor Driver L298N")); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	rows, total, err := repo.List(CatalogListFilter{Page: 1, PageSize: 10, Search: "l298n"})
	if err != nil {
		t.Fatalf("list search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("search ILIKE want 1 got total=%d len=%d", total, len(rows))
	}
}

func TestPostgresExtensionBatchFlow(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPurchaseExtensionRepository(db)

	if err := repo.SetSuppliers(1, models.StringArray{"Acme"}); err != nil {
		t.Fatalf("set suppliers failed: %v", err)
	}
	if err := repo.MarkPurchased(1, sampleCost(), time.Now()); err != nil {
		t.Fatalf("mark purchased failed: %v", err)
	}
	err := repo.Transaction(func(tx *gorm.DB) error {
		affected, err := repo.WithTx(tx).AssignBatch(1, "2024-05-01", time.Now())
		if err != nil {
			return err
		}
		if affected != 1 {
			t.Fatalf("assign affected want 1 got %d", affected)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	got, err := repo.GetByID(1)
	if err != nil || got == nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if got.OrderBatchID == nil || *got.OrderBatchID != "2024-05-01" {
		t.Fatalf("batch id not stored: %+v", got.OrderBatchID)
	}
	if len(got.SupplierNames) != 1 || got.SupplierNames[0] != "Acme" {
		t.Fatalf("suppliers lost: %+v", got.SupplierNames)
	}
}
