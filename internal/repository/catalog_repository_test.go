package repository

import (
	"testing"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"github.com/shopspring/decimal"
)

func newCatalogEntry(id int64, name string) *models.CatalogEntry {
	return &models.CatalogEntry{
		ExternalID:    id,
		Type:          constants.CatalogTypeSimple,
		Name:          name,
		SKU:           "SKU-" + name,
		Status:        constants.CatalogStatusPublish,
		StockQuantity: 5,
		RegularPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(15000)),
	}
}

func TestCatalogUpsertIsIdempotent(t *testing.T) {
	repo := NewCatalogRepository(setupStoreRepositoryTest(t))

	for i := 0; i < 2; i++ {
		if err := repo.Upsert(newCatalogEntry(501, "Arduino")); err != nil {
			t.Fatalf("upsert #%d failed: %v", i+1, err)
		}
	}
	rows, err := repo.ListAll()
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count want 1 got %d", len(rows))
	}
	if rows[0].Name != "Arduino" || rows[0].StockQuantity != 5 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[0].LastSyncedAt == nil {
		t.Fatalf("last synced at should be set")
	}
}

func TestCatalogUpsertOverwritesFieldsAndClearsMissing(t *testing.T) {
	repo := NewCatalogRepository(setupStoreRepositoryTest(t))

	if err := repo.Upsert(newCatalogEntry(10, "Sensor")); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if affected, err := repo.MarkMissing([]int64{10}); err != nil || affected != 1 {
		t.Fatalf("mark missing want 1 got %d err=%v", affected, err)
	}

	updated := newCatalogEntry(10, "Sensor v2")
	updated.StockQuantity = -3
	updated.Images = models.StringArray{"https://img/a.jpg"}
	if err := repo.Upsert(updated); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := repo.GetByID(10)
	if err != nil || got == nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if got.Name != "Sensor v2" || got.StockQuantity != -3 {
		t.Fatalf("fields not overwritten: %+v", got)
	}
	if got.IsMissingFromSource {
		t.Fatalf("missing flag should be cleared on upsert")
	}
	if len(got.Images) != 1 {
		t.Fatalf("images want 1 got %d", len(got.Images))
	}
}

func TestCatalogGetByIDNotFound(t *testing.T) {
	repo := NewCatalogRepository(setupStoreRepositoryTest(t))
	got, err := repo.GetByID(404)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for missing row got %+v", got)
	}
}

func TestCatalogMarkMissingSkipsFlaggedRows(t *testing.T) {
	repo := NewCatalogRepository(setupStoreRepositoryTest(t))
	for _, id := range []int64{1, 2, 3} {
		if err := repo.Upsert(newCatalogEntry(id, "item")); err != nil {
			t.Fatalf("upsert %d failed: %v", id, err)
		}
	}
	if affected, err := repo.MarkMissing([]int64{1, 2}); err != nil || affected != 2 {
		t.Fatalf("first mark want 2 got %d err=%v", affected, err)
	}
	if affected, err := repo.MarkMissing([]int64{1, 2, 3}); err != nil || affected != 1 {
		t.Fatalf("second mark want 1 got %d err=%v", affected, err)
	}

	refs, err := repo.ListIDRefs()
	if err != nil {
		t.Fatalf("list id refs failed: %v", err)
	}
	for _, ref := range refs {
		if !ref.IsMissingFromSource {
			t.Fatalf("id %d should be flagged", ref.ExternalID)
		}
	}
}

func TestCatalogListFiltersAndPaginates(t *testing.T) {
	repo := NewCatalogRepository(setupStoreRepositoryTest(t))

	parent := newCatalogEntry(100, "Servo")
	parent.Type = constants.CatalogTypeVariable
	if err := repo.Upsert(parent); err != nil {
		t.Fatalf("upsert parent failed: %v", err)
	}
	for _, id := range []int64{101, 102, 103} {
		child := newCatalogEntry(id, "Servo variant")
		child.Type = constants.CatalogTypeVariation
		child.ParentID = int64Ptr(100)
		if err := repo.Upsert(child); err != nil {
			t.Fatalf("upsert child failed: %v", err)
		}
	}
	if err := repo.Upsert(newCatalogEntry(200, "Relay")); err != nil {
		t.Fatalf("upsert relay failed: %v", err)
	}

	rows, total, err := repo.List(CatalogListFilter{Search: "servo", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 4 || len(rows) != 2 {
		t.Fatalf("search want total=4 len=2 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = repo.List(CatalogListFilter{ParentID: int64Ptr(100)})
	if err != nil {
		t.Fatalf("list by parent failed: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("children want 3 got total=%d len=%d", total, len(rows))
	}

	_, total, err = repo.List(CatalogListFilter{Type: constants.CatalogTypeSimple})
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("simple rows want 1 got %d", total)
	}
}

func TestCatalogListByIDs(t *testing.T) {
	repo := NewCatalogRepository(setupStoreRepositoryTest(t))
	for _, id := range []int64{501, 511, 512} {
		if err := repo.Upsert(newCatalogEntry(id, "item")); err != nil {
			t.Fatalf("upsert %d failed: %v", id, err)
		}
	}
	rows, err := repo.ListByIDs([]int64{511, 512, 999})
	if err != nil {
		t.Fatalf("list by ids failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count want 2 got %d", len(rows))
	}
	empty, err := repo.ListByIDs(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty ids want no rows got %d err=%v", len(empty), err)
	}
}
