package service

import (
	"errors"
	"testing"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"github.com/shopspring/decimal"
)

func TestMarkPurchasedRejectsInvalidCost(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	if _, err := svc.SetNote(511, "check stock first"); err != nil {
		t.Fatalf("set note failed: %v", err)
	}

	cases := []struct {
		name string
		cost PurchaseCost
	}{
		{name: "zero_units", cost: idrCost(1, 0, 50000)},
		{name: "zero_price", cost: idrCost(1, 5, 0)},
		{name: "negative_count", cost: idrCost(-1, 5, 50000)},
		{name: "unsupported_currency", cost: PurchaseCost{UnitsPerPackage: 5, Price: models.NewMoneyFromInt(10), Currency: "EUR"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.MarkPurchased(511, tc.cost); !errors.Is(err, ErrPurchaseCostInvalid) {
				t.Fatalf("want ErrPurchaseCostInvalid got %v", err)
			}
		})
	}

	ext, err := f.extensionRepo.GetByID(511)
	if err != nil || ext == nil {
		t.Fatalf("extension should exist: %v", err)
	}
	if ext.Purchased || ext.Note != "check stock first" {
		t.Fatalf("rejected cost must not change extension: %+v", ext)
	}
	f.assertBatchInvariant(t)
}

func TestMarkPurchasedAppliesDefaults(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)

	ext, err := svc.MarkPurchased(100, PurchaseCost{UnitsPerPackage: 10, Price: models.NewMoneyFromInt(1000)})
	if err != nil {
		t.Fatalf("mark purchased failed: %v", err)
	}
	if !ext.InCart() {
		t.Fatalf("item should land in cart: %+v", ext)
	}
	if ext.PurchasePackageCount != 1 || ext.PurchaseCurrency != constants.CurrencyIDR {
		t.Fatalf("want count=1 currency=IDR got count=%d currency=%s", ext.PurchasePackageCount, ext.PurchaseCurrency)
	}
	if ext.PurchasedAt == nil {
		t.Fatalf("purchased_at should be set")
	}
}

func TestMarkPurchasedTwiceRejected(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	if _, err := svc.MarkPurchased(100, idrCost(1, 5, 50000)); err != nil {
		t.Fatalf("mark purchased failed: %v", err)
	}
	if _, err := svc.MarkPurchased(100, idrCost(2, 5, 60000)); !errors.Is(err, ErrAlreadyPurchased) {
		t.Fatalf("want ErrAlreadyPurchased got %v", err)
	}
	ext, _ := f.extensionRepo.GetByID(100)
	if !ext.PurchasePrice.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("price want 50000 got %s", ext.PurchasePrice)
	}
}

func TestMarkPurchasedRejectsVariableParent(t *testing.T) {
	f := setupStoreServiceTest(t)
	parent := simpleEntry(501, "LED 5mm", 0, 0)
	parent.Type = constants.CatalogTypeVariable
	f.seedEntry(t, parent)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)

	if _, err := svc.MarkPurchased(501, idrCost(1, 5, 50000)); !errors.Is(err, ErrNotPurchasable) {
		t.Fatalf("want ErrNotPurchasable got %v", err)
	}
}

func TestFieldWritersKeepPurchaseState(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	if _, err := svc.MarkPurchased(511, idrCost(1, 5, 50000)); err != nil {
		t.Fatalf("mark purchased failed: %v", err)
	}
	if affected, err := f.extensionRepo.AssignBatch(511, "2026-10-16", time.Now()); err != nil || affected != 1 {
		t.Fatalf("assign batch affected=%d err=%v", affected, err)
	}

	if _, err := svc.SetNote(511, "arrived"); err != nil {
		t.Fatalf("set note failed: %v", err)
	}
	if _, err := svc.SetBackupLocation(511, " R-02 "); err != nil {
		t.Fatalf("set backup location failed: %v", err)
	}
	ext, err := svc.SetSuppliers(511, []string{" tokopedia ", "Shopee", "Tokopedia", ""})
	if err != nil {
		t.Fatalf("set suppliers failed: %v", err)
	}

	if !ext.Batched() || ext.OrderBatchID == nil || *ext.OrderBatchID != "2026-10-16" {
		t.Fatalf("writers must not move the item out of its batch: %+v", ext)
	}
	if ext.Note != "arrived" || ext.BackupLocation != "R-02" {
		t.Fatalf("unexpected fields note=%q backup=%q", ext.Note, ext.BackupLocation)
	}
	if len(ext.SupplierNames) != 2 || ext.SupplierNames[0] != "Shopee" || ext.SupplierNames[1] != "tokopedia" {
		t.Fatalf("unexpected suppliers: %v", ext.SupplierNames)
	}
	f.assertBatchInvariant(t)
}

func TestSetSuppliersRejectsOverlongName(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	long := make([]rune, maxSupplierNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := svc.SetSuppliers(100, []string{string(long)}); !errors.Is(err, ErrSupplierInvalid) {
		t.Fatalf("want ErrSupplierInvalid got %v", err)
	}
}

func TestUnmarkPurchasedLeavesBatch(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	if _, err := svc.MarkPurchased(511, idrCost(2, 5, 50000)); err != nil {
		t.Fatalf("mark purchased failed: %v", err)
	}
	if _, err := f.extensionRepo.AssignBatch(511, "2026-10-16", time.Now()); err != nil {
		t.Fatalf("assign batch failed: %v", err)
	}

	ext, err := svc.UnmarkPurchased(511)
	if err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	if ext.Purchased || ext.OrderBatchID != nil || ext.BatchedAt != nil {
		t.Fatalf("unmark should clear purchase state: %+v", ext)
	}
	if ext.PurchaseUnitsPerPackage != 5 || ext.PurchasePackageCount != 2 {
		t.Fatalf("cost fields should be kept: %+v", ext)
	}
	f.assertBatchInvariant(t)

	untouched, err := svc.UnmarkPurchased(600)
	if err != nil {
		t.Fatalf("unmark unknown id failed: %v", err)
	}
	if untouched.Purchased {
		t.Fatalf("unknown id should read as unpurchased")
	}
	created, _ := f.extensionRepo.GetByID(600)
	if created != nil {
		t.Fatalf("unmark must not create a row: %+v", created)
	}
}

func TestUpdateCostRequiresPurchasedAndKeepsBatch(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	if _, err := svc.UpdateCost(511, idrCost(1, 5, 50000)); !errors.Is(err, ErrNotPurchased) {
		t.Fatalf("want ErrNotPurchased got %v", err)
	}

	if _, err := svc.MarkPurchased(511, idrCost(1, 5, 50000)); err != nil {
		t.Fatalf("mark purchased failed: %v", err)
	}
	if _, err := f.extensionRepo.AssignBatch(511, "2026-10-16", time.Now()); err != nil {
		t.Fatalf("assign batch failed: %v", err)
	}
	ext, err := svc.UpdateCost(511, PurchaseCost{PackageCount: 3, UnitsPerPackage: 4, Price: models.NewMoneyFromInt(20), Currency: "cny"})
	if err != nil {
		t.Fatalf("update cost failed: %v", err)
	}
	if ext.OrderBatchID == nil || *ext.OrderBatchID != "2026-10-16" {
		t.Fatalf("update cost must not move item to cart: %+v", ext)
	}
	if ext.PurchasePackageCount != 3 || ext.PurchaseUnitsPerPackage != 4 || ext.PurchaseCurrency != constants.CurrencyCNY {
		t.Fatalf("cost not rewritten: %+v", ext)
	}
	if _, err := svc.UpdateCost(511, idrCost(1, 0, 10)); !errors.Is(err, ErrPurchaseCostInvalid) {
		t.Fatalf("want ErrPurchaseCostInvalid got %v", err)
	}
}

func TestPurchaseGetReturnsDefaultsForUnknownID(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	ext, err := svc.Get(42)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ext.Purchased || ext.PurchasePackageCount != 1 || len(ext.SupplierNames) != 0 {
		t.Fatalf("unexpected defaults: %+v", ext)
	}
	if _, err := svc.Get(0); !errors.Is(err, ErrExternalIDInvalid) {
		t.Fatalf("want ErrExternalIDInvalid got %v", err)
	}
}
