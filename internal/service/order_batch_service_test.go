package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/costing"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var wib = time.FixedZone("WIB", 7*3600)

// failingExtensionRepo 在第 N 次归批时注入失败
type failingExtensionRepo struct {
	repository.PurchaseExtensionRepository
	failOnAssign int
	zeroRows     bool
	calls        *int
}

func (r *failingExtensionRepo) WithTx(tx *gorm.DB) repository.PurchaseExtensionRepository {
	return &failingExtensionRepo{
		PurchaseExtensionRepository: r.PurchaseExtensionRepository.WithTx(tx),
		failOnAssign:                r.failOnAssign,
		zeroRows:                    r.zeroRows,
		calls:                       r.calls,
	}
}

func (r *failingExtensionRepo) AssignBatch(externalID int64, batchID string, at time.Time) (int64, error) {
	*r.calls++
	if *r.calls == r.failOnAssign {
		if r.zeroRows {
			return 0, nil
		}
		return 0, errInjected
	}
	return r.PurchaseExtensionRepository.AssignBatch(externalID, batchID, at)
}

func newBatchServiceAt(f *storeServiceFixture, repo repository.PurchaseExtensionRepository, at time.Time) *OrderBatchService {
	svc := NewOrderBatchService(repo, f.catalogRepo, wib)
	svc.now = func() time.Time { return at }
	return svc
}

func TestCollapseCartScenario(t *testing.T) {
	f := setupStoreServiceTest(t)
	parent := simpleEntry(501, "LED 5mm", 0, 0)
	parent.Type = constants.CatalogTypeVariable
	f.seedEntry(t, parent)
	f.seedEntry(t, variationEntry(511, 501, "Red", 10, 15000))
	f.seedEntry(t, variationEntry(512, 501, "Blue", 10, 15000))

	purchases := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	ext, err := purchases.MarkPurchased(511, idrCost(1, 5, 50000))
	if err != nil {
		t.Fatalf("mark purchased failed: %v", err)
	}
	perPiece, ok := costing.ExtensionPerPieceCost(ext, costing.Rates{})
	if !ok || !perPiece.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("per piece cost want 10000 got %s ok=%v", perPiece, ok)
	}

	// 20:00 UTC 已是雅加达次日
	svc := newBatchServiceAt(f, f.extensionRepo, time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC))
	result, err := svc.CollapseCartToBatch(context.Background())
	if err != nil {
		t.Fatalf("collapse failed: %v", err)
	}
	if result.BatchID != "2026-10-17" || result.MovedCount != 1 {
		t.Fatalf("want batch 2026-10-17 moved=1 got %+v", result)
	}

	batched, _ := f.extensionRepo.GetByID(511)
	if batched.OrderBatchID == nil || *batched.OrderBatchID != "2026-10-17" {
		t.Fatalf("511 should be batched: %+v", batched)
	}
	untouched, _ := f.extensionRepo.GetByID(512)
	if untouched != nil && (untouched.Purchased || untouched.OrderBatchID != nil) {
		t.Fatalf("512 should stay unpurchased: %+v", untouched)
	}
	f.assertBatchInvariant(t)

	items, err := svc.ListBatchItems("2026-10-17")
	if err != nil {
		t.Fatalf("list batch items failed: %v", err)
	}
	if len(items) != 1 || items[0].Entry == nil || items[0].Entry.Name != "Red" || items[0].TotalPieces != 5 {
		t.Fatalf("unexpected batch items: %+v", items)
	}
}

func TestCollapseEmptyCartIsNoOp(t *testing.T) {
	f := setupStoreServiceTest(t)
	svc := newBatchServiceAt(f, f.extensionRepo, time.Date(2026, 10, 16, 9, 0, 0, 0, wib))
	if _, err := svc.CollapseCartToBatch(context.Background()); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
	batches, err := svc.ListBatches()
	if err != nil {
		t.Fatalf("list batches failed: %v", err)
	}
	if len(batches) != 0 {
		t.Fatalf("no batch should exist, got %d", len(batches))
	}
}

func TestCollapseSameDayCreatesSuffixedBatches(t *testing.T) {
	f := setupStoreServiceTest(t)
	purchases := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	svc := newBatchServiceAt(f, f.extensionRepo, time.Date(2026, 10, 16, 9, 0, 0, 0, wib))

	want := []string{"2026-10-16", "2026-10-16-2", "2026-10-16-3"}
	for i, id := range []int64{100, 101, 102} {
		if _, err := purchases.MarkPurchased(id, idrCost(1, 2, 1000)); err != nil {
			t.Fatalf("mark %d failed: %v", id, err)
		}
		result, err := svc.CollapseCartToBatch(context.Background())
		if err != nil {
			t.Fatalf("collapse #%d failed: %v", i+1, err)
		}
		if result.BatchID != want[i] {
			t.Fatalf("collapse #%d want %s got %s", i+1, want[i], result.BatchID)
		}
	}

	first, _ := f.extensionRepo.GetByID(100)
	if *first.OrderBatchID != "2026-10-16" {
		t.Fatalf("earlier batch must not be merged: %+v", first)
	}
	batches, err := svc.ListBatches()
	if err != nil {
		t.Fatalf("list batches failed: %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("batch count want 3 got %d", len(batches))
	}
	for _, summary := range batches {
		if summary.ItemCount != 1 || summary.TotalPieces != 2 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
	}
}

func TestCollapseRollsBackOnFailure(t *testing.T) {
	cases := []struct {
		name     string
		zeroRows bool
		wantErr  error
	}{
		{name: "write_error", wantErr: ErrTransientIO},
		{name: "row_changed", zeroRows: true, wantErr: ErrBatchConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupStoreServiceTest(t)
			purchases := NewPurchaseService(f.extensionRepo, f.catalogRepo)
			for _, id := range []int64{100, 101, 102} {
				if _, err := purchases.MarkPurchased(id, idrCost(1, 2, 1000)); err != nil {
					t.Fatalf("mark %d failed: %v", id, err)
				}
			}
			calls := 0
			repo := &failingExtensionRepo{PurchaseExtensionRepository: f.extensionRepo, failOnAssign: 3, zeroRows: tc.zeroRows, calls: &calls}
			svc := newBatchServiceAt(f, repo, time.Date(2026, 10, 16, 9, 0, 0, 0, wib))

			if _, err := svc.CollapseCartToBatch(context.Background()); !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v got %v", tc.wantErr, err)
			}
			cart, err := f.extensionRepo.ListCart()
			if err != nil {
				t.Fatalf("list cart failed: %v", err)
			}
			if len(cart) != 3 {
				t.Fatalf("all items should remain in cart, got %d", len(cart))
			}
			batched, err := f.extensionRepo.ListBatched()
			if err != nil {
				t.Fatalf("list batched failed: %v", err)
			}
			if len(batched) != 0 {
				t.Fatalf("no item should be batched, got %d", len(batched))
			}
			f.assertBatchInvariant(t)
		})
	}
}

func TestUnmarkedItemReturnsToFutureBatch(t *testing.T) {
	f := setupStoreServiceTest(t)
	purchases := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	if _, err := purchases.MarkPurchased(100, idrCost(1, 2, 1000)); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	day1 := newBatchServiceAt(f, f.extensionRepo, time.Date(2026, 10, 16, 9, 0, 0, 0, wib))
	if _, err := day1.CollapseCartToBatch(context.Background()); err != nil {
		t.Fatalf("collapse day1 failed: %v", err)
	}
	if _, err := purchases.UnmarkPurchased(100); err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	f.assertBatchInvariant(t)
	if _, err := day1.ListBatchItems("2026-10-16"); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("emptied batch want ErrBatchNotFound got %v", err)
	}
	if _, err := purchases.MarkPurchased(100, idrCost(1, 2, 1200)); err != nil {
		t.Fatalf("re-mark failed: %v", err)
	}
	day2 := newBatchServiceAt(f, f.extensionRepo, time.Date(2026, 10, 17, 9, 0, 0, 0, wib))
	result, err := day2.CollapseCartToBatch(context.Background())
	if err != nil {
		t.Fatalf("collapse day2 failed: %v", err)
	}
	if result.BatchID != "2026-10-17" {
		t.Fatalf("want 2026-10-17 got %s", result.BatchID)
	}
}

func TestCollapseNeverReusesEmptiedBatchID(t *testing.T) {
	f := setupStoreServiceTest(t)
	purchases := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	svc := newBatchServiceAt(f, f.extensionRepo, time.Date(2026, 10, 16, 9, 0, 0, 0, wib))

	if _, err := purchases.MarkPurchased(100, idrCost(1, 2, 1000)); err != nil {
		t.Fatalf("mark 100 failed: %v", err)
	}
	first, err := svc.CollapseCartToBatch(context.Background())
	if err != nil {
		t.Fatalf("first collapse failed: %v", err)
	}
	if _, err := purchases.UnmarkPurchased(100); err != nil {
		t.Fatalf("unmark 100 failed: %v", err)
	}
	if _, err := purchases.MarkPurchased(101, idrCost(1, 2, 1000)); err != nil {
		t.Fatalf("mark 101 failed: %v", err)
	}
	second, err := svc.CollapseCartToBatch(context.Background())
	if err != nil {
		t.Fatalf("second collapse failed: %v", err)
	}
	if first.BatchID != "2026-10-16" || second.BatchID != "2026-10-16-2" {
		t.Fatalf("want 2026-10-16 then 2026-10-16-2 got %s then %s", first.BatchID, second.BatchID)
	}
	if _, err := svc.ListBatchItems(first.BatchID); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("emptied batch must keep no members, got %v", err)
	}

	var issued []models.OrderBatch
	if err := f.db.Order("batch_id ASC").Find(&issued).Error; err != nil {
		t.Fatalf("list issued batches failed: %v", err)
	}
	if len(issued) != 2 || issued[0].MovedCount != 1 || issued[1].BatchID != "2026-10-16-2" {
		t.Fatalf("unexpected batch ledger: %+v", issued)
	}
}

func TestCollapseFailureIssuesNoBatchID(t *testing.T) {
	f := setupStoreServiceTest(t)
	purchases := NewPurchaseService(f.extensionRepo, f.catalogRepo)
	if _, err := purchases.MarkPurchased(100, idrCost(1, 2, 1000)); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	calls := 0
	failing := &failingExtensionRepo{PurchaseExtensionRepository: f.extensionRepo, failOnAssign: 1, calls: &calls}
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, wib)
	if _, err := newBatchServiceAt(f, failing, at).CollapseCartToBatch(context.Background()); !errors.Is(err, ErrTransientIO) {
		t.Fatalf("want ErrTransientIO got %v", err)
	}
	result, err := newBatchServiceAt(f, f.extensionRepo, at).CollapseCartToBatch(context.Background())
	if err != nil {
		t.Fatalf("retry collapse failed: %v", err)
	}
	if result.BatchID != "2026-10-16" {
		t.Fatalf("rolled back collapse must not consume an id, got %s", result.BatchID)
	}
}

func TestNextBatchID(t *testing.T) {
	cases := []struct {
		existing []string
		want     string
	}{
		{existing: nil, want: "2026-10-16"},
		{existing: []string{"2026-10-16"}, want: "2026-10-16-2"},
		{existing: []string{"2026-10-16", "2026-10-16-2", "2026-10-16-10"}, want: "2026-10-16-11"},
		{existing: []string{"2026-10-16-3"}, want: "2026-10-16-4"},
		{existing: []string{"2026-10-16-x"}, want: "2026-10-16"},
	}
	for _, tc := range cases {
		if got := nextBatchID("2026-10-16", tc.existing); got != tc.want {
			t.Fatalf("existing=%v want %s got %s", tc.existing, tc.want, got)
		}
	}
}
