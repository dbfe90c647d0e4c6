package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/woocommerce"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type storeServiceFixture struct {
	db            *gorm.DB
	catalogRepo   *repository.GormCatalogRepository
	extensionRepo *repository.GormPurchaseExtensionRepository
}

func setupStoreServiceTest(t *testing.T) *storeServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateStore(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return &storeServiceFixture{
		db:            db,
		catalogRepo:   repository.NewCatalogRepository(db),
		extensionRepo: repository.NewPurchaseExtensionRepository(db),
	}
}

func (f *storeServiceFixture) seedEntry(t *testing.T, entry models.CatalogEntry) {
	t.Helper()
	if err := f.catalogRepo.Upsert(&entry); err != nil {
		t.Fatalf("seed entry %d failed: %v", entry.ExternalID, err)
	}
}

// assertBatchInvariant 未采购的扩展不允许带批次号
func (f *storeServiceFixture) assertBatchInvariant(t *testing.T) {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.PurchaseExtension{}).
		Where("purchased = ? AND order_batch_id IS NOT NULL", false).
		Count(&count).Error; err != nil {
		t.Fatalf("count invariant violations failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("unpurchased rows with batch id want 0 got %d", count)
	}
}

func simpleEntry(id int64, name string, stock int, regular int64) models.CatalogEntry {
	return models.CatalogEntry{
		ExternalID:    id,
		Type:          constants.CatalogTypeSimple,
		Name:          name,
		Status:        constants.CatalogStatusPublish,
		StockQuantity: stock,
		RegularPrice:  models.NewMoneyFromInt(regular),
	}
}

func variationEntry(id, parentID int64, name string, stock int, regular int64) models.CatalogEntry {
	entry := simpleEntry(id, name, stock, regular)
	entry.Type = constants.CatalogTypeVariation
	entry.ParentID = &parentID
	return entry
}

func idrCost(count, units int, price int64) PurchaseCost {
	return PurchaseCost{
		PackageCount:    count,
		UnitsPerPackage: units,
		Price:           models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Currency:        constants.CurrencyIDR,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

// fakeCatalogSource 内存商品源，按页返回
type fakeCatalogSource struct {
	perPage        int
	products       []woocommerce.Product
	variations     map[int64][]woocommerce.Product
	failPage       int
	failVariations map[int64]bool
	notFound       bool
	fetchErr       error
	productCalls   int
}

func (f *fakeCatalogSource) PerPage() int {
	if f.perPage <= 0 {
		return 100
	}
	return f.perPage
}

func (f *fakeCatalogSource) ListProducts(_ context.Context, page int) (*woocommerce.Page, error) {
	f.productCalls++
	if f.failPage > 0 && page == f.failPage {
		return nil, fmt.Errorf("%w: status=502", woocommerce.ErrRequestFailed)
	}
	return pageOf(f.products, page, f.PerPage()), nil
}

func (f *fakeCatalogSource) ListVariations(_ context.Context, parentID int64, page int) (*woocommerce.Page, error) {
	if f.failVariations[parentID] {
		return nil, fmt.Errorf("%w: status=500", woocommerce.ErrRequestFailed)
	}
	return pageOf(f.variations[parentID], page, f.PerPage()), nil
}

func (f *fakeCatalogSource) GetProduct(_ context.Context, id int64) (*woocommerce.Product, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			product := f.products[i]
			return &product, nil
		}
	}
	return nil, woocommerce.ErrNotFound
}

func (f *fakeCatalogSource) GetVariation(_ context.Context, parentID, id int64) (*woocommerce.Product, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	for _, variation := range f.variations[parentID] {
		if variation.ID == id {
			found := variation
			return &found, nil
		}
	}
	return nil, woocommerce.ErrNotFound
}

func pageOf(items []woocommerce.Product, page, perPage int) *woocommerce.Page {
	totalPages := (len(items) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start >= len(items) {
		return &woocommerce.Page{Items: []woocommerce.Product{}, Page: page, TotalPages: totalPages}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return &woocommerce.Page{Items: items[start:end], Page: page, TotalPages: totalPages}
}

func remoteSimple(id int64, name, price string, stock int) woocommerce.Product {
	return woocommerce.Product{
		ID:            id,
		Name:          name,
		Type:          constants.CatalogTypeSimple,
		Status:        constants.CatalogStatusPublish,
		SKU:           fmt.Sprintf("SKU-%d", id),
		RegularPrice:  price,
		StockQuantity: intPtr(stock),
	}
}

func remoteVariable(id int64, name string) woocommerce.Product {
	return woocommerce.Product{
		ID:     id,
		Name:   name,
		Type:   constants.CatalogTypeVariable,
		Status: constants.CatalogStatusPublish,
		Images: []woocommerce.Image{{Src: "https://shop.example.com/p.jpg"}},
	}
}

func remoteVariation(id, parentID int64, option, price string, stock *int) woocommerce.Product {
	return woocommerce.Product{
		ID:            id,
		Name:          option,
		Status:        constants.CatalogStatusPublish,
		RegularPrice:  price,
		StockQuantity: stock,
		Image:         &woocommerce.Image{Src: fmt.Sprintf("https://shop.example.com/v%d.jpg", id)},
		Attributes:    []woocommerce.Attribute{{Name: "Color", Option: option}},
	}
}

var errInjected = errors.New("injected failure")
