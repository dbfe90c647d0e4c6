package costing

import (
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"github.com/shopspring/decimal"
)

// PurchaseValue 采购总值，无法换算的记录单独计数
type PurchaseValue struct {
	Total       decimal.Decimal `json:"total"`
	Counted     int             `json:"counted"`
	Unconverted int             `json:"unconverted"`
}

// TotalAssetValue 已发布 simple/variation 的 售价 × max(库存, 0) 之和
func TotalAssetValue(entries []models.CatalogEntry, exclude func(models.CatalogEntry) bool) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		if !entry.CarriesStock() || entry.Status != constants.CatalogStatusPublish {
			continue
		}
		if exclude != nil && exclude(entry) {
			continue
		}
		if entry.StockQuantity <= 0 {
			continue
		}
		price := entry.SellPrice()
		total = total.Add(price.Decimal.Mul(decimal.NewFromInt(int64(entry.StockQuantity))))
	}
	return total
}

// TotalPurchaseValue 所有带采购数据的扩展 本币单包价 × 包数 × 每包件数 之和（不区分批次）
func TotalPurchaseValue(extensions []models.PurchaseExtension, rates Rates) PurchaseValue {
	result := PurchaseValue{Total: decimal.Zero}
	for idx := range extensions {
		ext := &extensions[idx]
		if !ext.HasPurchaseData() {
			continue
		}
		local, ok := ToLocal(ext.PurchasePrice.Decimal, ext.PurchaseCurrency, rates)
		if !ok {
			result.Unconverted++
			continue
		}
		count := packageCountOrDefault(ext.PurchasePackageCount)
		pieces := decimal.NewFromInt(int64(TotalPieces(count, ext.PurchaseUnitsPerPackage)))
		result.Total = result.Total.Add(local.Mul(pieces))
		result.Counted++
	}
	return result
}

// ExcludeCategories 命中任一分类则排除
func ExcludeCategories(ids ...int64) func(models.CatalogEntry) bool {
	set := categorySet(ids)
	return func(entry models.CatalogEntry) bool {
		return entry.Categories.HasAny(set)
	}
}

// ExcludeCategoriesInherited 变体没有自己的分类时按父商品分类判断
func ExcludeCategoriesInherited(entries []models.CatalogEntry, ids ...int64) func(models.CatalogEntry) bool {
	set := categorySet(ids)
	parentCategories := make(map[int64]models.CategoryRefs, len(entries))
	for _, entry := range entries {
		if entry.ParentID == nil {
			parentCategories[entry.ExternalID] = entry.Categories
		}
	}
	return func(entry models.CatalogEntry) bool {
		if entry.Categories.HasAny(set) {
			return true
		}
		if entry.ParentID == nil {
			return false
		}
		return parentCategories[*entry.ParentID].HasAny(set)
	}
}

func categorySet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
