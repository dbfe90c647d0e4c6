package listing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Facet 独立的布尔筛选条件，多个 Facet 按"且"组合
type Facet struct {
	Name  string
	Match func(Row) bool
}

func presenceFacet(name string, want bool, has func(Row) bool) Facet {
	return Facet{
		Name: name,
		Match: func(row Row) bool {
			return has(row) == want
		},
	}
}

// HasSKU 是否有 SKU
func HasSKU(want bool) Facet {
	return presenceFacet("sku", want, func(row Row) bool {
		return strings.TrimSpace(row.Entry.SKU) != ""
	})
}

// TypeIs 商品类型
func TypeIs(entryType string) Facet {
	return Facet{
		Name: "type",
		Match: func(row Row) bool {
			return row.Entry.Type == entryType
		},
	}
}

// HasDiscount 是否促销（0 < 促销价 < 原价）
func HasDiscount(want bool) Facet {
	return presenceFacet("discount", want, func(row Row) bool {
		return row.Entry.HasDiscount()
	})
}

// HasPhoto 是否有图片
func HasPhoto(want bool) Facet {
	return presenceFacet("photo", want, func(row Row) bool {
		return len(row.Entry.Images) > 0
	})
}

// HasPrice 是否设置了原价
func HasPrice(want bool) Facet {
	return presenceFacet("price", want, func(row Row) bool {
		return row.Entry.RegularPrice.IsSet()
	})
}

// HasWeight 是否填写重量
func HasWeight(want bool) Facet {
	return presenceFacet("weight", want, func(row Row) bool {
		return strings.TrimSpace(row.Entry.Weight) != ""
	})
}

// HasBackupLocation 是否有备货位置
func HasBackupLocation(want bool) Facet {
	return presenceFacet("backup_location", want, func(row Row) bool {
		return strings.TrimSpace(row.Extension.BackupLocation) != ""
	})
}

// PriceRange 实际售价落在 [min, max] 内，任一端为空表示不限
func PriceRange(min, max *decimal.Decimal) Facet {
	return Facet{
		Name: "price_range",
		Match: func(row Row) bool {
			price := row.Entry.SellPrice().Decimal
			if min != nil && price.LessThan(*min) {
				return false
			}
			if max != nil && price.GreaterThan(*max) {
				return false
			}
			return true
		},
	}
}

// PurchaseStateIs 采购状态（unpurchased / cart / batched）
func PurchaseStateIs(state string) Facet {
	return Facet{
		Name: "purchase_state",
		Match: func(row Row) bool {
			return row.PurchaseState == state
		},
	}
}

// MissingFromSource 是否已从外部商城消失
func MissingFromSource(want bool) Facet {
	return presenceFacet("missing", want, func(row Row) bool {
		return row.Entry.IsMissingFromSource
	})
}
