package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"

	"github.com/shopspring/decimal"
)

// sortValue 排序值，available=false 的行无论升降序都排在最后
type sortValue struct {
	available bool
	text      string
	number    decimal.Decimal
	at        time.Time
}

type sortKind int

const (
	sortByText sortKind = iota
	sortByNumber
	sortByTime
)

// SupportedSortKeys 支持的排序字段
func SupportedSortKeys() []string {
	return []string{
		constants.SortKeyName,
		constants.SortKeySKU,
		constants.SortKeyRegularPrice,
		constants.SortKeySalePrice,
		constants.SortKeyPurchasePrice,
		constants.SortKeySupplier,
		constants.SortKeyExternalID,
		constants.SortKeyUpdatedAt,
		constants.SortKeyStock,
		constants.SortKeyTotalPieces,
		constants.SortKeyPerPieceCost,
		constants.SortKeyMargin,
	}
}

// IsSortKey 判断排序字段是否受支持
func IsSortKey(key string) bool {
	for _, item := range SupportedSortKeys() {
		if item == key {
			return true
		}
	}
	return false
}

func resolveSortValue(row *Row, key string) (sortValue, sortKind) {
	switch key {
	case constants.SortKeyName:
		return sortValue{available: true, text: strings.ToLower(row.Entry.Name)}, sortByText
	case constants.SortKeySKU:
		sku := strings.ToLower(strings.TrimSpace(row.Entry.SKU))
		return sortValue{available: sku != "", text: sku}, sortByText
	case constants.SortKeySupplier:
		label := strings.ToLower(row.SupplierLabel)
		return sortValue{available: label != "", text: label}, sortByText
	case constants.SortKeyRegularPrice:
		return sortValue{available: true, number: row.Entry.RegularPrice.Decimal}, sortByNumber
	case constants.SortKeySalePrice:
		return sortValue{available: row.Entry.SalePrice.IsSet(), number: row.Entry.SalePrice.Decimal}, sortByNumber
	case constants.SortKeyPurchasePrice:
		return sortValue{available: row.Extension.HasPurchaseData(), number: row.Extension.PurchasePrice.Decimal}, sortByNumber
	case constants.SortKeyUpdatedAt:
		return sortValue{available: !row.Entry.UpdatedAt.IsZero(), at: row.Entry.UpdatedAt}, sortByTime
	case constants.SortKeyStock:
		return sortValue{available: true, number: decimal.NewFromInt(int64(row.Stock))}, sortByNumber
	case constants.SortKeyTotalPieces:
		return sortValue{available: row.TotalPieces > 0, number: decimal.NewFromInt(int64(row.TotalPieces))}, sortByNumber
	case constants.SortKeyPerPieceCost:
		if row.PerPieceCost == nil {
			return sortValue{}, sortByNumber
		}
		return sortValue{available: true, number: *row.PerPieceCost}, sortByNumber
	case constants.SortKeyMargin:
		if row.Margin == nil {
			return sortValue{}, sortByNumber
		}
		return sortValue{available: true, number: *row.Margin}, sortByNumber
	default:
		return sortValue{available: true, number: decimal.NewFromInt(row.Entry.ExternalID)}, sortByNumber
	}
}

func compareSortValues(a, b sortValue, kind sortKind) int {
	switch kind {
	case sortByText:
		return strings.Compare(a.text, b.text)
	case sortByTime:
		return a.at.Compare(b.at)
	default:
		return a.number.Cmp(b.number)
	}
}

// sortRows 稳定排序，不可用的值始终排在最后
func sortRows(rows []*Row, key string, desc bool) {
	if key == "" {
		key = constants.SortKeyExternalID
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, kind := resolveSortValue(rows[i], key)
		b, _ := resolveSortValue(rows[j], key)
		if a.available != b.available {
			return a.available
		}
		if !a.available {
			return false
		}
		cmp := compareSortValues(a, b, kind)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func sortGroups(groups []*group, key string, desc bool) {
	parents := make([]*Row, len(groups))
	byParent := make(map[*Row]*group, len(groups))
	for idx, g := range groups {
		parents[idx] = g.parent
		byParent[g.parent] = g
		sortRows(g.children, key, desc)
	}
	sortRows(parents, key, desc)
	for idx, parent := range parents {
		groups[idx] = byParent[parent]
	}
}
