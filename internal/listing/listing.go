package listing

import (
	"strings"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/costing"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"github.com/shopspring/decimal"
)

// Row 列表中的一行（父商品或变体）
type Row struct {
	Entry         models.CatalogEntry      `json:"entry"`
	Extension     models.PurchaseExtension `json:"extension"`
	HasExtension  bool                     `json:"has_extension"`
	Depth         int                      `json:"depth"`
	IsOrphan      bool                     `json:"is_orphan"`
	ChildCount    int                      `json:"child_count"`
	Expanded      bool                     `json:"expanded"`
	Matched       bool                     `json:"matched"`
	Stock         int                      `json:"stock"`
	TotalPieces   int                      `json:"total_pieces"`
	PerPieceCost  *decimal.Decimal         `json:"per_piece_cost"`
	Margin        *decimal.Decimal         `json:"margin"`
	MarginLabel   string                   `json:"margin_label"`
	PurchaseState string                   `json:"purchase_state"`
	SupplierLabel string                   `json:"supplier_label"`
}

// IsParent 是否为顶层行
func (r *Row) IsParent() bool {
	return r.Depth == 0
}

// ViewOptions 列表视图选项
type ViewOptions struct {
	Search   string
	Facets   []Facet
	SortKey  string
	SortDesc bool
	Expanded map[int64]bool
	Rates    costing.Rates
}

// QueryActive 是否存在搜索词或筛选
func (o ViewOptions) QueryActive() bool {
	return len(searchTokens(o.Search)) > 0 || len(o.Facets) > 0
}

type group struct {
	parent   *Row
	children []*Row
}

// Build 关联镜像与扩展，按父子层级输出排序后的行
func Build(entries []models.CatalogEntry, extensions []models.PurchaseExtension, opts ViewOptions) []Row {
	extByID := make(map[int64]models.PurchaseExtension, len(extensions))
	for _, ext := range extensions {
		extByID[ext.ExternalID] = ext
	}

	parentIDs := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		if entry.ParentID == nil {
			parentIDs[entry.ExternalID] = struct{}{}
		}
	}

	groups := make([]*group, 0, len(parentIDs))
	groupByParent := make(map[int64]*group, len(parentIDs))
	var childRows []*Row
	for _, entry := range entries {
		row := newRow(entry, extByID, opts.Rates)
		if entry.ParentID == nil {
			g := &group{parent: row}
			groups = append(groups, g)
			groupByParent[entry.ExternalID] = g
			continue
		}
		if _, ok := parentIDs[*entry.ParentID]; !ok {
			row.IsOrphan = true
			groups = append(groups, &group{parent: row})
			continue
		}
		row.Depth = 1
		childRows = append(childRows, row)
	}
	for _, child := range childRows {
		g := groupByParent[*child.Entry.ParentID]
		g.children = append(g.children, child)
	}

	tokens := searchTokens(opts.Search)
	queryActive := opts.QueryActive()

	visible := make([]*group, 0, len(groups))
	for _, g := range groups {
		finalizeParent(g)
		g.parent.Matched = matches(g.parent, tokens, opts.Facets)
		g.parent.Expanded = opts.Expanded[g.parent.Entry.ExternalID] && !g.parent.IsOrphan

		matchedChildren := make([]*Row, 0, len(g.children))
		for _, child := range g.children {
			child.Matched = matches(child, tokens, opts.Facets)
			if child.Matched {
				matchedChildren = append(matchedChildren, child)
			}
		}
		if !g.parent.Matched && len(matchedChildren) == 0 {
			continue
		}

		switch {
		case g.parent.Expanded:
		case queryActive:
			g.children = matchedChildren
		default:
			g.children = nil
		}
		visible = append(visible, g)
	}

	sortGroups(visible, opts.SortKey, opts.SortDesc)

	rows := make([]Row, 0, len(visible))
	for _, g := range visible {
		rows = append(rows, *g.parent)
		for _, child := range g.children {
			rows = append(rows, *child)
		}
	}
	return rows
}

func newRow(entry models.CatalogEntry, extByID map[int64]models.PurchaseExtension, rates costing.Rates) *Row {
	row := &Row{Entry: entry, Stock: entry.StockQuantity}
	if ext, ok := extByID[entry.ExternalID]; ok {
		row.Extension = ext
		row.HasExtension = true
	} else {
		row.Extension = models.PurchaseExtension{ExternalID: entry.ExternalID, PurchasePackageCount: 1, SupplierNames: models.StringArray{}}
	}
	row.SupplierLabel = strings.Join(row.Extension.SupplierNames, ", ")
	row.PurchaseState = purchaseState(&row.Extension)

	if row.Extension.HasPurchaseData() {
		count := row.Extension.PurchasePackageCount
		if count <= 0 {
			count = 1
		}
		row.TotalPieces = costing.TotalPieces(count, row.Extension.PurchaseUnitsPerPackage)
		if perPiece, ok := costing.ExtensionPerPieceCost(&row.Extension, rates); ok {
			rounded := perPiece.Round(2)
			row.PerPieceCost = &rounded
			if entry.RegularPrice.IsSet() {
				margin := costing.Margin(entry.SellPrice().Decimal, perPiece).Round(2)
				row.Margin = &margin
				row.MarginLabel = costing.FormatSigned(margin)
			}
		}
	}
	return row
}

// finalizeParent 有变体的父商品库存为变体库存之和
func finalizeParent(g *group) {
	g.parent.ChildCount = len(g.children)
	if len(g.children) == 0 {
		return
	}
	stock := 0
	for _, child := range g.children {
		stock += child.Entry.StockQuantity
	}
	g.parent.Stock = stock
}

func purchaseState(ext *models.PurchaseExtension) string {
	switch {
	case ext.Batched():
		return constants.PurchaseStateBatched
	case ext.InCart():
		return constants.PurchaseStateCart
	default:
		return constants.PurchaseStateUnpurchased
	}
}

func searchTokens(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

func matches(row *Row, tokens []string, facets []Facet) bool {
	if len(tokens) > 0 {
		haystack := strings.ToLower(row.Entry.Name + "\n" + row.Entry.SKU + "\n" + row.SupplierLabel)
		for _, token := range tokens {
			if !strings.Contains(haystack, token) {
				return false
			}
		}
	}
	for _, facet := range facets {
		if facet.Match != nil && !facet.Match(*row) {
			return false
		}
	}
	return true
}
