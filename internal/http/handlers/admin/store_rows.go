package admin

import (
	"strings"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/listing"

	"github.com/gin-gonic/gin"
)

// presenceFacets 布尔型筛选参数
var presenceFacets = []struct {
	param string
	build func(bool) listing.Facet
}{
	{param: "has_sku", build: listing.HasSKU},
	{param: "has_discount", build: listing.HasDiscount},
	{param: "has_photo", build: listing.HasPhoto},
	{param: "has_price", build: listing.HasPrice},
	{param: "has_weight", build: listing.HasWeight},
	{param: "has_backup_location", build: listing.HasBackupLocation},
	{param: "missing", build: listing.MissingFromSource},
}

// ListStoreRows 层级商品列表（镜像 + 采购扩展）
func (h *Handler) ListStoreRows(c *gin.Context) {
	opts, err := parseViewOptions(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	page, pageSize := parsePage(c)
	rows, total, err := h.StoreListService.ListRows(opts, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "store rows fetch failed")
		return
	}
	response.SuccessWithPage(c, rows, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     int64(total),
		TotalPage: int64((total + pageSize - 1) / pageSize),
	})
}

func parseViewOptions(c *gin.Context) (listing.ViewOptions, error) {
	opts := listing.ViewOptions{
		Search:   c.Query("search"),
		SortKey:  strings.TrimSpace(c.Query("sort")),
		SortDesc: strings.EqualFold(strings.TrimSpace(c.Query("order")), "desc"),
		Expanded: map[int64]bool{},
	}
	if opts.SortKey != "" && !listing.IsSortKey(opts.SortKey) {
		return opts, errQueryInvalidf("sort", opts.SortKey)
	}

	for _, facet := range presenceFacets {
		want, err := parseOptionalBool(c, facet.param)
		if err != nil {
			return opts, err
		}
		if want != nil {
			opts.Facets = append(opts.Facets, facet.build(*want))
		}
	}
	if entryType := strings.TrimSpace(c.Query("type")); entryType != "" {
		switch entryType {
		case constants.CatalogTypeSimple, constants.CatalogTypeVariable, constants.CatalogTypeVariation:
			opts.Facets = append(opts.Facets, listing.TypeIs(entryType))
		default:
			return opts, errQueryInvalidf("type", entryType)
		}
	}
	if state := strings.TrimSpace(c.Query("purchase_state")); state != "" {
		switch state {
		case constants.PurchaseStateUnpurchased, constants.PurchaseStateCart, constants.PurchaseStateBatched:
			opts.Facets = append(opts.Facets, listing.PurchaseStateIs(state))
		default:
			return opts, errQueryInvalidf("purchase_state", state)
		}
	}
	minPrice, err := parseOptionalDecimal(c, "price_min")
	if err != nil {
		return opts, err
	}
	maxPrice, err := parseOptionalDecimal(c, "price_max")
	if err != nil {
		return opts, err
	}
	if minPrice != nil || maxPrice != nil {
		opts.Facets = append(opts.Facets, listing.PriceRange(minPrice, maxPrice))
	}

	expanded, err := parseInt64List(c, "expanded")
	if err != nil {
		return opts, err
	}
	for _, id := range expanded {
		opts.Expanded[id] = true
	}
	rates, err := parseRates(c)
	if err != nil {
		return opts, err
	}
	opts.Rates = rates
	return opts, nil
}
