package admin

import (
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/costing"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// QuoteRequest 成本试算请求
type QuoteRequest struct {
	PackageCount    int              `json:"package_count"`
	UnitsPerPackage int              `json:"units_per_package"`
	PricePerPackage decimal.Decimal  `json:"price_per_package"`
	Currency        string           `json:"currency"`
	SellPrice       *decimal.Decimal `json:"sell_price"`
	RateCNY         *decimal.Decimal `json:"rate_cny"`
	RateUSD         *decimal.Decimal `json:"rate_usd"`
}

// GetAnalysis 库存资产与采购总值汇总
func (h *Handler) GetAnalysis(c *gin.Context) {
	rates, err := parseRates(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid exchange rate", err)
		return
	}
	excluded, err := parseInt64List(c, "exclude_category_ids")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid category ids", err)
		return
	}
	result, err := h.AnalysisService.Analyze(service.AnalysisInput{
		Rates:              rates,
		ExcludeCategoryIDs: excluded,
	})
	if err != nil {
		respondServiceError(c, err, "analysis failed")
		return
	}
	response.Success(c, result)
}

// QuoteCosting 单件成本与毛利试算
func (h *Handler) QuoteCosting(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	if _, ok := costing.NormalizeCurrency(req.Currency); !ok {
		response.BadRequest(c, "unsupported currency")
		return
	}
	input := costing.QuoteInput{
		PackageCount:    req.PackageCount,
		UnitsPerPackage: req.UnitsPerPackage,
		PricePerPackage: req.PricePerPackage,
		Currency:        req.Currency,
	}
	if req.SellPrice != nil {
		input.SellPrice = decimal.NewNullDecimal(*req.SellPrice)
	}
	quote := h.AnalysisService.Quote(input, costing.NewRates(req.RateCNY, req.RateUSD))
	response.Success(c, quote)
}
