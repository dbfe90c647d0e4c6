package costing

import (
	"github.com/shopspring/decimal"
)

// QuoteInput 成本试算输入
type QuoteInput struct {
	PackageCount    int
	UnitsPerPackage int
	PricePerPackage decimal.Decimal
	Currency        string
	SellPrice       decimal.NullDecimal
}

// Quote 成本试算结果，无法计算的字段为 nil
type Quote struct {
	Currency             string           `json:"currency"`
	TotalPieces          int              `json:"total_pieces"`
	PricePerPackageLocal *decimal.Decimal `json:"price_per_package_local"`
	PerPieceCost         *decimal.Decimal `json:"per_piece_cost"`
	Margin               *decimal.Decimal `json:"margin"`
	MarginLabel          string           `json:"margin_label"`
}

// BuildQuote 计算单件成本与毛利
func BuildQuote(input QuoteInput, rates Rates) Quote {
	currency, _ := NormalizeCurrency(input.Currency)
	count := packageCountOrDefault(input.PackageCount)
	quote := Quote{
		Currency:    currency,
		TotalPieces: TotalPieces(count, input.UnitsPerPackage),
	}
	local, ok := ToLocal(input.PricePerPackage, currency, rates)
	if !ok {
		return quote
	}
	localRounded := local.Round(2)
	quote.PricePerPackageLocal = &localRounded

	perPiece, ok := PerPieceCost(count, input.UnitsPerPackage, local)
	if !ok {
		return quote
	}
	perPieceRounded := perPiece.Round(2)
	quote.PerPieceCost = &perPieceRounded

	if input.SellPrice.Valid {
		margin := Margin(input.SellPrice.Decimal, perPiece).Round(2)
		quote.Margin = &margin
		quote.MarginLabel = FormatSigned(margin)
	}
	return quote
}
