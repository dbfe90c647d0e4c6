package costing

import (
	"strings"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"github.com/shopspring/decimal"
)

// Rates 外币兑本币汇率，未设置的币种无法换算
type Rates struct {
	CNY decimal.NullDecimal
	USD decimal.NullDecimal
}

// NewRates 根据可选汇率创建，nil 或非正数视为未设置
func NewRates(cny, usd *decimal.Decimal) Rates {
	return Rates{CNY: nullRate(cny), USD: nullRate(usd)}
}

func nullRate(rate *decimal.Decimal) decimal.NullDecimal {
	if rate == nil || !rate.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *rate, Valid: true}
}

// NormalizeCurrency 空币种视为 IDR，返回是否为支持的币种
func NormalizeCurrency(currency string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return constants.CurrencyIDR, true
	}
	switch code {
	case constants.CurrencyIDR, constants.CurrencyCNY, constants.CurrencyUSD:
		return code, true
	default:
		return code, false
	}
}

// ToLocal 换算为本币，缺少汇率时返回 false，绝不按 1 处理
func ToLocal(amount decimal.Decimal, currency string, rates Rates) (decimal.Decimal, bool) {
	code, ok := NormalizeCurrency(currency)
	if !ok {
		return decimal.Zero, false
	}
	switch code {
	case constants.CurrencyCNY:
		if !rates.CNY.Valid {
			return decimal.Zero, false
		}
		return amount.Mul(rates.CNY.Decimal), true
	case constants.CurrencyUSD:
		if !rates.USD.Valid {
			return decimal.Zero, false
		}
		return amount.Mul(rates.USD.Decimal), true
	default:
		return amount, true
	}
}

// TotalPieces 包数 × 每包件数
func TotalPieces(packageCount, unitsPerPackage int) int {
	if packageCount <= 0 || unitsPerPackage <= 0 {
		return 0
	}
	return packageCount * unitsPerPackage
}

// PerPieceCost (单包价 × 包数) / (包数 × 每包件数)
func PerPieceCost(packageCount, unitsPerPackage int, pricePerPackageLocal decimal.Decimal) (decimal.Decimal, bool) {
	pieces := TotalPieces(packageCount, unitsPerPackage)
	if pieces <= 0 {
		return decimal.Zero, false
	}
	total := pricePerPackageLocal.Mul(decimal.NewFromInt(int64(packageCount)))
	return total.Div(decimal.NewFromInt(int64(pieces))), true
}

// Margin 售价 - 单件成本
func Margin(sellPrice, perPieceCost decimal.Decimal) decimal.Decimal {
	return sellPrice.Sub(perPieceCost)
}

// FormatSigned 始终带符号，保留 2 位小数
func FormatSigned(value decimal.Decimal) string {
	rounded := value.Round(2)
	if rounded.IsNegative() {
		return rounded.StringFixed(2)
	}
	return "+" + rounded.StringFixed(2)
}

// ExtensionPerPieceCost 扩展记录的本币单件成本
func ExtensionPerPieceCost(ext *models.PurchaseExtension, rates Rates) (decimal.Decimal, bool) {
	if !ext.HasPurchaseData() {
		return decimal.Zero, false
	}
	local, ok := ToLocal(ext.PurchasePrice.Decimal, ext.PurchaseCurrency, rates)
	if !ok {
		return decimal.Zero, false
	}
	return PerPieceCost(packageCountOrDefault(ext.PurchasePackageCount), ext.PurchaseUnitsPerPackage, local)
}

func packageCountOrDefault(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}
