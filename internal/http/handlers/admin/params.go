package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/costing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var errQueryInvalid = errors.New("invalid query parameter")

func errQueryInvalidf(name, raw string) error {
	return fmt.Errorf("%w: %s=%q", errQueryInvalid, name, raw)
}

// parseExternalID 解析路径中的外部商城 ID
func parseExternalID(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", errQueryInvalid, name, raw)
	}
	return id, nil
}

// parseOptionalInt64 解析可选的正整数查询参数
func parseOptionalInt64(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("%w: %s=%q", errQueryInvalid, name, raw)
	}
	return &value, nil
}

// parseOptionalDecimal 解析可选的金额查询参数
func parseOptionalDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errQueryInvalid, name, raw)
	}
	return &value, nil
}

// parseOptionalBool 解析可选的布尔查询参数
func parseOptionalBool(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errQueryInvalid, name, raw)
	}
	return &value, nil
}

// parseInt64List 解析逗号分隔的 ID 列表，参数缺失时返回 nil
func parseInt64List(c *gin.Context, name string) ([]int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %s=%q", errQueryInvalid, name, raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseRates 解析 rate_cny / rate_usd 汇率参数
func parseRates(c *gin.Context) (costing.Rates, error) {
	cny, err := parseOptionalDecimal(c, "rate_cny")
	if err != nil {
		return costing.Rates{}, err
	}
	usd, err := parseOptionalDecimal(c, "rate_usd")
	if err != nil {
		return costing.Rates{}, err
	}
	return costing.NewRates(cny, usd), nil
}

func parsePage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return normalizePagination(page, pageSize)
}
