package models

import (
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
)

// CatalogEntry 外部商城商品镜像（商品或变体）
type CatalogEntry struct {
	ExternalID          int64          `gorm:"primaryKey;autoIncrement:false" json:"external_id"`               // 外部商城 ID（主键）
	ParentID            *int64         `gorm:"index" json:"parent_id"`                                          // 变体所属父商品 ID
	Type                string         `gorm:"type:varchar(20);not null;default:'simple';index" json:"type"`    // simple / variable / variation
	Name                string         `gorm:"type:varchar(255);not null" json:"name"`                          // 商品名称
	SKU                 string         `gorm:"column:sku;type:varchar(100);index" json:"sku"`                   // SKU（可为空）
	Status              string         `gorm:"type:varchar(20);not null;default:'publish';index" json:"status"` // publish / draft / private / pending
	StockQuantity       int            `gorm:"not null;default:0" json:"stock_quantity"`                        // 库存（可能为负）
	RegularPrice        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"regular_price"`      // 原价
	SalePrice           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"sale_price"`         // 促销价（0 表示无）
	Weight              string         `gorm:"type:varchar(32)" json:"weight"`                                  // 重量（原样保存）
	Images              StringArray    `gorm:"type:json" json:"images"`                                         // 图片 URL 列表
	Categories          CategoryRefs   `gorm:"type:json" json:"categories"`                                     // 分类
	Attributes          AttributePairs `gorm:"type:json" json:"attributes"`                                     // 变体属性
	IsMissingFromSource bool           `gorm:"not null;default:false;index" json:"is_missing_from_source"`      // 外部已不存在
	LastSyncedAt        *time.Time     `json:"last_synced_at"`                                                  // 最近同步时间
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (CatalogEntry) TableName() string {
	return "store_products"
}

// IsParent 是否为顶层商品
func (e *CatalogEntry) IsParent() bool {
	return e != nil && e.ParentID == nil
}

// CarriesStock 只有 simple 与 variation 才有真实库存/采购语义
func (e *CatalogEntry) CarriesStock() bool {
	if e == nil {
		return false
	}
	return e.Type == constants.CatalogTypeSimple || e.Type == constants.CatalogTypeVariation
}

// HasDiscount 0 < 促销价 < 原价
func (e *CatalogEntry) HasDiscount() bool {
	if e == nil || !e.SalePrice.IsSet() {
		return false
	}
	return e.SalePrice.LessThan(e.RegularPrice.Decimal)
}

// SellPrice 实际售价：有效促销价优先，否则原价
func (e *CatalogEntry) SellPrice() Money {
	if e == nil {
		return Money{}
	}
	if e.HasDiscount() {
		return e.SalePrice
	}
	return e.RegularPrice
}
