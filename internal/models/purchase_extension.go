package models

import (
	"sort"
	"strings"
	"time"
)

// PurchaseExtension 商品的本地采购扩展字段（按外部商城 ID 关联）
type PurchaseExtension struct {
	ExternalID              int64       `gorm:"primaryKey;autoIncrement:false" json:"external_id"`               // 外部商城 ID（主键）
	SupplierNames           StringArray `gorm:"type:json" json:"supplier_names"`                                 // 供应商集合（已归一化）
	Note                    string      `gorm:"type:text" json:"note"`                                           // 备注
	BackupLocation          string      `gorm:"type:varchar(64)" json:"backup_location"`                         // 备货位置编码
	Purchased               bool        `gorm:"not null;default:false;index" json:"purchased"`                   // 是否已采购
	PurchasePackageCount    int         `gorm:"not null;default:1" json:"purchase_package_count"`                // 包数
	PurchaseUnitsPerPackage int         `gorm:"not null;default:0" json:"purchase_units_per_package"`            // 每包件数
	PurchasePrice           Money       `gorm:"type:decimal(20,2);not null;default:0" json:"purchase_price"`     // 单包采购价
	PurchaseCurrency        string      `gorm:"type:varchar(3);not null;default:'IDR'" json:"purchase_currency"` // 采购币种
	OrderBatchID            *string     `gorm:"type:varchar(32);index" json:"order_batch_id"`                    // 批次号，nil 表示在购物车
	PurchasedAt             *time.Time  `json:"purchased_at"`                                                    // 标记采购时间
	BatchedAt               *time.Time  `json:"batched_at"`                                                      // 归入批次时间
	CreatedAt               time.Time   `json:"created_at"`                                                      // 创建时间
	UpdatedAt               time.Time   `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (PurchaseExtension) TableName() string {
	return "store_product_extensions"
}

// InCart 已采购且尚未归入批次
func (p *PurchaseExtension) InCart() bool {
	return p != nil && p.Purchased && p.OrderBatchID == nil
}

// Batched 已归入批次
func (p *PurchaseExtension) Batched() bool {
	return p != nil && p.Purchased && p.OrderBatchID != nil
}

// HasPurchaseData 是否记录了有效的采购成本
func (p *PurchaseExtension) HasPurchaseData() bool {
	return p != nil && p.Purchased && p.PurchaseUnitsPerPackage > 0 && p.PurchasePrice.IsSet()
}

// NormalizeSupplierNames 去首尾空格、忽略大小写去重并排序，保留首次出现的写法
func NormalizeSupplierNames(names []string) StringArray {
	seen := make(map[string]struct{}, len(names))
	result := make(StringArray, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i]) < strings.ToLower(result[j])
	})
	return result
}
