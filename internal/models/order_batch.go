package models

import "time"

// OrderBatch 已发放的批次号台账，批次号一经发放不再复用
type OrderBatch struct {
	BatchID    string    `gorm:"primaryKey;type:varchar(32)" json:"batch_id"`       // 批次号
	BatchDate  string    `gorm:"type:varchar(10);not null;index" json:"batch_date"` // 批次日期 YYYY-MM-DD
	MovedCount int       `gorm:"not null;default:0" json:"moved_count"`             // 归批时移入的商品数
	CreatedAt  time.Time `json:"created_at"`                                        // 发放时间
}

// TableName 指定表名
func (OrderBatch) TableName() string {
	return "store_order_batches"
}
