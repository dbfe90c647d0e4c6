package repository

import (
	"errors"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseExtensionRepository 采购扩展数据访问接口
type PurchaseExtensionRepository interface {
	GetByID(externalID int64) (*models.PurchaseExtension, error)
	ListAll() ([]models.PurchaseExtension, error)
	SetNote(externalID int64, note string) error
	SetSuppliers(externalID int64, names models.StringArray) error
	SetBackupLocation(externalID int64, code string) error
	MarkPurchased(externalID int64, cost PurchaseCostFields, at time.Time) error
	UnmarkPurchased(externalID int64) (int64, error)
	UpdateCost(externalID int64, cost PurchaseCostFields) (int64, error)
	ListCart() ([]models.PurchaseExtension, error)
	ListBatched() ([]models.PurchaseExtension, error)
	ListByBatch(batchID string) ([]models.PurchaseExtension, error)
	ListBatchIDsByDate(date string) ([]string, error)
	AssignBatch(externalID int64, batchID string, at time.Time) (int64, error)
	CreateBatchRecord(batch *models.OrderBatch) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PurchaseExtensionRepository
}

// GormPurchaseExtensionRepository GORM 实现
type GormPurchaseExtensionRepository struct {
	db *gorm.DB
}

// NewPurchaseExtensionRepository 创建采购扩展仓库
func NewPurchaseExtensionRepository(db *gorm.DB) *GormPurchaseExtensionRepository {
	return &GormPurchaseExtensionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseExtensionRepository) WithTx(tx *gorm.DB) PurchaseExtensionRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseExtensionRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPurchaseExtensionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// upsertColumns 行不存在时创建，存在时仅覆盖指定列
func (r *GormPurchaseExtensionRepository) upsertColumns(row *models.PurchaseExtension, columns ...string) error {
	if row.SupplierNames == nil {
		row.SupplierNames = models.StringArray{}
	}
	updates := append(append([]string{}, columns...), "updated_at")
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(row).Error
}

// GetByID 根据外部 ID 获取扩展
func (r *GormPurchaseExtensionRepository) GetByID(externalID int64) (*models.PurchaseExtension, error) {
	var ext models.PurchaseExtension
	if err := r.db.First(&ext, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ext, nil
}

// ListAll 获取全部扩展
func (r *GormPurchaseExtensionRepository) ListAll() ([]models.PurchaseExtension, error) {
	var rows []models.PurchaseExtension
	if err := r.db.Order("external_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SetNote 写入备注
func (r *GormPurchaseExtensionRepository) SetNote(externalID int64, note string) error {
	return r.upsertColumns(&models.PurchaseExtension{ExternalID: externalID, Note: note}, "note")
}

// SetSuppliers 写入供应商集合
func (r *GormPurchaseExtensionRepository) SetSuppliers(externalID int64, names models.StringArray) error {
	return r.upsertColumns(&models.PurchaseExtension{ExternalID: externalID, SupplierNames: names}, "supplier_names")
}

// SetBackupLocation 写入备货位置
func (r *GormPurchaseExtensionRepository) SetBackupLocation(externalID int64, code string) error {
	return r.upsertColumns(&models.PurchaseExtension{ExternalID: externalID, BackupLocation: code}, "backup_location")
}

// MarkPurchased 标记已采购并写入成本，商品进入购物车
func (r *GormPurchaseExtensionRepository) MarkPurchased(externalID int64, cost PurchaseCostFields, at time.Time) error {
	row := &models.PurchaseExtension{
		ExternalID:              externalID,
		Purchased:               true,
		PurchasePackageCount:    cost.PackageCount,
		PurchaseUnitsPerPackage: cost.UnitsPerPackage,
		PurchasePrice:           cost.Price,
		PurchaseCurrency:        cost.Currency,
		OrderBatchID:            nil,
		PurchasedAt:             &at,
	}
	return r.upsertColumns(row,
		"purchased",
		"purchase_package_count",
		"purchase_units_per_package",
		"purchase_price",
		"purchase_currency",
		"order_batch_id",
		"purchased_at",
		"batched_at",
	)
}

// UnmarkPurchased 取消采购并移出批次，成本字段保留
func (r *GormPurchaseExtensionRepository) UnmarkPurchased(externalID int64) (int64, error) {
	result := r.db.Model(&models.PurchaseExtension{}).
		Where("external_id = ?", externalID).
		Updates(map[string]interface{}{
			"purchased":      false,
			"order_batch_id": nil,
			"batched_at":     nil,
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}

// UpdateCost 更新已采购商品的成本，不改变批次
func (r *GormPurchaseExtensionRepository) UpdateCost(externalID int64, cost PurchaseCostFields) (int64, error) {
	result := r.db.Model(&models.PurchaseExtension{}).
		Where("external_id = ? AND purchased = ?", externalID, true).
		Updates(map[string]interface{}{
			"purchase_package_count":     cost.PackageCount,
			"purchase_units_per_package": cost.UnitsPerPackage,
			"purchase_price":             cost.Price,
			"purchase_currency":          cost.Currency,
			"updated_at":                 time.Now(),
		})
	return result.RowsAffected, result.Error
}

// ListCart 已采购且未归入批次的扩展
func (r *GormPurchaseExtensionRepository) ListCart() ([]models.PurchaseExtension, error) {
	var rows []models.PurchaseExtension
	if err := r.db.Where("purchased = ? AND order_batch_id IS NULL", true).
		Order("external_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBatched 所有已归入批次的扩展
func (r *GormPurchaseExtensionRepository) ListBatched() ([]models.PurchaseExtension, error) {
	var rows []models.PurchaseExtension
	if err := r.db.Where("order_batch_id IS NOT NULL").
		Order("order_batch_id DESC, external_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByBatch 指定批次的扩展
func (r *GormPurchaseExtensionRepository) ListByBatch(batchID string) ([]models.PurchaseExtension, error) {
	var rows []models.PurchaseExtension
	if err := r.db.Where("order_batch_id = ?", batchID).
		Order("external_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBatchIDsByDate 查询某日已发放的批次号（含 -N 后缀），台账与仍带批次号的行取并集
func (r *GormPurchaseExtensionRepository) ListBatchIDsByDate(date string) ([]string, error) {
	var issued []string
	if err := r.db.Model(&models.OrderBatch{}).
		Where("batch_date = ?", date).
		Pluck("batch_id", &issued).Error; err != nil {
		return nil, err
	}
	var live []string
	if err := r.db.Model(&models.PurchaseExtension{}).
		Where("order_batch_id = ? OR order_batch_id LIKE ?", date, date+"-%").
		Distinct("order_batch_id").
		Pluck("order_batch_id", &live).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(issued)+len(live))
	ids := make([]string, 0, len(issued)+len(live))
	for _, id := range append(issued, live...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreateBatchRecord 登记新发放的批次号，重复发放会触发主键冲突
func (r *GormPurchaseExtensionRepository) CreateBatchRecord(batch *models.OrderBatch) error {
	if batch == nil || batch.BatchID == "" {
		return errors.New("order batch id is required")
	}
	return r.db.Create(batch).Error
}

// AssignBatch 将购物车中的单个商品归入批次，返回受影响行数
func (r *GormPurchaseExtensionRepository) AssignBatch(externalID int64, batchID string, at time.Time) (int64, error) {
	result := r.db.Model(&models.PurchaseExtension{}).
		Where("external_id = ? AND purchased = ? AND order_batch_id IS NULL", externalID, true).
		Updates(map[string]interface{}{
			"order_batch_id": batchID,
			"batched_at":     at,
			"updated_at":     at,
		})
	return result.RowsAffected, result.Error
}
