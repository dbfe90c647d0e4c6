package repository

import (
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"gorm.io/gorm"
)

// StoreOverviewRepository 商城镜像聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type StoreOverviewRepository interface {
	GetOverview() (StoreOverviewRow, error)
}

// GormStoreOverviewRepository GORM 聚合实现
type GormStoreOverviewRepository struct {
	db *gorm.DB
}

// NewStoreOverviewRepository 创建聚合仓库
func NewStoreOverviewRepository(db *gorm.DB) *GormStoreOverviewRepository {
	return &GormStoreOverviewRepository{db: db}
}

// GetOverview 获取镜像与采购概况
func (r *GormStoreOverviewRepository) GetOverview() (StoreOverviewRow, error) {
	result := StoreOverviewRow{}

	catalogBase := func() *gorm.DB {
		return r.db.Model(&models.CatalogEntry{})
	}
	if err := catalogBase().Count(&result.CatalogTotal).Error; err != nil {
		return result, err
	}
	if err := catalogBase().Where("parent_id IS NULL").Count(&result.ParentProducts).Error; err != nil {
		return result, err
	}
	if err := catalogBase().Where("type = ?", constants.CatalogTypeVariation).Count(&result.Variations).Error; err != nil {
		return result, err
	}
	if err := catalogBase().Where("is_missing_from_source = ?", true).Count(&result.MissingFromSource).Error; err != nil {
		return result, err
	}
	stockTypes := []string{constants.CatalogTypeSimple, constants.CatalogTypeVariation}
	if err := catalogBase().
		Where("type IN ? AND stock_quantity <= 0 AND is_missing_from_source = ?", stockTypes, false).
		Count(&result.OutOfStock).Error; err != nil {
		return result, err
	}

	extensionBase := func() *gorm.DB {
		return r.db.Model(&models.PurchaseExtension{})
	}
	if err := extensionBase().Count(&result.Extensions).Error; err != nil {
		return result, err
	}
	if err := extensionBase().Where("purchased = ? AND order_batch_id IS NULL", true).Count(&result.CartItems).Error; err != nil {
		return result, err
	}
	if err := extensionBase().Where("order_batch_id IS NOT NULL").Count(&result.BatchedItems).Error; err != nil {
		return result, err
	}
	if err := extensionBase().Where("order_batch_id IS NOT NULL").
		Distinct("order_batch_id").
		Count(&result.Batches).Error; err != nil {
		return result, err
	}

	var latest models.CatalogEntry
	err := catalogBase().
		Where("last_synced_at IS NOT NULL").
		Order("last_synced_at DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return result, err
	}
	result.LastSyncedAt = latest.LastSyncedAt
	return result, nil
}
