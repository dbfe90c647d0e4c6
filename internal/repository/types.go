package repository

import (
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
)

// CatalogListFilter 查询镜像商品列表的过滤条件
type CatalogListFilter struct {
	Page        int
	PageSize    int
	Search      string
	Type        string
	ParentID    *int64
	OnlyMissing bool
}

// CatalogIDRef 镜像商品 ID 与父 ID，用于同步后的缺失标记
type CatalogIDRef struct {
	ExternalID          int64
	ParentID            *int64
	IsMissingFromSource bool
}

// PurchaseCostFields 采购成本字段
type PurchaseCostFields struct {
	PackageCount    int
	UnitsPerPackage int
	Price           models.Money
	Currency        string
}

// StoreOverviewRow 商城镜像概况原始统计结果
type StoreOverviewRow struct {
	CatalogTotal      int64
	ParentProducts    int64
	Variations        int64
	MissingFromSource int64
	OutOfStock        int64
	Extensions        int64
	CartItems         int64
	BatchedItems      int64
	Batches           int64
	LastSyncedAt      *time.Time
}
