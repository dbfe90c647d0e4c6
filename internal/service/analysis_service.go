package service

import (
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/costing"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

// AnalysisService 资产与采购汇总服务
type AnalysisService struct {
	overviewRepo       repository.StoreOverviewRepository
	catalogRepo        repository.CatalogRepository
	extensionRepo      repository.PurchaseExtensionRepository
	defaultExcludedIDs []int64
}

// NewAnalysisService 创建汇总服务，defaultExcludedIDs 为未指定时排除的分类
func NewAnalysisService(overviewRepo repository.StoreOverviewRepository, catalogRepo repository.CatalogRepository, extensionRepo repository.PurchaseExtensionRepository, defaultExcludedIDs []int64) *AnalysisService {
	return &AnalysisService{
		overviewRepo:       overviewRepo,
		catalogRepo:        catalogRepo,
		extensionRepo:      extensionRepo,
		defaultExcludedIDs: append([]int64(nil), defaultExcludedIDs...),
	}
}

// AnalysisInput 汇总参数，ExcludeCategoryIDs 为 nil 时使用默认配置
type AnalysisInput struct {
	Rates              costing.Rates
	ExcludeCategoryIDs []int64
}

// AnalysisOverview 镜像与采购概况
type AnalysisOverview struct {
	CatalogTotal      int64      `json:"catalog_total"`
	ParentProducts    int64      `json:"parent_products"`
	Variations        int64      `json:"variations"`
	MissingFromSource int64      `json:"missing_from_source"`
	OutOfStock        int64      `json:"out_of_stock"`
	Extensions        int64      `json:"extensions"`
	CartItems         int64      `json:"cart_items"`
	BatchedItems      int64      `json:"batched_items"`
	Batches           int64      `json:"batches"`
	LastSyncedAt      *time.Time `json:"last_synced_at"`
}

// AnalysisResult 汇总结果
type AnalysisResult struct {
	Overview            AnalysisOverview      `json:"overview"`
	TotalAssetValue     decimal.Decimal       `json:"total_asset_value"`
	TotalPurchaseValue  costing.PurchaseValue `json:"total_purchase_value"`
	CartPurchaseValue   costing.PurchaseValue `json:"cart_purchase_value"`
	ExcludedCategoryIDs []int64               `json:"excluded_category_ids"`
}

// Analyze 计算库存资产总值与采购总值
func (s *AnalysisService) Analyze(input AnalysisInput) (*AnalysisResult, error) {
	row, err := s.overviewRepo.GetOverview()
	if err != nil {
		return nil, storageError("get overview", err)
	}
	entries, err := s.catalogRepo.ListAll()
	if err != nil {
		return nil, storageError("list catalog", err)
	}
	extensions, err := s.extensionRepo.ListAll()
	if err != nil {
		return nil, storageError("list extensions", err)
	}

	excluded := input.ExcludeCategoryIDs
	if excluded == nil {
		excluded = s.defaultExcludedIDs
	}
	cart := make([]models.PurchaseExtension, 0)
	for i := range extensions {
		if extensions[i].InCart() {
			cart = append(cart, extensions[i])
		}
	}

	return &AnalysisResult{
		Overview: AnalysisOverview{
			CatalogTotal:      row.CatalogTotal,
			ParentProducts:    row.ParentProducts,
			Variations:        row.Variations,
			MissingFromSource: row.MissingFromSource,
			OutOfStock:        row.OutOfStock,
			Extensions:        row.Extensions,
			CartItems:         row.CartItems,
			BatchedItems:      row.BatchedItems,
			Batches:           row.Batches,
			LastSyncedAt:      row.LastSyncedAt,
		},
		TotalAssetValue:     costing.TotalAssetValue(entries, costing.ExcludeCategoriesInherited(entries, excluded...)).Round(2),
		TotalPurchaseValue:  costing.TotalPurchaseValue(extensions, input.Rates),
		CartPurchaseValue:   costing.TotalPurchaseValue(cart, input.Rates),
		ExcludedCategoryIDs: append([]int64{}, excluded...),
	}, nil
}

// Quote 单件成本与毛利试算
func (s *AnalysisService) Quote(input costing.QuoteInput, rates costing.Rates) costing.Quote {
	return costing.BuildQuote(input, rates)
}
