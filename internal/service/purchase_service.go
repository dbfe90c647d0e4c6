package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/costing"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"
)

const (
	maxNoteLength           = 5000
	maxBackupLocationLength = 64
	maxSupplierNameLength   = 100
	maxSupplierCount        = 20
)

// PurchaseCost 采购成本输入，PackageCount 为 0 时按 1 处理，Currency 为空时按 IDR 处理
type PurchaseCost struct {
	PackageCount    int          `json:"package_count"`
	UnitsPerPackage int          `json:"units_per_package"`
	Price           models.Money `json:"price"`
	Currency        string       `json:"currency"`
}

// PurchaseService 采购扩展服务
type PurchaseService struct {
	repo        repository.PurchaseExtensionRepository
	catalogRepo repository.CatalogRepository
	now         func() time.Time
}

// NewPurchaseService 创建采购扩展服务
func NewPurchaseService(repo repository.PurchaseExtensionRepository, catalogRepo repository.CatalogRepository) *PurchaseService {
	return &PurchaseService{repo: repo, catalogRepo: catalogRepo, now: time.Now}
}

// Get 获取扩展，不存在时返回默认值
func (s *PurchaseService) Get(externalID int64) (*models.PurchaseExtension, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	ext, err := s.repo.GetByID(externalID)
	if err != nil {
		return nil, storageError("get extension", err)
	}
	if ext == nil {
		return &models.PurchaseExtension{
			ExternalID:           externalID,
			SupplierNames:        models.StringArray{},
			PurchasePackageCount: 1,
			PurchaseCurrency:     constants.CurrencyIDR,
		}, nil
	}
	return ext, nil
}

// SetNote 写入备注
func (s *PurchaseService) SetNote(externalID int64, note string) (*models.PurchaseExtension, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	if len([]rune(note)) > maxNoteLength {
		note = string([]rune(note)[:maxNoteLength])
	}
	if err := s.repo.SetNote(externalID, note); err != nil {
		return nil, storageError("set note", err)
	}
	return s.Get(externalID)
}

// SetSuppliers 写入供应商集合（归一化后保存）
func (s *PurchaseService) SetSuppliers(externalID int64, names []string) (*models.PurchaseExtension, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	normalized := models.NormalizeSupplierNames(names)
	if len(normalized) > maxSupplierCount {
		return nil, ErrSupplierInvalid
	}
	for _, name := range normalized {
		if len([]rune(name)) > maxSupplierNameLength {
			return nil, ErrSupplierInvalid
		}
	}
	if err := s.repo.SetSuppliers(externalID, normalized); err != nil {
		return nil, storageError("set suppliers", err)
	}
	return s.Get(externalID)
}

// SetBackupLocation 写入备货位置
func (s *PurchaseService) SetBackupLocation(externalID int64, code string) (*models.PurchaseExtension, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	code = strings.TrimSpace(code)
	if len([]rune(code)) > maxBackupLocationLength {
		return nil, ErrBackupLocationInvalid
	}
	if err := s.repo.SetBackupLocation(externalID, code); err != nil {
		return nil, storageError("set backup location", err)
	}
	return s.Get(externalID)
}

// MarkPurchased 校验成本后标记已采购，商品进入购物车
func (s *PurchaseService) MarkPurchased(externalID int64, cost PurchaseCost) (*models.PurchaseExtension, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	fields, err := validatePurchaseCost(cost)
	if err != nil {
		return nil, err
	}
	if s.catalogRepo != nil {
		entry, err := s.catalogRepo.GetByID(externalID)
		if err != nil {
			return nil, storageError("get catalog entry", err)
		}
		if entry != nil && !entry.CarriesStock() {
			return nil, ErrNotPurchasable
		}
	}
	current, err := s.repo.GetByID(externalID)
	if err != nil {
		return nil, storageError("get extension", err)
	}
	if current != nil && current.Purchased {
		return nil, ErrAlreadyPurchased
	}
	if err := s.repo.MarkPurchased(externalID, fields, s.now()); err != nil {
		return nil, storageError("mark purchased", err)
	}
	logger.Infow("purchase_marked",
		"external_id", externalID,
		"package_count", fields.PackageCount,
		"units_per_package", fields.UnitsPerPackage,
		"price", fields.Price.String(),
		"currency", fields.Currency,
	)
	return s.Get(externalID)
}

// UnmarkPurchased 取消采购并清空批次号，无条件执行
func (s *PurchaseService) UnmarkPurchased(externalID int64) (*models.PurchaseExtension, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	current, err := s.repo.GetByID(externalID)
	if err != nil {
		return nil, storageError("get extension", err)
	}
	if current != nil {
		if _, err := s.repo.UnmarkPurchased(externalID); err != nil {
			return nil, storageError("unmark purchased", err)
		}
		if current.OrderBatchID != nil {
			logger.Infow("purchase_unmarked_from_batch", "external_id", externalID, "order_batch_id", *current.OrderBatchID)
		} else {
			logger.Infow("purchase_unmarked", "external_id", externalID)
		}
	}
	return s.Get(externalID)
}

// UpdateCost 修改已采购商品的成本，不改变批次归属
func (s *PurchaseService) UpdateCost(externalID int64, cost PurchaseCost) (*models.PurchaseExtension, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	fields, err := validatePurchaseCost(cost)
	if err != nil {
		return nil, err
	}
	affected, err := s.repo.UpdateCost(externalID, fields)
	if err != nil {
		return nil, storageError("update cost", err)
	}
	if affected == 0 {
		return nil, ErrNotPurchased
	}
	return s.Get(externalID)
}

// validatePurchaseCost 校验并归一化成本字段
func validatePurchaseCost(cost PurchaseCost) (repository.PurchaseCostFields, error) {
	packageCount := cost.PackageCount
	if packageCount == 0 {
		packageCount = 1
	}
	if packageCount < 0 {
		return repository.PurchaseCostFields{}, fmt.Errorf("%w: package count must be positive", ErrPurchaseCostInvalid)
	}
	if cost.UnitsPerPackage < 1 {
		return repository.PurchaseCostFields{}, fmt.Errorf("%w: units per package must be at least 1", ErrPurchaseCostInvalid)
	}
	if !cost.Price.IsSet() {
		return repository.PurchaseCostFields{}, fmt.Errorf("%w: price must be positive", ErrPurchaseCostInvalid)
	}
	currency, ok := costing.NormalizeCurrency(cost.Currency)
	if !ok {
		return repository.PurchaseCostFields{}, fmt.Errorf("%w: unsupported currency %q", ErrPurchaseCostInvalid, cost.Currency)
	}
	return repository.PurchaseCostFields{
		PackageCount:    packageCount,
		UnitsPerPackage: cost.UnitsPerPackage,
		Price:           models.NewMoneyFromDecimal(cost.Price.Decimal),
		Currency:        currency,
	}, nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransientIO, op, err)
}
