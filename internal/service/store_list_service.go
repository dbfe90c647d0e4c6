package service

import (
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/listing"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"
)

// StoreListService 商品列表服务：镜像叠加采购扩展后按层级输出
type StoreListService struct {
	catalogRepo   repository.CatalogRepository
	extensionRepo repository.PurchaseExtensionRepository
}

// NewStoreListService 创建列表服务
func NewStoreListService(catalogRepo repository.CatalogRepository, extensionRepo repository.PurchaseExtensionRepository) *StoreListService {
	return &StoreListService{catalogRepo: catalogRepo, extensionRepo: extensionRepo}
}

// ListRows 构建层级列表并按父商品分组分页，返回当前页与父组总数
func (s *StoreListService) ListRows(opts listing.ViewOptions, page, pageSize int) ([]listing.Row, int, error) {
	entries, err := s.catalogRepo.ListAll()
	if err != nil {
		return nil, 0, storageError("list catalog", err)
	}
	extensions, err := s.extensionRepo.ListAll()
	if err != nil {
		return nil, 0, storageError("list extensions", err)
	}
	rows := listing.Build(entries, extensions, opts)
	paged, total := listing.Paginate(rows, page, pageSize)
	return paged, total, nil
}

// ListEntries 分页查询镜像原始行
func (s *StoreListService) ListEntries(filter repository.CatalogListFilter) ([]models.CatalogEntry, int64, error) {
	entries, total, err := s.catalogRepo.List(filter)
	if err != nil {
		return nil, 0, storageError("list catalog", err)
	}
	return entries, total, nil
}

// GetEntry 获取单个镜像行
func (s *StoreListService) GetEntry(externalID int64) (*models.CatalogEntry, error) {
	if externalID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	entry, err := s.catalogRepo.GetByID(externalID)
	if err != nil {
		return nil, storageError("get catalog entry", err)
	}
	if entry == nil {
		return nil, ErrCatalogEntryNotFound
	}
	return entry, nil
}
