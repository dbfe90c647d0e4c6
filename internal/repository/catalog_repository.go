package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const markMissingChunkSize = 500

// catalogSyncedColumns 同步时由外部数据覆盖的列
var catalogSyncedColumns = []string{
	"parent_id",
	"type",
	"name",
	"sku",
	"status",
	"stock_quantity",
	"regular_price",
	"sale_price",
	"weight",
	"images",
	"categories",
	"attributes",
	"is_missing_from_source",
	"last_synced_at",
	"updated_at",
}

// CatalogRepository 商城镜像数据访问接口
type CatalogRepository interface {
	Upsert(entry *models.CatalogEntry) error
	GetByID(externalID int64) (*models.CatalogEntry, error)
	ListAll() ([]models.CatalogEntry, error)
	ListByIDs(externalIDs []int64) ([]models.CatalogEntry, error)
	List(filter CatalogListFilter) ([]models.CatalogEntry, int64, error)
	ListIDRefs() ([]CatalogIDRef, error)
	MarkMissing(externalIDs []int64) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CatalogRepository
}

// GormCatalogRepository GORM 实现
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建镜像仓库
func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCatalogRepository) WithTx(tx *gorm.DB) CatalogRepository {
	if tx == nil {
		return r
	}
	return &GormCatalogRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCatalogRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Upsert 按外部 ID 写入镜像，重复执行结果一致，同时清除缺失标记
func (r *GormCatalogRepository) Upsert(entry *models.CatalogEntry) error {
	if entry == nil || entry.ExternalID <= 0 {
		return errors.New("catalog entry external id is required")
	}
	now := time.Now()
	entry.IsMissingFromSource = false
	entry.LastSyncedAt = &now
	if entry.Images == nil {
		entry.Images = models.StringArray{}
	}
	if entry.Categories == nil {
		entry.Categories = models.CategoryRefs{}
	}
	if entry.Attributes == nil {
		entry.Attributes = models.AttributePairs{}
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(catalogSyncedColumns),
	}).Create(entry).Error
}

// GetByID 根据外部 ID 获取镜像
func (r *GormCatalogRepository) GetByID(externalID int64) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	if err := r.db.First(&entry, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ListAll 获取全部镜像（列表构建与汇总使用）
func (r *GormCatalogRepository) ListAll() ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := r.db.Order("external_id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByIDs 按外部 ID 批量获取镜像
func (r *GormCatalogRepository) ListByIDs(externalIDs []int64) ([]models.CatalogEntry, error) {
	entries := make([]models.CatalogEntry, 0, len(externalIDs))
	for _, chunk := range chunkIDs(externalIDs, markMissingChunkSize) {
		var rows []models.CatalogEntry
		if err := r.db.Where("external_id IN ?", chunk).Find(&rows).Error; err != nil {
			return nil, err
		}
		entries = append(entries, rows...)
	}
	return entries, nil
}

// List 分页查询镜像
func (r *GormCatalogRepository) List(filter CatalogListFilter) ([]models.CatalogEntry, int64, error) {
	var entries []models.CatalogEntry

	query := r.db.Model(&models.CatalogEntry{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"name", "sku"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if entryType := strings.TrimSpace(filter.Type); entryType != "" {
		query = query.Where("type = ?", entryType)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.OnlyMissing {
		query = query.Where("is_missing_from_source = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("external_id ASC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListIDRefs 获取所有镜像 ID 及父 ID
func (r *GormCatalogRepository) ListIDRefs() ([]CatalogIDRef, error) {
	var refs []CatalogIDRef
	if err := r.db.Model(&models.CatalogEntry{}).
		Select("external_id, parent_id, is_missing_from_source").
		Order("external_id ASC").
		Scan(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// MarkMissing 标记外部已不存在的镜像，只更新尚未标记的行
func (r *GormCatalogRepository) MarkMissing(externalIDs []int64) (int64, error) {
	var affected int64
	for _, chunk := range chunkIDs(externalIDs, markMissingChunkSize) {
		result := r.db.Model(&models.CatalogEntry{}).
			Where("external_id IN ? AND is_missing_from_source = ?", chunk, false).
			Update("is_missing_from_source", true)
		if result.Error != nil {
			return affected, result.Error
		}
		affected += result.RowsAffected
	}
	return affected, nil
}
