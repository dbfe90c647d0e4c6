package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/cache"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/woocommerce"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogSource 外部商城商品数据源
type CatalogSource interface {
	PerPage() int
	ListProducts(ctx context.Context, page int) (*woocommerce.Page, error)
	ListVariations(ctx context.Context, parentID int64, page int) (*woocommerce.Page, error)
	GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error)
	GetVariation(ctx context.Context, parentID, id int64) (*woocommerce.Product, error)
}

// SyncResult 全量同步结果，Failed > 0 表示部分失败
type SyncResult struct {
	RunID           string    `json:"run_id"`
	Updated         int       `json:"updated"`
	Failed          int       `json:"failed"`
	Total           int       `json:"total"`
	MarkedMissing   int64     `json:"marked_missing"`
	Restored        int       `json:"restored"`
	ListingComplete bool      `json:"listing_complete"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// Partial 是否存在失败条目或未完成的分页
func (r *SyncResult) Partial() bool {
	return r != nil && (r.Failed > 0 || !r.ListingComplete)
}

// CatalogSyncService 商城镜像同步服务
type CatalogSyncService struct {
	source  CatalogSource
	repo    repository.CatalogRepository
	queue   SyncEnqueuer
	lockTTL time.Duration
	now     func() time.Time
}

// NewCatalogSyncService 创建同步服务，source 为 nil 表示未配置外部商城
func NewCatalogSyncService(source CatalogSource, repo repository.CatalogRepository, lockTTL time.Duration) *CatalogSyncService {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &CatalogSyncService{
		source:  source,
		repo:    repo,
		lockTTL: lockTTL,
		now:     time.Now,
	}
}

// Configured 是否已配置外部商城
func (s *CatalogSyncService) Configured() bool {
	return s != nil && s.source != nil
}

type syncRun struct {
	result         *SyncResult
	seen           map[int64]struct{}
	exemptParents  map[int64]struct{}
	previouslyLost map[int64]struct{}
}

// Sync 拉取全部商品与变体并按外部 ID 写入镜像，结束后标记外部已不存在的条目
func (s *CatalogSyncService) Sync(ctx context.Context) (*SyncResult, error) {
	if !s.Configured() {
		return nil, ErrStoreNotConfigured
	}
	runID := uuid.NewString()
	log := logger.Component("catalog_sync", "run_id", runID)

	locked, err := cache.AcquireLock(ctx, constants.CacheKeyCatalogSyncLock, runID, s.lockTTL)
	if err != nil {
		log.Warnw("catalog_sync_lock_failed", "error", err)
	} else if !locked {
		return nil, ErrSyncInProgress
	}
	if locked {
		defer func() {
			if err := cache.ReleaseLock(context.Background(), constants.CacheKeyCatalogSyncLock, runID); err != nil {
				log.Warnw("catalog_sync_unlock_failed", "error", err)
			}
		}()
	}

	refs, err := s.repo.ListIDRefs()
	if err != nil {
		return nil, err
	}
	run := &syncRun{
		result:         &SyncResult{RunID: runID, ListingComplete: true, StartedAt: s.now()},
		seen:           make(map[int64]struct{}, len(refs)),
		exemptParents:  make(map[int64]struct{}),
		previouslyLost: make(map[int64]struct{}),
	}
	for _, ref := range refs {
		if ref.IsMissingFromSource {
			run.previouslyLost[ref.ExternalID] = struct{}{}
		}
	}
	log.Infow("catalog_sync_started", "mirrored", len(refs))

	perPage := s.source.PerPage()
	for page := 1; ; page++ {
		batch, err := s.source.ListProducts(ctx, page)
		if err != nil {
			if page == 1 {
				log.Warnw("catalog_sync_first_page_failed", "error", err)
				return nil, fmt.Errorf("%w: %v", ErrTransientIO, err)
			}
			run.result.ListingComplete = false
			log.Warnw("catalog_sync_page_failed", "page", page, "error", err)
			break
		}
		for i := range batch.Items {
			product := batch.Items[i]
			s.syncItem(run, product, log)
			if strings.EqualFold(product.Type, constants.CatalogTypeVariable) {
				s.syncVariations(ctx, run, product.ID, log)
			}
		}
		if !batch.HasNext(perPage) {
			break
		}
	}

	if run.result.ListingComplete {
		missing := collectMissing(refs, run)
		marked, err := s.repo.MarkMissing(missing)
		if err != nil {
			log.Warnw("catalog_sync_mark_missing_failed", "candidates", len(missing), "error", err)
		}
		run.result.MarkedMissing = marked
	} else {
		log.Warnw("catalog_sync_mark_missing_skipped", "reason", "listing_incomplete")
	}

	run.result.FinishedAt = s.now()
	s.storeSnapshot(ctx, run.result, log)
	log.Infow("catalog_sync_finished",
		"updated", run.result.Updated,
		"failed", run.result.Failed,
		"total", run.result.Total,
		"marked_missing", run.result.MarkedMissing,
		"restored", run.result.Restored,
		"listing_complete", run.result.ListingComplete,
	)
	return run.result, nil
}

func (s *CatalogSyncService) syncVariations(ctx context.Context, run *syncRun, parentID int64, log *zap.SugaredLogger) {
	perPage := s.source.PerPage()
	for page := 1; ; page++ {
		batch, err := s.source.ListVariations(ctx, parentID, page)
		if err != nil {
			run.exemptParents[parentID] = struct{}{}
			run.result.Failed++
			log.Warnw("catalog_sync_variations_failed", "parent_id", parentID, "page", page, "error", err)
			return
		}
		for i := range batch.Items {
			variation := batch.Items[i]
			if variation.ParentID <= 0 {
				variation.ParentID = parentID
			}
			s.syncItem(run, variation, log)
		}
		if !batch.HasNext(perPage) {
			return
		}
	}
}

func (s *CatalogSyncService) syncItem(run *syncRun, product woocommerce.Product, log *zap.SugaredLogger) {
	run.result.Total++
	if product.ID > 0 {
		run.seen[product.ID] = struct{}{}
	}
	entry, err := mapProductToEntry(product)
	if err == nil {
		err = s.repo.Upsert(entry)
	}
	if err != nil {
		run.result.Failed++
		log.Warnw("catalog_sync_item_failed", "external_id", product.ID, "parent_id", product.ParentID, "error", err)
		return
	}
	run.result.Updated++
	if _, ok := run.previouslyLost[product.ID]; ok {
		run.result.Restored++
		delete(run.previouslyLost, product.ID)
	}
}

func collectMissing(refs []repository.CatalogIDRef, run *syncRun) []int64 {
	missing := make([]int64, 0)
	for _, ref := range refs {
		if ref.IsMissingFromSource {
			continue
		}
		if _, ok := run.seen[ref.ExternalID]; ok {
			continue
		}
		if ref.ParentID != nil {
			if _, exempt := run.exemptParents[*ref.ParentID]; exempt {
				continue
			}
		}
		missing = append(missing, ref.ExternalID)
	}
	return missing
}

func (s *CatalogSyncService) storeSnapshot(ctx context.Context, result *SyncResult, log *zap.SugaredLogger) {
	snapshot := &cache.CatalogSyncSnapshot{
		RunID:         result.RunID,
		Updated:       result.Updated,
		Failed:        result.Failed,
		Total:         result.Total,
		MarkedMissing: result.MarkedMissing,
		Restored:      result.Restored,
		Partial:       result.Partial(),
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
	}
	if err := cache.SetCatalogSyncSnapshot(ctx, snapshot); err != nil {
		log.Warnw("catalog_sync_snapshot_failed", "error", err)
	}
}

// LastSnapshot 最近一次全量同步快照，未启用 Redis 或没有记录时返回 nil
func (s *CatalogSyncService) LastSnapshot(ctx context.Context) (*cache.CatalogSyncSnapshot, error) {
	return cache.GetCatalogSyncSnapshot(ctx)
}

// SyncOne 拉取单个商品（parentID 非空时为变体）并写入镜像
func (s *CatalogSyncService) SyncOne(ctx context.Context, externalID int64, parentID *int64) (*models.CatalogEntry, error) {
	if externalID <= 0 || (parentID != nil && *parentID <= 0) {
		return nil, ErrExternalIDInvalid
	}
	if !s.Configured() {
		return nil, ErrStoreNotConfigured
	}
	var (
		product *woocommerce.Product
		err     error
	)
	if parentID != nil {
		product, err = s.source.GetVariation(ctx, *parentID, externalID)
	} else {
		product, err = s.source.GetProduct(ctx, externalID)
	}
	if err != nil {
		if errors.Is(err, woocommerce.ErrNotFound) {
			return nil, ErrCatalogEntryNotFound
		}
		logger.Warnw("catalog_sync_one_fetch_failed", "external_id", externalID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTransientIO, err)
	}
	if parentID != nil && product.ParentID <= 0 {
		product.ParentID = *parentID
	}
	entry, err := mapProductToEntry(*product)
	if err != nil {
		if errors.Is(err, ErrExternalIDInvalid) {
			return nil, err
		}
		logger.Warnw("catalog_sync_one_map_failed", "external_id", externalID, "error", err)
		return nil, fmt.Errorf("%w: map product %d: %w", ErrTransientIO, externalID, err)
	}
	if err := s.repo.Upsert(entry); err != nil {
		return nil, storageError("upsert catalog entry", err)
	}
	logger.Infow("catalog_sync_one_finished", "external_id", externalID, "type", entry.Type)
	return entry, nil
}

// mapProductToEntry 将外部商品转换为镜像行
func mapProductToEntry(product woocommerce.Product) (*models.CatalogEntry, error) {
	if product.ID <= 0 {
		return nil, ErrExternalIDInvalid
	}
	regular, err := models.ParseMoney(product.RegularPrice)
	if err != nil {
		return nil, fmt.Errorf("parse regular price %q: %w", product.RegularPrice, err)
	}
	sale, err := models.ParseMoney(product.SalePrice)
	if err != nil {
		return nil, fmt.Errorf("parse sale price %q: %w", product.SalePrice, err)
	}

	entry := &models.CatalogEntry{
		ExternalID:   product.ID,
		Type:         normalizeEntryType(product),
		Name:         strings.TrimSpace(product.Name),
		SKU:          strings.TrimSpace(product.SKU),
		Status:       strings.TrimSpace(product.Status),
		RegularPrice: regular,
		SalePrice:    sale,
		Weight:       strings.TrimSpace(product.Weight),
		Images:       models.StringArray{},
		Categories:   models.CategoryRefs{},
		Attributes:   models.AttributePairs{},
	}
	if entry.Status == "" {
		entry.Status = constants.CatalogStatusPublish
	}
	if product.ParentID > 0 {
		parentID := product.ParentID
		entry.ParentID = &parentID
	}
	if product.StockQuantity != nil {
		entry.StockQuantity = *product.StockQuantity
	}
	for _, image := range product.Images {
		if src := strings.TrimSpace(image.Src); src != "" {
			entry.Images = append(entry.Images, src)
		}
	}
	if product.Image != nil && len(entry.Images) == 0 {
		if src := strings.TrimSpace(product.Image.Src); src != "" {
			entry.Images = append(entry.Images, src)
		}
	}
	for _, category := range product.Categories {
		entry.Categories = append(entry.Categories, models.CategoryRef{ID: category.ID, Name: category.Name})
	}
	for _, attribute := range product.Attributes {
		option := strings.TrimSpace(attribute.Option)
		if option == "" && len(attribute.Options) > 0 {
			option = strings.Join(attribute.Options, ", ")
		}
		entry.Attributes = append(entry.Attributes, models.AttributePair{Name: attribute.Name, Option: option})
	}
	return entry, nil
}

func normalizeEntryType(product woocommerce.Product) string {
	switch strings.ToLower(strings.TrimSpace(product.Type)) {
	case constants.CatalogTypeVariable:
		return constants.CatalogTypeVariable
	case constants.CatalogTypeVariation:
		return constants.CatalogTypeVariation
	case "":
		if product.ParentID > 0 {
			return constants.CatalogTypeVariation
		}
		return constants.CatalogTypeSimple
	default:
		if product.ParentID > 0 {
			return constants.CatalogTypeVariation
		}
		return constants.CatalogTypeSimple
	}
}
