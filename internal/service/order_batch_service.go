package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/costing"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"

	"gorm.io/gorm"
)

// BatchResult 购物车归批结果
type BatchResult struct {
	BatchID    string    `json:"batch_id"`
	MovedCount int       `json:"moved_count"`
	BatchedAt  time.Time `json:"batched_at"`
}

// BatchSummary 批次汇总
type BatchSummary struct {
	BatchID        string     `json:"batch_id"`
	ItemCount      int        `json:"item_count"`
	TotalPieces    int        `json:"total_pieces"`
	FirstBatchedAt *time.Time `json:"first_batched_at"`
}

// PurchaseItem 购物车或批次中的一项，Entry 为 nil 表示镜像中已无该商品
type PurchaseItem struct {
	Extension   models.PurchaseExtension `json:"extension"`
	Entry       *models.CatalogEntry     `json:"entry"`
	TotalPieces int                      `json:"total_pieces"`
}

// OrderBatchService 采购批次服务
type OrderBatchService struct {
	repo        repository.PurchaseExtensionRepository
	catalogRepo repository.CatalogRepository
	location    *time.Location
	now         func() time.Time
}

// NewOrderBatchService 创建批次服务，location 决定批次号使用的日期
func NewOrderBatchService(repo repository.PurchaseExtensionRepository, catalogRepo repository.CatalogRepository, location *time.Location) *OrderBatchService {
	if location == nil {
		location = time.UTC
	}
	return &OrderBatchService{
		repo:        repo,
		catalogRepo: catalogRepo,
		location:    location,
		now:         time.Now,
	}
}

// CollapseCartToBatch 将购物车中的全部商品一次性归入当日新批次，要么全部成功要么全部回滚
func (s *OrderBatchService) CollapseCartToBatch(ctx context.Context) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()
	date := now.In(s.location).Format(constants.BatchIDDateLayout)
	result := &BatchResult{BatchedAt: now}

	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.ListCart()
		if err != nil {
			return storageError("list cart", err)
		}
		if len(cart) == 0 {
			return ErrCartEmpty
		}
		existing, err := repo.ListBatchIDsByDate(date)
		if err != nil {
			return storageError("list batch ids", err)
		}
		batchID := nextBatchID(date, existing)
		for _, ext := range cart {
			affected, err := repo.AssignBatch(ext.ExternalID, batchID, now)
			if err != nil {
				return storageError("assign batch", err)
			}
			if affected != 1 {
				return fmt.Errorf("%w: external id %d", ErrBatchConflict, ext.ExternalID)
			}
		}
		if err := repo.CreateBatchRecord(&models.OrderBatch{
			BatchID:    batchID,
			BatchDate:  date,
			MovedCount: len(cart),
			CreatedAt:  now,
		}); err != nil {
			return storageError("record batch", err)
		}
		result.BatchID = batchID
		result.MovedCount = len(cart)
		return nil
	})
	if err != nil {
		logger.Component("order_batch").Warnw("order_batch_collapse_failed", "date", date, "error", err)
		return nil, err
	}
	logger.Component("order_batch").Infow("order_batch_collapsed", "batch_id", result.BatchID, "moved", result.MovedCount)
	return result, nil
}

// nextBatchID 当日已发放过批次号时依次使用 -2、-3 ... 后缀，已清空的批次号也不复用
func nextBatchID(date string, existing []string) string {
	if len(existing) == 0 {
		return date
	}
	highest := 0
	for _, id := range existing {
		if id == date {
			if highest < 1 {
				highest = 1
			}
			continue
		}
		suffix, ok := strings.CutPrefix(id, date+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 2 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	if highest == 0 {
		return date
	}
	return fmt.Sprintf("%s-%d", date, highest+1)
}

// ListCart 购物车中的商品
func (s *OrderBatchService) ListCart() ([]PurchaseItem, error) {
	rows, err := s.repo.ListCart()
	if err != nil {
		return nil, storageError("list cart", err)
	}
	return s.attachEntries(rows)
}

// ListBatches 所有批次的汇总，按归批时间倒序
func (s *OrderBatchService) ListBatches() ([]BatchSummary, error) {
	rows, err := s.repo.ListBatched()
	if err != nil {
		return nil, storageError("list batched", err)
	}
	byID := make(map[string]*BatchSummary)
	order := make([]string, 0)
	for i := range rows {
		row := rows[i]
		if row.OrderBatchID == nil {
			continue
		}
		id := *row.OrderBatchID
		summary, ok := byID[id]
		if !ok {
			summary = &BatchSummary{BatchID: id}
			byID[id] = summary
			order = append(order, id)
		}
		summary.ItemCount++
		summary.TotalPieces += costing.TotalPieces(row.PurchasePackageCount, row.PurchaseUnitsPerPackage)
		if row.BatchedAt != nil && (summary.FirstBatchedAt == nil || row.BatchedAt.Before(*summary.FirstBatchedAt)) {
			at := *row.BatchedAt
			summary.FirstBatchedAt = &at
		}
	}
	summaries := make([]BatchSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byID[id])
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].FirstBatchedAt, summaries[j].FirstBatchedAt
		if a != nil && b != nil && !a.Equal(*b) {
			return a.After(*b)
		}
		return summaries[i].BatchID > summaries[j].BatchID
	})
	return summaries, nil
}

// ListBatchItems 指定批次中的商品
func (s *OrderBatchService) ListBatchItems(batchID string) ([]PurchaseItem, error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, ErrBatchNotFound
	}
	rows, err := s.repo.ListByBatch(batchID)
	if err != nil {
		return nil, storageError("list batch", err)
	}
	if len(rows) == 0 {
		return nil, ErrBatchNotFound
	}
	return s.attachEntries(rows)
}

func (s *OrderBatchService) attachEntries(rows []models.PurchaseExtension) ([]PurchaseItem, error) {
	items := make([]PurchaseItem, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}
	entryByID := make(map[int64]models.CatalogEntry, len(rows))
	if s.catalogRepo != nil {
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ExternalID)
		}
		entries, err := s.catalogRepo.ListByIDs(ids)
		if err != nil {
			return nil, storageError("list catalog entries", err)
		}
		for _, entry := range entries {
			entryByID[entry.ExternalID] = entry
		}
	}
	for _, row := range rows {
		item := PurchaseItem{
			Extension:   row,
			TotalPieces: costing.TotalPieces(row.PurchasePackageCount, row.PurchaseUnitsPerPackage),
		}
		if entry, ok := entryByID[row.ExternalID]; ok {
			item.Entry = &entry
		}
		items = append(items, item)
	}
	return items, nil
}
