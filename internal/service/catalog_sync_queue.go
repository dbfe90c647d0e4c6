package service

import (
	"errors"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/queue"

	"github.com/hibiken/asynq"
)

// SyncEnqueuer 同步任务投递接口
type SyncEnqueuer interface {
	Enabled() bool
	EnqueueCatalogSync(payload queue.CatalogSyncPayload) (string, error)
	EnqueueCatalogSyncOne(payload queue.CatalogSyncOnePayload, opts ...asynq.Option) (string, error)
}

// SetQueue 设置异步任务投递客户端
func (s *CatalogSyncService) SetQueue(q SyncEnqueuer) {
	if s == nil {
		return
	}
	s.queue = q
}

// EnqueueSync 投递全量同步任务，已有排队任务时返回 ErrSyncInProgress
func (s *CatalogSyncService) EnqueueSync(requestID string) (string, error) {
	if !s.Configured() {
		return "", ErrStoreNotConfigured
	}
	if s.queue == nil || !s.queue.Enabled() {
		return "", ErrQueueUnavailable
	}
	taskID, err := s.queue.EnqueueCatalogSync(queue.CatalogSyncPayload{RequestID: requestID})
	if errors.Is(err, queue.ErrDuplicateTask) {
		return "", ErrSyncInProgress
	}
	if err != nil {
		logger.Warnw("catalog_sync_enqueue_failed", "request_id", requestID, "error", err)
		return "", err
	}
	logger.Infow("catalog_sync_enqueued", "request_id", requestID, "task_id", taskID)
	return taskID, nil
}

// EnqueueSyncOne 投递单个商品同步任务
func (s *CatalogSyncService) EnqueueSyncOne(externalID int64, parentID *int64, requestID string) (string, error) {
	if externalID <= 0 || (parentID != nil && *parentID <= 0) {
		return "", ErrExternalIDInvalid
	}
	if !s.Configured() {
		return "", ErrStoreNotConfigured
	}
	if s.queue == nil || !s.queue.Enabled() {
		return "", ErrQueueUnavailable
	}
	taskID, err := s.queue.EnqueueCatalogSyncOne(queue.CatalogSyncOnePayload{
		ExternalID: externalID,
		ParentID:   parentID,
		RequestID:  requestID,
	})
	if err != nil {
		logger.Warnw("catalog_sync_one_enqueue_failed", "external_id", externalID, "error", err)
		return "", err
	}
	return taskID, nil
}
