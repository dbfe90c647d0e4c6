package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/provider"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/queue"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCatalogSync, c.handleCatalogSync)
	mux.HandleFunc(queue.TaskCatalogSyncOne, c.handleCatalogSyncOne)
}

func (c *Consumer) handleCatalogSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.CatalogSyncService == nil {
		logger.Debugw("worker_catalog_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CatalogSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_catalog_sync_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	result, err := c.CatalogSyncService.Sync(ctx)
	if err != nil {
		if isPermanentSyncError(err) {
			logger.Warnw("worker_catalog_sync_skipped", "request_id", payload.RequestID, "error", err)
			return nil
		}
		logger.Warnw("worker_catalog_sync_failed", "request_id", payload.RequestID, "error", err)
		return err
	}
	logger.Infow("worker_catalog_sync_done",
		"request_id", payload.RequestID,
		"run_id", result.RunID,
		"updated", result.Updated,
		"failed", result.Failed,
		"partial", result.Partial(),
	)
	return nil
}

func (c *Consumer) handleCatalogSyncOne(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.CatalogSyncService == nil {
		logger.Debugw("worker_catalog_sync_one_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CatalogSyncOnePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_catalog_sync_one_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.ExternalID <= 0 {
		logger.Debugw("worker_catalog_sync_one_skip_invalid_payload", "external_id", payload.ExternalID)
		return nil
	}
	_, err := c.CatalogSyncService.SyncOne(ctx, payload.ExternalID, payload.ParentID)
	if err != nil {
		if isPermanentSyncError(err) {
			logger.Warnw("worker_catalog_sync_one_skipped", "external_id", payload.ExternalID, "error", err)
			return nil
		}
		logger.Warnw("worker_catalog_sync_one_failed", "external_id", payload.ExternalID, "error", err)
		return err
	}
	return nil
}

// isPermanentSyncError 重试无意义的错误
func isPermanentSyncError(err error) bool {
	switch {
	case errors.Is(err, service.ErrCatalogEntryNotFound),
		errors.Is(err, service.ErrExternalIDInvalid),
		errors.Is(err, service.ErrStoreNotConfigured),
		errors.Is(err, service.ErrSyncInProgress):
		return true
	default:
		return false
	}
}
