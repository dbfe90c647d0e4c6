package queue

import (
	"encoding/json"
	"fmt"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCatalogSync 全量镜像同步任务
	TaskCatalogSync = constants.TaskStoreCatalogSync
	// TaskCatalogSyncOne 单个商品同步任务
	TaskCatalogSyncOne = constants.TaskStoreCatalogSyncOne
)

// CatalogSyncPayload 全量同步任务载荷
type CatalogSyncPayload struct {
	RequestID string `json:"request_id"`
}

// CatalogSyncOnePayload 单个商品同步任务载荷
type CatalogSyncOnePayload struct {
	ExternalID int64  `json:"external_id"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	RequestID  string `json:"request_id"`
}

// NewCatalogSyncTask 创建全量同步任务
func NewCatalogSyncTask(payload CatalogSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogSync, body), nil
}

// NewCatalogSyncOneTask 创建单个商品同步任务
func NewCatalogSyncOneTask(payload CatalogSyncOnePayload) (*asynq.Task, error) {
	if payload.ExternalID <= 0 {
		return nil, fmt.Errorf("invalid external id: %d", payload.ExternalID)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogSyncOne, body), nil
}
