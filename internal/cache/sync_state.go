package cache

import (
	"context"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
)

const syncSnapshotTTL = 30 * 24 * time.Hour

// CatalogSyncSnapshot 最近一次全量同步的结果快照
type CatalogSyncSnapshot struct {
	RunID         string    `json:"run_id"`
	Updated       int       `json:"updated"`
	Failed        int       `json:"failed"`
	Total         int       `json:"total"`
	MarkedMissing int64     `json:"marked_missing"`
	Restored      int       `json:"restored"`
	Partial       bool      `json:"partial"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// GetCatalogSyncSnapshot 读取最近一次同步快照
func GetCatalogSyncSnapshot(ctx context.Context) (*CatalogSyncSnapshot, error) {
	var snapshot CatalogSyncSnapshot
	hit, err := GetJSON(ctx, constants.CacheKeyCatalogSyncLast, &snapshot)
	if err != nil || !hit {
		return nil, err
	}
	return &snapshot, nil
}

// SetCatalogSyncSnapshot 写入同步快照
func SetCatalogSyncSnapshot(ctx context.Context, snapshot *CatalogSyncSnapshot) error {
	if snapshot == nil {
		return nil
	}
	return SetJSON(ctx, constants.CacheKeyCatalogSyncLast, snapshot, syncSnapshotTTL)
}
