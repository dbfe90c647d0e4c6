package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/config"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/provider"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/queue"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func newTestConsumer(t *testing.T) *Consumer {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateStore(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	catalogRepo := repository.NewCatalogRepository(db)
	return NewConsumer(&provider.Container{
		Config:             &config.Config{},
		CatalogRepo:        catalogRepo,
		CatalogSyncService: service.NewCatalogSyncService(nil, catalogRepo, 0),
	})
}

func TestIsPermanentSyncError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{err: service.ErrCatalogEntryNotFound, want: true},
		{err: fmt.Errorf("wrap: %w", service.ErrStoreNotConfigured), want: true},
		{err: service.ErrSyncInProgress, want: true},
		{err: fmt.Errorf("%w: timeout", service.ErrTransientIO), want: false},
		{err: errors.New("database is locked"), want: false},
	}
	for _, tc := range cases {
		if got := isPermanentSyncError(tc.err); got != tc.want {
			t.Fatalf("err=%v want %v got %v", tc.err, tc.want, got)
		}
	}
}

func TestHandleCatalogSyncWithoutStoreIsSkipped(t *testing.T) {
	consumer := newTestConsumer(t)
	task, err := queue.NewCatalogSyncTask(queue.CatalogSyncPayload{RequestID: "req-1"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleCatalogSync(context.Background(), task); err != nil {
		t.Fatalf("unconfigured store should not be retried, got %v", err)
	}
}

func TestHandleCatalogSyncOneRejectsBrokenPayload(t *testing.T) {
	consumer := newTestConsumer(t)
	task := asynq.NewTask(queue.TaskCatalogSyncOne, []byte("{broken"))
	err := consumer.handleCatalogSyncOne(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("broken payload want SkipRetry got %v", err)
	}
}

func TestRegisterSkipsNilConsumer(t *testing.T) {
	var consumer *Consumer
	consumer.Register(asynq.NewServeMux())
}
