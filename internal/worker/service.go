package worker

import (
	"context"
	"errors"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/config"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/queue"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name         string
	server       *asynq.Server
	mux          *asynq.ServeMux
	consumer     *Consumer
	syncInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	svc := &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}
	if consumer.Container != nil && consumer.Config != nil {
		svc.syncInterval = consumer.Config.Store.SyncInterval()
	}
	return svc, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动消费并阻塞到 ctx 结束，信号由 app.Runner 统一处理
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	if s.syncInterval > 0 && s.consumer != nil && s.consumer.CatalogSyncService != nil {
		go s.runScheduledSyncLoop(ctx)
	}
	<-ctx.Done()
	return nil
}

// Stop 停止消费，等待进行中的任务结束
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runScheduledSyncLoop 按间隔投递全量同步任务，已有排队任务时跳过
func (s *Service) runScheduledSyncLoop(ctx context.Context) {
	log := logger.Component("worker", "interval", s.syncInterval.String())
	enqueue := func() {
		taskID, err := s.consumer.CatalogSyncService.EnqueueSync("scheduled")
		switch {
		case errors.Is(err, service.ErrSyncInProgress):
			log.Debugw("worker_scheduled_sync_skipped", "reason", "in_progress")
		case err != nil:
			log.Warnw("worker_scheduled_sync_enqueue_failed", "error", err)
		default:
			log.Infow("worker_scheduled_sync_enqueued", "task_id", taskID)
		}
	}

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueue()
		}
	}
}
