package provider

import (
	"net/http"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/cache"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/config"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/queue"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/woocommerce"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	StoreClient *woocommerce.Client

	// Repositories
	CatalogRepo       repository.CatalogRepository
	ExtensionRepo     repository.PurchaseExtensionRepository
	StoreOverviewRepo repository.StoreOverviewRepository

	// Services
	CatalogSyncService *service.CatalogSyncService
	PurchaseService    *service.PurchaseService
	OrderBatchService  *service.OrderBatchService
	StoreListService   *service.StoreListService
	AnalysisService    *service.AnalysisService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := NewContainerWithDB(cfg, models.DB)
	if queueClient != nil {
		c.QueueClient = queueClient
		c.CatalogSyncService.SetQueue(queueClient)
	}
	return c
}

// NewContainerWithDB 使用指定数据库构建仓库与服务（不初始化 Redis 与队列）
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	c := &Container{
		Config:      cfg,
		StoreClient: newStoreClient(cfg.Store),
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()

	return c
}

// newStoreClient 外部商城未配置时返回 nil，同步接口将返回未配置错误
func newStoreClient(cfg config.StoreConfig) *woocommerce.Client {
	client, err := woocommerce.NewClient(woocommerce.Config{
		BaseURL:        cfg.BaseURL,
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		PerPage:        cfg.PerPage,
		Timeout:        cfg.Timeout(),
	}, &http.Client{})
	if err != nil {
		logger.Warnw("provider_store_client_disabled", "base_url", cfg.BaseURL, "error", err)
		return nil
	}
	return client
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.CatalogRepo = repository.NewCatalogRepository(db)
	c.ExtensionRepo = repository.NewPurchaseExtensionRepository(db)
	c.StoreOverviewRepo = repository.NewStoreOverviewRepository(db)
}

func (c *Container) initServices() {
	var source service.CatalogSource
	if c.StoreClient != nil {
		source = c.StoreClient
	}
	c.CatalogSyncService = service.NewCatalogSyncService(source, c.CatalogRepo, c.Config.Store.SyncLockTTL())
	c.PurchaseService = service.NewPurchaseService(c.ExtensionRepo, c.CatalogRepo)
	c.OrderBatchService = service.NewOrderBatchService(c.ExtensionRepo, c.CatalogRepo, c.Config.Batch.Location())
	c.StoreListService = service.NewStoreListService(c.CatalogRepo, c.ExtensionRepo)
	c.AnalysisService = service.NewAnalysisService(c.StoreOverviewRepo, c.CatalogRepo, c.ExtensionRepo, c.Config.Store.AssetExcludedCategoryIDs)
}
