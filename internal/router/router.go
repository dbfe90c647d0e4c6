package router

import (
	"fmt"
	"strings"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/cache"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/config"
	adminhandlers "github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/handlers/admin"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "store"
	}
	syncRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:catalog_sync", redisPrefix),
		WindowSeconds: cfg.Security.SyncRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SyncRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.SyncRateLimit.BlockSeconds,
		Message:       "catalog sync requested too often, retry later",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log, "/health"))
	r.Use(CORSMiddleware(cfg.CORS))

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})
	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"redis": cache.Enabled(), "queue": c.QueueClient.Enabled()})
	})

	apiV1 := r.Group("/api/v1")
	store := apiV1.Group("/admin/store")
	{
		// 商城镜像
		store.POST("/catalog/sync", RateLimitMiddleware(cache.Client(), syncRule, KeyByIPAndRoute), adminHandler.SyncCatalog)
		store.GET("/catalog/sync/last", adminHandler.GetLastCatalogSync)
		store.POST("/catalog/:id/sync", adminHandler.SyncCatalogEntry)
		store.GET("/catalog/rows", adminHandler.ListStoreRows)
		store.GET("/catalog/entries", adminHandler.ListCatalogEntries)
		store.GET("/catalog/entries/:id", adminHandler.GetCatalogEntry)

		// 采购扩展
		store.GET("/extensions/:id", adminHandler.GetExtension)
		store.PUT("/extensions/:id/note", adminHandler.SetNote)
		store.PUT("/extensions/:id/suppliers", adminHandler.SetSuppliers)
		store.PUT("/extensions/:id/backup-location", adminHandler.SetBackupLocation)
		store.POST("/extensions/:id/purchase", adminHandler.MarkPurchased)
		store.DELETE("/extensions/:id/purchase", adminHandler.UnmarkPurchased)
		store.PUT("/extensions/:id/cost", adminHandler.UpdateCost)

		// 购物车与批次
		store.GET("/cart", adminHandler.GetCart)
		store.POST("/cart/collapse", adminHandler.CollapseCart)
		store.GET("/batches", adminHandler.ListBatches)
		store.GET("/batches/:batch_id", adminHandler.GetBatch)

		// 汇总与试算
		store.GET("/analysis", adminHandler.GetAnalysis)
		store.POST("/costing/quote", adminHandler.QuoteCosting)
	}

	return r
}
