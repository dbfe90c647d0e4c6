package main

import (
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/config"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/shopspring/decimal"
)

func money(raw string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(raw))
}

func int64Ptr(v int64) *int64 {
	return &v
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	catalogRepo := repository.NewCatalogRepository(models.DB)
	extensionRepo := repository.NewPurchaseExtensionRepository(models.DB)
	purchaseService := service.NewPurchaseService(extensionRepo, catalogRepo)

	modules := models.CategoryRefs{{ID: 10, Name: "Modules"}}
	sensors := models.CategoryRefs{{ID: 11, Name: "Sensors"}}
	services := models.CategoryRefs{{ID: 99, Name: "Services"}}

	// 镜像：一个可变商品及其变体，另有若干简单商品
	entries := []models.CatalogEntry{
		{
			ExternalID:   100,
			Type:         constants.CatalogTypeVariable,
			Name:         "ESP32 DevKit",
			Status:       constants.CatalogStatusPublish,
			RegularPrice: money("0"),
			Categories:   modules,
			Images:       models.StringArray{"https://example.com/img/esp32.jpg"},
		},
		{
			ExternalID:    101,
			ParentID:      int64Ptr(100),
			Type:          constants.CatalogTypeVariation,
			Name:          "ESP32 DevKit - WROOM",
			SKU:           "ESP32-WROOM",
			Status:        constants.CatalogStatusPublish,
			StockQuantity: 25,
			RegularPrice:  money("85000"),
			SalePrice:     money("79000"),
			Weight:        "0.02",
			Categories:    modules,
			Attributes:    models.AttributePairs{{Name: "Chip", Option: "WROOM"}},
		},
		{
			ExternalID:    102,
			ParentID:      int64Ptr(100),
			Type:          constants.CatalogTypeVariation,
			Name:          "ESP32 DevKit - WROVER",
			SKU:           "ESP32-WROVER",
			Status:        constants.CatalogStatusPublish,
			StockQuantity: 4,
			RegularPrice:  money("110000"),
			Weight:        "0.02",
			Categories:    modules,
			Attributes:    models.AttributePairs{{Name: "Chip", Option: "WROVER"}},
		},
		{
			ExternalID:    103,
			ParentID:      int64Ptr(100),
			Type:          constants.CatalogTypeVariation,
			Name:          "ESP32 DevKit - S3",
			Status:        constants.CatalogStatusPublish,
			StockQuantity: 0,
			RegularPrice:  money("125000"),
			Categories:    modules,
			Attributes:    models.AttributePairs{{Name: "Chip", Option: "S3"}},
		},
		{
			ExternalID:    200,
			Type:          constants.CatalogTypeSimple,
			Name:          "HC-SR04 Ultrasonic Sensor",
			SKU:           "HCSR04",
			Status:        constants.CatalogStatusPublish,
			StockQuantity: 60,
			RegularPrice:  money("15000"),
			Weight:        "0.01",
			Categories:    sensors,
			Images:        models.StringArray{"https://example.com/img/hcsr04.jpg"},
		},
		{
			ExternalID:    201,
			Type:          constants.CatalogTypeSimple,
			Name:          "DHT22 Temperature Sensor",
			SKU:           "DHT22",
			Status:        constants.CatalogStatusDraft,
			StockQuantity: -2,
			RegularPrice:  money("45000"),
			Categories:    sensors,
		},
		{
			ExternalID:    300,
			Type:          constants.CatalogTypeSimple,
			Name:          "Soldering Service",
			Status:        constants.CatalogStatusPublish,
			StockQuantity: 1,
			RegularPrice:  money("50000"),
			Categories:    services,
		},
	}
	for i := range entries {
		if err := catalogRepo.Upsert(&entries[i]); err != nil {
			stdLog.Printf("Failed to seed catalog entry %d: %v", entries[i].ExternalID, err)
			continue
		}
		stdLog.Printf("Seeded catalog entry: %d %s", entries[i].ExternalID, entries[i].Name)
	}

	// 采购扩展：一个进入购物车，一个带供应商与备货位置
	if _, err := purchaseService.SetSuppliers(101, []string{"Shenzhen Parts", " shenzhen parts ", "LCSC"}); err != nil {
		stdLog.Printf("Failed to seed suppliers: %v", err)
	}
	if _, err := purchaseService.SetBackupLocation(101, "RAK-A3"); err != nil {
		stdLog.Printf("Failed to seed backup location: %v", err)
	}
	if _, err := purchaseService.MarkPurchased(101, service.PurchaseCost{
		PackageCount:    2,
		UnitsPerPackage: 10,
		Price:           money("120"),
		Currency:        constants.CurrencyCNY,
	}); err != nil {
		stdLog.Printf("Failed to seed purchase for 101: %v", err)
	}
	if _, err := purchaseService.MarkPurchased(200, service.PurchaseCost{
		PackageCount:    1,
		UnitsPerPackage: 50,
		Price:           money("400000"),
		Currency:        constants.CurrencyIDR,
	}); err != nil {
		stdLog.Printf("Failed to seed purchase for 200: %v", err)
	}
	if _, err := purchaseService.SetNote(200, "Reorder when stock falls below 20"); err != nil {
		stdLog.Printf("Failed to seed note: %v", err)
	}

	stdLog.Printf("Seed completed")
}
