package constants

// 商品类型常量（与外部商城一致）
const (
	CatalogTypeSimple    = "simple"
	CatalogTypeVariable  = "variable"
	CatalogTypeVariation = "variation"
)

// 商品发布状态常量
const (
	CatalogStatusPublish = "publish"
	CatalogStatusDraft   = "draft"
	CatalogStatusPrivate = "private"
	CatalogStatusPending = "pending"
)

// 采购币种常量
const (
	CurrencyIDR = "IDR"
	CurrencyCNY = "CNY"
	CurrencyUSD = "USD"
)

// 采购状态常量（列表筛选使用）
const (
	PurchaseStateUnpurchased = "unpurchased"
	PurchaseStateCart        = "cart"
	PurchaseStateBatched     = "batched"
)

// 批次号格式
const (
	BatchIDDateLayout = "2006-01-02"
	DefaultBatchZone  = "Asia/Jakarta"
)

// 列表排序字段
const (
	SortKeyName          = "name"
	SortKeySKU           = "sku"
	SortKeyRegularPrice  = "regular_price"
	SortKeySalePrice     = "sale_price"
	SortKeyPurchasePrice = "purchase_price"
	SortKeySupplier      = "supplier"
	SortKeyExternalID    = "external_id"
	SortKeyUpdatedAt     = "updated_at"
	SortKeyStock         = "stock"
	SortKeyTotalPieces   = "total_pieces"
	SortKeyPerPieceCost  = "per_piece_cost"
	SortKeyMargin        = "margin"
)

// 队列与任务常量
const (
	QueueDefault            = "default"
	TaskStoreCatalogSync    = "store:catalog_sync"
	TaskStoreCatalogSyncOne = "store:catalog_sync_one"
)

// 缓存 key
const (
	CacheKeyCatalogSyncLast = "catalog_sync:last"
	CacheKeyCatalogSyncLock = "catalog_sync:lock"
)
