package service

import "errors"

var (
	ErrPurchaseCostInvalid   = errors.New("purchase cost invalid")
	ErrSupplierInvalid       = errors.New("supplier names invalid")
	ErrBackupLocationInvalid = errors.New("backup location invalid")
	ErrExternalIDInvalid     = errors.New("external id invalid")
	ErrCatalogEntryNotFound  = errors.New("catalog entry not found")
	ErrBatchNotFound         = errors.New("order batch not found")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrBatchConflict         = errors.New("cart changed during batch collapse")
	ErrAlreadyPurchased      = errors.New("item already purchased")
	ErrNotPurchased          = errors.New("item not purchased")
	ErrNotPurchasable        = errors.New("variable product cannot be purchased")
	ErrSyncInProgress        = errors.New("catalog sync in progress")
	ErrStoreNotConfigured    = errors.New("store source not configured")
	ErrTransientIO           = errors.New("store source unavailable")
	ErrQueueUnavailable      = errors.New("queue unavailable")
)
