package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/handlers/shared"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// SyncCatalog 全量同步外部商城镜像，async=1 时投递到队列
func (h *Handler) SyncCatalog(c *gin.Context) {
	async, err := parseOptionalBool(c, "async")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid async flag", err)
		return
	}
	if async != nil && *async {
		taskID, err := h.CatalogSyncService.EnqueueSync(handlershared.RequestID(c))
		if err != nil {
			respondServiceError(c, err, "catalog sync enqueue failed")
			return
		}
		response.SuccessWithMsg(c, "catalog sync queued", gin.H{"task_id": taskID})
		return
	}

	result, err := h.CatalogSyncService.Sync(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "catalog sync failed")
		return
	}
	if result.Partial() {
		requestLog(c).Warnw("admin_catalog_sync_partial", "run_id", result.RunID, "failed", result.Failed, "listing_complete", result.ListingComplete)
		response.SuccessWithMsg(c, "catalog sync finished with failures", result)
		return
	}
	response.Success(c, result)
}

// GetLastCatalogSync 最近一次全量同步快照
func (h *Handler) GetLastCatalogSync(c *gin.Context) {
	snapshot, err := h.CatalogSyncService.LastSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "catalog sync snapshot fetch failed", err)
		return
	}
	response.Success(c, snapshot)
}

// SyncCatalogEntry 同步单个商品或变体
func (h *Handler) SyncCatalogEntry(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	parentID, err := parseOptionalInt64(c, "parent_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid parent id", err)
		return
	}
	async, err := parseOptionalBool(c, "async")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid async flag", err)
		return
	}
	if async != nil && *async {
		taskID, err := h.CatalogSyncService.EnqueueSyncOne(id, parentID, handlershared.RequestID(c))
		if err != nil {
			respondServiceError(c, err, "catalog entry sync enqueue failed")
			return
		}
		response.SuccessWithMsg(c, "catalog entry sync queued", gin.H{"task_id": taskID})
		return
	}

	entry, err := h.CatalogSyncService.SyncOne(c.Request.Context(), id, parentID)
	if err != nil {
		respondServiceError(c, err, "catalog entry sync failed")
		return
	}
	response.Success(c, entry)
}

// ListCatalogEntries 分页查询镜像原始行
func (h *Handler) ListCatalogEntries(c *gin.Context) {
	page, pageSize := parsePage(c)
	parentID, err := parseOptionalInt64(c, "parent_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid parent id", err)
		return
	}
	onlyMissing, _ := strconv.ParseBool(c.DefaultQuery("only_missing", "false"))

	entries, total, err := h.StoreListService.ListEntries(repository.CatalogListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      strings.TrimSpace(c.Query("search")),
		Type:        strings.TrimSpace(c.Query("type")),
		ParentID:    parentID,
		OnlyMissing: onlyMissing,
	})
	if err != nil {
		respondServiceError(c, err, "catalog fetch failed")
		return
	}
	response.SuccessWithPage(c, entries, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetCatalogEntry 获取单个镜像行
func (h *Handler) GetCatalogEntry(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	entry, err := h.StoreListService.GetEntry(id)
	if err != nil {
		respondServiceError(c, err, "catalog fetch failed")
		return
	}
	response.Success(c, entry)
}
