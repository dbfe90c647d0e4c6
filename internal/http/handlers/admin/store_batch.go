package admin

import (
	"strings"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCart 购物车（已采购未归批）
func (h *Handler) GetCart(c *gin.Context) {
	items, err := h.OrderBatchService.ListCart()
	if err != nil {
		respondServiceError(c, err, "cart fetch failed")
		return
	}
	response.Success(c, items)
}

// CollapseCart 将购物车整体归入新批次
func (h *Handler) CollapseCart(c *gin.Context) {
	result, err := h.OrderBatchService.CollapseCartToBatch(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "cart collapse failed")
		return
	}
	requestLog(c).Infow("admin_cart_collapsed", "batch_id", result.BatchID, "moved_count", result.MovedCount)
	response.Success(c, result)
}

// ListBatches 批次列表
func (h *Handler) ListBatches(c *gin.Context) {
	batches, err := h.OrderBatchService.ListBatches()
	if err != nil {
		respondServiceError(c, err, "batches fetch failed")
		return
	}
	response.Success(c, batches)
}

// GetBatch 批次明细
func (h *Handler) GetBatch(c *gin.Context) {
	batchID := strings.TrimSpace(c.Param("batch_id"))
	if batchID == "" {
		response.BadRequest(c, "invalid batch id")
		return
	}
	items, err := h.OrderBatchService.ListBatchItems(batchID)
	if err != nil {
		respondServiceError(c, err, "batch fetch failed")
		return
	}
	response.Success(c, gin.H{"batch_id": batchID, "items": items})
}
