package admin

import (
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/models"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// SetNoteRequest 备注请求
type SetNoteRequest struct {
	Note string `json:"note"`
}

// SetSuppliersRequest 供应商请求
type SetSuppliersRequest struct {
	SupplierNames []string `json:"supplier_names"`
}

// SetBackupLocationRequest 备货位置请求
type SetBackupLocationRequest struct {
	BackupLocation string `json:"backup_location"`
}

// PurchaseCostRequest 采购成本请求
type PurchaseCostRequest struct {
	PackageCount    int          `json:"package_count"`
	UnitsPerPackage int          `json:"units_per_package"`
	Price           models.Money `json:"price"`
	Currency        string       `json:"currency"`
}

func (r PurchaseCostRequest) toCost() service.PurchaseCost {
	return service.PurchaseCost{
		PackageCount:    r.PackageCount,
		UnitsPerPackage: r.UnitsPerPackage,
		Price:           r.Price,
		Currency:        r.Currency,
	}
}

// GetExtension 获取商品采购扩展（不存在时返回默认值）
func (h *Handler) GetExtension(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	ext, err := h.PurchaseService.Get(id)
	if err != nil {
		respondServiceError(c, err, "extension fetch failed")
		return
	}
	response.Success(c, ext)
}

// SetNote 更新备注
func (h *Handler) SetNote(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	var req SetNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ext, err := h.PurchaseService.SetNote(id, req.Note)
	if err != nil {
		respondServiceError(c, err, "note update failed")
		return
	}
	response.Success(c, ext)
}

// SetSuppliers 覆盖供应商集合
func (h *Handler) SetSuppliers(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	var req SetSuppliersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ext, err := h.PurchaseService.SetSuppliers(id, req.SupplierNames)
	if err != nil {
		respondServiceError(c, err, "suppliers update failed")
		return
	}
	response.Success(c, ext)
}

// SetBackupLocation 更新备货位置
func (h *Handler) SetBackupLocation(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	var req SetBackupLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ext, err := h.PurchaseService.SetBackupLocation(id, req.BackupLocation)
	if err != nil {
		respondServiceError(c, err, "backup location update failed")
		return
	}
	response.Success(c, ext)
}

// MarkPurchased 标记已采购，商品进入购物车
func (h *Handler) MarkPurchased(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	var req PurchaseCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ext, err := h.PurchaseService.MarkPurchased(id, req.toCost())
	if err != nil {
		respondServiceError(c, err, "mark purchased failed")
		return
	}
	response.Success(c, ext)
}

// UnmarkPurchased 取消采购
func (h *Handler) UnmarkPurchased(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	ext, err := h.PurchaseService.UnmarkPurchased(id)
	if err != nil {
		respondServiceError(c, err, "unmark purchased failed")
		return
	}
	response.Success(c, ext)
}

// UpdateCost 修改已采购商品的成本
func (h *Handler) UpdateCost(c *gin.Context) {
	id, err := parseExternalID(c, "id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid external id", err)
		return
	}
	var req PurchaseCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ext, err := h.PurchaseService.UpdateCost(id, req.toCost())
	if err != nil {
		respondServiceError(c, err, "cost update failed")
		return
	}
	response.Success(c, ext)
}
