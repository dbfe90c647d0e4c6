package admin

import (
	"errors"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type serviceErrorMapping struct {
	target error
	code   int
}

var serviceErrorMappings = []serviceErrorMapping{
	{target: service.ErrPurchaseCostInvalid, code: response.CodeBadRequest},
	{target: service.ErrSupplierInvalid, code: response.CodeBadRequest},
	{target: service.ErrBackupLocationInvalid, code: response.CodeBadRequest},
	{target: service.ErrExternalIDInvalid, code: response.CodeBadRequest},
	{target: service.ErrNotPurchasable, code: response.CodeBadRequest},
	{target: service.ErrCatalogEntryNotFound, code: response.CodeNotFound},
	{target: service.ErrBatchNotFound, code: response.CodeNotFound},
	{target: service.ErrCartEmpty, code: response.CodeConflict},
	{target: service.ErrBatchConflict, code: response.CodeConflict},
	{target: service.ErrAlreadyPurchased, code: response.CodeConflict},
	{target: service.ErrNotPurchased, code: response.CodeConflict},
	{target: service.ErrSyncInProgress, code: response.CodeConflict},
	{target: service.ErrStoreNotConfigured, code: response.CodeServiceUnavailable},
	{target: service.ErrQueueUnavailable, code: response.CodeServiceUnavailable},
	{target: service.ErrTransientIO, code: response.CodeServiceUnavailable},
}

// mapServiceError 业务错误映射为响应码，未知错误为 500
func mapServiceError(err error) (int, bool) {
	for _, mapping := range serviceErrorMappings {
		if errors.Is(err, mapping.target) {
			return mapping.code, true
		}
	}
	return response.CodeInternal, false
}

// respondServiceError 输出业务错误，校验类错误直接返回原因
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	code, known := mapServiceError(err)
	if !known {
		respondError(c, code, fallbackMsg, err)
		return
	}
	msg := err.Error()
	var logged error
	if code >= response.CodeServiceUnavailable {
		logged = err
	}
	if errors.Is(err, service.ErrTransientIO) {
		msg = fallbackMsg
	}
	switch code {
	case response.CodeBadRequest:
		response.BadRequest(c, msg)
	case response.CodeConflict:
		response.Conflict(c, msg)
	default:
		respondError(c, code, msg, logged)
	}
}
