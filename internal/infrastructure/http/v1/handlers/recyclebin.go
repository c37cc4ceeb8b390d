package handlers

import (
	"github.com/gin-gonic/gin"

	"quotedesk/internal/domain/recyclebin"
	"quotedesk/internal/infrastructure/http/v1/dto"
)

// RecycleBinHandler handles recycle bin endpoints for quotations.
type RecycleBinHandler struct {
	*BaseHandler
	service *recyclebin.Service
}

// NewRecycleBinHandler creates a new recycle bin handler.
func NewRecycleBinHandler(base *BaseHandler, service *recyclebin.Service) *RecycleBinHandler {
	return &RecycleBinHandler{BaseHandler: base, service: service}
}

// List handles GET /quotations/deleted.
func (h *RecycleBinHandler) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items, "totalCount": len(items)})
}

// Restore handles PUT /quotations/:id/restore.
func (h *RecycleBinHandler) Restore(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Restore(c.Request.Context(), quotationID, scope); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "quotation restored")
}

// Purge handles DELETE /quotations/:id/permanent.
func (h *RecycleBinHandler) Purge(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Purge(c.Request.Context(), quotationID, scope); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// PurgeAll handles DELETE /quotations/deleted (empty the bin).
// Partial failure is reported, not rolled back: each quotation purges in
// its own transaction.
func (h *RecycleBinHandler) PurgeAll(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	result, err := h.service.PurgeAll(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"message":   result.Summary(),
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})
}
