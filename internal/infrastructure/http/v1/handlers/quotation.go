package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/infrastructure/http/v1/dto"
)

// QuotationHandler handles quotation endpoints.
type QuotationHandler struct {
	*BaseHandler
	service *quotation.Service
}

// NewQuotationHandler creates a new quotation handler.
func NewQuotationHandler(base *BaseHandler, service *quotation.Service) *QuotationHandler {
	return &QuotationHandler{BaseHandler: base, service: service}
}

// List handles GET /quotations.
func (h *QuotationHandler) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	var query dto.QuotationListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(c.Request.Context(), query.ToFilter(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Get handles GET /quotations/:id.
func (h *QuotationHandler) Get(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	q, err := h.service.Get(c.Request.Context(), quotationID, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, q)
}

// Create handles POST /quotations.
func (h *QuotationHandler) Create(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	var req dto.CreateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	q, err := h.service.Create(c.Request.Context(), input, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, q)
}

// Update handles PUT /quotations/:id.
func (h *QuotationHandler) Update(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	q, err := h.service.Update(c.Request.Context(), quotationID, input, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, q)
}

// ChangeStatus handles PUT /quotations/:id/status.
func (h *QuotationHandler) ChangeStatus(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	to := quotation.Status(req.Status)
	if !to.Valid() {
		h.Error(c, apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", req.Status))
		return
	}

	q, err := h.service.ChangeStatus(c.Request.Context(), quotationID, to, scope, nil)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, q)
}

// Delete handles DELETE /quotations/:id (moves to recycle bin).
func (h *QuotationHandler) Delete(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), quotationID, scope); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "quotation moved to recycle bin")
}

// History handles GET /quotations/:id/history.
func (h *QuotationHandler) History(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	history, err := h.service.History(c.Request.Context(), quotationID, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"history": history})
}
