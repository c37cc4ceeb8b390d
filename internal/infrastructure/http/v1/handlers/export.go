package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/export"
	"quotedesk/internal/infrastructure/http/v1/dto"
)

// ExportHandler serves quotation documents as CSV and PDF. Exports are
// pure projections of persisted values; totals are never recomputed here.
type ExportHandler struct {
	*BaseHandler
	service *quotation.Service
}

// NewExportHandler creates a new export handler.
func NewExportHandler(base *BaseHandler, service *quotation.Service) *ExportHandler {
	return &ExportHandler{BaseHandler: base, service: service}
}

func (h *ExportHandler) load(c *gin.Context) (*quotation.Quotation, bool) {
	scope, ok := h.Scope(c)
	if !ok {
		return nil, false
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	q, err := h.service.Get(c.Request.Context(), quotationID, scope)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return q, true
}

// CSV handles GET /quotations/:id/export.csv.
func (h *ExportHandler) CSV(c *gin.Context) {
	q, ok := h.load(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", q.Number+".csv"))
	c.Status(http.StatusOK)

	if err := export.WriteQuotationCSV(c.Writer, q); err != nil {
		// Headers are already out; all we can do is log via the error chain.
		_ = c.Error(err)
	}
}

// PDF handles GET /quotations/:id/export.pdf.
func (h *ExportHandler) PDF(c *gin.Context) {
	q, ok := h.load(c)
	if !ok {
		return
	}

	doc, err := export.QuotationPDF(q)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", q.Number+".pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}
