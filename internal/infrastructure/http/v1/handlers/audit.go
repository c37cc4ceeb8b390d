package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"quotedesk/internal/infrastructure/http/v1/dto"
	"quotedesk/internal/infrastructure/storage/postgres"
)

// AuditHandler serves the quotation mutation trail.
type AuditHandler struct {
	*BaseHandler
	store *postgres.AuditStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, store *postgres.AuditStore) *AuditHandler {
	return &AuditHandler{BaseHandler: base, store: store}
}

// auditEntryResponse is one trail row; compressed payloads arrive already
// decompressed from the store.
type auditEntryResponse struct {
	Action    string          `json:"action"`
	Actor     string          `json:"actor"`
	Changes   json.RawMessage `json:"changes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Trail handles GET /quotations/:id/audit (admin only).
func (h *AuditHandler) Trail(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	quotationID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.store.History(c.Request.Context(), scope.CompanyID, quotationID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			Action:    e.Action,
			Actor:     e.Actor,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		})
	}

	h.OK(c, gin.H{"entries": out})
}
