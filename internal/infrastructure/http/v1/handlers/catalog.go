package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/entity"
	"quotedesk/internal/domain"
	domainFilter "quotedesk/internal/domain/filter"
	"quotedesk/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic HTTP handlers for catalog entities.
// Concrete catalogs (customers, products) are thin instantiations that
// supply DTO mapping functions.
type CatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    *domain.CatalogService[T]
	entityName string

	mapCreateDTO func(c *gin.Context, req CreateDTO) (T, error)
	mapUpdateDTO func(req UpdateDTO, existing T) T
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	Service      *domain.CatalogService[T]
	EntityName   string
	MapCreateDTO func(c *gin.Context, req CreateDTO) (T, error)
	MapUpdateDTO func(req UpdateDTO, existing T) T
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	var query dto.CatalogListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := domain.CatalogFilter{
		Search:   query.Search,
		OrderBy:  query.OrderBy,
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	// Advanced filters ride in as a JSON-encoded query parameter.
	if filterJSON := c.Query("filter"); filterJSON != "" {
		var advFilters []domainFilter.Item
		if err := json.Unmarshal([]byte(filterJSON), &advFilters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return
		}
		filter.AdvancedFilters = advFilters
	}

	result, err := h.service.List(c.Request.Context(), filter, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Get handles GET /{entity}/:id - get a single record.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	recordID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), recordID, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, record)
}

// Create handles POST /{entity} - create a new record.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.mapCreateDTO(c, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), record, scope); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Update handles PUT /{entity}/:id - update an existing record.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	recordID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), recordID, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.mapUpdateDTO(req, existing)

	if err := h.service.Update(c.Request.Context(), updated, scope); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// Delete handles DELETE /{entity}/:id - permanently delete a record.
// Catalog records have no recycle bin; only quotations do.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	recordID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), recordID, scope); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
