package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/middleware"
	"repairdesk/internal/models"
	"repairdesk/internal/services"
)

// PriceHandler handles admin CRUD over price combinations.
type PriceHandler struct {
	priceService services.PriceServicer
	auditService services.AuditServicer
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService services.PriceServicer, auditService services.AuditServicer) *PriceHandler {
	return &PriceHandler{priceService: priceService, auditService: auditService}
}

// CreatePriceRequest represents the request payload for creating a price
// combination. Exactly one of categoryId, seriesId or modelId must be set.
type CreatePriceRequest struct {
	CategoryID *string      `json:"categoryId"`
	SeriesID   *string      `json:"seriesId"`
	ModelID    *string      `json:"modelId"`
	InjuryID   string       `json:"injuryId"`
	Price      models.Price `json:"price" binding:"omitempty,price"`
	Notes      string       `json:"notes" binding:"max=1000"`
}

// UpdatePriceRequest represents the request payload for updating a price
// combination. Sending any scope field replaces the whole scope.
type UpdatePriceRequest struct {
	CategoryID *string       `json:"categoryId"`
	SeriesID   *string       `json:"seriesId"`
	ModelID    *string       `json:"modelId"`
	InjuryID   *string       `json:"injuryId"`
	Price      *models.Price `json:"price" binding:"omitempty,price"`
	Notes      *string       `json:"notes" binding:"omitempty,max=1000"`
}

// ListPricesQuery holds the optional filters for listing price combinations.
type ListPricesQuery struct {
	InjuryID   string `form:"injuryId"`
	ScopeLevel string `form:"scopeLevel" binding:"omitempty,oneof=model series category"`
	ScopeID    string `form:"scopeId"`
}

// ListPrices handles listing price combinations.
// @Summary     List price combinations
// @Tags        admin-prices
// @Produce     json
// @Security    AdminPassword
// @Param       injuryId   query string false "Filter by injury"
// @Param       scopeLevel query string false "Filter by scope level (model/series/category)"
// @Param       scopeId    query string false "Filter by scoped entity id"
// @Success     200 {array}  models.PriceCombination
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/prices [get]
func (h *PriceHandler) ListPrices(c *gin.Context) {
	var query ListPricesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	prices, err := h.priceService.ListPrices(c.Request.Context(), services.PriceFilter{
		InjuryID:   query.InjuryID,
		ScopeLevel: models.ScopeLevel(query.ScopeLevel),
		ScopeID:    query.ScopeID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// GetPrice handles retrieving a specific price combination.
// @Summary     Get price combination by ID
// @Tags        admin-prices
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Price combination ID"
// @Success     200 {object} models.PriceCombination
// @Failure     404 {object} ErrorResponse "Price combination not found"
// @Router      /admin/prices/{id} [get]
func (h *PriceHandler) GetPrice(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrPriceNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pc, err := h.priceService.GetPriceByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pc)
}

// CreatePrice handles the creation of a new price combination.
// @Summary     Create a price combination
// @Tags        admin-prices
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       request body CreatePriceRequest true "Price combination details"
// @Success     201 {object} models.PriceCombination
// @Failure     400 {object} ErrorResponse "Invalid input, missing scope or duplicate combination"
// @Failure     404 {object} ErrorResponse "Referenced entity not found"
// @Router      /admin/prices [post]
func (h *PriceHandler) CreatePrice(c *gin.Context) {
	var req CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	pc, err := h.priceService.CreatePrice(c.Request.Context(), services.PriceInput{
		CategoryID: req.CategoryID,
		SeriesID:   req.SeriesID,
		ModelID:    req.ModelID,
		InjuryID:   req.InjuryID,
		Price:      req.Price,
		Notes:      req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(middleware.AdminActor(c), "CREATE_PRICE", "price", pc.ID, c.ClientIP(),
		map[string]any{"scope_level": string(pc.ScopeLevel), "scope_id": pc.ScopeID, "injury_id": pc.InjuryID, "price": string(pc.Price)})

	c.JSON(http.StatusCreated, pc)
}

// UpdatePrice handles updating an existing price combination.
// @Summary     Update price combination
// @Tags        admin-prices
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       id      path string             true "Price combination ID"
// @Param       request body UpdatePriceRequest true "Fields to change"
// @Success     200 {object} models.PriceCombination
// @Failure     400 {object} ErrorResponse "Invalid input, missing scope or duplicate combination"
// @Failure     404 {object} ErrorResponse "Price combination or referenced entity not found"
// @Router      /admin/prices/{id} [put]
func (h *PriceHandler) UpdatePrice(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrPriceNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	pc, err := h.priceService.UpdatePrice(c.Request.Context(), id, services.PricePatch{
		CategoryID: req.CategoryID,
		SeriesID:   req.SeriesID,
		ModelID:    req.ModelID,
		InjuryID:   req.InjuryID,
		Price:      req.Price,
		Notes:      req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(middleware.AdminActor(c), "UPDATE_PRICE", "price", pc.ID, c.ClientIP(),
		map[string]any{"scope_level": string(pc.ScopeLevel), "scope_id": pc.ScopeID, "injury_id": pc.InjuryID, "price": string(pc.Price)})

	c.JSON(http.StatusOK, pc)
}

// DeletePrice handles deleting a price combination.
// @Summary     Delete price combination
// @Tags        admin-prices
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Price combination ID"
// @Success     200 {object} OKResponse
// @Failure     404 {object} ErrorResponse "Price combination not found"
// @Router      /admin/prices/{id} [delete]
func (h *PriceHandler) DeletePrice(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrPriceNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.priceService.DeletePrice(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(middleware.AdminActor(c), "DELETE_PRICE", "price", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
