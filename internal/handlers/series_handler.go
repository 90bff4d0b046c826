package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/services"
)

// CreateSeriesRequest represents the request payload for creating a series.
// An empty slug is derived from the name.
type CreateSeriesRequest struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name" binding:"max=255"`
	Slug       string `json:"slug" binding:"max=255"`
	Image      string `json:"image" binding:"max=2048"`
	Order      int    `json:"order"`
}

// UpdateSeriesRequest represents the request payload for updating a series.
type UpdateSeriesRequest struct {
	CategoryID *string `json:"categoryId"`
	Name       *string `json:"name" binding:"omitempty,notblank,max=255"`
	Slug       *string `json:"slug" binding:"omitempty,max=255"`
	Image      *string `json:"image" binding:"omitempty,max=2048"`
	Order      *int    `json:"order"`
}

// ListSeries handles listing all series.
// @Summary     List series
// @Tags        admin-series
// @Produce     json
// @Security    AdminPassword
// @Success     200 {array}  models.Series
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/series [get]
func (h *CatalogHandler) ListSeries(c *gin.Context) {
	series, err := h.catalogService.ListSeries(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetSeries handles retrieving a specific series.
// @Summary     Get series by ID
// @Tags        admin-series
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Series ID"
// @Success     200 {object} models.Series
// @Failure     404 {object} ErrorResponse "Series not found"
// @Router      /admin/series/{id} [get]
func (h *CatalogHandler) GetSeries(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrSeriesNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.catalogService.GetSeriesByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// CreateSeries handles the creation of a new series under a category.
// @Summary     Create a series
// @Tags        admin-series
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       request body CreateSeriesRequest true "Series details"
// @Success     201 {object} models.Series
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /admin/series [post]
func (h *CatalogHandler) CreateSeries(c *gin.Context) {
	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	series, err := h.catalogService.CreateSeries(c.Request.Context(), services.SeriesInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Slug:       req.Slug,
		Image:      req.Image,
		Order:      req.Order,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "CREATE_SERIES", "series", series.ID,
		map[string]any{"name": series.Name, "category_id": series.CategoryID})

	c.JSON(http.StatusCreated, series)
}

// UpdateSeries handles updating an existing series.
// @Summary     Update series
// @Tags        admin-series
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       id      path string              true "Series ID"
// @Param       request body UpdateSeriesRequest true "Fields to change"
// @Success     200 {object} models.Series
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Series or category not found"
// @Router      /admin/series/{id} [put]
func (h *CatalogHandler) UpdateSeries(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrSeriesNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	series, err := h.catalogService.UpdateSeries(c.Request.Context(), id, services.SeriesPatch{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Slug:       req.Slug,
		Image:      req.Image,
		Order:      req.Order,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "UPDATE_SERIES", "series", series.ID,
		map[string]any{"name": series.Name, "category_id": series.CategoryID})

	c.JSON(http.StatusOK, series)
}

// DeleteSeries handles deleting a series and the prices scoped to it.
// @Summary     Delete series
// @Tags        admin-series
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Series ID"
// @Success     200 {object} OKResponse
// @Failure     404 {object} ErrorResponse "Series not found"
// @Failure     409 {object} ErrorResponse "Series still has models"
// @Router      /admin/series/{id} [delete]
func (h *CatalogHandler) DeleteSeries(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrSeriesNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.catalogService.DeleteSeries(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "DELETE_SERIES", "series", id, nil)

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
