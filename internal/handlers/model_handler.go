package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/services"
)

// CreateModelRequest represents the request payload for creating a device model.
type CreateModelRequest struct {
	SeriesID string `json:"seriesId"`
	Name     string `json:"name" binding:"max=255"`
	SKU      string `json:"sku" binding:"max=255"`
	GUID     string `json:"guid" binding:"max=255"`
	Order    int    `json:"order"`
}

// UpdateModelRequest represents the request payload for updating a device model.
type UpdateModelRequest struct {
	SeriesID *string `json:"seriesId"`
	Name     *string `json:"name" binding:"omitempty,notblank,max=255"`
	SKU      *string `json:"sku" binding:"omitempty,max=255"`
	GUID     *string `json:"guid" binding:"omitempty,max=255"`
	Order    *int    `json:"order"`
}

// ListModels handles listing all device models.
// @Summary     List device models
// @Tags        admin-models
// @Produce     json
// @Security    AdminPassword
// @Success     200 {array}  models.DeviceModel
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/models [get]
func (h *CatalogHandler) ListModels(c *gin.Context) {
	deviceModels, err := h.catalogService.ListModels(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deviceModels)
}

// GetModel handles retrieving a specific device model.
// @Summary     Get device model by ID
// @Tags        admin-models
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Model ID"
// @Success     200 {object} models.DeviceModel
// @Failure     404 {object} ErrorResponse "Model not found"
// @Router      /admin/models/{id} [get]
func (h *CatalogHandler) GetModel(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrModelNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	model, err := h.catalogService.GetModelByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model)
}

// CreateModel handles the creation of a new device model under a series.
// @Summary     Create a device model
// @Tags        admin-models
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       request body CreateModelRequest true "Model details"
// @Success     201 {object} models.DeviceModel
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Series not found"
// @Router      /admin/models [post]
func (h *CatalogHandler) CreateModel(c *gin.Context) {
	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	model, err := h.catalogService.CreateModel(c.Request.Context(), services.ModelInput{
		SeriesID: req.SeriesID,
		Name:     req.Name,
		SKU:      req.SKU,
		GUID:     req.GUID,
		Order:    req.Order,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "CREATE_MODEL", "model", model.ID,
		map[string]any{"name": model.Name, "series_id": model.SeriesID, "sku": model.SKU})

	c.JSON(http.StatusCreated, model)
}

// UpdateModel handles updating an existing device model.
// @Summary     Update device model
// @Tags        admin-models
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       id      path string             true "Model ID"
// @Param       request body UpdateModelRequest true "Fields to change"
// @Success     200 {object} models.DeviceModel
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Model or series not found"
// @Router      /admin/models/{id} [put]
func (h *CatalogHandler) UpdateModel(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrModelNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	model, err := h.catalogService.UpdateModel(c.Request.Context(), id, services.ModelPatch{
		SeriesID: req.SeriesID,
		Name:     req.Name,
		SKU:      req.SKU,
		GUID:     req.GUID,
		Order:    req.Order,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "UPDATE_MODEL", "model", model.ID,
		map[string]any{"name": model.Name, "series_id": model.SeriesID, "sku": model.SKU})

	c.JSON(http.StatusOK, model)
}

// DeleteModel handles deleting a device model and the prices scoped to it.
// @Summary     Delete device model
// @Tags        admin-models
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Model ID"
// @Success     200 {object} OKResponse
// @Failure     404 {object} ErrorResponse "Model not found"
// @Router      /admin/models/{id} [delete]
func (h *CatalogHandler) DeleteModel(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrModelNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.catalogService.DeleteModel(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "DELETE_MODEL", "model", id, nil)

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
