package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/models"
	"repairdesk/internal/services"
)

// CreateInjuryRequest represents the request payload for creating an injury
// type. An empty defaultPrice is stored as "0".
type CreateInjuryRequest struct {
	Name         string       `json:"name" binding:"max=255"`
	Image        string       `json:"image" binding:"max=2048"`
	DefaultPrice models.Price `json:"defaultPrice" binding:"omitempty,price"`
}

// UpdateInjuryRequest represents the request payload for updating an injury type.
type UpdateInjuryRequest struct {
	Name         *string       `json:"name" binding:"omitempty,notblank,max=255"`
	Image        *string       `json:"image" binding:"omitempty,max=2048"`
	DefaultPrice *models.Price `json:"defaultPrice" binding:"omitempty,price"`
}

// ListInjuries handles listing all injury types.
// @Summary     List injury types
// @Tags        admin-injuries
// @Produce     json
// @Security    AdminPassword
// @Success     200 {array}  models.InjuryType
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/injuries [get]
func (h *CatalogHandler) ListInjuries(c *gin.Context) {
	injuries, err := h.catalogService.ListInjuries(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, injuries)
}

// GetInjury handles retrieving a specific injury type.
// @Summary     Get injury type by ID
// @Tags        admin-injuries
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Injury ID"
// @Success     200 {object} models.InjuryType
// @Failure     404 {object} ErrorResponse "Injury type not found"
// @Router      /admin/injuries/{id} [get]
func (h *CatalogHandler) GetInjury(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrInjuryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	injury, err := h.catalogService.GetInjuryByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, injury)
}

// CreateInjury handles the creation of a new injury type.
// @Summary     Create an injury type
// @Tags        admin-injuries
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       request body CreateInjuryRequest true "Injury details"
// @Success     201 {object} models.InjuryType
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /admin/injuries [post]
func (h *CatalogHandler) CreateInjury(c *gin.Context) {
	var req CreateInjuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	injury, err := h.catalogService.CreateInjury(c.Request.Context(), services.InjuryInput{
		Name:         req.Name,
		Image:        req.Image,
		DefaultPrice: req.DefaultPrice,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "CREATE_INJURY", "injury", injury.ID,
		map[string]any{"name": injury.Name, "default_price": string(injury.DefaultPrice)})

	c.JSON(http.StatusCreated, injury)
}

// UpdateInjury handles updating an existing injury type.
// @Summary     Update injury type
// @Tags        admin-injuries
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       id      path string              true "Injury ID"
// @Param       request body UpdateInjuryRequest true "Fields to change"
// @Success     200 {object} models.InjuryType
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Injury type not found"
// @Router      /admin/injuries/{id} [put]
func (h *CatalogHandler) UpdateInjury(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrInjuryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInjuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	injury, err := h.catalogService.UpdateInjury(c.Request.Context(), id, services.InjuryPatch{
		Name:         req.Name,
		Image:        req.Image,
		DefaultPrice: req.DefaultPrice,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "UPDATE_INJURY", "injury", injury.ID,
		map[string]any{"name": injury.Name, "default_price": string(injury.DefaultPrice)})

	c.JSON(http.StatusOK, injury)
}

// DeleteInjury handles deleting an injury type that no price references.
// @Summary     Delete injury type
// @Tags        admin-injuries
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Injury ID"
// @Success     200 {object} OKResponse
// @Failure     404 {object} ErrorResponse "Injury type not found"
// @Failure     409 {object} ErrorResponse "Injury type is referenced by prices"
// @Router      /admin/injuries/{id} [delete]
func (h *CatalogHandler) DeleteInjury(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrInjuryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.catalogService.DeleteInjury(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "DELETE_INJURY", "injury", id, nil)

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
