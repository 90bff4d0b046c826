package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/middleware"
	"repairdesk/internal/services"
)

// CatalogHandler handles admin CRUD over categories, series, models and
// injury types.
type CatalogHandler struct {
	catalogService services.CatalogServicer
	auditService   services.AuditServicer
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService services.CatalogServicer, auditService services.AuditServicer) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"max=255"`
	Image string `json:"image" binding:"max=2048"`
	Order int    `json:"order"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
// Omitted fields are left unchanged.
type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,notblank,max=255"`
	Image *string `json:"image" binding:"omitempty,max=2048"`
	Order *int    `json:"order"`
}

func (h *CatalogHandler) audit(c *gin.Context, action, resourceType, resourceID string, changes map[string]any) {
	h.auditService.Log(middleware.AdminActor(c), action, resourceType, resourceID, c.ClientIP(), changes)
}

// ListCategories handles listing all categories.
// @Summary     List categories
// @Tags        admin-categories
// @Produce     json
// @Security    AdminPassword
// @Success     200 {array}  models.Category "Categories ordered by order, then id"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Storage unavailable"
// @Router      /admin/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory handles retrieving a specific category.
// @Summary     Get category by ID
// @Tags        admin-categories
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category "Category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /admin/categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.catalogService.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Tags        admin-categories
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), services.CategoryInput{
		Name:  req.Name,
		Image: req.Image,
		Order: req.Order,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "CREATE_CATEGORY", "category", category.ID,
		map[string]any{"name": category.Name, "order": category.Order})

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles updating an existing category
// @Summary     Update category
// @Tags        admin-categories
// @Accept      json
// @Produce     json
// @Security    AdminPassword
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to change"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /admin/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, services.CategoryPatch{
		Name:  req.Name,
		Image: req.Image,
		Order: req.Order,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "UPDATE_CATEGORY", "category", category.ID,
		map[string]any{"name": category.Name, "order": category.Order})

	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles deleting a category and the prices scoped to it.
// @Summary     Delete category
// @Tags        admin-categories
// @Produce     json
// @Security    AdminPassword
// @Param       id path string true "Category ID"
// @Success     200 {object} OKResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category still has series"
// @Router      /admin/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "DELETE_CATEGORY", "category", id, nil)

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
