package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/services"
)

// ShopDomainHeader carries the storefront's shop when the widget omits it.
const ShopDomainHeader = "X-Shopify-Shop-Domain"

// PublicHandler serves the storefront widget: the catalog structure, price
// quotes and repair request submission.
type PublicHandler struct {
	catalogService    services.CatalogServicer
	priceService      services.PriceServicer
	submissionService services.SubmissionServicer
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(
	catalogService services.CatalogServicer,
	priceService services.PriceServicer,
	submissionService services.SubmissionServicer,
) *PublicHandler {
	return &PublicHandler{
		catalogService:    catalogService,
		priceService:      priceService,
		submissionService: submissionService,
	}
}

// PriceRequest is the storefront's current selection. Every field is
// optional; an unknown or missing injury quotes "0".
type PriceRequest struct {
	CategoryID string `json:"categoryId"`
	SeriesID   string `json:"seriesId"`
	ModelID    string `json:"modelId"`
	InjuryID   string `json:"injuryId"`
}

// SubmitResponse is the flat envelope the widget understands.
type SubmitResponse struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GetStructure handles fetching the whole catalog in one response.
// @Summary     Catalog structure
// @Description Returns all categories, series, models and injury types for client-side filtering
// @Tags        public
// @Produce     json
// @Success     200 {object} services.Structure
// @Failure     503 {object} ErrorResponse "Storage unavailable"
// @Router      /public/structure [get]
func (h *PublicHandler) GetStructure(c *gin.Context) {
	structure, err := h.catalogService.Structure(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, structure)
}

// GetPrice handles quoting a price for the current selection.
// @Summary     Quote a price
// @Description Resolves the most specific price: model, then series, then category, then the injury default
// @Tags        public
// @Accept      json
// @Produce     json
// @Param       request body PriceRequest true "Selection"
// @Success     200 {object} services.Quote
// @Failure     400 {object} ErrorResponse "Malformed JSON"
// @Failure     503 {object} ErrorResponse "Storage unavailable"
// @Router      /public/price [post]
func (h *PublicHandler) GetPrice(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, bindError(err))
		return
	}

	quote, err := h.priceService.Resolve(c.Request.Context(), services.Selection{
		CategoryID: req.CategoryID,
		SeriesID:   req.SeriesID,
		ModelID:    req.ModelID,
		InjuryID:   req.InjuryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Submit handles recording a repair request from the widget. The body is
// read loosely: unknown keys are kept in the raw payload and non-string
// values for known keys are treated as absent.
// @Summary     Submit a repair request
// @Tags        public
// @Accept      json
// @Produce     json
// @Param       request body object true "Contact details, selection and form data"
// @Success     200 {object} SubmitResponse
// @Failure     400 {object} SubmitResponse "missing_contact_or_problem or invalid_input"
// @Failure     429 {object} SubmitResponse "rate_limited"
// @Failure     500 {object} SubmitResponse "server_error"
// @Router      /public/submit [post]
func (h *PublicHandler) Submit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondSubmitError(c, apperrors.ErrValidation)
		return
	}

	fields := map[string]json.RawMessage{}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			respondSubmitError(c, apperrors.ErrValidation)
			return
		}
	} else {
		trimmed = []byte("{}")
	}

	in := services.SubmissionInput{
		Name:          stringField(fields, "name"),
		Email:         stringField(fields, "email"),
		Phone:         stringField(fields, "phone"),
		Problem:       stringField(fields, "problem"),
		Address:       stringField(fields, "address"),
		PreferredDate: stringField(fields, "preferredDate"),

		CategoryID:     stringField(fields, "categoryId"),
		SeriesID:       stringField(fields, "seriesId"),
		ModelID:        stringField(fields, "modelId"),
		InjuryID:       stringField(fields, "injuryId"),
		DeviceCategory: stringField(fields, "deviceCategory"),
		SeriesName:     stringField(fields, "seriesName"),
		ModelName:      stringField(fields, "modelName"),
		InjuryName:     stringField(fields, "injuryName"),
		DeviceSKU:      stringField(fields, "deviceSku", "sku"),
		DeviceGUID:     stringField(fields, "deviceGuid", "guid"),
		Price:          stringField(fields, "price"),

		FormData: fields["formData"],
		Raw:      json.RawMessage(trimmed),
		Ref:      stringField(fields, "ref"),
		UTM:      fields["utm"],

		Shop:      stringField(fields, "shop"),
		Source:    stringField(fields, "source"),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if strings.TrimSpace(in.Shop) == "" {
		in.Shop = c.GetHeader(ShopDomainHeader)
	}

	id, err := h.submissionService.Record(c.Request.Context(), in)
	if err != nil {
		respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{OK: true, ID: id, Message: "submission_saved"})
}

// stringField returns the first of keys holding a non-empty JSON string or
// number. Other JSON types count as absent.
func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if strings.TrimSpace(s) != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}
