package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/logger"
	"repairdesk/internal/services"
	"repairdesk/internal/shopify"
	"repairdesk/internal/validator"
)

// ShopifyClient is the subset of *shopify.Client the install and webhook
// handlers use.
type ShopifyClient interface {
	Configured() bool
	AuthorizeURL(shop, redirectURI string) string
	ExchangeToken(ctx context.Context, shop, code string) (*shopify.AccessToken, error)
	RegisterWebhook(ctx context.Context, shop, accessToken, topic, address string) error
	VerifyWebhook(body []byte, header string) bool
	VerifyQuery(query url.Values) bool
}

// webhookRoutes maps each registered topic to its receiver path.
var webhookRoutes = map[string]string{
	shopify.TopicAppUninstalled:       "/webhooks/app_uninstalled",
	shopify.TopicCustomersDataRequest: "/webhooks/customers_data_request",
	shopify.TopicCustomersRedact:      "/webhooks/customers_redact",
}

// ShopifyHandler handles the app install handshake and Shopify webhooks.
type ShopifyHandler struct {
	client      ShopifyClient
	shopService services.ShopServicer
	host        string
}

// NewShopifyHandler creates a new ShopifyHandler. host is the public base URL
// of this app.
func NewShopifyHandler(client ShopifyClient, shopService services.ShopServicer, host string) *ShopifyHandler {
	return &ShopifyHandler{
		client:      client,
		shopService: shopService,
		host:        strings.TrimRight(host, "/"),
	}
}

func normalizeShop(shop string) (string, bool) {
	shop = strings.ToLower(strings.TrimSpace(shop))
	return shop, validator.IsShopDomain(shop)
}

// Install redirects a merchant to the shop's OAuth consent screen.
// @Summary     Start app install
// @Tags        shopify
// @Param       shop query string true "Shop domain (*.myshopify.com)"
// @Success     302
// @Failure     400 {object} ErrorResponse "Invalid shop domain"
// @Failure     503 {object} ErrorResponse "Shopify credentials not configured"
// @Router      /auth [get]
func (h *ShopifyHandler) Install(c *gin.Context) {
	if !h.client.Configured() {
		respondWithError(c, apperrors.ErrShopifyNotConfigured)
		return
	}

	shop, ok := normalizeShop(c.Query("shop"))
	if !ok {
		respondWithError(c, apperrors.ErrInvalidShop)
		return
	}

	c.Redirect(http.StatusFound, h.client.AuthorizeURL(shop, h.host+"/auth/callback"))
}

// Callback completes the install: it verifies the redirect signature,
// exchanges the code, stores the shop and registers webhooks.
// @Summary     OAuth callback
// @Tags        shopify
// @Param       shop query string true "Shop domain"
// @Param       code query string true "Authorization code"
// @Param       hmac query string true "Request signature"
// @Success     302
// @Failure     400 {object} ErrorResponse "Invalid shop or missing code"
// @Failure     401 {object} ErrorResponse "Signature mismatch"
// @Failure     502 {object} ErrorResponse "Token exchange failed"
// @Router      /auth/callback [get]
func (h *ShopifyHandler) Callback(c *gin.Context) {
	if !h.client.Configured() {
		respondWithError(c, apperrors.ErrShopifyNotConfigured)
		return
	}

	shop, ok := normalizeShop(c.Query("shop"))
	if !ok {
		respondWithError(c, apperrors.ErrInvalidShop)
		return
	}
	code := c.Query("code")
	if code == "" {
		respondWithError(c, apperrors.WithReason(apperrors.ErrValidation, "missing_code", "Missing authorization code"))
		return
	}
	if !h.client.VerifyQuery(c.Request.URL.Query()) {
		respondWithError(c, apperrors.ErrInvalidSignature)
		return
	}

	ctx := c.Request.Context()
	token, err := h.client.ExchangeToken(ctx, shop, code)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrUpstream, err))
		return
	}

	if _, err := h.shopService.Upsert(ctx, shop, token.AccessToken, token.Scope); err != nil {
		respondWithError(c, err)
		return
	}

	log := logger.Get()
	for topic, path := range webhookRoutes {
		if err := h.client.RegisterWebhook(ctx, shop, token.AccessToken, topic, h.host+path); err != nil {
			log.Warnw("webhook registration failed", "shop", shop, "topic", topic, "error", err)
		}
	}
	log.Infow("shop installed", "shop", shop, "scope", token.Scope)

	c.Redirect(http.StatusFound, h.host+"/?shop="+url.QueryEscape(shop))
}

// verifiedBody reads the raw body and checks its signature. It writes the
// 401 itself and returns ok=false on mismatch.
func (h *ShopifyHandler) verifiedBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil || !h.client.VerifyWebhook(body, c.GetHeader("X-Shopify-Hmac-Sha256")) {
		logger.Get().Warnw("webhook signature rejected",
			"path", c.Request.URL.Path,
			"shop", c.GetHeader(ShopDomainHeader),
		)
		respondWithError(c, apperrors.ErrInvalidSignature)
		return nil, false
	}
	return body, true
}

// AppUninstalled removes the shop record when the app is removed.
// @Summary     app/uninstalled webhook
// @Tags        shopify
// @Accept      json
// @Param       X-Shopify-Hmac-Sha256 header string true "Body signature"
// @Success     200 {string} string "ok"
// @Failure     401 {object} ErrorResponse "Signature mismatch"
// @Router      /webhooks/app_uninstalled [post]
func (h *ShopifyHandler) AppUninstalled(c *gin.Context) {
	body, ok := h.verifiedBody(c)
	if !ok {
		return
	}

	shop := c.GetHeader(ShopDomainHeader)
	if shop == "" {
		var payload struct {
			Domain          string `json:"domain"`
			MyshopifyDomain string `json:"myshopify_domain"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			shop = payload.MyshopifyDomain
			if shop == "" {
				shop = payload.Domain
			}
		}
	}

	if shop, ok := normalizeShop(shop); ok {
		if err := h.shopService.Delete(c.Request.Context(), shop); err != nil {
			respondWithError(c, err)
			return
		}
		logger.Get().Infow("shop uninstalled", "shop", shop)
	}

	c.String(http.StatusOK, "ok")
}

// CustomersDataRequest acknowledges a GDPR data request. No customer data is
// held beyond submissions, which merchants export themselves.
// @Summary     customers/data_request webhook
// @Tags        shopify
// @Param       X-Shopify-Hmac-Sha256 header string true "Body signature"
// @Success     200 {string} string "ok"
// @Failure     401 {object} ErrorResponse "Signature mismatch"
// @Router      /webhooks/customers_data_request [post]
func (h *ShopifyHandler) CustomersDataRequest(c *gin.Context) {
	if _, ok := h.verifiedBody(c); !ok {
		return
	}
	logger.Get().Infow("customers data request acknowledged", "shop", c.GetHeader(ShopDomainHeader))
	c.String(http.StatusOK, "ok")
}

// CustomersRedact acknowledges a GDPR redaction request.
// @Summary     customers/redact webhook
// @Tags        shopify
// @Param       X-Shopify-Hmac-Sha256 header string true "Body signature"
// @Success     200 {string} string "ok"
// @Failure     401 {object} ErrorResponse "Signature mismatch"
// @Router      /webhooks/customers_redact [post]
func (h *ShopifyHandler) CustomersRedact(c *gin.Context) {
	if _, ok := h.verifiedBody(c); !ok {
		return
	}
	logger.Get().Infow("customers redact acknowledged", "shop", c.GetHeader(ShopDomainHeader))
	c.String(http.StatusOK, "ok")
}
