package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/models"
	"repairdesk/internal/shopify"
)

type mockShopifyClient struct {
	configured    bool
	queryValid    bool
	webhookValid  bool
	exchangeErr   error
	registerErr   error
	registered    []string
	exchangedCode string
}

func (m *mockShopifyClient) Configured() bool { return m.configured }

func (m *mockShopifyClient) AuthorizeURL(shop, redirectURI string) string {
	return "https://" + shop + "/admin/oauth/authorize?redirect_uri=" + url.QueryEscape(redirectURI)
}

func (m *mockShopifyClient) ExchangeToken(_ context.Context, _, code string) (*shopify.AccessToken, error) {
	m.exchangedCode = code
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return &shopify.AccessToken{AccessToken: "shpat_test", Scope: "read_products"}, nil
}

func (m *mockShopifyClient) RegisterWebhook(_ context.Context, _, _, topic, address string) error {
	m.registered = append(m.registered, topic+" "+address)
	return m.registerErr
}

func (m *mockShopifyClient) VerifyWebhook(_ []byte, header string) bool {
	return m.webhookValid && header != ""
}

func (m *mockShopifyClient) VerifyQuery(_ url.Values) bool { return m.queryValid }

func setupShopifyRouter(handler *ShopifyHandler) *gin.Engine {
	r := gin.New()
	r.GET("/auth", handler.Install)
	r.GET("/auth/callback", handler.Callback)
	r.POST("/webhooks/app_uninstalled", handler.AppUninstalled)
	r.POST("/webhooks/customers_data_request", handler.CustomersDataRequest)
	r.POST("/webhooks/customers_redact", handler.CustomersRedact)
	return r
}

func TestShopifyHandler_Install(t *testing.T) {
	t.Run("redirects to consent screen", func(t *testing.T) {
		client := &mockShopifyClient{configured: true}
		r := setupShopifyRouter(NewShopifyHandler(client, &mockShopService{}, "https://app.example.com/"))

		rec := doRequest(r, http.MethodGet, "/auth?shop=Demo.myshopify.com", "")
		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		loc := rec.Header().Get("Location")
		if !strings.HasPrefix(loc, "https://demo.myshopify.com/admin/oauth/authorize") {
			t.Errorf("unexpected redirect %q", loc)
		}
		if !strings.Contains(loc, url.QueryEscape("https://app.example.com/auth/callback")) {
			t.Errorf("expected callback in redirect, got %q", loc)
		}
	})

	t.Run("rejects foreign domain", func(t *testing.T) {
		r := setupShopifyRouter(NewShopifyHandler(&mockShopifyClient{configured: true}, &mockShopService{}, "https://app.example.com"))
		rec := doRequest(r, http.MethodGet, "/auth?shop=evil.com", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorReason(t, parseJSON(t, rec), "invalid_shop")
	})

	t.Run("unconfigured app is 503", func(t *testing.T) {
		r := setupShopifyRouter(NewShopifyHandler(&mockShopifyClient{}, &mockShopService{}, "https://app.example.com"))
		rec := doRequest(r, http.MethodGet, "/auth?shop=demo.myshopify.com", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestShopifyHandler_Callback(t *testing.T) {
	t.Run("stores shop and registers webhooks", func(t *testing.T) {
		client := &mockShopifyClient{configured: true, queryValid: true, registerErr: errors.New("throttled")}
		var upserted, token string
		shops := &mockShopService{
			upsertFn: func(_ context.Context, domain, accessToken, _ string) (*models.Shop, error) {
				upserted, token = domain, accessToken
				return &models.Shop{Domain: domain}, nil
			},
		}
		r := setupShopifyRouter(NewShopifyHandler(client, shops, "https://app.example.com"))

		rec := doRequest(r, http.MethodGet, "/auth/callback?shop=demo.myshopify.com&code=abc&hmac=ff", "")
		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
		}
		if loc := rec.Header().Get("Location"); loc != "https://app.example.com/?shop=demo.myshopify.com" {
			t.Errorf("unexpected redirect %q", loc)
		}
		if upserted != "demo.myshopify.com" || token != "shpat_test" || client.exchangedCode != "abc" {
			t.Errorf("unexpected upsert: shop=%q token=%q code=%q", upserted, token, client.exchangedCode)
		}
		if len(client.registered) != 3 {
			t.Errorf("expected 3 webhook registrations despite failures, got %v", client.registered)
		}
	})

	t.Run("bad signature is 401", func(t *testing.T) {
		client := &mockShopifyClient{configured: true}
		r := setupShopifyRouter(NewShopifyHandler(client, &mockShopService{}, "https://app.example.com"))
		rec := doRequest(r, http.MethodGet, "/auth/callback?shop=demo.myshopify.com&code=abc&hmac=00", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_SIGNATURE")
		if client.exchangedCode != "" {
			t.Error("code must not be exchanged when the signature is wrong")
		}
	})

	t.Run("exchange failure is 502", func(t *testing.T) {
		client := &mockShopifyClient{configured: true, queryValid: true, exchangeErr: errors.New("status 400")}
		r := setupShopifyRouter(NewShopifyHandler(client, &mockShopService{}, "https://app.example.com"))
		rec := doRequest(r, http.MethodGet, "/auth/callback?shop=demo.myshopify.com&code=abc&hmac=ff", "")
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})
}

func doWebhook(r *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestShopifyHandler_Webhooks(t *testing.T) {
	t.Run("uninstall deletes shop from header", func(t *testing.T) {
		var deleted string
		shops := &mockShopService{
			deleteFn: func(_ context.Context, domain string) error {
				deleted = domain
				return nil
			},
		}
		r := setupShopifyRouter(NewShopifyHandler(&mockShopifyClient{webhookValid: true}, shops, "https://app.example.com"))

		rec := doWebhook(r, "/webhooks/app_uninstalled", `{}`, map[string]string{
			"X-Shopify-Hmac-Sha256": "sig",
			ShopDomainHeader:        "demo.myshopify.com",
		})
		if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Fatalf("expected 200 ok, got %d %q", rec.Code, rec.Body.String())
		}
		if deleted != "demo.myshopify.com" {
			t.Errorf("expected shop deleted, got %q", deleted)
		}
	})

	t.Run("uninstall falls back to payload domain", func(t *testing.T) {
		var deleted string
		shops := &mockShopService{
			deleteFn: func(_ context.Context, domain string) error {
				deleted = domain
				return nil
			},
		}
		r := setupShopifyRouter(NewShopifyHandler(&mockShopifyClient{webhookValid: true}, shops, "https://app.example.com"))

		rec := doWebhook(r, "/webhooks/app_uninstalled", `{"myshopify_domain":"demo.myshopify.com"}`,
			map[string]string{"X-Shopify-Hmac-Sha256": "sig"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != "demo.myshopify.com" {
			t.Errorf("expected shop deleted, got %q", deleted)
		}
	})

	t.Run("signature mismatch is 401 on every topic", func(t *testing.T) {
		r := setupShopifyRouter(NewShopifyHandler(&mockShopifyClient{}, &mockShopService{}, "https://app.example.com"))
		for _, path := range []string{"/webhooks/app_uninstalled", "/webhooks/customers_data_request", "/webhooks/customers_redact"} {
			rec := doWebhook(r, path, `{}`, map[string]string{"X-Shopify-Hmac-Sha256": "bad"})
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s: expected 401, got %d", path, rec.Code)
			}
		}
	})

	t.Run("gdpr topics acknowledge", func(t *testing.T) {
		r := setupShopifyRouter(NewShopifyHandler(&mockShopifyClient{webhookValid: true}, &mockShopService{}, "https://app.example.com"))
		for _, path := range []string{"/webhooks/customers_data_request", "/webhooks/customers_redact"} {
			rec := doWebhook(r, path, `{"shop_domain":"demo.myshopify.com"}`, map[string]string{"X-Shopify-Hmac-Sha256": "sig"})
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rec.Code)
			}
		}
	})
}
