package integration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"testing"

	"repairdesk/internal/models"
)

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(shopifySecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestShopifyFlow_Webhooks(t *testing.T) {
	app := setupApp(t)
	if err := app.DB.Create(&models.Shop{Domain: "demo.myshopify.com", AccessToken: "shpat_x"}).Error; err != nil {
		t.Fatalf("failed to seed shop: %v", err)
	}

	body := `{"myshopify_domain":"demo.myshopify.com"}`

	// Step 1: a forged signature is rejected and nothing is deleted
	rec := app.request(http.MethodPost, "/webhooks/app_uninstalled", body, map[string]string{
		"X-Shopify-Hmac-Sha256": sign(body + " "),
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for HMAC mismatch, got %d", rec.Code)
	}
	var count int64
	app.DB.Model(&models.Shop{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected shop kept after forged webhook, got %d", count)
	}

	// Step 2: a valid uninstall removes the shop
	rec = app.request(http.MethodPost, "/webhooks/app_uninstalled", body, map[string]string{
		"X-Shopify-Hmac-Sha256": sign(body),
		"X-Shopify-Shop-Domain": "demo.myshopify.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	app.DB.Model(&models.Shop{}).Count(&count)
	if count != 0 {
		t.Errorf("expected shop deleted, got %d", count)
	}

	// Step 3: GDPR topics acknowledge signed payloads
	gdpr := `{"shop_domain":"demo.myshopify.com"}`
	for _, path := range []string{"/webhooks/customers_data_request", "/webhooks/customers_redact"} {
		rec = app.request(http.MethodPost, path, gdpr, map[string]string{"X-Shopify-Hmac-Sha256": sign(gdpr)})
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestShopifyFlow_Install(t *testing.T) {
	app := setupApp(t)

	rec := app.request(http.MethodGet, "/auth?shop=demo.myshopify.com", "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}

	// Unsigned callbacks never reach the token exchange
	rec = app.request(http.MethodGet, "/auth/callback?shop=demo.myshopify.com&code=abc&hmac=00", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	for _, path := range []string{"/health", "/api/health"} {
		rec := app.request(http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK || parseJSON(t, rec)["ok"] != true {
			t.Errorf("%s: unexpected response %d %s", path, rec.Code, rec.Body.String())
		}
	}
}
