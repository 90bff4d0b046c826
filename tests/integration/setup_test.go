package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"repairdesk/internal/config"
	"repairdesk/internal/logger"
	"repairdesk/internal/ratelimit"
	"repairdesk/internal/server"
	"repairdesk/internal/testutil"
	"repairdesk/internal/validator"
)

const (
	adminPassword = "integration-secret"
	shopifySecret = "shpss_integration"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Config *config.Config
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "")
	validator.Register()
}

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		Host:             "https://repairdesk.example.com",
		StoreTimeout:     2 * time.Second,
		AdminPassword:    adminPassword,
		AdminTokenSecret: adminPassword,
		AdminTokenTTL:    time.Hour,
		SubmitRateLimit:  30,
		SubmitRateWindow: time.Minute,
		Shopify: config.ShopifyConfig{
			APIKey:     "integration-key",
			APISecret:  shopifySecret,
			Scopes:     "read_products",
			APIVersion: "2024-10",
		},
	}
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithConfig(t, testConfig())
}

func setupAppWithConfig(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	router := server.NewRouter(server.Deps{
		Config:       cfg,
		DB:           db,
		StoreTimeout: cfg.StoreTimeout,
		Limiter:      ratelimit.NewMemoryLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow),
	})
	return &testApp{DB: db, Router: router, Config: cfg}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// admin makes a request carrying the shared admin password.
func (app *testApp) admin(method, path, body string) *httptest.ResponseRecorder {
	return app.request(method, path, body, map[string]string{"X-Admin-Password": adminPassword})
}

// create posts an admin resource and returns its id.
func (app *testApp) create(t *testing.T, path, body string) string {
	t.Helper()
	rec := app.admin(http.MethodPost, path, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST %s failed: %d %s", path, rec.Code, rec.Body.String())
	}
	id, _ := parseJSON(t, rec)["id"].(string)
	if id == "" {
		t.Fatalf("POST %s returned no id: %s", path, rec.Body.String())
	}
	return id
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// seededCatalog is the Phones > iPhone 13 > {Pro, Mini} catalog with one
// model-level override for the screen on the Pro.
type seededCatalog struct {
	CategoryID string
	SeriesID   string
	ProID      string
	MiniID     string
	ScreenID   string
	BatteryID  string
}

func (app *testApp) seedCatalog(t *testing.T) seededCatalog {
	t.Helper()
	var c seededCatalog
	c.CategoryID = app.create(t, "/api/admin/categories", `{"name":"Phones","order":1}`)
	c.SeriesID = app.create(t, "/api/admin/series", fmt.Sprintf(`{"categoryId":%q,"name":"iPhone 13"}`, c.CategoryID))
	c.ProID = app.create(t, "/api/admin/models", fmt.Sprintf(`{"seriesId":%q,"name":"iPhone 13 Pro","sku":"A2638"}`, c.SeriesID))
	c.MiniID = app.create(t, "/api/admin/models", fmt.Sprintf(`{"seriesId":%q,"name":"iPhone 13 Mini","order":2}`, c.SeriesID))
	c.ScreenID = app.create(t, "/api/admin/injuries", `{"name":"Screen Crack","defaultPrice":"49.99"}`)
	c.BatteryID = app.create(t, "/api/admin/injuries", `{"name":"Battery"}`)
	app.create(t, "/api/admin/prices", fmt.Sprintf(`{"modelId":%q,"injuryId":%q,"price":"89.00","notes":"OEM panel"}`, c.ProID, c.ScreenID))
	return c
}
