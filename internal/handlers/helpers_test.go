package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/models"
	"repairdesk/internal/pagination"
	"repairdesk/internal/services"
	"repairdesk/internal/validator"
)

// --- mock services ---

type mockCatalogService struct {
	structureFn func(ctx context.Context) (*services.Structure, error)

	listCategoriesFn func(ctx context.Context) ([]models.Category, error)
	getCategoryFn    func(ctx context.Context, id string) (*models.Category, error)
	createCategoryFn func(ctx context.Context, in services.CategoryInput) (*models.Category, error)
	updateCategoryFn func(ctx context.Context, id string, patch services.CategoryPatch) (*models.Category, error)
	deleteCategoryFn func(ctx context.Context, id string) error

	listSeriesFn   func(ctx context.Context) ([]models.Series, error)
	getSeriesFn    func(ctx context.Context, id string) (*models.Series, error)
	createSeriesFn func(ctx context.Context, in services.SeriesInput) (*models.Series, error)
	updateSeriesFn func(ctx context.Context, id string, patch services.SeriesPatch) (*models.Series, error)
	deleteSeriesFn func(ctx context.Context, id string) error

	listModelsFn  func(ctx context.Context) ([]models.DeviceModel, error)
	getModelFn    func(ctx context.Context, id string) (*models.DeviceModel, error)
	createModelFn func(ctx context.Context, in services.ModelInput) (*models.DeviceModel, error)
	updateModelFn func(ctx context.Context, id string, patch services.ModelPatch) (*models.DeviceModel, error)
	deleteModelFn func(ctx context.Context, id string) error

	listInjuriesFn func(ctx context.Context) ([]models.InjuryType, error)
	getInjuryFn    func(ctx context.Context, id string) (*models.InjuryType, error)
	createInjuryFn func(ctx context.Context, in services.InjuryInput) (*models.InjuryType, error)
	updateInjuryFn func(ctx context.Context, id string, patch services.InjuryPatch) (*models.InjuryType, error)
	deleteInjuryFn func(ctx context.Context, id string) error
}

func (m *mockCatalogService) Structure(ctx context.Context) (*services.Structure, error) {
	return m.structureFn(ctx)
}
func (m *mockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.listCategoriesFn(ctx)
}
func (m *mockCatalogService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return m.getCategoryFn(ctx, id)
}
func (m *mockCatalogService) CreateCategory(ctx context.Context, in services.CategoryInput) (*models.Category, error) {
	return m.createCategoryFn(ctx, in)
}
func (m *mockCatalogService) UpdateCategory(ctx context.Context, id string, patch services.CategoryPatch) (*models.Category, error) {
	return m.updateCategoryFn(ctx, id, patch)
}
func (m *mockCatalogService) DeleteCategory(ctx context.Context, id string) error {
	return m.deleteCategoryFn(ctx, id)
}
func (m *mockCatalogService) ListSeries(ctx context.Context) ([]models.Series, error) {
	return m.listSeriesFn(ctx)
}
func (m *mockCatalogService) GetSeriesByID(ctx context.Context, id string) (*models.Series, error) {
	return m.getSeriesFn(ctx, id)
}
func (m *mockCatalogService) CreateSeries(ctx context.Context, in services.SeriesInput) (*models.Series, error) {
	return m.createSeriesFn(ctx, in)
}
func (m *mockCatalogService) UpdateSeries(ctx context.Context, id string, patch services.SeriesPatch) (*models.Series, error) {
	return m.updateSeriesFn(ctx, id, patch)
}
func (m *mockCatalogService) DeleteSeries(ctx context.Context, id string) error {
	return m.deleteSeriesFn(ctx, id)
}
func (m *mockCatalogService) ListModels(ctx context.Context) ([]models.DeviceModel, error) {
	return m.listModelsFn(ctx)
}
func (m *mockCatalogService) GetModelByID(ctx context.Context, id string) (*models.DeviceModel, error) {
	return m.getModelFn(ctx, id)
}
func (m *mockCatalogService) CreateModel(ctx context.Context, in services.ModelInput) (*models.DeviceModel, error) {
	return m.createModelFn(ctx, in)
}
func (m *mockCatalogService) UpdateModel(ctx context.Context, id string, patch services.ModelPatch) (*models.DeviceModel, error) {
	return m.updateModelFn(ctx, id, patch)
}
func (m *mockCatalogService) DeleteModel(ctx context.Context, id string) error {
	return m.deleteModelFn(ctx, id)
}
func (m *mockCatalogService) ListInjuries(ctx context.Context) ([]models.InjuryType, error) {
	return m.listInjuriesFn(ctx)
}
func (m *mockCatalogService) GetInjuryByID(ctx context.Context, id string) (*models.InjuryType, error) {
	return m.getInjuryFn(ctx, id)
}
func (m *mockCatalogService) CreateInjury(ctx context.Context, in services.InjuryInput) (*models.InjuryType, error) {
	return m.createInjuryFn(ctx, in)
}
func (m *mockCatalogService) UpdateInjury(ctx context.Context, id string, patch services.InjuryPatch) (*models.InjuryType, error) {
	return m.updateInjuryFn(ctx, id, patch)
}
func (m *mockCatalogService) DeleteInjury(ctx context.Context, id string) error {
	return m.deleteInjuryFn(ctx, id)
}

type mockPriceService struct {
	resolveFn     func(ctx context.Context, sel services.Selection) (*services.Quote, error)
	listPricesFn  func(ctx context.Context, filter services.PriceFilter) ([]models.PriceCombination, error)
	getPriceFn    func(ctx context.Context, id string) (*models.PriceCombination, error)
	createPriceFn func(ctx context.Context, in services.PriceInput) (*models.PriceCombination, error)
	updatePriceFn func(ctx context.Context, id string, patch services.PricePatch) (*models.PriceCombination, error)
	deletePriceFn func(ctx context.Context, id string) error
}

func (m *mockPriceService) Resolve(ctx context.Context, sel services.Selection) (*services.Quote, error) {
	return m.resolveFn(ctx, sel)
}
func (m *mockPriceService) ListPrices(ctx context.Context, filter services.PriceFilter) ([]models.PriceCombination, error) {
	return m.listPricesFn(ctx, filter)
}
func (m *mockPriceService) GetPriceByID(ctx context.Context, id string) (*models.PriceCombination, error) {
	return m.getPriceFn(ctx, id)
}
func (m *mockPriceService) CreatePrice(ctx context.Context, in services.PriceInput) (*models.PriceCombination, error) {
	return m.createPriceFn(ctx, in)
}
func (m *mockPriceService) UpdatePrice(ctx context.Context, id string, patch services.PricePatch) (*models.PriceCombination, error) {
	return m.updatePriceFn(ctx, id, patch)
}
func (m *mockPriceService) DeletePrice(ctx context.Context, id string) error {
	return m.deletePriceFn(ctx, id)
}

type mockSubmissionService struct {
	recordFn func(ctx context.Context, in services.SubmissionInput) (string, error)
	countFn  func(ctx context.Context) (int64, error)
	listFn   func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Submission], error)
	exportFn func(ctx context.Context) ([]byte, error)
}

func (m *mockSubmissionService) Record(ctx context.Context, in services.SubmissionInput) (string, error) {
	return m.recordFn(ctx, in)
}
func (m *mockSubmissionService) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}
func (m *mockSubmissionService) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Submission], error) {
	return m.listFn(ctx, page)
}
func (m *mockSubmissionService) Export(ctx context.Context) ([]byte, error) {
	return m.exportFn(ctx)
}

type mockShopService struct {
	upsertFn func(ctx context.Context, domain, accessToken, scope string) (*models.Shop, error)
	getFn    func(ctx context.Context, domain string) (*models.Shop, error)
	deleteFn func(ctx context.Context, domain string) error
}

func (m *mockShopService) Upsert(ctx context.Context, domain, accessToken, scope string) (*models.Shop, error) {
	return m.upsertFn(ctx, domain, accessToken, scope)
}
func (m *mockShopService) GetByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	return m.getFn(ctx, domain)
}
func (m *mockShopService) Delete(ctx context.Context, domain string) error {
	return m.deleteFn(ctx, domain)
}

type auditEntry struct {
	actor, action, resourceType, resourceID string
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(actor, action, resourceType, resourceID, _ string, _ map[string]any) {
	m.entries = append(m.entries, auditEntry{actor, action, resourceType, resourceID})
}

// --- test helpers ---

const (
	testID      = "0190a6f1-7c2e-7b1a-9f00-000000000001"
	otherTestID = "0190a6f1-7c2e-7b1a-9f00-000000000002"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// injectActor stands in for the admin gate.
func injectActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("adminActor", "admin:password")
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertErrorReason(t *testing.T, result map[string]interface{}, reason string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["reason"] != reason {
		t.Errorf("expected error reason %q, got %q", reason, errObj["reason"])
	}
}

func strPtr(s string) *string { return &s }

func doAuthorized(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
