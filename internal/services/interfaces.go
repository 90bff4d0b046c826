package services

import (
	"context"
	"encoding/json"

	"repairdesk/internal/models"
	"repairdesk/internal/pagination"
)

// Structure is the whole catalog as served to the storefront widget.
type Structure struct {
	Categories []models.Category    `json:"categories"`
	Series     []models.Series      `json:"series"`
	Models     []models.DeviceModel `json:"models"`
	Injuries   []models.InjuryType  `json:"injuries"`
}

// CategoryInput holds the fields accepted when creating a category.
type CategoryInput struct {
	Name  string
	Image string
	Order int
}

// CategoryPatch holds optional category fields; nil fields are left unchanged.
type CategoryPatch struct {
	Name  *string
	Image *string
	Order *int
}

// SeriesInput holds the fields accepted when creating a series.
type SeriesInput struct {
	CategoryID string
	Name       string
	Slug       string
	Image      string
	Order      int
}

// SeriesPatch holds optional series fields; nil fields are left unchanged.
type SeriesPatch struct {
	CategoryID *string
	Name       *string
	Slug       *string
	Image      *string
	Order      *int
}

// ModelInput holds the fields accepted when creating a device model.
type ModelInput struct {
	SeriesID string
	Name     string
	SKU      string
	GUID     string
	Order    int
}

// ModelPatch holds optional device model fields; nil fields are left unchanged.
type ModelPatch struct {
	SeriesID *string
	Name     *string
	SKU      *string
	GUID     *string
	Order    *int
}

// InjuryInput holds the fields accepted when creating an injury type.
type InjuryInput struct {
	Name         string
	Image        string
	DefaultPrice models.Price
}

// InjuryPatch holds optional injury type fields; nil fields are left unchanged.
type InjuryPatch struct {
	Name         *string
	Image        *string
	DefaultPrice *models.Price
}

// CatalogServicer defines the contract for the device catalog.
type CatalogServicer interface {
	Structure(ctx context.Context) (*Structure, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListSeries(ctx context.Context) ([]models.Series, error)
	GetSeriesByID(ctx context.Context, id string) (*models.Series, error)
	CreateSeries(ctx context.Context, in SeriesInput) (*models.Series, error)
	UpdateSeries(ctx context.Context, id string, patch SeriesPatch) (*models.Series, error)
	DeleteSeries(ctx context.Context, id string) error

	ListModels(ctx context.Context) ([]models.DeviceModel, error)
	GetModelByID(ctx context.Context, id string) (*models.DeviceModel, error)
	CreateModel(ctx context.Context, in ModelInput) (*models.DeviceModel, error)
	UpdateModel(ctx context.Context, id string, patch ModelPatch) (*models.DeviceModel, error)
	DeleteModel(ctx context.Context, id string) error

	ListInjuries(ctx context.Context) ([]models.InjuryType, error)
	GetInjuryByID(ctx context.Context, id string) (*models.InjuryType, error)
	CreateInjury(ctx context.Context, in InjuryInput) (*models.InjuryType, error)
	UpdateInjury(ctx context.Context, id string, patch InjuryPatch) (*models.InjuryType, error)
	DeleteInjury(ctx context.Context, id string) error
}

// Selection is the storefront's current walk through the catalog.
type Selection struct {
	CategoryID string
	SeriesID   string
	ModelID    string
	InjuryID   string
}

// ResolutionLevel names where a quoted price came from.
type ResolutionLevel string

const (
	LevelModel    ResolutionLevel = "model"
	LevelSeries   ResolutionLevel = "series"
	LevelCategory ResolutionLevel = "category"
	LevelDefault  ResolutionLevel = "default"
	LevelNone     ResolutionLevel = "none"
)

// Quote is the resolved price for a selection. Level is internal and never
// serialized.
type Quote struct {
	Price models.Price    `json:"price"`
	Notes string          `json:"notes,omitempty"`
	Level ResolutionLevel `json:"-"`
}

// PriceInput holds the fields accepted when creating a price combination.
type PriceInput struct {
	CategoryID *string
	SeriesID   *string
	ModelID    *string
	InjuryID   string
	Price      models.Price
	Notes      string
}

// PricePatch holds optional price combination fields. When any scope field
// is non-nil the scope is replaced by exactly the scope fields given; an
// empty string clears a field.
type PricePatch struct {
	CategoryID *string
	SeriesID   *string
	ModelID    *string
	InjuryID   *string
	Price      *models.Price
	Notes      *string
}

// PriceFilter narrows ListPrices. Zero values match everything.
type PriceFilter struct {
	InjuryID   string
	ScopeLevel models.ScopeLevel
	ScopeID    string
}

// PriceServicer defines the contract for price resolution and price overrides.
type PriceServicer interface {
	Resolve(ctx context.Context, sel Selection) (*Quote, error)

	ListPrices(ctx context.Context, filter PriceFilter) ([]models.PriceCombination, error)
	GetPriceByID(ctx context.Context, id string) (*models.PriceCombination, error)
	CreatePrice(ctx context.Context, in PriceInput) (*models.PriceCombination, error)
	UpdatePrice(ctx context.Context, id string, patch PricePatch) (*models.PriceCombination, error)
	DeletePrice(ctx context.Context, id string) error
}

// SubmissionInput is a repair request as received from the widget, before
// trimming and validation.
type SubmissionInput struct {
	Name          string
	Email         string
	Phone         string
	Problem       string
	Address       string
	PreferredDate string

	CategoryID     string
	SeriesID       string
	ModelID        string
	InjuryID       string
	DeviceCategory string
	SeriesName     string
	ModelName      string
	InjuryName     string
	DeviceSKU      string
	DeviceGUID     string
	Price          string

	FormData json.RawMessage
	Raw      json.RawMessage
	Ref      string
	UTM      json.RawMessage

	Shop      string
	Source    string
	IP        string
	UserAgent string
}

// SubmissionServicer defines the contract for recording and reviewing repair requests.
type SubmissionServicer interface {
	Record(ctx context.Context, in SubmissionInput) (string, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Submission], error)
	Export(ctx context.Context) ([]byte, error)
}

// ShopServicer defines the contract for installed-shop bookkeeping.
type ShopServicer interface {
	Upsert(ctx context.Context, domain, accessToken, scope string) (*models.Shop, error)
	GetByDomain(ctx context.Context, domain string) (*models.Shop, error)
	Delete(ctx context.Context, domain string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(actor, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
