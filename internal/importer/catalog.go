// Package importer loads device catalogs from seed files into the catalog
// store. Imports are find-or-create, so running the same file twice leaves
// the catalog unchanged.
package importer

import (
	"context"
	"fmt"
	"strings"

	"repairdesk/internal/logger"
	"repairdesk/internal/models"
	"repairdesk/internal/services"
)

// Catalog is a parsed seed file.
type Catalog struct {
	Categories []CategorySpec `yaml:"categories"`
	Injuries   []InjurySpec   `yaml:"injuries"`
}

// CategorySpec describes a category and the series below it.
type CategorySpec struct {
	Name   string       `yaml:"name"`
	Image  string       `yaml:"image"`
	Order  int          `yaml:"order"`
	Series []SeriesSpec `yaml:"series"`
}

// SeriesSpec describes a series and its models.
type SeriesSpec struct {
	Name   string      `yaml:"name"`
	Slug   string      `yaml:"slug"`
	Image  string      `yaml:"image"`
	Order  int         `yaml:"order"`
	Models []ModelSpec `yaml:"models"`
}

// ModelSpec describes a single device model.
type ModelSpec struct {
	Name  string `yaml:"name"`
	SKU   string `yaml:"sku"`
	GUID  string `yaml:"guid"`
	Order int    `yaml:"order"`
}

// InjurySpec describes an injury type.
type InjurySpec struct {
	Name         string `yaml:"name"`
	Image        string `yaml:"image"`
	DefaultPrice string `yaml:"defaultPrice"`
}

// Result counts what an import created and what already existed.
type Result struct {
	CategoriesCreated int
	SeriesCreated     int
	ModelsCreated     int
	InjuriesCreated   int
	Existing          int
}

func (r Result) String() string {
	return fmt.Sprintf("categories=%d series=%d models=%d injuries=%d existing=%d",
		r.CategoriesCreated, r.SeriesCreated, r.ModelsCreated, r.InjuriesCreated, r.Existing)
}

// Importer applies parsed catalogs through the catalog service.
type Importer struct {
	catalog services.CatalogServicer

	categories map[string]*models.Category    // Slugify(name)
	series     map[string]*models.Series      // categoryID + "/" + name
	models     map[string]*models.DeviceModel // seriesID + "/" + name
	injuries   map[string]*models.InjuryType  // Slugify(name)
}

// New creates an Importer backed by catalog.
func New(catalog services.CatalogServicer) *Importer {
	return &Importer{catalog: catalog}
}

// Apply creates every entry of c that does not exist yet. Existing rows are
// matched by name within their parent and are never modified.
func (im *Importer) Apply(ctx context.Context, c *Catalog) (Result, error) {
	var res Result
	if err := im.load(ctx); err != nil {
		return res, err
	}

	for _, cs := range c.Categories {
		cat, created, err := im.ensureCategory(ctx, cs)
		if err != nil {
			return res, fmt.Errorf("category %q: %w", cs.Name, err)
		}
		res.count(created, &res.CategoriesCreated)

		for _, ss := range cs.Series {
			series, created, err := im.ensureSeries(ctx, cat.ID, ss)
			if err != nil {
				return res, fmt.Errorf("series %q: %w", ss.Name, err)
			}
			res.count(created, &res.SeriesCreated)

			for _, ms := range ss.Models {
				_, created, err := im.ensureModel(ctx, series.ID, ms)
				if err != nil {
					return res, fmt.Errorf("model %q: %w", ms.Name, err)
				}
				res.count(created, &res.ModelsCreated)
			}
		}
	}

	for _, is := range c.Injuries {
		_, created, err := im.ensureInjury(ctx, is)
		if err != nil {
			return res, fmt.Errorf("injury %q: %w", is.Name, err)
		}
		res.count(created, &res.InjuriesCreated)
	}

	logger.Get().Infow("catalog import finished",
		"categories_created", res.CategoriesCreated,
		"series_created", res.SeriesCreated,
		"models_created", res.ModelsCreated,
		"injuries_created", res.InjuriesCreated,
		"existing", res.Existing,
	)
	return res, nil
}

func (r *Result) count(created bool, counter *int) {
	if created {
		*counter++
	} else {
		r.Existing++
	}
}

// load indexes the current catalog so lookups during an import stay in memory.
func (im *Importer) load(ctx context.Context) error {
	structure, err := im.catalog.Structure(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	im.categories = make(map[string]*models.Category, len(structure.Categories))
	for i := range structure.Categories {
		c := &structure.Categories[i]
		im.categories[services.Slugify(c.Name)] = c
	}
	im.series = make(map[string]*models.Series, len(structure.Series))
	for i := range structure.Series {
		s := &structure.Series[i]
		im.series[childKey(s.CategoryID, s.Name)] = s
	}
	im.models = make(map[string]*models.DeviceModel, len(structure.Models))
	for i := range structure.Models {
		m := &structure.Models[i]
		im.models[childKey(m.SeriesID, m.Name)] = m
	}
	im.injuries = make(map[string]*models.InjuryType, len(structure.Injuries))
	for i := range structure.Injuries {
		inj := &structure.Injuries[i]
		im.injuries[services.Slugify(inj.Name)] = inj
	}
	return nil
}

func childKey(parentID, name string) string {
	return parentID + "/" + strings.TrimSpace(name)
}

func (im *Importer) ensureCategory(ctx context.Context, in CategorySpec) (*models.Category, bool, error) {
	key := services.Slugify(in.Name)
	if existing, ok := im.categories[key]; ok {
		return existing, false, nil
	}
	cat, err := im.catalog.CreateCategory(ctx, services.CategoryInput{
		Name:  in.Name,
		Image: in.Image,
		Order: in.Order,
	})
	if err != nil {
		return nil, false, err
	}
	im.categories[key] = cat
	return cat, true, nil
}

func (im *Importer) ensureSeries(ctx context.Context, categoryID string, in SeriesSpec) (*models.Series, bool, error) {
	key := childKey(categoryID, in.Name)
	if existing, ok := im.series[key]; ok {
		return existing, false, nil
	}
	series, err := im.catalog.CreateSeries(ctx, services.SeriesInput{
		CategoryID: categoryID,
		Name:       in.Name,
		Slug:       in.Slug,
		Image:      in.Image,
		Order:      in.Order,
	})
	if err != nil {
		return nil, false, err
	}
	im.series[key] = series
	return series, true, nil
}

func (im *Importer) ensureModel(ctx context.Context, seriesID string, in ModelSpec) (*models.DeviceModel, bool, error) {
	key := childKey(seriesID, in.Name)
	if existing, ok := im.models[key]; ok {
		return existing, false, nil
	}
	model, err := im.catalog.CreateModel(ctx, services.ModelInput{
		SeriesID: seriesID,
		Name:     in.Name,
		SKU:      in.SKU,
		GUID:     in.GUID,
		Order:    in.Order,
	})
	if err != nil {
		return nil, false, err
	}
	im.models[key] = model
	return model, true, nil
}

func (im *Importer) ensureInjury(ctx context.Context, in InjurySpec) (*models.InjuryType, bool, error) {
	key := services.Slugify(in.Name)
	if existing, ok := im.injuries[key]; ok {
		return existing, false, nil
	}
	injury, err := im.catalog.CreateInjury(ctx, services.InjuryInput{
		Name:         in.Name,
		Image:        in.Image,
		DefaultPrice: models.Price(in.DefaultPrice),
	})
	if err != nil {
		return nil, false, err
	}
	im.injuries[key] = injury
	return injury, true, nil
}
