package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"repairdesk/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, fmt.Sprintf("Category %d", nextID()), 0)
}

// CreateTestCategoryNamed creates a category with the given name and order.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, name string, order int) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Order: order}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestSeries creates a series under categoryID.
func CreateTestSeries(t *testing.T, db *gorm.DB, categoryID, name string) *models.Series {
	t.Helper()

	series := &models.Series{CategoryID: categoryID, Name: name}
	if err := db.Create(series).Error; err != nil {
		t.Fatalf("failed to create test series: %v", err)
	}
	return series
}

// CreateTestModel creates a device model under seriesID.
func CreateTestModel(t *testing.T, db *gorm.DB, seriesID, name string) *models.DeviceModel {
	t.Helper()

	model := &models.DeviceModel{SeriesID: seriesID, Name: name}
	if err := db.Create(model).Error; err != nil {
		t.Fatalf("failed to create test model: %v", err)
	}
	return model
}

// CreateTestInjury creates an injury type with the given default price.
func CreateTestInjury(t *testing.T, db *gorm.DB, name string, defaultPrice models.Price) *models.InjuryType {
	t.Helper()

	injury := &models.InjuryType{Name: name, DefaultPrice: defaultPrice}
	if err := db.Create(injury).Error; err != nil {
		t.Fatalf("failed to create test injury: %v", err)
	}
	return injury
}

// CreateTestPrice creates a price combination for one scope level.
func CreateTestPrice(t *testing.T, db *gorm.DB, level models.ScopeLevel, scopeID, injuryID string, price models.Price) *models.PriceCombination {
	t.Helper()

	pc := &models.PriceCombination{InjuryID: injuryID, Price: price}
	id := scopeID
	switch level {
	case models.ScopeModel:
		pc.ModelID = &id
	case models.ScopeSeries:
		pc.SeriesID = &id
	case models.ScopeCategory:
		pc.CategoryID = &id
	}
	if !pc.ApplyScope() {
		t.Fatalf("invalid scope level %q", level)
	}
	if err := db.Create(pc).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
	return pc
}

// Catalog is the small phone catalog most tests quote against.
type Catalog struct {
	Phones      *models.Category
	GalaxyS     *models.Series
	S21         *models.DeviceModel
	S22         *models.DeviceModel
	ScreenCrack *models.InjuryType
	Battery     *models.InjuryType
}

// CreateTestCatalog creates Phones > Galaxy S > {S21, S22} plus two
// injuries. Screen Crack defaults to 49.99 and has an 89.00 override on the
// S21; Battery has no overrides.
func CreateTestCatalog(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()

	c := &Catalog{}
	c.Phones = CreateTestCategoryNamed(t, db, "Phones", 0)
	c.GalaxyS = CreateTestSeries(t, db, c.Phones.ID, "Galaxy S")
	c.S21 = CreateTestModel(t, db, c.GalaxyS.ID, "S21")
	c.S22 = CreateTestModel(t, db, c.GalaxyS.ID, "S22")
	c.ScreenCrack = CreateTestInjury(t, db, "Screen Crack", "49.99")
	c.Battery = CreateTestInjury(t, db, "Battery", "39")
	CreateTestPrice(t, db, models.ScopeModel, c.S21.ID, c.ScreenCrack.ID, "89.00")
	return c
}
