package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"repairdesk/internal/export"
	"repairdesk/internal/models"
	"repairdesk/internal/pagination"
	"repairdesk/internal/testutil"
)

func newTestSubmissionService(t *testing.T) (SubmissionServicer, *testutil.Catalog, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.CreateTestCatalog(t, db)
	svc := NewSubmissionService(db, time.Second, NewPriceService(db, time.Second))
	return svc, c, func() { testutil.TeardownTestDB(t, db) }
}

func TestRecord_ContactRequired(t *testing.T) {
	ctx := context.Background()
	svc, _, done := newTestSubmissionService(t)
	defer done()

	_, err := svc.Record(ctx, SubmissionInput{Address: "Main St 1"})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	testutil.AssertAppReason(t, err, "missing_contact_or_problem")

	_, err = svc.Record(ctx, SubmissionInput{Name: "  ", Email: "\t", Phone: " ", Problem: "\n"})
	testutil.AssertAppReason(t, err, "missing_contact_or_problem")

	for _, in := range []SubmissionInput{
		{Name: "Ana"},
		{Email: "ana@example.com"},
		{Phone: "+49 170 000"},
		{Problem: "Screen is cracked"},
	} {
		id, err := svc.Record(ctx, in)
		testutil.AssertNoError(t, err)
		if id == "" {
			t.Errorf("expected id for %+v", in)
		}
	}
}

func TestRecord_NoDedup(t *testing.T) {
	ctx := context.Background()
	svc, _, done := newTestSubmissionService(t)
	defer done()

	in := SubmissionInput{Name: "Ana", Email: "ana@example.com"}
	id1, err := svc.Record(ctx, in)
	testutil.AssertNoError(t, err)
	id2, err := svc.Record(ctx, in)
	testutil.AssertNoError(t, err)

	if id1 == id2 {
		t.Errorf("expected distinct ids, got %s twice", id1)
	}
	count, err := svc.Count(ctx)
	testutil.AssertNoError(t, err)
	if count != 2 {
		t.Errorf("expected 2 submissions, got %d", count)
	}
}

func TestRecord_Fields(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	c := testutil.CreateTestCatalog(t, db)
	svc := NewSubmissionService(db, time.Second, NewPriceService(db, time.Second))

	id, err := svc.Record(ctx, SubmissionInput{
		Name:          " Ana ",
		Email:         "ana@example.com",
		PreferredDate: "2026-05-01",
		CategoryID:    c.Phones.ID,
		SeriesID:      c.GalaxyS.ID,
		ModelID:       c.S21.ID,
		InjuryID:      c.ScreenCrack.ID,
		ModelName:     "S21",
		Price:         "€ 89,00",
		FormData:      json.RawMessage(`{"notes":"dropped it"}`),
		Ref:           "https://shop.example.com/repair",
		UTM:           json.RawMessage(`{"source":"newsletter"}`),
		Shop:          "demo.myshopify.com",
		IP:            "203.0.113.9",
		UserAgent:     "test-agent",
	})
	testutil.AssertNoError(t, err)

	var sub models.Submission
	if err := db.Where("id = ?", id).First(&sub).Error; err != nil {
		t.Fatalf("load submission: %v", err)
	}
	if sub.Name != "Ana" {
		t.Errorf("expected trimmed name, got %q", sub.Name)
	}
	if sub.Price != "€ 89,00" {
		t.Errorf("expected client price kept verbatim, got %q", sub.Price)
	}
	if sub.Source != DefaultSubmissionSource {
		t.Errorf("expected default source, got %q", sub.Source)
	}
	if sub.PreferredDate == nil || sub.PreferredDate.Format("2006-01-02") != "2026-05-01" {
		t.Errorf("unexpected preferred date %v", sub.PreferredDate)
	}
	if sub.ModelID == nil || *sub.ModelID != c.S21.ID {
		t.Errorf("expected model id recorded")
	}

	var meta map[string]any
	if err := json.Unmarshal(sub.Meta, &meta); err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta["ref"] != "https://shop.example.com/repair" {
		t.Errorf("unexpected meta ref %v", meta["ref"])
	}
	if utm, ok := meta["utm"].(map[string]any); !ok || utm["source"] != "newsletter" {
		t.Errorf("unexpected meta utm %v", meta["utm"])
	}
}

func TestRecord_ServerResolvesPrice(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	c := testutil.CreateTestCatalog(t, db)
	svc := NewSubmissionService(db, time.Second, NewPriceService(db, time.Second))

	id, err := svc.Record(ctx, SubmissionInput{
		Phone:    "+49 170 000",
		ModelID:  c.S21.ID,
		InjuryID: c.ScreenCrack.ID,
	})
	testutil.AssertNoError(t, err)

	var sub models.Submission
	db.Where("id = ?", id).First(&sub)
	if sub.Price != "89.00" {
		t.Errorf("expected resolved price 89.00, got %q", sub.Price)
	}

	// Later price changes do not rewrite the captured quote.
	db.Model(&models.PriceCombination{}).Where("model_id = ?", c.S21.ID).Update("price", "99.00")
	db.Where("id = ?", id).First(&sub)
	if sub.Price != "89.00" {
		t.Errorf("expected captured price to stay 89.00, got %q", sub.Price)
	}
}

func TestRecord_LegacyFormData(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSubmissionService(db, time.Second, nil)

	id, err := svc.Record(ctx, SubmissionInput{
		DeviceCategory: "Phones",
		FormData:       json.RawMessage(`{"full_name":"Ana","email":"ana@example.com","phone":"","notes":"cracked"}`),
	})
	testutil.AssertNoError(t, err)

	var sub models.Submission
	db.Where("id = ?", id).First(&sub)
	if sub.Name != "Ana" || sub.Email != "ana@example.com" || sub.Problem != "cracked" {
		t.Errorf("expected contact copied from form data, got %q/%q/%q", sub.Name, sub.Email, sub.Problem)
	}
}

func TestListSubmissions_NewestFirst(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc := &submissionService{store: newStore(db, time.Second), now: func() time.Time { return now }}

	for _, name := range []string{"first", "second", "third"} {
		_, err := svc.Record(ctx, SubmissionInput{Name: name})
		testutil.AssertNoError(t, err)
		now = now.Add(time.Minute)
	}

	page, err := svc.List(ctx, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 3 || page.TotalPages != 2 {
		t.Errorf("unexpected page metadata %+v", page)
	}
	if len(page.Data) != 2 || page.Data[0].Name != "third" || page.Data[1].Name != "second" {
		t.Errorf("expected newest first, got %+v", page.Data)
	}

	data, err := svc.Export(ctx)
	testutil.AssertNoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer xl.Close()
	rows, err := xl.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 || rows[1][2] != "third" {
		t.Errorf("unexpected export rows %v", rows)
	}
}
