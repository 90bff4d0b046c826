package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/export"
	"repairdesk/internal/models"
	"repairdesk/internal/pagination"
)

func setupSubmissionRouter(handler *SubmissionHandler) *gin.Engine {
	r := gin.New()
	admin := r.Group("/admin", injectActor())
	admin.GET("/submissions", handler.ListSubmissions)
	admin.GET("/submissions/count", handler.CountSubmissions)
	admin.GET("/submissions/export", handler.ExportSubmissions)
	return r
}

func TestSubmissionHandler_ListSubmissions(t *testing.T) {
	t.Run("passes page and returns envelope", func(t *testing.T) {
		var got pagination.PageRequest
		svc := &mockSubmissionService{
			listFn: func(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Submission], error) {
				got = page
				resp := pagination.NewPageResponse([]models.Submission{{ID: testID, Name: "Ana"}}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupSubmissionRouter(NewSubmissionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/admin/submissions?page=2&page_size=5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Page != 2 || got.PageSize != 5 {
			t.Errorf("unexpected page request: %+v", got)
		}
		body := parseJSON(t, rec)
		if body["total_items"] != float64(6) || body["total_pages"] != float64(2) {
			t.Errorf("unexpected pagination metadata: %v", body)
		}
		if data := body["data"].([]interface{}); len(data) != 1 {
			t.Errorf("expected 1 row, got %d", len(data))
		}
	})

	t.Run("rejects oversized page", func(t *testing.T) {
		r := setupSubmissionRouter(NewSubmissionHandler(&mockSubmissionService{}, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/admin/submissions?page_size=1000", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})
}

func TestSubmissionHandler_CountSubmissions(t *testing.T) {
	svc := &mockSubmissionService{
		countFn: func(_ context.Context) (int64, error) { return 12, nil },
	}
	r := setupSubmissionRouter(NewSubmissionHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/admin/submissions/count", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := parseJSON(t, rec)
	if body["ok"] != true || body["count"] != float64(12) {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestSubmissionHandler_ExportSubmissions(t *testing.T) {
	svc := &mockSubmissionService{
		exportFn: func(_ context.Context) ([]byte, error) { return []byte("PK\x03\x04"), nil },
	}
	audit := &mockAuditService{}
	handler := NewSubmissionHandler(svc, audit)
	handler.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
	r := setupSubmissionRouter(handler)

	rec := doRequest(r, http.MethodGet, "/admin/submissions/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != export.ContentType {
		t.Errorf("expected content type %q, got %q", export.ContentType, ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="submissions-20260309.xlsx"` {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if rec.Body.String() != "PK\x03\x04" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "EXPORT_SUBMISSIONS" {
		t.Errorf("unexpected audit entries: %+v", audit.entries)
	}
}
