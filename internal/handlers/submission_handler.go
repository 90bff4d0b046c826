package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/export"
	"repairdesk/internal/middleware"
	"repairdesk/internal/pagination"
	"repairdesk/internal/services"
)

// SubmissionHandler serves merchant review of recorded repair requests.
type SubmissionHandler struct {
	submissionService services.SubmissionServicer
	auditService      services.AuditServicer
	now               func() time.Time
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService services.SubmissionServicer, auditService services.AuditServicer) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		auditService:      auditService,
		now:               time.Now,
	}
}

// CountResponse is returned by the submission count endpoint.
type CountResponse struct {
	OK    bool  `json:"ok"`
	Count int64 `json:"count"`
}

// ListSubmissions handles paginated listing, newest first.
// @Summary     List submissions
// @Tags        admin-submissions
// @Produce     json
// @Security    AdminPassword
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Submission]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.submissionService.List(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CountSubmissions handles counting stored submissions.
// @Summary     Count submissions
// @Tags        admin-submissions
// @Produce     json
// @Security    AdminPassword
// @Success     200 {object} CountResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/submissions/count [get]
func (h *SubmissionHandler) CountSubmissions(c *gin.Context) {
	count, err := h.submissionService.Count(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{OK: true, Count: count})
}

// ExportSubmissions handles downloading every submission as a spreadsheet.
// @Summary     Export submissions
// @Tags        admin-submissions
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    AdminPassword
// @Success     200 {file} file "XLSX workbook"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admin/submissions/export [get]
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	data, err := h.submissionService.Export(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(middleware.AdminActor(c), "EXPORT_SUBMISSIONS", "submission", "", c.ClientIP(),
		map[string]any{"bytes": len(data)})

	filename := fmt.Sprintf("submissions-%s.xlsx", h.now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, data)
}
