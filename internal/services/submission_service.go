package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/export"
	"repairdesk/internal/logger"
	"repairdesk/internal/metrics"
	"repairdesk/internal/models"
	"repairdesk/internal/pagination"
)

// DefaultSubmissionSource is recorded when the client names no source.
const DefaultSubmissionSource = "widget"

// submissionService records repair requests and serves them to admins.
type submissionService struct {
	store  store
	prices PriceServicer
	now    func() time.Time
}

// NewSubmissionService creates a new SubmissionServicer. prices resolves a
// quote when the client submits an injury without a price.
func NewSubmissionService(db *gorm.DB, timeout time.Duration, prices PriceServicer) SubmissionServicer {
	return &submissionService{store: newStore(db, timeout), prices: prices, now: time.Now}
}

// Record validates and appends one submission, returning its id. Identical
// submissions are stored twice.
func (s *submissionService) Record(ctx context.Context, in SubmissionInput) (string, error) {
	in = trimSubmission(in)
	fillFromFormData(&in)

	if in.Name == "" && in.Email == "" && in.Phone == "" && in.Problem == "" {
		return "", apperrors.ErrMissingContactProblem
	}

	price := models.Price(in.Price)
	if price == "" && in.InjuryID != "" && s.prices != nil {
		quote, err := s.prices.Resolve(ctx, Selection{
			CategoryID: in.CategoryID,
			SeriesID:   in.SeriesID,
			ModelID:    in.ModelID,
			InjuryID:   in.InjuryID,
		})
		if err != nil {
			return "", err
		}
		price = quote.Price
	}

	source := in.Source
	if source == "" {
		source = DefaultSubmissionSource
	}

	sub := &models.Submission{
		CreatedAt:      s.now(),
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Problem:        in.Problem,
		Address:        in.Address,
		PreferredDate:  parsePreferredDate(in.PreferredDate),
		CategoryID:     optional(in.CategoryID),
		SeriesID:       optional(in.SeriesID),
		ModelID:        optional(in.ModelID),
		InjuryID:       optional(in.InjuryID),
		DeviceCategory: in.DeviceCategory,
		SeriesName:     in.SeriesName,
		ModelName:      in.ModelName,
		InjuryName:     in.InjuryName,
		DeviceSKU:      in.DeviceSKU,
		DeviceGUID:     in.DeviceGUID,
		Price:          price,
		FormData:       jsonColumn(in.FormData),
		Raw:            jsonColumn(in.Raw),
		Meta:           submissionMeta(in.Ref, in.UTM),
		Shop:           in.Shop,
		Source:         source,
		IP:             in.IP,
		UserAgent:      in.UserAgent,
	}

	if err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Create(sub).Error
	}); err != nil {
		return "", err
	}

	metrics.SubmissionsRecorded.WithLabelValues(source).Inc()
	logger.Get().Infow("submission recorded", "id", sub.ID, "shop", sub.Shop, "source", source)
	return sub.ID, nil
}

// Count returns the number of stored submissions.
func (s *submissionService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Model(&models.Submission{}).Count(&count).Error
	})
	return count, err
}

// List returns a page of submissions, newest first.
func (s *submissionService) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Submission], error) {
	page.Defaults()

	var (
		totalItems  int64
		submissions []models.Submission
	)
	err := s.store.with(ctx, func(db *gorm.DB) error {
		if err := db.Model(&models.Submission{}).Count(&totalItems).Error; err != nil {
			return err
		}
		return db.Order("created_at DESC, id DESC").
			Scopes(pagination.Paginate(page)).
			Find(&submissions).Error
	})
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(submissions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Export renders every submission, newest first, as an XLSX workbook.
func (s *submissionService) Export(ctx context.Context) ([]byte, error) {
	var submissions []models.Submission
	err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Order("created_at DESC, id DESC").Find(&submissions).Error
	})
	if err != nil {
		return nil, err
	}

	data, err := export.Submissions(submissions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

func trimSubmission(in SubmissionInput) SubmissionInput {
	for _, f := range []*string{
		&in.Name, &in.Email, &in.Phone, &in.Problem, &in.Address, &in.PreferredDate,
		&in.CategoryID, &in.SeriesID, &in.ModelID, &in.InjuryID,
		&in.DeviceCategory, &in.SeriesName, &in.ModelName, &in.InjuryName,
		&in.DeviceSKU, &in.DeviceGUID, &in.Price,
		&in.Ref, &in.Shop, &in.Source, &in.IP, &in.UserAgent,
	} {
		*f = strings.TrimSpace(*f)
	}
	return in
}

// fillFromFormData copies contact details from the older widget payload,
// which nests them in formData, into empty top-level fields.
func fillFromFormData(in *SubmissionInput) {
	if len(in.FormData) == 0 {
		return
	}
	var fd map[string]any
	if err := json.Unmarshal(in.FormData, &fd); err != nil {
		return
	}
	pick := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v, ok := fd[k].(string); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}
	pick(&in.Name, "full_name", "name")
	pick(&in.Email, "email")
	pick(&in.Phone, "phone")
	pick(&in.Problem, "problem", "notes")
}

// parsePreferredDate accepts a calendar date or an RFC 3339 timestamp.
// Anything else is dropped; the original text survives in the raw payload.
func parsePreferredDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func jsonColumn(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	return datatypes.JSON(raw)
}

func submissionMeta(ref string, utm json.RawMessage) datatypes.JSON {
	meta := map[string]any{"ref": nil, "utm": nil}
	if ref != "" {
		meta["ref"] = ref
	}
	if len(utm) > 0 && json.Valid(utm) && string(utm) != "null" {
		meta["utm"] = utm
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
