// Package errors provides custom error types for the repairdesk API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// a machine-readable reason, a human-readable message, HTTP status code,
// and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Reason     string `json:"reason"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Reason:     sentinel.Reason,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Reason:     sentinel.Reason,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithReason creates a new AppError carrying a specific reason code and message.
func WithReason(sentinel *AppError, reason, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Reason:     reason,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Reason: "unauthorized", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrAdminNotConfigured = &AppError{Code: "ADMIN_NOT_CONFIGURED", Reason: "admin_not_configured", Message: "Admin access is not configured", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidSignature   = &AppError{Code: "INVALID_SIGNATURE", Reason: "hmac_mismatch", Message: "Invalid request signature", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrValidation         = &AppError{Code: "VALIDATION_ERROR", Reason: "invalid_input", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound           = &AppError{Code: "NOT_FOUND", Reason: "not_found", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrRateLimited        = &AppError{Code: "RATE_LIMITED", Reason: "rate_limited", Message: "Too many requests, please retry later", StatusCode: http.StatusTooManyRequests}
	ErrStorageUnavailable = &AppError{Code: "STORAGE_UNAVAILABLE", Reason: "storage_unavailable", Message: "Storage is temporarily unavailable, please retry", StatusCode: http.StatusServiceUnavailable}
	ErrInternalServer     = &AppError{Code: "INTERNAL_ERROR", Reason: "server_error", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrUpstream           = &AppError{Code: "UPSTREAM_ERROR", Reason: "upstream_error", Message: "Upstream service call failed", StatusCode: http.StatusBadGateway}
)

// Catalog errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Reason: "category_not_found", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrSeriesNotFound   = &AppError{Code: "SERIES_NOT_FOUND", Reason: "series_not_found", Message: "Series not found", StatusCode: http.StatusNotFound}
	ErrModelNotFound    = &AppError{Code: "MODEL_NOT_FOUND", Reason: "model_not_found", Message: "Model not found", StatusCode: http.StatusNotFound}
	ErrInjuryNotFound   = &AppError{Code: "INJURY_NOT_FOUND", Reason: "injury_not_found", Message: "Injury type not found", StatusCode: http.StatusNotFound}
	ErrHasDependents    = &AppError{Code: "HAS_DEPENDENTS", Reason: "has_dependents", Message: "Resource still has dependent records", StatusCode: http.StatusConflict}
)

// Price combination errors.
var (
	ErrPriceNotFound         = &AppError{Code: "PRICE_NOT_FOUND", Reason: "price_not_found", Message: "Price combination not found", StatusCode: http.StatusNotFound}
	ErrDuplicatePrice        = &AppError{Code: "VALIDATION_ERROR", Reason: "duplicate_price_combination", Message: "A price for this scope and injury already exists", StatusCode: http.StatusBadRequest}
	ErrPriceScopeRequired    = &AppError{Code: "VALIDATION_ERROR", Reason: "price_scope_required", Message: "Exactly one of categoryId, seriesId or modelId is required", StatusCode: http.StatusBadRequest}
	ErrMissingContactProblem = &AppError{Code: "VALIDATION_ERROR", Reason: "missing_contact_or_problem", Message: "Provide a name, email, phone or problem description", StatusCode: http.StatusBadRequest}
)

// Shop errors.
var (
	ErrShopNotFound = &AppError{Code: "SHOP_NOT_FOUND", Reason: "shop_not_found", Message: "Shop not found", StatusCode: http.StatusNotFound}
	ErrInvalidShop  = &AppError{Code: "VALIDATION_ERROR", Reason: "invalid_shop", Message: "Invalid shop domain", StatusCode: http.StatusBadRequest}

	ErrShopifyNotConfigured = &AppError{Code: "SHOPIFY_NOT_CONFIGURED", Reason: "shopify_not_configured", Message: "Shopify app credentials are not configured", StatusCode: http.StatusServiceUnavailable}
)
