package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/logger"
	"repairdesk/internal/middleware"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// OKResponse is returned by deletes and health checks.
type OKResponse struct {
	OK bool `json:"ok"`
}

// parsePathID reads an entity id path parameter. Anything that is not a
// UUID cannot name a stored entity, so it maps to the given not-found error
// without a database round trip.
func parsePathID(c *gin.Context, param string, notFound *apperrors.AppError) (string, error) {
	raw := strings.TrimSpace(c.Param(param))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", notFound
	}
	return id.String(), nil
}

// bindError converts a binding failure into a validation error.
func bindError(err error) *apperrors.AppError {
	return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
}

// toAppError unwraps err into an AppError, logging and masking anything
// unexpected as an internal error.
func toAppError(c *gin.Context, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", middleware.RequestID(c),
			)
		}
		return appErr
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.RequestID(c),
	)
	return apperrors.ErrInternalServer
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, reason and message.
// Otherwise it logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	appErr := toAppError(c, err)
	c.JSON(appErr.StatusCode, middleware.ErrorBody(appErr))
}

// respondSubmitError writes the flat {ok:false,error} envelope the storefront
// widget expects.
func respondSubmitError(c *gin.Context, err error) {
	appErr := toAppError(c, err)
	reason := appErr.Reason
	if reason == "" {
		reason = apperrors.ErrInternalServer.Reason
	}
	c.JSON(appErr.StatusCode, SubmitResponse{OK: false, Error: reason})
}
