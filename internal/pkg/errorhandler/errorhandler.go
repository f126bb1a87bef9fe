package errorhandler

import (
	"context"
	"net/http"

	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/logger"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/response"
)

// HandleError logs err with the request-scoped logger and writes the error envelope.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("error_code", code).
		Str("error_message", message).
		Int("status_code", status)

	if err != nil {
		event = event.Err(err)
	}
	event.Msg("Request error")

	response.Error(w, status, code, message)
}

// Internal logs an unexpected failure and answers 500.
func Internal(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logger.FromContext(ctx).Error().
		Str("operation", operation).
		Err(err).
		Msg("Unexpected error")

	response.InternalError(w)
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")
}

// LogDatabaseError logs database errors with context
func LogDatabaseError(ctx context.Context, operation string, err error) {
	logger.FromContext(ctx).Error().
		Str("operation", operation).
		Err(err).
		Msg("Database error")
}
