package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/vivla-tech/vivla-middleware/internal/adapters/primary/http/middleware"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	// Check for ValidationErrors first; they carry field-level detail
	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err, requestID)
		h.writeValidationErrorResponse(w, validationErrs)
		return
	}

	// Anything else becomes an AppError: either one a caller already built,
	// or one mapped from the domain sentinels.
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = mapDomainError(err)
	}

	h.logError(r, appErr.StatusCode, err, requestID)
	h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
		Status:  "error",
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// mapDomainError converts domain sentinels to typed HTTP errors
func mapDomainError(err error) *apperrors.AppError {
	switch {
	// Authentication
	case errors.Is(err, apperrors.ErrUnauthorized):
		return apperrors.NewUnauthorizedError("Authentication required")

	// Not Found errors
	case errors.Is(err, apperrors.ErrHouseNotFound):
		e := apperrors.NewNotFoundError(err, "House not found")
		e.Code = "HOUSE_NOT_FOUND"
		return e
	case errors.Is(err, apperrors.ErrFieldNotFound):
		e := apperrors.NewNotFoundError(err, "Ticket field not found")
		e.Code = "FIELD_NOT_FOUND"
		return e
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewNotFoundError(err, "Resource not found")

	// Validation errors
	case errors.Is(err, apperrors.ErrInvalidDateFormat),
		errors.Is(err, apperrors.ErrHomeNameRequired):
		e := apperrors.NewBadRequestError(err, err.Error())
		e.Code = "VALIDATION_ERROR"
		return e

	// Rate limiting
	case errors.Is(err, apperrors.ErrRateLimited):
		return apperrors.NewRateLimitError()

	// Upstream helpdesk failures
	case apperrors.IsUpstream(err), errors.Is(err, apperrors.ErrHomeDiscovery):
		e := apperrors.NewUpstreamUnavailableError(err)
		e.Message = "The helpdesk service is currently unavailable"
		return e

	// Default to internal server error
	default:
		return apperrors.NewInternalError(err)
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error, requestID string) {
	logAttrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	// Log at different levels based on status code
	switch {
	case statusCode >= 500:
		h.logger.Error("server error", logAttrs...)
	case statusCode >= 400:
		h.logger.Warn("client error", logAttrs...)
	default:
		h.logger.Info("request error", logAttrs...)
	}
}

// writeErrorResponse writes a JSON error response
func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// writeValidationErrorResponse writes a validation error response
func (h *ErrorHandler) writeValidationErrorResponse(w http.ResponseWriter, errs *apperrors.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Status:  "error",
		Message: "Validation failed",
		Code:    "VALIDATION_ERROR",
		Fields:  errs.Errors,
	})
}

// HandleError Helper function to handle errors inline in handlers
// Usage: if HandleError(w, r, err, h.errorHandler) { return }
func HandleError(w http.ResponseWriter, r *http.Request, err error, handler *ErrorHandler) bool {
	if err != nil {
		handler.Handle(w, r, err)
		return true
	}
	return false
}
