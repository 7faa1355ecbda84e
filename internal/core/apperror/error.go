// Package apperror provides structured error handling for the ledger.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Category is the failure taxonomy surfaced to callers as errorType.
type Category string

const (
	CategoryPermission Category = "permission"
	CategoryConstraint Category = "constraint"
	CategoryValidation Category = "validation"
	CategoryPlanLimit  Category = "plan_limit"
	CategoryNotFound   Category = "not_found"
	CategoryUnknown    Category = "unknown"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeTimeout  = "TIMEOUT_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeBusinessRule  = "BUSINESS_RULE_VIOLATION"
	CodeNoActiveCash  = "NO_ACTIVE_OPENING"
	CodeSessionClosed = "CASH_SESSION_CLOSED"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Subscription quota (402)
	CodePlanLimit = "PLAN_LIMIT_EXCEEDED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConstraint = "CONSTRAINT_VIOLATION"
	CodeDuplicate  = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
// Message is user-facing; Err and Details stay server side unless noted.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Category places the error in the failure taxonomy
	Category Category `json:"category"`

	// Message is a human-readable error description in the caller's locale
	Message string `json:"message"`

	// Hint is an optional sanitized remediation hint
	Hint string `json:"hint,omitempty"`

	// Details carries context for logs (entity, id, field)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// WithHint sets the sanitized hint returned to the caller.
func (e *AppError) WithHint(hint string) *AppError {
	e.Hint = hint
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Category:   CategoryValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Category:   CategoryNotFound,
		Message:    fmt.Sprintf("No se encontró %s", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422).
// Business rules are reported to callers as validation failures.
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Category:   CategoryValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Category:   CategoryUnknown,
		Message:    "Ocurrió un error inesperado. Intente nuevamente.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Category:   CategoryPermission,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Category:   CategoryPermission,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConstraint creates a constraint violation error (409)
func NewConstraint(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Category:   CategoryConstraint,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewPlanLimit creates a subscription quota error (402)
func NewPlanLimit(message string) *AppError {
	return &AppError{
		Code:       CodePlanLimit,
		Category:   CategoryPlanLimit,
		Message:    message,
		HTTPStatus: http.StatusPaymentRequired,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsCategory reports whether err classifies into c.
func IsCategory(err error, c Category) bool {
	if err == nil {
		return false
	}
	return Classify(err).Category == c
}
