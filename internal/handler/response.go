package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://tally.app/errors/validation"
	ErrorTypeNotFound     = "https://tally.app/errors/not-found"
	ErrorTypeUnauthorized = "https://tally.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://tally.app/errors/forbidden"
	ErrorTypeConflict     = "https://tally.app/errors/conflict"
	ErrorTypeStore        = "https://tally.app/errors/store"
	ErrorTypeUnavailable  = "https://tally.app/errors/unavailable"
	ErrorTypeInternal     = "https://tally.app/errors/internal"
)

func problem(c echo.Context, status int, errorType, title, detail string, errs []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, http.StatusBadRequest, ErrorTypeValidation, "Validation Error", detail, errors)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail, nil)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail, nil)
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return problem(c, http.StatusForbidden, ErrorTypeForbidden, "Forbidden", detail, nil)
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeConflict, "Conflict", detail, nil)
}

// NewStoreError creates a response for a failed record store call
func NewStoreError(c echo.Context, detail string) error {
	return problem(c, http.StatusBadGateway, ErrorTypeStore, "Record Store Error", detail, nil)
}

// NewUnavailableError creates a response for a feature that is not configured
func NewUnavailableError(c echo.Context, detail string) error {
	return problem(c, http.StatusServiceUnavailable, ErrorTypeUnavailable, "Service Unavailable", detail, nil)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail, nil)
}

// handleServiceError maps a service error to its problem response
func handleServiceError(c echo.Context, err error) error {
	var (
		validationErr  *domain.ValidationError
		conflictErr    *domain.ConflictError
		referentialErr *domain.ReferentialError
	)
	switch {
	case errors.As(err, &validationErr):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: validationErr.Field, Message: validationErr.Message},
		})
	case errors.As(err, &conflictErr):
		return NewConflictError(c, conflictErr.Error())
	case errors.As(err, &referentialErr):
		return NewConflictError(c, referentialErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, capitalize(err.Error()))
	case errors.Is(err, domain.ErrSnapshotBusy):
		return NewUnavailableError(c, "Records changed during the reload, try again")
	case errors.Is(err, domain.ErrStore):
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Record store failure")
		return NewStoreError(c, "The record store could not complete the request")
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled service error")
		return NewInternalError(c, "An unexpected error occurred")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// bindAndValidate binds the request body into req and runs the struct
// validator. When it reports false the error response has been written.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(req); err != nil {
		return false, NewValidationError(c, "Validation failed", validationErrors(err))
	}
	return true, nil
}

// parseID reads a positive int32 path parameter
func parseID(c echo.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// parseMonth reads a "YYYY-MM" path parameter
func parseMonth(c echo.Context, name string) (domain.MonthYear, bool) {
	month, err := domain.ParseMonthYear(c.Param(name))
	if err != nil {
		return domain.MonthYear{}, false
	}
	return month, true
}
