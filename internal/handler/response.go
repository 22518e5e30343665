package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProblemDetails is the RFC 7807 error body every endpoint returns. Type is
// a stable identifier clients can switch on; Detail is human-readable and
// may change between releases.
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError pins a validation failure to one request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const problemTypeBase = "https://nexora.app/errors/"

// Problem type identifiers. The rate limiter emits its own type from the
// middleware package.
const (
	ErrorTypeValidation   = problemTypeBase + "validation"
	ErrorTypeNotFound     = problemTypeBase + "not-found"
	ErrorTypeUnauthorized = problemTypeBase + "unauthorized"
	ErrorTypeForbidden    = problemTypeBase + "forbidden"
	ErrorTypeConflict     = problemTypeBase + "conflict"
	ErrorTypeInternal     = problemTypeBase + "internal"
)

func problem(c echo.Context, status int, problemType, title, detail string, errors []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewValidationError responds 400 with per-field errors when available.
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, http.StatusBadRequest, ErrorTypeValidation, "Validation Error", detail, errors)
}

// NewNotFoundError responds 404. Resources owned by another user also
// surface as 404, never 403, so ids are not probeable.
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail, nil)
}

// NewUnauthorizedError responds 401 for missing, expired or malformed
// credentials.
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail, nil)
}

// NewForbiddenError responds 403 when the caller is known but the referenced
// wallet or category is not theirs to use.
func NewForbiddenError(c echo.Context, detail string) error {
	return problem(c, http.StatusForbidden, ErrorTypeForbidden, "Forbidden", detail, nil)
}

// NewConflictError responds 409 for uniqueness violations, like a taken
// username or a duplicate budget for the same category, month and wallet.
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeConflict, "Conflict", detail, nil)
}

// NewInternalError responds 500 with a generic detail.
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail, nil)
}
