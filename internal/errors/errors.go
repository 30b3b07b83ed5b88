package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used to classify every error the application surfaces.
// Callers mark errors with one of these via the builder's Mark method and
// branch on them with the Is* predicates below.
var (
	ErrValidation       = errors.New("validation_error")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyExists    = errors.New("already_exists")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrDatabase         = errors.New("database_error")
	ErrInternal         = errors.New("internal_error")
)

// InternalError is the concrete error type produced by the builder. It
// carries a user-safe hint and structured details alongside the wrapped
// cause and classification mark.
type InternalError struct {
	cause             error
	mark              error
	hint              string
	reportableDetails map[string]interface{}
}

func (e *InternalError) Error() string {
	if e.cause == nil {
		return "unknown error"
	}
	return e.cause.Error()
}

func (e *InternalError) Unwrap() error { return e.cause }

// Is reports whether the error carries the given classification mark.
func (e *InternalError) Is(target error) bool {
	if e.mark != nil && errors.Is(e.mark, target) {
		return true
	}
	return errors.Is(e.cause, target)
}

// Hint returns the user-safe hint, falling back to the raw message.
func (e *InternalError) Hint() string {
	if e.hint != "" {
		return e.hint
	}
	return e.Error()
}

// ReportableDetails returns the structured details attached to the error.
func (e *InternalError) ReportableDetails() map[string]interface{} {
	return e.reportableDetails
}

// Predicates for the error taxonomy.

func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool       { return errors.Is(err, ErrValidation) }
func IsAlreadyExists(err error) bool    { return errors.Is(err, ErrAlreadyExists) }
func IsInvalidOperation(err error) bool { return errors.Is(err, ErrInvalidOperation) }
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }
func IsDatabase(err error) bool         { return errors.Is(err, ErrDatabase) }

// HTTPStatusFromErr maps the error taxonomy to an HTTP status code for the
// REST error middleware.
func HTTPStatusFromErr(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsInvalidOperation(err):
		return http.StatusUnprocessableEntity
	case IsPermissionDenied(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the wire format for errors returned by the REST layer.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// ErrorDetail carries the user-facing parts of an error.
type ErrorDetail struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewErrorResponse builds the wire representation for any error. Internal
// details are only exposed for errors built through this package.
func NewErrorResponse(err error) *ErrorResponse {
	detail := &ErrorDetail{Message: "An unexpected error occurred"}

	var ierr *InternalError
	if errors.As(err, &ierr) {
		detail.Message = ierr.Hint()
		detail.Details = ierr.ReportableDetails()
	}

	return &ErrorResponse{Success: false, Error: detail}
}
