package errors

import "net/http"

const CodeOverlap = "OVERLAP"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
	// ErrCode is a stable machine-readable tag for clients to branch on.
	ErrCode string
	Details []string
	cause   error
}

func (e *HTTPError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches the underlying cause, kept out of the client-facing message.
func (e *HTTPError) Wrap(cause error) *HTTPError {
	cp := *e
	cp.cause = cause
	return &cp
}

func NewValidationError(details []string) *HTTPError {
	return &HTTPError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Details: details,
	}
}

func NewConflictError(message string) *HTTPError {
	return &HTTPError{
		Code:    http.StatusConflict,
		Message: message,
		ErrCode: CodeOverlap,
	}
}

func NewNotFoundError(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

func NewInternalError(message string, cause error) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message).Wrap(cause)
}

// Helper for common errors
var (
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrUnavailable  = func(msg string) *HTTPError { return NewHTTPError(http.StatusServiceUnavailable, msg) }
)
