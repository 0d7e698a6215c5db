package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/auth"
	"github.com/mcoot/clickgame-go/internal/services/progress"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeLoginFailed      = "LOGIN_FAILED"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeSaveFailed       = "SAVE_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status WriteError would use for err
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *progress.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, verr.Reason}}
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrMissingCode):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "code is required"}}
	case errors.Is(err, auth.ErrLoginFailed):
		return &httpError{http.StatusUnauthorized, APIError{CodeLoginFailed, loginMessage(err)}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "invalid or expired token"}}

	// Save errors
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, "validation failed"}}
	case errors.Is(err, model.ErrPersistence):
		return &httpError{http.StatusInternalServerError, APIError{CodeSaveFailed, "save failed"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// loginMessage surfaces the provider's message for rejected codes only.
// Transport failures stay generic.
func loginMessage(err error) string {
	var exErr *auth.ExchangeError
	if errors.As(err, &exErr) && exErr.Message != "" {
		return "login failed: " + exErr.Message
	}
	return "login failed"
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "token required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
