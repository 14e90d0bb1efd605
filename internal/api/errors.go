package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shobhitraaj/skytarget/internal/document"
)

// ErrorCode represents machine-readable error codes
type ErrorCode string

const (
	// General error codes
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation error codes
	ErrCodeValidation  ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidJSON ErrorCode = "INVALID_JSON"
	ErrCodeInvalidKey  ErrorCode = "INVALID_KEY"

	// Audience document error codes, one per parse failure kind
	ErrCodeMalformedSchema ErrorCode = "MALFORMED_SCHEMA"
	ErrCodeUnknownKey      ErrorCode = "UNKNOWN_KEY"
	ErrCodeTypeMismatch    ErrorCode = "TYPE_MISMATCH"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error     string    `json:"error"`                // HTTP status text
	Message   string    `json:"message"`              // Human-readable description
	Code      ErrorCode `json:"code"`                 // Machine-readable error code
	Path      string    `json:"path,omitempty"`       // Document path for parse errors
	RequestID string    `json:"request_id,omitempty"` // Request ID for debugging
}

// NewErrorResponse creates a new error response
func NewErrorResponse(statusCode int, code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
	}
}

// WithPath adds the failing document path to the response
func (e *ErrorResponse) WithPath(path string) *ErrorResponse {
	e.Path = path
	return e
}

// writeErrorResponse writes a structured error response to the http response writer
func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errResp *ErrorResponse) {
	// Add request ID from chi middleware if available
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		errResp.RequestID = reqID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errResp)
}

// ParseErrorResponse maps an audience document parse failure to a 400
// response carrying the failure kind and document path.
func ParseErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var perr *document.ParseError
	if !errors.As(err, &perr) {
		BadRequestError(w, r, ErrCodeBadRequest, err.Error())
		return
	}

	code := ErrCodeValidation
	switch perr.Kind {
	case document.ErrMalformedSchema:
		code = ErrCodeMalformedSchema
	case document.ErrUnknownKey:
		code = ErrCodeUnknownKey
	case document.ErrTypeMismatch:
		code = ErrCodeTypeMismatch
	case document.ErrMissingField:
		code = ErrCodeMissingField
	}

	errResp := NewErrorResponse(http.StatusBadRequest, code, perr.Message).
		WithPath(perr.Path)
	writeErrorResponse(w, r, http.StatusBadRequest, errResp)
}

// BadRequestError creates a bad request error response
func BadRequestError(w http.ResponseWriter, r *http.Request, code ErrorCode, message string) {
	errResp := NewErrorResponse(http.StatusBadRequest, code, message)
	writeErrorResponse(w, r, http.StatusBadRequest, errResp)
}

// UnauthorizedError creates an unauthorized error response
func UnauthorizedError(w http.ResponseWriter, r *http.Request, message string) {
	errResp := NewErrorResponse(http.StatusUnauthorized, ErrCodeUnauthorized, message)
	writeErrorResponse(w, r, http.StatusUnauthorized, errResp)
}

// InternalError creates an internal server error response
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	errResp := NewErrorResponse(http.StatusInternalServerError, ErrCodeInternal, message)
	writeErrorResponse(w, r, http.StatusInternalServerError, errResp)
}

// NotFoundError creates a not found error response
func NotFoundError(w http.ResponseWriter, r *http.Request, message string) {
	errResp := NewErrorResponse(http.StatusNotFound, ErrCodeNotFound, message)
	writeErrorResponse(w, r, http.StatusNotFound, errResp)
}
