package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeInvalidCredentials is used when email or password is wrong
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountNotApproved is used when a pending or rejected account tries to log in
	ErrCodeAccountNotApproved = "ERR_ACCOUNT_NOT_APPROVED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeItemNotAvailable is used when a catalog item is inactive or assigned elsewhere
	ErrCodeItemNotAvailable = "ERR_ITEM_NOT_AVAILABLE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountNotApproved: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeItemNotAvailable: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// wire format
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_AMOUNT":       ErrCodeInvalidInput,
	"INVALID_AGENT":        ErrCodeInvalidInput,
	"INVALID_OVERAGE":      ErrCodeInvalidInput,
	"INVALID_LIMIT":        ErrCodeInvalidInput,
	"INVALID_SETTING":      ErrCodeInvalidInput,
	"INVALID_NAME":         ErrCodeInvalidInput,
	"INVALID_EMAIL":        ErrCodeInvalidInput,
	"INVALID_PASSWORD":     ErrCodeInvalidInput,
	"INVALID_PAGES":        ErrCodeInvalidInput,
	"INVALID_CATEGORY":     ErrCodeInvalidInput,
	"INVALID_MESSAGE":      ErrCodeInvalidInput,
	"ALREADY_APPROVED":     ErrCodeInvalidState,
	"INVALID_CREDENTIALS":  ErrCodeInvalidCredentials,
	"AGENT_NOT_APPROVED":   ErrCodeAccountNotApproved,
	"EMAIL_TAKEN":          ErrCodeAlreadyExists,
	"ITEM_NOT_AVAILABLE":   ErrCodeItemNotAvailable,
}

// NormalizeErrorCode converts a domain error code to the standardized
// format. Unknown codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
