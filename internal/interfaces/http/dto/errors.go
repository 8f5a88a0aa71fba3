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

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
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
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeDuplicateReading is used when a reading already exists for the period
	ErrCodeDuplicateReading = "ERR_DUPLICATE_READING"
	// ErrCodeStalePeriod is used when a reading targets a period older than the latest
	ErrCodeStalePeriod = "ERR_STALE_PERIOD"
	// ErrCodeNonIncreasingValue is used when a reading does not exceed the previous value
	ErrCodeNonIncreasingValue = "ERR_NONINCREASING_VALUE"
	// ErrCodeNoActiveConfig is used when no active rate configuration exists
	ErrCodeNoActiveConfig = "ERR_NO_ACTIVE_CONFIG"
	// ErrCodeNoChanges is used when an update carries no effective change
	ErrCodeNoChanges = "ERR_NO_CHANGES"
	// ErrCodeInvalidStatus is used when a transition is invalid for the current status
	ErrCodeInvalidStatus = "ERR_INVALID_STATUS"
	// ErrCodeInvalidAmount is used when a payment amount is not positive
	ErrCodeInvalidAmount = "ERR_INVALID_AMOUNT"
	// ErrCodeInvalidMode is used when the payment mode is unknown
	ErrCodeInvalidMode = "ERR_INVALID_MODE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeDuplicateReading:   http.StatusUnprocessableEntity,
	ErrCodeStalePeriod:        http.StatusUnprocessableEntity,
	ErrCodeNonIncreasingValue: http.StatusUnprocessableEntity,
	ErrCodeNoActiveConfig:     http.StatusUnprocessableEntity,
	ErrCodeNoChanges:          http.StatusUnprocessableEntity,
	ErrCodeInvalidStatus:      http.StatusUnprocessableEntity,
	ErrCodeInvalidAmount:      http.StatusBadRequest,
	ErrCodeInvalidMode:        http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes.
// Domain codes not listed here fall through NormalizeErrorCode as
// ERR_VALIDATION, which covers the INVALID_* constructor rejections.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"FORBIDDEN":           ErrCodeForbidden,
	"DUPLICATE_READING":   ErrCodeDuplicateReading,
	"STALE_PERIOD":        ErrCodeStalePeriod,
	"NONINCREASING_VALUE": ErrCodeNonIncreasingValue,
	"NO_ACTIVE_CONFIG":    ErrCodeNoActiveConfig,
	"NO_CHANGES":          ErrCodeNoChanges,
	"INVALID_STATUS":      ErrCodeInvalidStatus,
	"INVALID_AMOUNT":      ErrCodeInvalidAmount,
	"INVALID_MODE":        ErrCodeInvalidMode,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format pass through unchanged; unmapped
// domain codes collapse to ERR_VALIDATION.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeValidation
}
