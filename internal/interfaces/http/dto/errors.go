package dto

import (
	"net/http"
	"strings"
)

// General error codes used by handlers directly
const (
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// domainCodeStatus maps domain error codes to HTTP status codes. Codes not
// listed fall back on the prefix rules in GetHTTPStatus.
var domainCodeStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,

	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_INVOICE":    http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"COUNTER_CONTENTION":   http.StatusConflict,

	"MEDICINE_NOT_FOUND": http.StatusNotFound,

	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"ACCOUNT_DISABLED":    http.StatusForbidden,

	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus maps a domain error code to an HTTP status code.
// INVALID_* codes are input rejections and map to 400.
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
