package ecode

import "net/http"

const (
	OK = 0

	Unauthorized = -101
	NoLogin      = -102
	TokenExpired = -103

	RequestErr       = -400
	AccessDenied     = -403
	NothingFound     = -404
	MethodNotAllowed = -405
	Conflict         = -409
	TooLarge         = -413

	ServerErr          = -500
	DependencyErr      = -502
	ServiceUnavailable = -503
)

var texts = map[int]string{
	OK:                 "ok",
	Unauthorized:       "Unauthorized",
	NoLogin:            "Account not logged in",
	TokenExpired:       "Token expired",
	RequestErr:         "Invalid request",
	AccessDenied:       "Access denied",
	NothingFound:       "Resource not found",
	MethodNotAllowed:   "Method not allowed",
	Conflict:           "Resource conflict",
	TooLarge:           "Request entity too large",
	ServerErr:          "Internal server error",
	DependencyErr:      "Upstream service failure",
	ServiceUnavailable: "Service unavailable",
}

var statuses = map[int]int{
	OK:                 http.StatusOK,
	Unauthorized:       http.StatusUnauthorized,
	NoLogin:            http.StatusUnauthorized,
	TokenExpired:       http.StatusUnauthorized,
	RequestErr:         http.StatusBadRequest,
	AccessDenied:       http.StatusForbidden,
	NothingFound:       http.StatusNotFound,
	MethodNotAllowed:   http.StatusMethodNotAllowed,
	Conflict:           http.StatusConflict,
	TooLarge:           http.StatusRequestEntityTooLarge,
	ServerErr:          http.StatusInternalServerError,
	DependencyErr:      http.StatusBadGateway,
	ServiceUnavailable: http.StatusServiceUnavailable,
}

// Text returns the default message of a code.
func Text(code int) string {
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}

// ToHTTPStatus maps a business code to its HTTP status.
func ToHTTPStatus(code int) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
