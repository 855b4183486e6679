// Package resp writes the uniform JSON envelope used by every endpoint.
package resp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ncobase/jobboard/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"-"`                 // HTTP status
	Success bool   `json:"success"`           // Outcome flag
	Code    int    `json:"code"`              // Business code
	Message string `json:"message,omitempty"` // Message
	Data    any    `json:"data,omitempty"`    // Response data
	Errors  any    `json:"errors,omitempty"`  // Validation errors
}

// newResponse creates a new failure response.
func newResponse(status, code int, message string, data ...any) *Exception {
	var errs any
	if len(data) > 0 {
		errs = data[0]
	}
	if message == "" {
		message = ecode.Text(code)
	}
	return &Exception{
		Status:  status,
		Code:    code,
		Message: message,
		Errors:  errs,
	}
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code.
// A lone string argument becomes the message.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	r := &Exception{Status: statusCode, Success: true, Code: ecode.OK, Message: "ok"}
	if len(data) > 0 {
		if msg, ok := data[0].(string); ok {
			r.Message = msg
		} else {
			r.Data = data[0]
		}
	}
	if len(data) > 1 {
		if msg, ok := data[1].(string); ok {
			r.Message = msg
		}
	}
	writeJSON(w, statusCode, r)
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer("")
	}
	if r.Status == 0 {
		r.Status = ecode.ToHTTPStatus(r.Code)
	}
	if r.Code == 0 {
		r.Code = ecode.RequestErr
	}
	r.Success = false
	writeJSON(w, r.Status, r)
}

// FromError converts a service error into a failure response.
// Unclassified errors are reported as internal errors without leaking details.
func FromError(err error) *Exception {
	var e *ecode.Error
	if !errors.As(err, &e) {
		return InternalServer("")
	}
	r := newResponse(e.Status(), e.Code, e.Message)
	if e.Code == ecode.ServerErr {
		r.Message = ecode.Text(ecode.ServerErr)
	}
	if len(e.Fields) > 0 {
		r.Errors = e.Fields
	}
	return r
}

// Error writes err as a failure response.
func Error(w http.ResponseWriter, err error) {
	Fail(w, FromError(err))
}

func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
