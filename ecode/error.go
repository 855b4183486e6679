package ecode

import "errors"

// Error is a classified service error.
type Error struct {
	Code    int
	Message string
	// Fields holds per-field validation messages keyed by json name.
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status of the error.
func (e *Error) Status() int { return ToHTTPStatus(e.Code) }

func newError(code int, msg string, cause error) *Error {
	if msg == "" {
		msg = Text(code)
	}
	return &Error{Code: code, Message: msg, cause: cause}
}

// NewValidationError reports malformed or rule-violating input.
func NewValidationError(msg string) *Error { return newError(RequestErr, msg, nil) }

// NewFieldsError reports per-field validation failures.
func NewFieldsError(fields map[string]string) *Error {
	e := newError(RequestErr, "", nil)
	e.Fields = fields
	return e
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(msg string) *Error { return newError(NothingFound, msg, nil) }

// NewForbiddenError reports a failed role or ownership check.
func NewForbiddenError(msg string) *Error { return newError(AccessDenied, msg, nil) }

// NewConflictError reports a uniqueness violation.
func NewConflictError(msg string) *Error { return newError(Conflict, msg, nil) }

// NewUnauthorizedError reports missing or invalid credentials.
func NewUnauthorizedError(msg string) *Error { return newError(Unauthorized, msg, nil) }

// NewDependencyError wraps a failure of an external collaborator.
func NewDependencyError(msg string, err error) *Error { return newError(DependencyErr, msg, err) }

// NewServerError wraps an unexpected internal failure.
func NewServerError(msg string, err error) *Error { return newError(ServerErr, msg, err) }

// CodeOf returns the business code carried by err, ServerErr when unclassified.
func CodeOf(err error) int {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ServerErr
}

// Is reports whether err carries the given code.
func Is(err error, code int) bool {
	return CodeOf(err) == code
}
