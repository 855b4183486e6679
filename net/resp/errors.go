package resp

import "github.com/ncobase/jobboard/ecode"

func withCode(code int, message string, data []any) *Exception {
	return newResponse(ecode.ToHTTPStatus(code), code, message, data...)
}

// UnAuthorized is returned for a missing or invalid session.
func UnAuthorized(message string, data ...any) *Exception {
	return withCode(ecode.Unauthorized, message, data)
}

// BadRequest is returned for malformed input, data carries field errors.
func BadRequest(message string, data ...any) *Exception {
	return withCode(ecode.RequestErr, message, data)
}

func NotFound(message string, data ...any) *Exception {
	return withCode(ecode.NothingFound, message, data)
}

func Forbidden(message string, data ...any) *Exception {
	return withCode(ecode.AccessDenied, message, data)
}

// TooLarge is returned when the upload exceeds the size limit.
func TooLarge(message string, data ...any) *Exception {
	return withCode(ecode.TooLarge, message, data)
}

// InternalServer hides the cause from the client.
func InternalServer(message string, data ...any) *Exception {
	return withCode(ecode.ServerErr, message, data)
}
