// Package ecode defines the business error codes returned by the API and the
// typed error used by services to classify failures.
//
// Codes follow a negative numbering scheme:
//   - 0: success
//   - -101..-199: authentication and authorization
//   - -400..-499: request and resource errors
//   - -500+: server and dependency errors
//
// Services return *Error values built with the New*Error constructors. The
// transport layer maps them to HTTP statuses with ToHTTPStatus:
//
//	err := ecode.NewNotFoundError(ecode.NotExist("job"))
//	status := ecode.ToHTTPStatus(ecode.CodeOf(err)) // 404
package ecode
