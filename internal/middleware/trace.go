// Package middleware holds the gin middlewares of the HTTP API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/ctxutil"
)

// TraceHeader carries the request trace id in and out.
const TraceHeader = "X-Trace-ID"

// Trace makes sure every request carries a trace id, taken from the
// X-Trace-ID header when the caller sends one.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(TraceHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Set(ctxutil.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}
