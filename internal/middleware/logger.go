package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/net/resp"
)

// Logger logs one line per request.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", method,
			"path", path,
			"status", status,
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if uid := c.GetString(userIDKey); uid != "" {
			kv = append(kv, "user_id", uid)
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(c.Request.Context(), "HTTP request", kv...)
		case status >= http.StatusBadRequest:
			log.Warn(c.Request.Context(), "HTTP request", kv...)
		default:
			log.Info(c.Request.Context(), "HTTP request", kv...)
		}
	}
}

// Recovery turns a panic into a 500 envelope and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "panic recovered",
					"error", fmt.Sprint(r),
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()))
				resp.Fail(c.Writer, resp.InternalServer(""))
				c.Abort()
			}
		}()
		c.Next()
	}
}
