package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/ctxutil"
	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/net/cookie"
	"github.com/ncobase/jobboard/net/resp"
	"github.com/ncobase/jobboard/security/jwt"
)

const (
	userIDKey = ctxutil.UserIDKey
	roleKey   = ctxutil.RoleKey
)

// Auth authenticates requests with a bearer token or the session cookie.
type Auth struct {
	tokens     *jwt.TokenManager
	cookieName string
	logger     *logger.Logger
}

// NewAuth creates the auth middleware.
func NewAuth(tokens *jwt.TokenManager, cookieName string, log *logger.Logger) *Auth {
	return &Auth{tokens: tokens, cookieName: cookieName, logger: log}
}

func (a *Auth) token(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	return cookie.GetToken(c.Request, a.cookieName)
}

// Required rejects requests without a valid token.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := a.token(c)
		if tok == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("authentication required"))
			c.Abort()
			return
		}
		claims, err := a.tokens.ParseToken(tok)
		if err != nil {
			a.logger.Debug(c.Request.Context(), "token rejected", "error", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				resp.Fail(c.Writer, &resp.Exception{Status: http.StatusUnauthorized, Code: ecode.TokenExpired, Message: ecode.Text(ecode.TokenExpired)})
			} else {
				resp.Fail(c.Writer, resp.UnAuthorized("invalid token"))
			}
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, claims.Role)
		c.Request = c.Request.WithContext(ctxutil.SetUser(c.Request.Context(), claims.UserID, claims.Role))
		c.Next()
	}
}

// RequireRole admits only the listed roles. It runs after Required.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(roleKey)
		if role == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("authentication required"))
			c.Abort()
			return
		}
		if !slices.Contains(roles, role) {
			resp.Fail(c.Writer, resp.Forbidden("insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user id and role.
func CurrentUser(c *gin.Context) (string, string) {
	return c.GetString(userIDKey), c.GetString(roleKey)
}
