// Package cookie sets and reads the session token cookie.
package cookie

import (
	"net/http"
	"strings"
	"time"
)

// TokenName is the default name of the session token cookie.
const TokenName = "token"

// Options controls the attributes of the token cookie.
type Options struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

func (o Options) name() string {
	if o.Name == "" {
		return TokenName
	}
	return o.Name
}

// formatDomain formats the domain
func formatDomain(domain string) string {
	if domain != "localhost" && !strings.HasPrefix(domain, ".") {
		return "." + domain
	}
	return domain
}

// SetToken writes the token cookie.
func SetToken(w http.ResponseWriter, token string, o Options) {
	c := &http.Cookie{
		Name:     o.name(),
		Value:    token,
		MaxAge:   int(o.MaxAge.Seconds()),
		Path:     "/",
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if o.Domain != "" {
		c.Domain = formatDomain(o.Domain)
	}
	http.SetCookie(w, c)
}

// ClearToken expires the token cookie.
func ClearToken(w http.ResponseWriter, o Options) {
	c := &http.Cookie{
		Name:     o.name(),
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if o.Domain != "" {
		c.Domain = formatDomain(o.Domain)
	}
	http.SetCookie(w, c)
}

// GetToken reads the token cookie, empty when absent.
func GetToken(r *http.Request, name string) string {
	if name == "" {
		name = TokenName
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
