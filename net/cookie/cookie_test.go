package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetAndGetToken(t *testing.T) {
	w := httptest.NewRecorder()
	SetToken(w, "abc", Options{Domain: "example.com", MaxAge: time.Hour})

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != TokenName || c.Value != "abc" || c.MaxAge != 3600 || !c.HttpOnly {
		t.Errorf("unexpected cookie %+v", c)
	}
	if c.Domain != "example.com" && c.Domain != ".example.com" {
		t.Errorf("Domain = %q", c.Domain)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: TokenName, Value: "abc"})
	if got := GetToken(r, ""); got != "abc" {
		t.Errorf("GetToken() = %q, want abc", got)
	}
}

func TestClearToken(t *testing.T) {
	w := httptest.NewRecorder()
	ClearToken(w, Options{})
	c := w.Result().Cookies()[0]
	if c.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", c.MaxAge)
	}
}

func TestGetTokenMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetToken(r, "session"); got != "" {
		t.Errorf("GetToken() = %q, want empty", got)
	}
}
