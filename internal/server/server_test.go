package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ncobase/jobboard/config"
	"github.com/ncobase/jobboard/logging/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:     "jobboard",
		Environment: "test",
		Server:      &config.Server{Host: "127.0.0.1", Port: 0, Mode: "test", ShutdownTimeout: time.Second},
		Logger:      &config.Logger{Level: 4},
		Data: &config.Data{
			Driver:  config.DriverMemory,
			MongoDB: &config.MongoDB{},
			Redis:   &config.Redis{},
		},
		Auth: &config.Auth{
			JWT:    &config.JWT{Secret: "test-secret", Expire: time.Hour},
			Cookie: &config.Cookie{Name: "token"},
		},
		Storage: &config.Storage{
			Provider:  "filesystem",
			Path:      t.TempDir(),
			PublicURL: "/files",
			Breaker:   &config.Breaker{},
		},
		Upload:       &config.Upload{MaxSize: config.DefaultMaxUploadSize, AllowedTypes: config.DefaultAllowedTypes},
		Email:        &config.Email{},
		Notification: &config.Notification{Workers: 1, BufferSize: 8, HandlerTimeout: time.Second},
		Observes:     &config.Observes{Sentry: &config.Sentry{}},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(context.Background(), testConfig(t), logger.NewWithWriter(io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Data.Status)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w.Header().Get("X-Trace-ID") == "" {
		t.Error("missing trace header")
	}
}

func TestNewRejectsBadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Provider = "s3"
	if _, err := New(context.Background(), cfg, logger.NewWithWriter(io.Discard)); err == nil {
		t.Error("New() expected error for s3 without credentials")
	}
}

func TestRunShutsDown(t *testing.T) {
	cfg := testConfig(t)
	s, err := New(context.Background(), cfg, logger.NewWithWriter(io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}
}
