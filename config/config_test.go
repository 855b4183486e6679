package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, `
app_name: jobs
data:
  driver: memory
auth:
  jwt:
    secret: s3cret
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AppName != "jobs" {
		t.Errorf("AppName = %v, want jobs", cfg.AppName)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Upload.MaxSize != 5<<20 {
		t.Errorf("Upload.MaxSize = %v, want %v", cfg.Upload.MaxSize, 5<<20)
	}
	if len(cfg.Upload.AllowedTypes) != len(DefaultAllowedTypes) {
		t.Errorf("Upload.AllowedTypes = %v", cfg.Upload.AllowedTypes)
	}
	if cfg.Auth.JWT.Expire != 24*time.Hour {
		t.Errorf("Auth.JWT.Expire = %v", cfg.Auth.JWT.Expire)
	}
	if cfg.Notification.Workers != 4 || cfg.Notification.BufferSize != 1024 {
		t.Errorf("Notification = %+v", cfg.Notification)
	}
	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the loaded config")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "data:\n  driver: memory\n"},
		{"mongo without uri", "data:\n  driver: mongodb\nauth:\n  jwt:\n    secret: x\n"},
		{"unknown driver", "data:\n  driver: oracle\nauth:\n  jwt:\n    secret: x\n"},
		{"unknown storage", "data:\n  driver: memory\nstorage:\n  provider: tape\nauth:\n  jwt:\n    secret: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("LoadConfig() expected error")
			}
		})
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("JOBBOARD_SERVER_PORT", "9090")
	p := writeConfig(t, "server:\n  port: 8000\ndata:\n  driver: memory\nauth:\n  jwt:\n    secret: x\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %v, want 9090", cfg.Server.Port)
	}
}

func TestSectionDefaults(t *testing.T) {
	p := writeConfig(t, `
data:
  driver: memory
auth:
  jwt:
    secret: s3cret
upload:
  max_size: 1048576
  allowed_types: []
storage:
  breaker:
    failure_threshold: -1
notification:
  workers: 0
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Upload.MaxSize != 1<<20 {
		t.Errorf("Upload.MaxSize = %v, want %v", cfg.Upload.MaxSize, 1<<20)
	}
	if len(cfg.Upload.AllowedTypes) != len(DefaultAllowedTypes) {
		t.Errorf("Upload.AllowedTypes = %v, want defaults", cfg.Upload.AllowedTypes)
	}
	if cfg.Storage.Breaker.FailureThreshold != 5 {
		t.Errorf("Breaker.FailureThreshold = %v, want 5", cfg.Storage.Breaker.FailureThreshold)
	}
	if cfg.Notification.Workers != 0 {
		t.Errorf("Notification.Workers = %v, want 0", cfg.Notification.Workers)
	}
	if !cfg.Auth.Cookie.Secure {
		t.Error("Auth.Cookie.Secure should default to true")
	}
}
