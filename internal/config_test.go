package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/dagaz/pkg/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Lifecycle.Expiry.Std() != 7*24*time.Hour {
		t.Errorf("expiry = %s, want 168h", cfg.Lifecycle.Expiry.Std())
	}
	if cfg.Content.Backend != ContentBackendSQLite {
		t.Errorf("backend = %q, want sqlite", cfg.Content.Backend)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth must be disabled by default")
	}
}

func TestLoadYAMLDurations(t *testing.T) {
	path := writeConfig(t, `
app:
  http:
    port: 9090
index:
  path: /tmp/index.json
content:
  backend: fs
  path: /tmp/notes
lifecycle:
  expiry: 168h
  idle_debounce: 3s
auth:
  mode: disabled
`)
	cfg := &Config{}
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lifecycle.Expiry.Std() != 168*time.Hour {
		t.Errorf("expiry = %s", cfg.Lifecycle.Expiry.Std())
	}
	if cfg.Lifecycle.IdleDebounce.Std() != 3*time.Second {
		t.Errorf("idle_debounce = %s", cfg.Lifecycle.IdleDebounce.Std())
	}
	if cfg.Content.Backend != ContentBackendFS {
		t.Errorf("backend = %q", cfg.Content.Backend)
	}
}

func TestLoadExpandsEnvToken(t *testing.T) {
	t.Setenv("DAGAZ_TEST_TOKEN", "hunter2")
	path := writeConfig(t, `
app:
  http:
    port: 8080
index:
  path: /tmp/index.json
content:
  path: /tmp/content.db
lifecycle:
  expiry: 168h
  idle_debounce: 3s
auth:
  mode: token
  token: ${DAGAZ_TEST_TOKEN}
`)
	cfg := &Config{}
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Token != "hunter2" {
		t.Errorf("token = %q", cfg.Auth.Token)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Error("token mode must enable auth")
	}
}

func TestValidateRejectsBadDurations(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Lifecycle.Expiry = Duration(30 * time.Second)
	if err := cfg.Validate(); err == nil {
		t.Error("expiry below 1m must be rejected")
	}

	cfg = NewDefaultConfig()
	cfg.Lifecycle.IdleDebounce = Duration(10 * time.Millisecond)
	if err := cfg.Validate(); err == nil {
		t.Error("debounce below 100ms must be rejected")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Content.Backend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown content backend must be rejected")
	}
}

func TestValidateRejectsTokenModeWithoutToken(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModeToken
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Error("token mode without a token must be rejected")
	}
}

func TestEmptyAuthModeNormalizesToDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Auth.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want disabled", cfg.Auth.Mode)
	}
}
