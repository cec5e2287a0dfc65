package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"QUITQ_API_URL", "QUITQ_API_CACHE", "QUITQ_LISTEN_ADDR", "QUITQ_SESSION_DB", "QUITQ_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.URL != "http://localhost:8080/api" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if !cfg.API.Cache {
		t.Error("API.Cache should default to true")
	}
	if cfg.Server.ListenAddr != "127.0.0.1:3000" {
		t.Errorf("Server.ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Session.DatabasePath != "quitq-web.sqlite" {
		t.Errorf("Session.DatabasePath = %q", cfg.Session.DatabasePath)
	}
	if cfg.Server.AllowedOrigins != nil {
		t.Errorf("Server.AllowedOrigins = %v, want none", cfg.Server.AllowedOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("QUITQ_API_URL", "https://api.quitq.example/api")
	t.Setenv("QUITQ_API_CACHE", "false")
	t.Setenv("QUITQ_LISTEN_ADDR", "127.0.0.1:8000")
	t.Setenv("QUITQ_SESSION_DB", "/var/lib/quitq/session.sqlite")
	t.Setenv("QUITQ_ALLOWED_ORIGINS", "http://localhost:3000, https://shop.example ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.URL != "https://api.quitq.example/api" || cfg.API.Cache {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:8000" {
		t.Errorf("Server.ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if want := []string{"http://localhost:3000", "https://shop.example"}; !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("Server.AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, want)
	}
	if cfg.Session.DatabasePath != "/var/lib/quitq/session.sqlite" {
		t.Errorf("Session.DatabasePath = %q", cfg.Session.DatabasePath)
	}
}

func TestLoad_InvalidAPIURL(t *testing.T) {
	t.Setenv("QUITQ_API_URL", "localhost:8080")

	if _, err := Load(); err == nil {
		t.Error("expected error for URL without scheme")
	}
}
