package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("QUITQ_API_URL", "")
	t.Setenv("QUITQ_STORAGE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.Storage != StorageKeyring {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageKeyring)
	}
	if !cfg.Cache {
		t.Error("Cache should default to true")
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("QUITQ_API_URL", "")
	t.Setenv("QUITQ_STORAGE", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api_url: https://shop.example.com/api
storage: File
storage_path: /tmp/quitq-session.json
cache: false
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Config{
		APIURL:      "https://shop.example.com/api",
		WebURL:      DefaultWebURL,
		Storage:     StorageFile,
		StoragePath: "/tmp/quitq-session.json",
		Cache:       false,
		LogLevel:    "debug",
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
	if got := cfg.APIHost(); got != "shop.example.com" {
		t.Errorf("APIHost() = %q, want shop.example.com", got)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: https://shop.example.com/api\nstorage: file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("QUITQ_API_URL", "http://localhost:9090/api")
	t.Setenv("QUITQ_STORAGE", "memory")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:9090/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if got := cfg.APIHost(); got != "localhost:9090" {
		t.Errorf("APIHost() = %q, want localhost:9090", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("QUITQ_API_URL", "")
	t.Setenv("QUITQ_STORAGE", "")

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "api_url: [unterminated"},
		{"unknown storage", "storage: postgres\n"},
		{"relative api url", "api_url: /api\n"},
		{"unsupported scheme", "api_url: ftp://example.com/api\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("QUITQ_API_URL", "")
	t.Setenv("QUITQ_STORAGE", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage = StorageSQLite

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", *loaded, *cfg)
	}
}
