package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the web storefront
type Config struct {
	// API Configuration
	API APIConfig

	// Server Configuration
	Server ServerConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the QuitQ backend configuration
type APIConfig struct {
	URL   string
	Cache bool
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	ListenAddr     string
	AllowedOrigins []string
}

// SessionConfig holds session storage configuration
type SessionConfig struct {
	DatabasePath string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := getenv("QUITQ_API_URL", "http://localhost:8080/api")
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid QUITQ_API_URL %q: must be an http(s) URL", apiURL)
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("QUITQ_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		API: APIConfig{
			URL:   apiURL,
			Cache: getenv("QUITQ_API_CACHE", "true") != "false",
		},
		Server: ServerConfig{
			ListenAddr:     getenv("QUITQ_LISTEN_ADDR", "127.0.0.1:3000"),
			AllowedOrigins: origins,
		},
		Session: SessionConfig{
			DatabasePath: getenv("QUITQ_SESSION_DB", "quitq-web.sqlite"),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
