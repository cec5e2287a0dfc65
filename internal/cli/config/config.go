package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "quitq"
	configFileName = "config.yaml"

	// DefaultAPIURL is where the QuitQ backend listens in development
	DefaultAPIURL = "http://localhost:8080/api"

	// DefaultWebURL is where quitq-web listens by default
	DefaultWebURL = "http://localhost:3000"
)

// Storage backends for the CLI session
const (
	StorageKeyring = "keyring"
	StorageFile    = "file"
	StorageSQLite  = "sqlite"
	StorageMemory  = "memory"
)

// Config represents the CLI configuration stored in ~/.config/quitq/config.yaml
type Config struct {
	APIURL      string `yaml:"api_url"`
	WebURL      string `yaml:"web_url"`
	Storage     string `yaml:"storage"`
	StoragePath string `yaml:"storage_path,omitempty"`
	Cache       bool   `yaml:"cache"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		APIURL:   DefaultAPIURL,
		WebURL:   DefaultWebURL,
		Storage:  StorageKeyring,
		Cache:    true,
		LogLevel: "warn",
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// Load reads the configuration file at path. A missing file yields the
// defaults. QUITQ_API_URL and QUITQ_STORAGE override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("QUITQ_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("QUITQ_STORAGE"); v != "" {
		cfg.Storage = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the config file from its default location
func LoadDefault() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Validate checks the fields that cannot be defaulted
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an http(s) URL", c.APIURL)
	}

	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case StorageKeyring, StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("invalid storage '%s', must be one of: keyring, file, sqlite, memory", c.Storage)
	}
	return nil
}

// APIHost returns host[:port] of the API URL. Credentials are scoped to it.
func (c *Config) APIHost() string {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return c.APIURL
	}
	return u.Host
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
