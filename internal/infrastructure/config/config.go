package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/printhooks/pkg/storage"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment overrides applied after the config file is read.
const (
	EnvHost   = "PRINTHOOKS_HOST"
	EnvAPIKey = "PRINTHOOKS_API_KEY"
)

// Template sources.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceHTTP     = "http"
)

// Config is the operator's workspace configuration.
type Config struct {
	Host      HostConfig      `yaml:"host"`
	Templates TemplatesConfig `yaml:"templates"`
	LogLevel  string          `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// HostConfig locates the print host and its plugin API.
type HostConfig struct {
	URL      string        `yaml:"url" validate:"required,url"`
	APIKey   string        `yaml:"api_key"`
	PluginID string        `yaml:"plugin_id" validate:"required"`
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
	// PushAuth is the "user:session" pair sent on the push socket.
	PushAuth string `yaml:"push_auth"`
}

// TemplatesConfig selects where preset templates are read from.
type TemplatesConfig struct {
	Source       string        `yaml:"source" validate:"oneof=embedded dir http"`
	Dir          string        `yaml:"dir" validate:"required_if=Source dir"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gte=0"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Host: HostConfig{
			URL:      "http://localhost:5000",
			PluginID: "webhooks",
			Timeout:  10 * time.Second,
		},
		Templates: TemplatesConfig{
			Source:       SourceEmbedded,
			FetchTimeout: 5 * time.Second,
		},
		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads .printhooks/config.yaml under root, applies environment
// overrides and validates the result. A missing file yields Default.
func Load(root string) (*Config, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host.URL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Host.APIKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to .printhooks/config.yaml under root.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		return err
	}
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
