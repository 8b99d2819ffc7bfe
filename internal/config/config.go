// Package config loads LUMINA settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ukaji3/lumina-go/pkg/lumina"
	"github.com/ukaji3/lumina-go/pkg/lumina/normalize"
	"github.com/ukaji3/lumina-go/pkg/lumina/sheet"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "lumina.yaml"

// Config holds all LUMINA configuration.
type Config struct {
	// HTTP service
	Server ServerConfig `yaml:"server"`

	// Chat workflow backend
	Webhook WebhookConfig `yaml:"webhook"`

	// Reply normalization
	Normalize NormalizeConfig `yaml:"normalize"`

	// Spreadsheet generation
	Sheet SheetConfig `yaml:"sheet"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// WebhookConfig configures the chat workflow webhook.
type WebhookConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// NormalizeConfig configures reply normalization.
type NormalizeConfig struct {
	// PlaceholderURL is the image template for bare portfolio markers; "{n}"
	// is the image number. An empty value disables the rewrite.
	PlaceholderURL *string `yaml:"placeholder_url"`
}

// SheetConfig configures spreadsheet generation.
type SheetConfig struct {
	Name         string `yaml:"name"`
	FallbackName string `yaml:"fallback_name"`
	Author       string `yaml:"author"`
	FetchImages  *bool  `yaml:"fetch_images"`
	ImageTimeout string `yaml:"image_timeout"`
	// AllowPrivateHosts lets image fetches reach loopback and private
	// networks. Leave off when the HTTP API is reachable by untrusted clients.
	AllowPrivateHosts bool `yaml:"allow_private_hosts"`
	// MaxImageBytes caps each image download. Zero means the built-in limit.
	MaxImageBytes int `yaml:"max_image_bytes"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	placeholder := normalize.DefaultPlaceholderURL
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "60s",
			ShutdownTimeout: "10s",
		},
		Webhook: WebhookConfig{
			Timeout: "120s",
		},
		Normalize: NormalizeConfig{
			PlaceholderURL: &placeholder,
		},
		Sheet: SheetConfig{
			Name:         sheet.DefaultSheetName,
			FallbackName: sheet.DefaultFallbackSheetName,
			Author:       "LUMINA",
			ImageTimeout: "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("LUMINA_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if url := os.Getenv("LUMINA_WEBHOOK_URL"); url != "" {
		c.Webhook.URL = url
	}
	if timeout := os.Getenv("LUMINA_IMAGE_TIMEOUT"); timeout != "" {
		c.Sheet.ImageTimeout = timeout
	}
	if level := os.Getenv("LUMINA_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if url, ok := os.LookupEnv("LUMINA_PLACEHOLDER_URL"); ok {
		c.Normalize.PlaceholderURL = &url
	}
}

// GetReadTimeout returns the server read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the server write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 60*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown timeout as a Duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// GetWebhookTimeout returns the webhook timeout as a Duration.
func (c *Config) GetWebhookTimeout() time.Duration {
	return parseDuration(c.Webhook.Timeout, 120*time.Second)
}

// GetImageTimeout returns the per-image fetch timeout as a Duration.
func (c *Config) GetImageTimeout() time.Duration {
	return parseDuration(c.Sheet.ImageTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	if p := c.Normalize.PlaceholderURL; p != nil && *p != "" && !strings.Contains(*p, "{n}") {
		return fmt.Errorf("placeholder_url %q lacks the {n} image number", *p)
	}
	names := []struct{ key, value string }{
		{"sheet.name", c.Sheet.Name},
		{"sheet.fallback_name", c.Sheet.FallbackName},
	}
	for _, n := range names {
		if n.value == "" {
			continue
		}
		if err := sheet.CheckSheetName(n.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", n.key, n.value, err)
		}
	}
	if c.Sheet.MaxImageBytes < 0 {
		return fmt.Errorf("invalid sheet.max_image_bytes %d", c.Sheet.MaxImageBytes)
	}
	return nil
}

// ServiceOptions converts the configuration into lumina service options.
func (c *Config) ServiceOptions() lumina.Options {
	return lumina.Options{
		PlaceholderURL:    c.Normalize.PlaceholderURL,
		FetchImages:       c.Sheet.FetchImages,
		ImageTimeout:      c.GetImageTimeout(),
		SheetName:         c.Sheet.Name,
		FallbackSheetName: c.Sheet.FallbackName,
		Author:            c.Sheet.Author,
		AllowPrivateHosts: c.Sheet.AllowPrivateHosts,
		MaxImageBytes:     c.Sheet.MaxImageBytes,
	}
}
