// Package config loads gallery settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gallery/internal/viewer"

	"gopkg.in/yaml.v3"
)

const (
	appDir     = "gallery"
	configFile = "config.yaml"
)

// Environment variables that override file settings.
const (
	EnvCatalog  = "GALLERY_CATALOG"
	EnvLocale   = "GALLERY_LOCALE"
	EnvPadding  = "GALLERY_PADDING"
	EnvZoomStep = "GALLERY_ZOOM_STEP"
	EnvAutoFit  = "GALLERY_AUTO_FIT"
	EnvWatch    = "GALLERY_WATCH"
	EnvLogLevel = "LOG_LEVEL"
)

// Config holds all runtime settings.
type Config struct {
	Catalog       string        `yaml:"catalog"`
	Locale        string        `yaml:"locale"`
	Padding       float64       `yaml:"padding"`
	ZoomStep      float64       `yaml:"zoom_step"`
	AutoFit       bool          `yaml:"auto_fit"`
	ThumbnailSize int           `yaml:"thumbnail_size"`
	Workers       int           `yaml:"workers"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	Watch         bool          `yaml:"watch"`
	WatchInterval time.Duration `yaml:"watch_interval"`
	LogLevel      string        `yaml:"log_level"`
	LogFormat     string        `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Catalog:       "products.json",
		Locale:        "de-DE",
		Padding:       viewer.DefaultPadding,
		ZoomStep:      viewer.DefaultZoomStep,
		AutoFit:       true,
		ThumbnailSize: 320,
		Workers:       4,
		FetchTimeout:  30 * time.Second,
		WatchInterval: 2 * time.Second,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// DefaultPath returns ~/.config/gallery/config.yaml (or the platform
// equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appDir, configFile)
}

// Load reads path on top of the defaults. A missing file is not an error
// when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables using lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCatalog); ok && strings.TrimSpace(v) != "" {
		c.Catalog = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLocale); ok && strings.TrimSpace(v) != "" {
		c.Locale = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPadding); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPadding, err)
		}
		c.Padding = f
	}
	if v, ok := lookup(EnvZoomStep); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvZoomStep, err)
		}
		c.ZoomStep = f
	}
	if v, ok := lookup(EnvAutoFit); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutoFit, err)
		}
		c.AutoFit = b
	}
	if v, ok := lookup(EnvWatch); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWatch, err)
		}
		c.Watch = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.ViewerOptions().Validate(); err != nil {
		return err
	}
	if c.ThumbnailSize <= 0 {
		return fmt.Errorf("thumbnail_size must be positive, got %d", c.ThumbnailSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.Watch && c.WatchInterval <= 0 {
		return fmt.Errorf("watch_interval must be positive, got %s", c.WatchInterval)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// ViewerOptions returns the inspection engine settings.
func (c Config) ViewerOptions() viewer.Options {
	return viewer.Options{
		Padding:  c.Padding,
		ZoomStep: c.ZoomStep,
		AutoFit:  c.AutoFit,
	}
}
