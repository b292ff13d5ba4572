// Package config loads mpgscenes settings.
//
// Sources are applied in this order, later ones winning:
//
//	1. YAML file (optional, -config flag or MPG_CONFIG)
//	2. Environment variables with the MPG_ prefix
//	3. Defaults for anything still unset
//
// Environment variables follow the nested struct names:
//
//	MPG_SERVER_PORT=8080
//	MPG_DATA_FILE=cars2017.csv
//	MPG_LOGGING_LEVEL=debug
//	MPG_SCENES_COMPUTED_ANNOTATIONS=true
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable.
const EnvPrefix = "MPG"

const defaultRateBurst = 10

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
	Scenes  ScenesConfig  `yaml:"scenes"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`

	// RateLimit is requests per second across all clients; 0 disables it.
	RateLimit float64 `yaml:"rate_limit" split_words:"true" validate:"gte=0"`
	RateBurst int     `yaml:"rate_burst" split_words:"true" validate:"gte=0"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig points at the dataset.
type DataConfig struct {
	File string `yaml:"file" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// ScenesConfig controls scene rendering.
type ScenesConfig struct {
	Default             string `yaml:"default" validate:"oneof=scene1 scene2 scene3"`
	ComputedAnnotations bool   `yaml:"computed_annotations" split_words:"true"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path" validate:"startswith=/"`
}

// MetricsEnabled reports whether /metrics is served. Unset means enabled.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// Default returns default configuration
func Default() *Config {
	enabled := true
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{File: "cars2017.csv"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Scenes:  ScenesConfig{Default: "scene1"},
		Metrics: MetricsConfig{Enabled: &enabled, Path: "/metrics"},
	}
}

// Load reads path (if non-empty), overlays the environment, fills defaults
// and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// setDefaults fills every zero field from Default.
func (c *Config) setDefaults() {
	d := Default()

	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = d.Server.IdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		c.Server.RateBurst = defaultRateBurst
	}
	if c.Data.File == "" {
		c.Data.File = d.Data.File
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.Scenes.Default == "" {
		c.Scenes.Default = d.Scenes.Default
	}
	if c.Metrics.Enabled == nil {
		c.Metrics.Enabled = d.Metrics.Enabled
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
