// Package config loads the spanav command configuration from TOML files with
// an environment specific overlay and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jackielii/spanav"
	"github.com/jackielii/spanav/internal/logging"
)

const (
	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	EnvEnv             = "SPANAV_ENV"
	EnvAddr            = "SPANAV_ADDR"
	EnvViewsDir        = "SPANAV_VIEWS_DIR"
	EnvViewsBucket     = "SPANAV_VIEWS_BUCKET"
	EnvLogLevel        = "SPANAV_LOG_LEVEL"
	EnvLogFormat       = "SPANAV_LOG_FORMAT"
	EnvShutdownTimeout = "SPANAV_SHUTDOWN_TIMEOUT"
)

// Config is the root configuration of the spanav command.
type Config struct {
	Server  ServerConfig    `toml:"server"`
	Logging logging.Config  `toml:"logging"`
	Views   ViewsConfig     `toml:"views"`
	Routes  []spanav.Record `toml:"routes"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	ReadTimeout     string `toml:"read_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// ViewsConfig configures where lazy views come from and how long loads take.
type ViewsConfig struct {
	// Dir overrides the embedded fragments with a directory on disk.
	Dir         string   `toml:"dir"`
	LoadTimeout string   `toml:"load_timeout"`
	WaitTimeout string   `toml:"wait_timeout"`
	Prefetch    bool     `toml:"prefetch"`
	S3          S3Config `toml:"s3"`
}

// S3Config selects an object store for view fragments. Empty Bucket disables it.
type S3Config struct {
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
}

// Load reads path and merges the overlay for $SPANAV_ENV found next to it.
// The result is not finalized.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Server.finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Finalize(EnvLogLevel, EnvLogFormat); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Views.finalize(); err != nil {
		return fmt.Errorf("views: %w", err)
	}
	if len(c.Routes) == 0 {
		return errors.New("routes: at least one route is required")
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
// A non-empty overlay route list replaces the base list.
func (c *Config) Merge(overlay *Config) {
	c.Server.merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Views.merge(&overlay.Views)
	if len(overlay.Routes) > 0 {
		c.Routes = overlay.Routes
	}
}

// ReadTimeoutDuration returns the parsed read timeout.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

// ShutdownTimeoutDuration returns the parsed shutdown timeout.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

func (c *ServerConfig) finalize() error {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "15s"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if _, err := time.ParseDuration(c.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func (c *ServerConfig) merge(o *ServerConfig) {
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.ReadTimeout != "" {
		c.ReadTimeout = o.ReadTimeout
	}
	if o.ShutdownTimeout != "" {
		c.ShutdownTimeout = o.ShutdownTimeout
	}
}

// LoadTimeoutDuration returns the parsed load timeout, zero for none.
func (c *ViewsConfig) LoadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.LoadTimeout)
	return d
}

// WaitTimeoutDuration returns the parsed wait timeout.
func (c *ViewsConfig) WaitTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WaitTimeout)
	return d
}

func (c *ViewsConfig) finalize() error {
	if c.LoadTimeout == "" {
		c.LoadTimeout = "30s"
	}
	if c.WaitTimeout == "" {
		c.WaitTimeout = "5s"
	}
	if v := os.Getenv(EnvViewsDir); v != "" {
		c.Dir = v
	}
	if v := os.Getenv(EnvViewsBucket); v != "" {
		c.S3.Bucket = v
	}
	if _, err := time.ParseDuration(c.LoadTimeout); err != nil {
		return fmt.Errorf("invalid load_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.WaitTimeout); err != nil {
		return fmt.Errorf("invalid wait_timeout: %w", err)
	}
	if c.S3.Bucket != "" && c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
	return nil
}

func (c *ViewsConfig) merge(o *ViewsConfig) {
	if o.Dir != "" {
		c.Dir = o.Dir
	}
	if o.LoadTimeout != "" {
		c.LoadTimeout = o.LoadTimeout
	}
	if o.WaitTimeout != "" {
		c.WaitTimeout = o.WaitTimeout
	}
	if o.Prefetch {
		c.Prefetch = true
	}
	if o.S3.Bucket != "" {
		c.S3 = o.S3
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvEnv)
	if env == "" {
		return ""
	}
	p := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
