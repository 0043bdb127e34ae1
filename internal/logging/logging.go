// Package logging builds the slog logger of the spanav command from its
// configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the [logging] section of the configuration file. Level is any
// level slog understands ("debug", "info", "warn", "error", or "warn+2").
type Config struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Finalize fills defaults, applies the environment variables named levelEnv
// and formatEnv, and validates the result.
func (c *Config) Finalize(levelEnv, formatEnv string) error {
	c.Level = strings.ToLower(firstSet(os.Getenv(levelEnv), c.Level, "info"))
	c.Format = strings.ToLower(firstSet(os.Getenv(formatEnv), c.Format, FormatText))
	if _, err := c.level(); err != nil {
		return err
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid log format %q: want %s or %s", c.Format, FormatText, FormatJSON)
	}
	return nil
}

// Merge takes the fields overlay sets.
func (c *Config) Merge(overlay *Config) {
	c.Level = firstSet(overlay.Level, c.Level)
	c.Format = firstSet(overlay.Format, c.Format)
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return l, nil
}

// New returns a logger writing to w. An unparsable level logs at info.
func New(cfg *Config, w io.Writer) *slog.Logger {
	level, _ := cfg.level()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
