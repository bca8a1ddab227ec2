// Package config loads the application configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/philipparndt/scaleruler/pkg/settings"
)

// Config holds runtime configuration. Fields may be loaded from a TOML file
// and overridden by command-line flags.
type Config struct {
	// SettingsFile is the properties file holding calibrations and measurements
	SettingsFile string `toml:"settings_file"`
	LogLevel     string `toml:"log_level"`

	WindowWidth  float32 `toml:"window_width"`
	WindowHeight float32 `toml:"window_height"`

	// WatchImage reloads the open image when it changes on disk
	WatchImage bool `toml:"watch_image"`

	ZoomInFactor  float64 `toml:"zoom_in_factor"`
	ZoomOutFactor float64 `toml:"zoom_out_factor"`
	MinZoom       float64 `toml:"min_zoom"`
	MaxZoom       float64 `toml:"max_zoom"`
}

// DefaultConfig returns a Config populated with standard defaults
func DefaultConfig() *Config {
	return &Config{
		SettingsFile:  settings.DefaultPath(),
		LogLevel:      "info",
		WindowWidth:   1200,
		WindowHeight:  800,
		WatchImage:    true,
		ZoomInFactor:  1.1,
		ZoomOutFactor: 0.9,
		MinZoom:       0.1,
		MaxZoom:       10.0,
	}
}

// DefaultPath returns the configuration file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "scaleruler", "config.toml")
}

// Validate replaces out-of-range values with defaults
func (c *Config) Validate() error {
	def := DefaultConfig()
	if strings.TrimSpace(c.SettingsFile) == "" {
		c.SettingsFile = def.SettingsFile
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = def.LogLevel
	}
	if c.WindowWidth <= 0 {
		c.WindowWidth = def.WindowWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = def.WindowHeight
	}
	if c.ZoomInFactor <= 1 {
		c.ZoomInFactor = def.ZoomInFactor
	}
	if c.ZoomOutFactor <= 0 || c.ZoomOutFactor >= 1 {
		c.ZoomOutFactor = def.ZoomOutFactor
	}
	if c.MinZoom <= 0 {
		c.MinZoom = def.MinZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MinZoom, c.MaxZoom = def.MinZoom, def.MaxZoom
	}
	return nil
}

// Load reads configuration from the given TOML file. A missing file yields
// DefaultConfig. On a decode error the defaults are returned with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// ParseLevel converts a level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Level returns the configured log level
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}
