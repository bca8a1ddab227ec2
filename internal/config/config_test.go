package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
settings_file = "/tmp/ruler.properties"
log_level = "debug"
window_width = 1600
watch_image = false
max_zoom = 4.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/ruler.properties", cfg.SettingsFile)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, float32(1600), cfg.WindowWidth)
	assert.Equal(t, float32(800), cfg.WindowHeight)
	assert.False(t, cfg.WatchImage)
	assert.Equal(t, 4.0, cfg.MaxZoom)
	assert.Equal(t, 1.1, cfg.ZoomInFactor)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("window_width = ["), 0644))

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidateClampsValues(t *testing.T) {
	cfg := &Config{
		LogLevel:      "loud",
		WindowWidth:   -1,
		ZoomInFactor:  0.5,
		ZoomOutFactor: 2,
		MinZoom:       5,
		MaxZoom:       1,
	}

	require.NoError(t, cfg.Validate())

	def := DefaultConfig()
	assert.Equal(t, def.SettingsFile, cfg.SettingsFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, def.WindowWidth, cfg.WindowWidth)
	assert.Equal(t, def.WindowHeight, cfg.WindowHeight)
	assert.Equal(t, 1.1, cfg.ZoomInFactor)
	assert.Equal(t, 0.9, cfg.ZoomOutFactor)
	assert.Equal(t, 0.1, cfg.MinZoom)
	assert.Equal(t, 10.0, cfg.MaxZoom)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
