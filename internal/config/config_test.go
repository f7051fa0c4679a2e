package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPPULSE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.InDelta(t, 0.005, cfg.Analysis.MinSupport, 1e-12)
	assert.InDelta(t, 0.2, cfg.Analysis.MinConfidence, 1e-12)
	assert.InDelta(t, 1.0, cfg.Analysis.MinLift, 1e-12)
	assert.Equal(t, 3, cfg.Analysis.MaxLength)
	assert.Equal(t, 5, cfg.Analysis.RFMBins)
	assert.False(t, cfg.Watcher.Enabled)
	assert.True(t, filepath.IsAbs(cfg.Paths.DataDir))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shoppulse.yaml")
	content := `
server:
  port: 9090
analysis:
  min_support: 0.01
  rfm_bins: 4
paths:
  base_dir: ` + dir + `
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("SHOPPULSE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.01, cfg.Analysis.MinSupport, 1e-12)
	assert.Equal(t, 4, cfg.Analysis.RFMBins)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.Paths.DataDir)

	// Keys the file does not declare keep their defaults.
	assert.InDelta(t, 0.2, cfg.Analysis.MinConfidence, 1e-12)
	assert.Equal(t, 3, cfg.Analysis.MaxLength)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shoppulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
	t.Setenv("SHOPPULSE_CONFIG", path)
	t.Setenv("SHOPPULSE_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Analysis: AnalysisConfig{MinSupport: 0.01, MinConfidence: 0.2, MinLift: 1, MaxLength: 3, RFMBins: 5},
			Watcher:  WatcherConfig{Interval: time.Minute},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"zero support", func(c *Config) { c.Analysis.MinSupport = 0 }},
		{"support above one", func(c *Config) { c.Analysis.MinSupport = 2 }},
		{"negative confidence", func(c *Config) { c.Analysis.MinConfidence = -0.1 }},
		{"negative lift", func(c *Config) { c.Analysis.MinLift = -1 }},
		{"zero max length", func(c *Config) { c.Analysis.MaxLength = 0 }},
		{"zero bins", func(c *Config) { c.Analysis.RFMBins = 0 }},
		{"watcher interval too short", func(c *Config) {
			c.Watcher.Enabled = true
			c.Watcher.Interval = time.Millisecond
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})
}

func TestSourceDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Paths: PathsConfig{DataDir: dir}}

	t.Run("falls back to spaced name", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "Shopee orders"), cfg.SourceDir(SourceShopeeOrders))
	})

	t.Run("prefers underscored name when present", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(dir, "Shopee_orders"), 0o755))
		assert.Equal(t, filepath.Join(dir, "Shopee_orders"), cfg.SourceDir(SourceShopeeOrders))
	})

	t.Run("unknown source", func(t *testing.T) {
		assert.Empty(t, cfg.SourceDir(Source("bogus")))
	})

	t.Run("all sources resolve", func(t *testing.T) {
		dirs := cfg.SourceDirs()
		assert.Len(t, dirs, 6)
		for source, path := range dirs {
			assert.NotEmpty(t, path, "source %s", source)
		}
	})
}
