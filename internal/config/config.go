package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Watcher  WatcherConfig  `yaml:"watcher" envconfig:"WATCHER"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the file system layout: where marketplace export
// folders live, where the analytic cache database sits and where CSV
// reports are written.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	DatabaseFile string `yaml:"database_file" envconfig:"DATABASE_FILE"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	StateFile    string `yaml:"state_file" envconfig:"STATE_FILE"`
}

// AnalysisConfig carries the analytics thresholds passed through to the
// basket and RFM pipelines.
type AnalysisConfig struct {
	MinSupport    float64 `yaml:"min_support" envconfig:"MIN_SUPPORT"`
	MinConfidence float64 `yaml:"min_confidence" envconfig:"MIN_CONFIDENCE"`
	MinLift       float64 `yaml:"min_lift" envconfig:"MIN_LIFT"`
	MaxLength     int     `yaml:"max_length" envconfig:"MAX_LENGTH"`
	RFMBins       int     `yaml:"rfm_bins" envconfig:"RFM_BINS"`
}

// WatcherConfig controls the export-folder change scanner.
type WatcherConfig struct {
	Enabled  bool          `yaml:"enabled" envconfig:"ENABLED"`
	Interval time.Duration `yaml:"interval" envconfig:"INTERVAL"`
}

// defaultConfig returns the built-in defaults. Defaults live here rather
// than in envconfig `default:` tags: envconfig re-applies tag defaults to
// every field whose env var is unset, which would stomp values read from
// the config file before the env pass.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/shoppulse.log",
		},
		Paths: PathsConfig{
			DataDir:      "data",
			ReportsDir:   "reports",
			DatabaseFile: "shoppulse.duckdb",
			LogsDir:      "logs",
			StateFile:    "watcher_state.json",
		},
		Analysis: AnalysisConfig{
			MinSupport:    0.005,
			MinConfidence: 0.2,
			MinLift:       1.0,
			MaxLength:     3,
			RFMBins:       5,
		},
		Watcher: WatcherConfig{
			Enabled:  false,
			Interval: 5 * time.Minute,
		},
	}
}

// Load builds the configuration in three layers: built-in defaults, then
// the shoppulse.yaml file when present, then environment variables.
// Environment values win over file values, file values win over defaults.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := overlayFile(cfg, configFilePath()); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	if err := envconfig.Process("SHOPPULSE", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// overlayFile unmarshals the YAML file over cfg, touching only the keys
// the file declares. A missing file leaves cfg unchanged.
func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func configFilePath() string {
	if path := os.Getenv("SHOPPULSE_CONFIG"); path != "" {
		return path
	}
	return "shoppulse.yaml"
}

// resolvePaths anchors every relative path at BaseDir (default: the
// working directory).
func (c *Config) resolvePaths() error {
	if c.Paths.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		c.Paths.BaseDir = wd
	}

	anchor := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Paths.BaseDir, p)
	}

	c.Paths.DataDir = anchor(c.Paths.DataDir)
	c.Paths.ReportsDir = anchor(c.Paths.ReportsDir)
	c.Paths.LogsDir = anchor(c.Paths.LogsDir)
	c.Paths.DatabaseFile = anchor(c.Paths.DatabaseFile)
	c.Paths.StateFile = anchor(c.Paths.StateFile)
	if !filepath.IsAbs(c.Logging.FilePath) {
		c.Logging.FilePath = filepath.Join(c.Paths.BaseDir, c.Logging.FilePath)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.MinSupport <= 0 || c.Analysis.MinSupport > 1 {
		return fmt.Errorf("min_support must be in (0,1], got %g", c.Analysis.MinSupport)
	}
	if c.Analysis.MinConfidence < 0 || c.Analysis.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0,1], got %g", c.Analysis.MinConfidence)
	}
	if c.Analysis.MinLift < 0 {
		return fmt.Errorf("min_lift must be non-negative, got %g", c.Analysis.MinLift)
	}
	if c.Analysis.MaxLength < 1 {
		return fmt.Errorf("max_length must be at least 1, got %d", c.Analysis.MaxLength)
	}
	if c.Analysis.RFMBins < 1 {
		return fmt.Errorf("rfm_bins must be at least 1, got %d", c.Analysis.RFMBins)
	}
	if c.Watcher.Enabled && c.Watcher.Interval < time.Second {
		return fmt.Errorf("watcher interval too short: %s", c.Watcher.Interval)
	}
	return nil
}

// EnsureDirectories creates the data, reports and logs directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
