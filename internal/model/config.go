package model

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the patentia configuration
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// InputConfig limits what is read from input files
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"` // Larger inputs are rejected
}

// CacheConfig configures the parse result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`               // Disk layer directory
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"` // Memory layer entry lifetime
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`     // Disk layer entry lifetime
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`         // Batch output directory
	Indent  string `yaml:"indent" mapstructure:"indent"`   // JSON indentation, empty for compact output
	Summary bool   `yaml:"summary" mapstructure:"summary"` // Print a summary to stderr after parsing
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level   string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format  string `yaml:"format" mapstructure:"format"` // console, text, json
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxBytes: 32 << 20,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Dir:    "./patentia-out",
			Indent: "  ",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "patentia")
	}
	return filepath.Join(os.TempDir(), "patentia-cache")
}

// SetDefaults registers every configuration key with its default value,
// so that environment variables are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("input.max_bytes", d.Input.MaxBytes)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)
	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.indent", d.Output.Indent)
	v.SetDefault("output.summary", d.Output.Summary)
	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.no_color", d.Log.NoColor)
}

// LoadConfig builds the configuration from defaults, config file,
// environment and bound flags, as collected by v.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.Input.MaxBytes <= 0 {
		return fmt.Errorf("input.max_bytes must be positive, got %d", c.Input.MaxBytes)
	}
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("concurrency.workers must be positive, got %d", c.Concurrency.Workers)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required when the cache is enabled")
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s (supported: console, text, json)", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %s (supported: debug, info, warn, error)", c.Log.Level)
	}

	return nil
}
