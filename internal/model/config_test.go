package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfigSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  max_bytes: 1024
cache:
  memory_ttl: 5m
output:
  indent: ""
log:
  format: json
`), 0o644))

	t.Setenv("PATENTIA_CONCURRENCY_WORKERS", "3")
	t.Setenv("PATENTIA_LOG_FORMAT", "text")

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("PATENTIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, int64(1024), cfg.Input.MaxBytes)
	assert.Equal(t, 5*time.Minute, cfg.Cache.MemoryTTL)
	assert.Equal(t, DefaultConfig().Cache.DiskTTL, cfg.Cache.DiskTTL)
	assert.Equal(t, "", cfg.Output.Indent)
	assert.Equal(t, 3, cfg.Concurrency.Workers)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"max bytes", func(c *Config) { c.Input.MaxBytes = 0 }},
		{"workers", func(c *Config) { c.Concurrency.Workers = -1 }},
		{"cache dir", func(c *Config) { c.Cache.Dir = "" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.modify(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Dir = ""
	require.NoError(t, cfg.Validate())
}
