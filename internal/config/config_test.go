package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "n", cfg.Analysis.SizeVariable)
	assert.Equal(t, 5, cfg.Analysis.Lookahead)
	assert.Equal(t, "console", cfg.Output.Format)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Runner.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Runner.Timeout)
	assert.Equal(t, "python3 main.py", cfg.Runner.Commands["python"])
	assert.NoError(t, cfg.Validate())
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"cfg.yml", "analysis:\n  size_variable: size\n  lookahead: 3\noutput:\n  format: json\nserver:\n  read_timeout: 2s\n"},
		{"cfg.json", `{"analysis": {"size_variable": "size", "lookahead": 3}, "output": {"format": "json"}, "server": {"read_timeout": "2s"}}`},
		{"cfg.toml", "[analysis]\nsize_variable = \"size\"\nlookahead = 3\n\n[output]\nformat = \"json\"\n\n[server]\nread_timeout = \"2s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "size", cfg.Analysis.SizeVariable)
			assert.Equal(t, 3, cfg.Analysis.Lookahead)
			assert.Equal(t, "json", cfg.Output.Format)
			assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)

			// untouched keys keep their defaults
			assert.Equal(t, 4, cfg.Analysis.MaxWorkers)
			assert.Equal(t, 90, cfg.Analysis.ScoreThresholds.Excellent)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: html\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".bigocheck.yml")
	require.NoError(t, GenerateConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"thresholds out of order", func(c *Config) { c.Analysis.ScoreThresholds.Good = 95 }},
		{"zero workers", func(c *Config) { c.Analysis.MaxWorkers = 0 }},
		{"empty size variable", func(c *Config) { c.Analysis.SizeVariable = " " }},
		{"negative lookahead", func(c *Config) { c.Analysis.Lookahead = -1 }},
		{"no body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"runner without timeout", func(c *Config) {
			c.Runner.Enabled = true
			c.Runner.Timeout = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(AddrEnv, "127.0.0.1:9000")
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Files.Exclude = append(cfg.Files.Exclude, "*_test.py")

	assert.True(t, cfg.ShouldExclude("vendor/lib/a.py"))
	assert.True(t, cfg.ShouldExclude("src/node_modules/x/main.cpp"))
	assert.True(t, cfg.ShouldExclude("pkg/algo_test.py"))
	assert.False(t, cfg.ShouldExclude("src/algo.py"))
	assert.Equal(t, int64(1024*1024), cfg.MaxFileBytes())
}
