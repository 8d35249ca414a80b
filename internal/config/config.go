// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// AddrEnv overrides Server.Addr when set.
const AddrEnv = "BIGOCHECK_ADDR"

// Config represents the configuration for bigocheck
type Config struct {
	// General settings
	Version     string `yaml:"version" json:"version" koanf:"version"`
	ProjectName string `yaml:"project_name,omitempty" json:"project_name,omitempty" koanf:"project_name"`

	// Estimator settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis" koanf:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output" koanf:"output"`

	// File patterns
	Files FilesConfig `yaml:"files" json:"files" koanf:"files"`

	// HTTP surface
	Server ServerConfig `yaml:"server" json:"server" koanf:"server"`

	// Code execution
	Runner RunnerConfig `yaml:"runner" json:"runner" koanf:"runner"`
}

type AnalysisConfig struct {
	// Name of the input-size variable in loop bounds
	SizeVariable string `yaml:"size_variable" json:"size_variable" koanf:"size_variable"`

	// Lines after a loop header searched for a doubling update
	Lookahead int `yaml:"lookahead" json:"lookahead" koanf:"lookahead"`

	// Parallel analysis
	MaxWorkers int `yaml:"max_workers" json:"max_workers" koanf:"max_workers"`

	// Performance score thresholds
	ScoreThresholds ScoreThresholds `yaml:"score_thresholds" json:"score_thresholds" koanf:"score_thresholds"`
}

type ScoreThresholds struct {
	Excellent int `yaml:"excellent" json:"excellent" koanf:"excellent"` // >= 90
	Good      int `yaml:"good" json:"good" koanf:"good"`                // >= 75
	Fair      int `yaml:"fair" json:"fair" koanf:"fair"`                // >= 50
	Poor      int `yaml:"poor" json:"poor" koanf:"poor"`                // < 50
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format" koanf:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors" koanf:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose" koanf:"verbose"`

	// Show suggestions
	ShowSuggestions bool `yaml:"show_suggestions" json:"show_suggestions" koanf:"show_suggestions"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty" koanf:"output_file"`
}

type FilesConfig struct {
	// Exclude patterns
	Exclude []string `yaml:"exclude" json:"exclude" koanf:"exclude"`

	// Whether to follow symlinks
	FollowSymlinks bool `yaml:"follow_symlinks" json:"follow_symlinks" koanf:"follow_symlinks"`

	// Max file size (in KB)
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size" koanf:"max_file_size"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr" json:"addr" koanf:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" json:"allowed_origins" koanf:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout" json:"read_timeout" koanf:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" json:"write_timeout" koanf:"write_timeout"`

	// Request bodies above this size are rejected
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes" koanf:"max_body_bytes"`
}

type RunnerConfig struct {
	// Executing submitted code is off unless explicitly enabled
	Enabled bool          `yaml:"enabled" json:"enabled" koanf:"enabled"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" koanf:"timeout"`

	// Shell command per language, run inside the submission directory
	Commands map[string]string `yaml:"commands" json:"commands" koanf:"commands"`
}

var validFormats = []string{"console", "json", "markdown", "toon"}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			SizeVariable: "n",
			Lookahead:    5,
			MaxWorkers:   4,
			ScoreThresholds: ScoreThresholds{
				Excellent: 90,
				Good:      75,
				Fair:      50,
				Poor:      0,
			},
		},
		Output: OutputConfig{
			Format:          "console",
			Colors:          true,
			Verbose:         false,
			ShowSuggestions: true,
		},
		Files: FilesConfig{
			Exclude:        []string{"vendor/**", ".git/**", "node_modules/**", "venv/**", ".venv/**", "build/**"},
			FollowSymlinks: false,
			MaxFileSize:    1024, // 1MB
		},
		Server: ServerConfig{
			Addr:           ":5000",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Runner: RunnerConfig{
			Enabled: false,
			Timeout: 5 * time.Second,
			Commands: map[string]string{
				"python": "python3 main.py",
				"java":   "javac Main.java && java Main",
				"cpp":    "g++ main.cpp -o main && ./main",
			},
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config found, return default
	if configPath == "" {
		return DefaultConfig(), nil
	}

	config, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Load reads one config file over the defaults. The parser is picked by
// extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = kyaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".bigocheck.yml",
		".bigocheck.yaml",
		"bigocheck.yml",
		"bigocheck.yaml",
		".bigocheck.toml",
		".bigocheck.json",
		".config/bigocheck.yml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ApplyEnv applies environment overrides on top of file settings.
func (c *Config) ApplyEnv() {
	if addr := strings.TrimSpace(os.Getenv(AddrEnv)); addr != "" {
		c.Server.Addr = addr
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate score thresholds
	st := c.Analysis.ScoreThresholds
	if st.Excellent < st.Good || st.Good < st.Fair || st.Fair < st.Poor {
		return fmt.Errorf("score thresholds must be in descending order")
	}

	// Validate output format
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	// Validate worker count
	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}

	if strings.TrimSpace(c.Analysis.SizeVariable) == "" {
		return fmt.Errorf("size_variable must not be empty")
	}
	if c.Analysis.Lookahead < 0 {
		return fmt.Errorf("lookahead must not be negative")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}

	if c.Runner.Enabled && c.Runner.Timeout <= 0 {
		return fmt.Errorf("runner timeout must be positive")
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

// ShouldExclude reports whether path matches one of the exclude patterns.
// A trailing "/**" matches the directory anywhere in the path.
func (c *Config) ShouldExclude(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range c.Files.Exclude {
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if strings.HasPrefix(slashed, dir+"/") || strings.Contains(slashed, "/"+dir+"/") {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// MaxFileBytes returns Files.MaxFileSize in bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.Files.MaxFileSize) * 1024
}
