// Package config loads the tutorbase configuration from per-environment
// YAML files with ${VAR} / ${VAR:-default} environment substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the tutorbase API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      LLMConfig      `yaml:"llm"`
	Credits  CreditsConfig  `yaml:"credits"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds key namespace settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// AuthConfig holds token issuance and login throttling settings.
type AuthConfig struct {
	JWTSecret     string  `yaml:"jwt_secret"`
	TokenTTLHours int     `yaml:"token_ttl_hours"`
	LoginRate     float64 `yaml:"login_rate_per_sec"`
	LoginBurst    int     `yaml:"login_burst"`
}

// LLMConfig holds settings for the external language-model API.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// CreditsConfig holds the daily credit budget settings.
type CreditsConfig struct {
	DailyLimit      int64 `yaml:"daily_limit"`
	TokensPerCredit int64 `yaml:"tokens_per_credit"`
	EstimatedTokens int64 `yaml:"estimated_tokens"` // admission estimate per tutoring request
}

// UploadsConfig holds upload and text chunking settings.
type UploadsConfig struct {
	ChunkSize    int   `yaml:"chunk_size"`
	ChunkOverlap int   `yaml:"chunk_overlap"`
	MaxFileBytes int64 `yaml:"max_file_bytes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "tutorbase:"
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 168 // 7 days
	}
	if c.Auth.LoginRate <= 0 {
		c.Auth.LoginRate = 5
	}
	if c.Auth.LoginBurst <= 0 {
		c.Auth.LoginBurst = 10
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.deepseek.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "deepseek-chat"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1000
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.Credits.DailyLimit <= 0 {
		c.Credits.DailyLimit = 500
	}
	if c.Credits.TokensPerCredit <= 0 {
		c.Credits.TokensPerCredit = 75
	}
	if c.Credits.EstimatedTokens <= 0 {
		c.Credits.EstimatedTokens = 150
	}
	if c.Uploads.ChunkSize <= 0 {
		c.Uploads.ChunkSize = 500
	}
	if c.Uploads.ChunkOverlap < 0 {
		c.Uploads.ChunkOverlap = 0
	} else if c.Uploads.ChunkOverlap == 0 {
		c.Uploads.ChunkOverlap = 50
	}
	if c.Uploads.MaxFileBytes <= 0 {
		c.Uploads.MaxFileBytes = 16 << 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Uploads.ChunkOverlap >= c.Uploads.ChunkSize {
		return fmt.Errorf("uploads.chunk_overlap (%d) must be smaller than uploads.chunk_size (%d)",
			c.Uploads.ChunkOverlap, c.Uploads.ChunkSize)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
