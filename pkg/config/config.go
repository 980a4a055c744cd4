// Package config centralizes service configuration. Defaults are
// overridable first by an optional YAML file, then by TRUTHSCAN_*
// environment variables; a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Service identity.
const (
	ServiceName = "TruthScan API"
	APIVersion  = "1.0.0"
)

// DefaultConfigPath is where Load looks for a config file when
// TRUTHSCAN_CONFIG is unset.
const DefaultConfigPath = "./truthscan.yaml"

// Config holds all runtime settings for the service.
type Config struct {
	// HTTP surface
	ListenAddr  string `yaml:"listen_addr"`
	APIKey      string `yaml:"api_key"`      // empty disables the X-API-Key gate
	CORSOrigins string `yaml:"cors_origins"` // comma-separated, "*" for any

	// Classifier
	ModelPath         string `yaml:"model_path"`
	ArtifactBaseURL   string `yaml:"artifact_base_url"`
	ModelRepo         string `yaml:"model_repo"`
	ModelVersion      string `yaml:"model_version"`
	OnnxLibraryPath   string `yaml:"onnx_library_path"`
	AutoDownloadModel bool   `yaml:"auto_download_model"`

	// Related-articles index (optional, requires an embedding model)
	EmbeddingModelPath string `yaml:"embedding_model_path"`
	RelatedEnabled     bool   `yaml:"related_enabled"`

	// Persistence (empty DSN disables history)
	PostgresDSN string `yaml:"postgres_dsn"`

	// Rate limiting (empty RedisAddr selects the in-memory limiter)
	RedisAddr           string `yaml:"redis_addr"`
	RateLimitRequests   int    `yaml:"rate_limit_requests"`
	RateLimitWindowSecs int    `yaml:"rate_limit_window_seconds"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ListenAddr:          ":8000",
		CORSOrigins:         "*",
		ModelPath:           "./models/fake-news-bert",
		ArtifactBaseURL:     "https://huggingface.co",
		ModelRepo:           "truthscan/fake-news-bert-onnx",
		ModelVersion:        "fake-news-bert-v1",
		AutoDownloadModel:   true,
		EmbeddingModelPath:  "./models/all-MiniLM-L6-v2",
		RateLimitRequests:   10,
		RateLimitWindowSecs: 60,
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// (if present), then environment overrides.
func Load() (*Config, error) {
	cfg := NewDefaultConfig()

	path := os.Getenv("TRUTHSCAN_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	cfg.RateLimitRequests = clampInt(cfg.RateLimitRequests, 1, 10000)
	cfg.RateLimitWindowSecs = clampInt(cfg.RateLimitWindowSecs, 1, 86400)

	return cfg, nil
}

// loadFile merges settings from a YAML file. A missing file is fine;
// the service works without any config file.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from TRUTHSCAN_* environment variables.
func (c *Config) applyEnv() {
	c.ListenAddr = GetEnvString("TRUTHSCAN_LISTEN_ADDR", c.ListenAddr)
	c.APIKey = GetEnvString("TRUTHSCAN_API_KEY", c.APIKey)
	c.CORSOrigins = GetEnvString("TRUTHSCAN_CORS_ORIGINS", c.CORSOrigins)
	c.ModelPath = GetEnvString("TRUTHSCAN_MODEL_PATH", c.ModelPath)
	c.ArtifactBaseURL = GetEnvString("TRUTHSCAN_ARTIFACT_BASE_URL", c.ArtifactBaseURL)
	c.ModelRepo = GetEnvString("TRUTHSCAN_MODEL_REPO", c.ModelRepo)
	c.ModelVersion = GetEnvString("TRUTHSCAN_MODEL_VERSION", c.ModelVersion)
	c.OnnxLibraryPath = GetEnvString("TRUTHSCAN_ONNX_LIBRARY_PATH", c.OnnxLibraryPath)
	c.AutoDownloadModel = GetEnvBool("TRUTHSCAN_AUTO_DOWNLOAD_MODEL", c.AutoDownloadModel)
	c.EmbeddingModelPath = GetEnvString("TRUTHSCAN_EMBEDDING_MODEL_PATH", c.EmbeddingModelPath)
	c.RelatedEnabled = GetEnvBool("TRUTHSCAN_RELATED_ENABLED", c.RelatedEnabled)
	c.PostgresDSN = GetEnvString("TRUTHSCAN_POSTGRES_DSN", c.PostgresDSN)
	c.RedisAddr = GetEnvString("TRUTHSCAN_REDIS_ADDR", c.RedisAddr)
	c.RateLimitRequests = GetEnvInt("TRUTHSCAN_RATE_LIMIT_REQUESTS", c.RateLimitRequests)
	c.RateLimitWindowSecs = GetEnvInt("TRUTHSCAN_RATE_LIMIT_WINDOW_SECONDS", c.RateLimitWindowSecs)
}

// AllowedOrigins splits the CORS origin list.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

// GetEnvString returns the env value or fallback when unset/empty.
func GetEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt returns the env value parsed as int, or fallback when
// unset or unparseable.
func GetEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvBool returns the env value parsed as bool, or fallback when
// unset or unparseable.
func GetEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// clampInt bounds val to [min, max].
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
