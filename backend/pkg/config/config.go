package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	apperrors "repograph/backend/pkg/errors"
)

// Import extractor strategies
const (
	ExtractorRegex      = "regex"
	ExtractorTreeSitter = "treesitter"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// GitHub
	GitHubAPIURL    string
	GitHubToken     string // Optional; raises the API rate limit when set
	GitHubUserAgent string
	HTTPTimeout     time.Duration

	// Analysis
	ImportScanLimit   int    // Max source files fetched for import resolution
	ImportConcurrency int    // Max concurrent content fetches
	ImportExtractor   string // regex | treesitter

	// HTTP shell
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSOrigins       []string

	// Neo4j export sink (optional)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	env := getEnv("ENV", "development")
	cfg := &Config{
		Port:              getEnv("PORT", "4000"),
		Env:               env,
		LogLevel:          getEnv("LOG_LEVEL", ""),
		GitHubAPIURL:      strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		GitHubToken:       getEnv("GITHUB_TOKEN", ""),
		GitHubUserAgent:   getEnv("GITHUB_USER_AGENT", "repograph/1.0"),
		HTTPTimeout:       getEnvDuration("HTTP_TIMEOUT", 20*time.Second),
		ImportScanLimit:   getEnvInt("IMPORT_SCAN_LIMIT", 10),
		ImportConcurrency: getEnvInt("IMPORT_CONCURRENCY", 10),
		ImportExtractor:   strings.ToLower(getEnv("IMPORT_EXTRACTOR", ExtractorRegex)),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		Neo4jURI:          getEnv("NEO4J_URI", ""),
		Neo4jUser:         getEnv("NEO4J_USER", ""),
		Neo4jPassword:     getEnv("NEO4J_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.GitHubAPIURL == "" {
		return apperrors.NewConfigMissingRequired("GITHUB_API_URL")
	}
	if c.HTTPTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("HTTP_TIMEOUT", "must be positive")
	}
	if c.ImportScanLimit <= 0 {
		return apperrors.NewConfigValidationFailed("IMPORT_SCAN_LIMIT", "must be positive")
	}
	if c.ImportConcurrency <= 0 {
		return apperrors.NewConfigValidationFailed("IMPORT_CONCURRENCY", "must be positive")
	}
	switch c.ImportExtractor {
	case ExtractorRegex, ExtractorTreeSitter:
	default:
		return apperrors.NewConfigValidationFailed("IMPORT_EXTRACTOR", fmt.Sprintf("unknown strategy %q", c.ImportExtractor))
	}
	if c.RateLimitRequests <= 0 {
		return apperrors.NewConfigValidationFailed("RATE_LIMIT_REQUESTS", "must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return apperrors.NewConfigValidationFailed("RATE_LIMIT_WINDOW", "must be positive")
	}
	// Neo4j is optional, but a URI without credentials is a mistake
	if c.Neo4jURI != "" {
		if c.Neo4jUser == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ExportEnabled reports whether a Neo4j sink is configured
func (c *Config) ExportEnabled() bool {
	return c.Neo4jURI != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
