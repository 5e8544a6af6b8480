package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "repograph/backend/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "GITHUB_API_URL", "GITHUB_TOKEN", "IMPORT_SCAN_LIMIT",
		"IMPORT_EXTRACTOR", "IMPORT_CONCURRENCY", "CORS_ORIGINS", "NEO4J_URI",
		"RATE_LIMIT_WINDOW", "HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIURL)
	assert.Equal(t, 10, cfg.ImportScanLimit)
	assert.Equal(t, ExtractorRegex, cfg.ImportExtractor)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.ExportEnabled())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GITHUB_API_URL", "http://ghe.local/api/v3/")
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("IMPORT_SCAN_LIMIT", "25")
	t.Setenv("IMPORT_EXTRACTOR", "TreeSitter")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://ghe.local/api/v3", cfg.GitHubAPIURL)
	assert.Equal(t, "secret", cfg.GitHubToken)
	assert.Equal(t, 25, cfg.ImportScanLimit)
	assert.Equal(t, ExtractorTreeSitter, cfg.ImportExtractor)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GitHubAPIURL:      "https://api.github.com",
			HTTPTimeout:       time.Second,
			ImportScanLimit:   10,
			ImportConcurrency: 4,
			ImportExtractor:   ExtractorRegex,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"unknown extractor", func(c *Config) { c.ImportExtractor = "ast" }, "IMPORT_EXTRACTOR"},
		{"zero scan limit", func(c *Config) { c.ImportScanLimit = 0 }, "IMPORT_SCAN_LIMIT"},
		{"zero concurrency", func(c *Config) { c.ImportConcurrency = 0 }, "IMPORT_CONCURRENCY"},
		{"neo4j without user", func(c *Config) { c.Neo4jURI = "bolt://localhost:7687" }, "NEO4J_USER"},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
