package app

import (
	"context"

	"go.uber.org/zap"
	"repograph/backend/internal/analyzer"
	"repograph/backend/internal/github"
	"repograph/backend/internal/imports"
	"repograph/backend/internal/store"
	"repograph/backend/pkg/config"
	"repograph/backend/pkg/logger"
)

// App holds the components shared by the server and the CLI
type App struct {
	Analyzer *analyzer.Service
	// Exporter is nil when no Neo4j sink is configured
	Exporter *store.Repository
}

// New wires the GitHub client, import extractor, analyzer and optional export sink from cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()

	client := github.NewClient(github.Options{
		BaseURL:   cfg.GitHubAPIURL,
		Token:     cfg.GitHubToken,
		UserAgent: cfg.GitHubUserAgent,
		Timeout:   cfg.HTTPTimeout,
	})

	extractor, err := imports.New(cfg.ImportExtractor)
	if err != nil {
		return nil, err
	}

	a := &App{
		Analyzer: analyzer.New(client, extractor, analyzer.Options{
			ImportScanLimit:   cfg.ImportScanLimit,
			ImportConcurrency: cfg.ImportConcurrency,
		}),
	}

	if cfg.ExportEnabled() {
		driver, err := store.NewDriver(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return nil, err
		}
		a.Exporter = store.NewRepository(driver)
		if applied, err := a.Exporter.SchemaApplied(ctx); err != nil || !applied {
			if err := a.Exporter.EnsureSchema(ctx); err != nil {
				// exports still work without the constraints, only slower
				log.Warn("Failed to create Neo4j schema", zap.Error(err))
			}
		}
		log.Info("Neo4j export enabled", zap.String("uri", cfg.Neo4jURI))
	}

	log.Info("Analyzer ready",
		zap.String("github_api", cfg.GitHubAPIURL),
		zap.Bool("authenticated", cfg.GitHubToken != ""),
		zap.String("import_extractor", cfg.ImportExtractor),
		zap.Int("import_scan_limit", cfg.ImportScanLimit),
	)
	return a, nil
}

// Close releases the export sink, if any
func (a *App) Close() {
	if a.Exporter == nil {
		return
	}
	if err := a.Exporter.Close(); err != nil {
		logger.Get().Warn("Failed to close Neo4j driver", zap.Error(err))
	}
}
