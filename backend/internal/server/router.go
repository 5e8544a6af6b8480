package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"repograph/backend/internal/graph"
	"repograph/backend/internal/store"
	"repograph/backend/pkg/config"
	"repograph/backend/pkg/logger"
)

// Analyzer is the analysis surface the handlers call
type Analyzer interface {
	Analyze(ctx context.Context, repoURL string) (*graph.Analysis, error)
	FileContent(ctx context.Context, repoURL, path string) (string, error)
}

// Exporter persists analyses. *store.Repository implements it.
type Exporter interface {
	Export(ctx context.Context, repo, exportID string, analysis *graph.Analysis) (*store.ExportResult, error)
}

// Deps wires the router. Exporter may be nil, which disables /api/export.
type Deps struct {
	Analyzer Analyzer
	Exporter Exporter
	Config   *config.Config
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = logger.Get()
	}
	cfg := deps.Config

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors(cfg.CORSOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{
		analyzer: deps.Analyzer,
		exporter: deps.Exporter,
		logger:   log,
	}

	limiter := newRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, defaultLimiterEntries)

	// API routes
	api := router.Group("/api")
	api.Use(limiter.middleware())
	{
		api.POST("/analyze", h.analyze)
		api.POST("/content", h.content)
		api.POST("/tree", h.tree)
		api.POST("/export", h.export)
	}

	return router
}

// NewHTTPServer wraps the router in an http.Server listening on port
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
