package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// githubRequests counts GitHub API calls by endpoint kind and result
	// Labels: result = "ok", "not_found", "error"
	githubRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repograph_github_requests_total",
		Help: "GitHub API requests by endpoint and result",
	}, []string{"endpoint", "result"})

	githubDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repograph_github_request_duration_seconds",
		Help:    "GitHub API request latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repograph_analysis_duration_seconds",
		Help:    "End-to-end repository analysis duration",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"result"})

	importFilesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repograph_import_files_scanned_total",
		Help: "Source files fetched and scanned for import statements",
	})

	importLinks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repograph_import_links_total",
		Help: "Import links added to analysis graphs",
	})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repograph_http_rate_limited_total",
		Help: "HTTP requests rejected by the per-client rate limiter",
	})
)

// ObserveGitHubRequest records one GitHub API call
func ObserveGitHubRequest(endpoint, result string, elapsed time.Duration) {
	githubRequests.WithLabelValues(endpoint, result).Inc()
	githubDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveAnalysis records one analysis run
func ObserveAnalysis(result string, elapsed time.Duration) {
	analysisDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// AddImportScan records the outcome of one import pass
func AddImportScan(files, links int) {
	importFilesScanned.Add(float64(files))
	importLinks.Add(float64(links))
}

// IncRateLimited records a rejected HTTP request
func IncRateLimited() {
	rateLimited.Inc()
}
