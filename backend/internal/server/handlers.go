package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"repograph/backend/internal/graph"
	apperrors "repograph/backend/pkg/errors"
)

type handlers struct {
	analyzer Analyzer
	exporter Exporter
	logger   *zap.Logger
}

type repoRequest struct {
	RepoURL string `json:"repoUrl" binding:"required"`
}

type contentRequest struct {
	RepoURL string `json:"repoUrl" binding:"required"`
	Path    string `json:"path" binding:"required"`
}

func (h *handlers) analyze(c *gin.Context) {
	var req repoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repoUrl is required"})
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), req.RepoURL)
	if err != nil {
		h.fail(c, "Failed to analyze repository", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *handlers) content(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repoUrl and path are required"})
		return
	}

	content, err := h.analyzer.FileContent(c.Request.Context(), req.RepoURL, req.Path)
	if err != nil {
		h.fail(c, "Failed to fetch file content", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (h *handlers) tree(c *gin.Context) {
	var req repoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repoUrl is required"})
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), req.RepoURL)
	if err != nil {
		h.fail(c, "Failed to analyze repository", err)
		return
	}
	// the root is always the first node
	tree := graph.BuildTree(analysis.Nodes[0].ID, analysis.Nodes)
	c.JSON(http.StatusOK, tree.Nested())
}

func (h *handlers) export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.ErrExportDisabled.Error()})
		return
	}

	var req repoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repoUrl is required"})
		return
	}

	ctx := c.Request.Context()
	analysis, err := h.analyzer.Analyze(ctx, req.RepoURL)
	if err != nil {
		h.fail(c, "Failed to analyze repository", err)
		return
	}

	result, err := h.exporter.Export(ctx, analysis.Nodes[0].ID, uuid.NewString(), analysis)
	if err != nil {
		h.fail(c, "Failed to export graph", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// fail logs err and writes the status its category maps to
func (h *handlers) fail(c *gin.Context, msg string, err error) {
	status := StatusFor(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", c.GetString(requestIDKey)),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, fields...)
	} else {
		h.logger.Warn(msg, fields...)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps an error category onto an HTTP status code
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperrors.IsErrorType(err, apperrors.ErrorTypeInput):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsErrorType(err, apperrors.ErrorTypeGitHub):
		return http.StatusBadGateway
	case apperrors.IsErrorType(err, apperrors.ErrorTypeContext):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperrors.ErrExportDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
