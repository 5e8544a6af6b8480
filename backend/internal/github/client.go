package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"repograph/backend/internal/metrics"
	apperrors "repograph/backend/pkg/errors"
	"repograph/backend/pkg/logger"
)

// maxResponseBytes bounds any single API response body; recursive trees of large repos run to several MB
const maxResponseBytes = 32 << 20

// Options configures a Client. Token is optional and only raises API rate limits.
type Options struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client reads repository metadata, trees and file contents from the GitHub REST API
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// Repository is the subset of repository metadata the analyzer needs
type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
}

// TreeItem is one entry of a recursive git tree listing
type TreeItem struct {
	Path string `json:"path"`
	Type string `json:"type"` // blob, tree, commit
	Size int64  `json:"size"`
	URL  string `json:"url"` // blob API URL
}

// Tree is a flat recursive listing of a branch
type Tree struct {
	SHA       string     `json:"sha"`
	Items     []TreeItem `json:"tree"`
	Truncated bool       `json:"truncated"`
}

type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// NewClient creates a GitHub API client
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "repograph/1.0"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    baseURL,
		token:      opts.Token,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger.Get(),
	}
}

// Repository fetches default branch and primary language
func (c *Client) Repository(ctx context.Context, ref RepoRef) (*Repository, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Repo))

	var repo Repository
	if err := c.getJSON(ctx, "repo", apiURL, ref.FullName(), &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Tree fetches the recursive tree of a branch
func (c *Client) Tree(ctx context.Context, ref RepoRef, branch string) (*Tree, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		c.baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), escapePath(branch))

	var tree Tree
	if err := c.getJSON(ctx, "tree", apiURL, ref.FullName()+"@"+branch, &tree); err != nil {
		return nil, err
	}
	if tree.Truncated {
		c.logger.Warn("GitHub truncated the recursive tree listing",
			zap.String("repo", ref.FullName()),
			zap.String("branch", branch),
			zap.Int("items", len(tree.Items)),
		)
	}
	return &tree, nil
}

// Blob fetches and decodes a blob by the API URL carried on its tree item
func (c *Client) Blob(ctx context.Context, contentURL string) (string, error) {
	var body contentResponse
	if err := c.getJSON(ctx, "blob", contentURL, contentURL, &body); err != nil {
		return "", err
	}
	return decodeContent(contentURL, body)
}

// FileContent fetches and decodes a file by repository-relative path on the default branch.
// Directories are reported as not found.
func (c *Client) FileContent(ctx context.Context, ref RepoRef, path string) (string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "", apperrors.NewInvalidArgument("path", "must not be empty")
	}
	apiURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), escapePath(path))
	resource := ref.FullName() + ":" + path

	var raw json.RawMessage
	if err := c.getJSON(ctx, "contents", apiURL, resource, &raw); err != nil {
		return "", err
	}
	// A directory listing comes back as an array
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		return "", apperrors.NewGitHubNotFound(resource)
	}

	var body contentResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", apperrors.NewGitHubRequestFailed(resource, 0, fmt.Errorf("failed to parse response: %w", err))
	}
	if body.Type != "" && body.Type != "file" {
		return "", apperrors.NewGitHubNotFound(resource)
	}
	return decodeContent(resource, body)
}

func (c *Client) getJSON(ctx context.Context, endpoint, apiURL, resource string, out interface{}) error {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.ObserveGitHubRequest(endpoint, result, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return apperrors.NewGitHubRequestFailed(resource, 0, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.NewContextCancelled(endpoint+" "+resource, ctxErr)
		}
		return apperrors.NewGitHubRequestFailed(resource, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		result = "not_found"
		return apperrors.NewGitHubNotFound(resource)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewGitHubRequestFailed(resource, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(snippet))))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return apperrors.NewGitHubRequestFailed(resource, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}
	result = "ok"
	return nil
}

// decodeContent turns the base64 payload of a blob/contents response into UTF-8 text
func decodeContent(resource string, body contentResponse) (string, error) {
	switch body.Encoding {
	case "base64":
		// GitHub wraps base64 payloads at 60 columns
		cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(body.Content)
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return "", apperrors.NewGitHubRequestFailed(resource, 0, fmt.Errorf("failed to decode content: %w", err))
		}
		return string(decoded), nil
	case "", "utf-8":
		return body.Content, nil
	default:
		// "none" is returned for files too large for the contents API
		return "", apperrors.NewGitHubRequestFailed(resource, 0, fmt.Errorf("unsupported content encoding %q", body.Encoding))
	}
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
