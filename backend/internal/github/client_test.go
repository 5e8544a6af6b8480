package github

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "repograph/backend/pkg/errors"
)

// wrap64 mimics GitHub's 60-column base64 wrapping
func wrap64(s string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	var b strings.Builder
	for len(enc) > 60 {
		b.WriteString(enc[:60])
		b.WriteString("\n")
		enc = enc[60:]
	}
	b.WriteString(enc)
	return b.String()
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(Options{BaseURL: srv.URL, Token: "t0ken"})
}

func TestClient_Repository(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/web", r.URL.Path)
		assert.Equal(t, "Bearer t0ken", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"full_name":"acme/web","default_branch":"trunk","language":"TypeScript"}`))
	})

	repo, err := client.Repository(context.Background(), RepoRef{"acme", "web"})
	require.NoError(t, err)
	assert.Equal(t, "trunk", repo.DefaultBranch)
	assert.Equal(t, "TypeScript", repo.Language)
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"default_branch":"main","language":null}`))
	}))
	defer srv.Close()

	repo, err := NewClient(Options{BaseURL: srv.URL}).Repository(context.Background(), RepoRef{"acme", "web"})
	require.NoError(t, err)
	assert.Equal(t, "", repo.Language)
}

func TestClient_Tree(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/web/git/trees/main", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		w.Write([]byte(`{"sha":"abc","truncated":true,"tree":[
			{"path":"src","type":"tree"},
			{"path":"src/a.ts","type":"blob","size":120,"url":"http://blob/1"}
		]}`))
	})

	tree, err := client.Tree(context.Background(), RepoRef{"acme", "web"}, "main")
	require.NoError(t, err)
	assert.True(t, tree.Truncated)
	require.Len(t, tree.Items, 2)
	assert.Equal(t, TreeItem{Path: "src/a.ts", Type: "blob", Size: 120, URL: "http://blob/1"}, tree.Items[1])
}

func TestClient_Blob(t *testing.T) {
	source := strings.Repeat("import { a } from './a'\n", 10)
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"encoding":"base64","content":"` + strings.ReplaceAll(wrap64(source), "\n", `\n`) + `"}`))
	})

	got, err := client.Blob(context.Background(), srv.URL+"/repos/acme/web/git/blobs/abc")
	require.NoError(t, err)
	assert.Equal(t, source, got)
}

func TestClient_FileContent(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/web/contents/src/index.ts":
			w.Write([]byte(`{"type":"file","encoding":"base64","content":"` + base64.StdEncoding.EncodeToString([]byte("export {}")) + `"}`))
		case "/repos/acme/web/contents/src":
			w.Write([]byte(`[{"type":"file","name":"index.ts"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	got, err := client.FileContent(ctx, RepoRef{"acme", "web"}, "/src/index.ts")
	require.NoError(t, err)
	assert.Equal(t, "export {}", got)

	_, err = client.FileContent(ctx, RepoRef{"acme", "web"}, "src")
	assert.True(t, apperrors.IsNotFound(err), "directories are not file content")

	_, err = client.FileContent(ctx, RepoRef{"acme", "web"}, "missing.ts")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = client.FileContent(ctx, RepoRef{"acme", "web"}, "")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInput))
}

func TestClient_ErrorStatus(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	})

	_, err := client.Repository(context.Background(), RepoRef{"acme", "web"})
	require.Error(t, err)

	var reqErr *apperrors.ErrGitHubRequestFailed
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestClient_MalformedJSON(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.Tree(context.Background(), RepoRef{"acme", "web"}, "main")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGitHub))
}

func TestClient_CancelledContext(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Repository(ctx, RepoRef{"acme", "web"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeContext))
}

func TestDecodeContent_UnsupportedEncoding(t *testing.T) {
	_, err := decodeContent("big.bin", contentResponse{Encoding: "none"})
	assert.Error(t, err)
}
