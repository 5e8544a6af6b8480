package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"repograph/backend/internal/graph"
	apperrors "repograph/backend/pkg/errors"
)

func fakeGitHub(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/web":
			w.Write([]byte(`{"full_name":"acme/web","default_branch":"main","language":"TypeScript"}`))
		case "/repos/acme/web/git/trees/main":
			w.Write([]byte(`{"sha":"abc","tree":[
				{"path":"src","type":"tree"},
				{"path":"src/a.ts","type":"blob","size":900},
				{"path":"src/b.ts","type":"blob","size":100}
			]}`))
		case "/repos/acme/web/contents/src/a.ts":
			w.Write([]byte(`{"type":"file","encoding":"base64","content":"` +
				base64.StdEncoding.EncodeToString([]byte("import { b } from './b';\n")) + `"}`))
		case "/repos/acme/web/contents/src/b.ts":
			w.Write([]byte(`{"type":"file","encoding":"base64","content":""}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	t.Setenv("GITHUB_API_URL", srv.URL)
	t.Setenv("NEO4J_URI", "")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	fakeGitHub(t)

	out, err := run(t, "analyze", "https://github.com/acme/web")
	require.NoError(t, err)

	var analysis graph.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, 1, analysis.Stats.ImportLinkCount)
	assert.Equal(t, "absent", analysis.Stats.ManifestStatus)
}

func TestAnalyzeCommand_YAMLTree(t *testing.T) {
	fakeGitHub(t)

	out, err := run(t, "analyze", "https://github.com/acme/web", "--tree", "--format", "yaml")
	require.NoError(t, err)

	var tree graph.NestedTree
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "acme/web", tree.Name)
	require.Len(t, tree.Children, 1)
	assert.Len(t, tree.Children[0].Children, 2)
}

func TestContentCommand(t *testing.T) {
	fakeGitHub(t)

	out, err := run(t, "content", "https://github.com/acme/web", "src/a.ts")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "import { b }"))
}

func TestExportCommand_Disabled(t *testing.T) {
	fakeGitHub(t)

	_, err := run(t, "export", "https://github.com/acme/web")
	assert.ErrorIs(t, err, apperrors.ErrExportDisabled)
}

func TestCommands_ArgValidation(t *testing.T) {
	_, err := run(t, "analyze")
	assert.Error(t, err)

	_, err = run(t, "content", "https://github.com/acme/web")
	assert.Error(t, err)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := render(&bytes.Buffer{}, "xml", map[string]string{})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInput))
}
