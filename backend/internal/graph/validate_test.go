package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "repograph/backend/pkg/errors"
)

func TestValidate(t *testing.T) {
	root := Node{ID: "acme/web"}
	file := Node{ID: "a.ts"}
	other := Node{ID: "b.ts"}

	tests := []struct {
		name    string
		nodes   []Node
		links   []Link
		wantErr string
	}{
		{
			name:  "valid",
			nodes: []Node{root, file, other},
			links: []Link{
				{Source: "acme/web", Target: "a.ts", Value: 1},
				{Source: "acme/web", Target: "b.ts", Value: 1},
				{Source: "a.ts", Target: "b.ts", Value: 2, Kind: LinkImport},
			},
		},
		{
			name:    "root missing",
			nodes:   []Node{file},
			wantErr: "must be the first node",
		},
		{
			name:    "duplicate id",
			nodes:   []Node{root, file, file},
			links:   []Link{{Source: "acme/web", Target: "a.ts", Value: 1}},
			wantErr: "duplicate node id",
		},
		{
			name:    "dangling target",
			nodes:   []Node{root, file},
			links:   []Link{{Source: "acme/web", Target: "a.ts"}, {Source: "a.ts", Target: "react", Kind: LinkImport}},
			wantErr: "is not a node",
		},
		{
			name:  "reachable only through an import",
			nodes: []Node{root, file, other},
			links: []Link{
				{Source: "acme/web", Target: "a.ts", Value: 1},
				{Source: "a.ts", Target: "b.ts", Value: 2, Kind: LinkImport},
			},
			wantErr: `"b.ts" is not connected`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("acme/web", tt.nodes, tt.links)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGraph))
		})
	}
}

func TestHotspots(t *testing.T) {
	nodes := []Node{
		{ID: "acme/web"},
		{ID: "src/a.ts", Label: "a.ts"},
		{ID: "src/b.ts", Label: "b.ts"},
		{ID: "src/c.ts", Label: "c.ts"},
		{ID: "src/util.ts", Label: "util.ts"},
	}
	links := []Link{
		{Source: "acme/web", Target: "src/a.ts", Value: 1},
		{Source: "src/a.ts", Target: "src/util.ts", Value: 2, Kind: LinkImport},
		{Source: "src/b.ts", Target: "src/util.ts", Value: 2, Kind: LinkImport},
		{Source: "src/c.ts", Target: "src/util.ts", Value: 2, Kind: LinkImport},
		{Source: "src/a.ts", Target: "src/b.ts", Value: 2, Kind: LinkImport},
		{Source: "src/b.ts", Target: "src/a.ts", Value: 2, Kind: LinkImport},
	}

	hot := Hotspots(nodes, links)
	assert.Len(t, hot, 3)

	assert.Equal(t, "src/util.ts", hot[0].ID)
	assert.Equal(t, "util.ts", hot[0].Name)
	assert.Equal(t, 3, hot[0].ImportCount)
	assert.True(t, hot[0].IsBottleneck)
	assert.Empty(t, hot[0].Cycle)

	assert.Equal(t, "src/a.ts", hot[1].ID)
	assert.Equal(t, "src/a.ts <-> src/b.ts", hot[1].Cycle)
	assert.Equal(t, "src/b.ts", hot[2].ID)
	assert.Equal(t, "src/a.ts <-> src/b.ts", hot[2].Cycle)
	assert.False(t, hot[2].IsBottleneck)
}
