package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"repograph/backend/internal/constants"
)

func TestNewBuilder_RootFirst(t *testing.T) {
	b := NewBuilder("acme", "web")

	nodes := b.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "acme/web", nodes[0].ID)
	assert.Equal(t, "acme/web", nodes[0].Label)
	assert.Equal(t, GroupConfig, nodes[0].Group)
	assert.Equal(t, constants.RootWeight, nodes[0].Val)
}

func TestAddNode_Idempotent(t *testing.T) {
	b := NewBuilder("acme", "web")

	assert.True(t, b.AddNode(Node{ID: "a.ts", Group: GroupFile, Label: "first", Val: 5}))
	for i := 0; i < 5; i++ {
		assert.False(t, b.AddNode(Node{ID: "a.ts", Group: GroupAPI, Label: fmt.Sprintf("dup-%d", i), Val: 9}))
	}

	n, ok := b.Node("a.ts")
	require.True(t, ok)
	assert.Equal(t, "first", n.Label)
	assert.Equal(t, GroupFile, n.Group)
	assert.Equal(t, 5.0, n.Val)

	count := 0
	for _, node := range b.Nodes() {
		if node.ID == "a.ts" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAddLink_RejectsDanglingAndDuplicates(t *testing.T) {
	b := NewBuilder("acme", "web")
	b.AddNode(Node{ID: "a.ts"})

	assert.False(t, b.AddLink(Link{Source: "a.ts", Target: "missing.ts", Value: 2}))
	assert.False(t, b.AddLink(Link{Source: "missing.ts", Target: "a.ts", Value: 2}))
	assert.True(t, b.AddLink(Link{Source: "acme/web", Target: "a.ts", Value: 1}))
	assert.False(t, b.AddLink(Link{Source: "acme/web", Target: "a.ts", Value: 1}))
	assert.Len(t, b.Links(), 1)
}

func TestLookup_Priority(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		resolved string
		want     string
		found    bool
	}{
		{"exact", []string{"src/a.ts", "src/a"}, "src/a", "src/a", true},
		{"extension", []string{"src/utils/helper.ts"}, "src/utils/helper", "src/utils/helper.ts", true},
		{"first extension in insertion order", []string{"src/a.tsx", "src/a.ts"}, "src/a", "src/a.tsx", true},
		{"index ts", []string{"src/sub/index.ts"}, "src/sub", "src/sub/index.ts", true},
		{"index js", []string{"src/sub/index.js"}, "src/sub", "src/sub/index.js", true},
		{"index ts before js", []string{"src/sub/index.js", "src/sub/index.ts"}, "src/sub", "src/sub/index.ts", true},
		{"extension before index", []string{"src/sub/index.ts", "src/sub.ts"}, "src/sub", "src/sub.ts", true},
		{"no match", []string{"src/other.ts"}, "src/sub", "", false},
		{"empty path", []string{"src/other.ts"}, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("acme", "web")
			for _, id := range tt.ids {
				b.AddNode(Node{ID: id})
			}
			got, ok := b.Lookup(tt.resolved)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddTreeEntries(t *testing.T) {
	b := NewBuilder("acme", "web")
	added := b.AddTreeEntries([]TreeEntry{
		{Path: "README.md", Type: "blob", Size: 100},
		{Path: "src", Type: "tree"},
		{Path: "src/index.ts", Type: "blob", Size: 4000},
		{Path: "src/components/Button.tsx", Type: "blob", Size: 100000},
		{Path: "src/deep/nested/file.ts", Type: "blob"},
		{Path: "node_modules/react/index.js", Type: "blob", Size: 10},
		{Path: "packages/x/node_modules/y.js", Type: "blob", Size: 10},
		{Path: ".github/workflows/ci.yml", Type: "blob", Size: 10},
		{Path: ".env", Type: "blob", Size: 10},
	})
	assert.Equal(t, 4, added)

	readme, ok := b.Node("README.md")
	require.True(t, ok)
	assert.Equal(t, constants.MinFileWeight, readme.Val)

	button, ok := b.Node("src/components/Button.tsx")
	require.True(t, ok)
	assert.Equal(t, "Button.tsx", button.Label)
	assert.Equal(t, GroupComponent, button.Group)
	assert.Equal(t, constants.MaxFileWeight, button.Val)

	index, _ := b.Node("src/index.ts")
	assert.Equal(t, 10.0, index.Val)

	dir, ok := b.Node("acme/web/src")
	require.True(t, ok)
	assert.Equal(t, "src", dir.Label)
	assert.Equal(t, GroupFile, dir.Group)
	assert.Equal(t, constants.DirectoryWeight, dir.Val)

	for _, n := range b.Nodes() {
		assert.NotContains(t, n.ID, "node_modules")
		assert.NotContains(t, n.ID, ".github")
		assert.NotEqual(t, ".env", n.ID)
	}

	links := b.Links()
	assert.Contains(t, links, Link{Source: "acme/web", Target: "README.md", Value: 1, Kind: LinkContainment})
	assert.Contains(t, links, Link{Source: "acme/web/src", Target: "src/deep/nested/file.ts", Value: 1, Kind: LinkContainment})

	rootToSrc := 0
	for _, l := range links {
		if l.Source == "acme/web" && l.Target == "acme/web/src" {
			rootToSrc++
		}
	}
	assert.Equal(t, 1, rootToSrc)

	require.NoError(t, Validate(b.RootID(), b.Nodes(), b.Links()))
}

func TestAddTreeEntries_DuplicateEntries(t *testing.T) {
	b := NewBuilder("acme", "web")
	entries := []TreeEntry{{Path: "src/a.ts", Type: "blob", Size: 800}}
	b.AddTreeEntries(entries)
	assert.Equal(t, 0, b.AddTreeEntries(entries))
	assert.Len(t, b.Nodes(), 3)
	assert.Len(t, b.Links(), 2)
}

func TestFileWeight(t *testing.T) {
	assert.Equal(t, 4.0, FileWeight(0))
	assert.Equal(t, 4.0, FileWeight(1))
	assert.Equal(t, 5.0, FileWeight(2000))
	assert.Equal(t, 20.0, FileWeight(1<<30))
}

func TestAddDependencies(t *testing.T) {
	b := NewBuilder("acme", "web")
	assert.Equal(t, 0, b.AddDependencies(nil))
	assert.False(t, b.HasNode("acme/web/dependencies"))

	added := b.AddDependencies([]string{"react", "zod", "react"})
	assert.Equal(t, 2, added)

	depRoot, ok := b.Node("acme/web/dependencies")
	require.True(t, ok)
	assert.Equal(t, "Dependencies", depRoot.Label)
	assert.Equal(t, constants.DependencyRootWeight, depRoot.Val)

	react, ok := b.Node("dep:react")
	require.True(t, ok)
	assert.Equal(t, GroupDependency, react.Group)
	assert.Equal(t, constants.DependencyWeight, react.Val)

	links := b.Links()
	assert.Contains(t, links, Link{Source: "acme/web", Target: "acme/web/dependencies", Value: 2, Kind: LinkDependency})
	assert.Contains(t, links, Link{Source: "acme/web/dependencies", Target: "dep:zod", Value: 1, Kind: LinkDependency})
	require.NoError(t, Validate(b.RootID(), b.Nodes(), links))
}
