package graph

import (
	"path"
	"strings"

	"repograph/backend/internal/constants"
)

type linkKey struct {
	source string
	target string
	value  int
}

// Builder accumulates the nodes and links of one analysis run.
// Nodes are keyed by id; a second insert of the same id is ignored.
// Builder is not safe for concurrent writes. Concurrent readers are fine
// once all writers have finished.
type Builder struct {
	owner  string
	repo   string
	rootID string

	nodes []Node
	index map[string]int
	links []Link
	seen  map[linkKey]struct{}
}

// NewBuilder creates a builder whose first node is the repository root "owner/repo"
func NewBuilder(owner, repo string) *Builder {
	b := &Builder{
		owner:  owner,
		repo:   repo,
		rootID: owner + "/" + repo,
		index:  make(map[string]int),
		seen:   make(map[linkKey]struct{}),
	}
	b.AddNode(Node{
		ID:    b.rootID,
		Group: GroupConfig,
		Label: b.rootID,
		Val:   constants.RootWeight,
	})
	return b
}

// RootID returns the repository root node id
func (b *Builder) RootID() string {
	return b.rootID
}

// DirectoryID returns the synthetic node id for a top-level directory
func (b *Builder) DirectoryID(segment string) string {
	return b.rootID + "/" + segment
}

// DependencyRootID returns the id of the synthetic dependencies node
func (b *Builder) DependencyRootID() string {
	return b.rootID + "/" + constants.DependencyRootSegment
}

// AddNode inserts n unless a node with the same id exists. It reports whether n was inserted.
func (b *Builder) AddNode(n Node) bool {
	if _, ok := b.index[n.ID]; ok {
		return false
	}
	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return true
}

// HasNode reports whether id is known
func (b *Builder) HasNode(id string) bool {
	_, ok := b.index[id]
	return ok
}

// Node returns the node stored under id
func (b *Builder) Node(id string) (Node, bool) {
	i, ok := b.index[id]
	if !ok {
		return Node{}, false
	}
	return b.nodes[i], true
}

// AddLink appends a link when both endpoints exist and the same link was not added before.
// It reports whether the link was stored.
func (b *Builder) AddLink(l Link) bool {
	if !b.HasNode(l.Source) || !b.HasNode(l.Target) {
		return false
	}
	key := linkKey{source: l.Source, target: l.Target, value: l.Value}
	if _, dup := b.seen[key]; dup {
		return false
	}
	b.seen[key] = struct{}{}
	b.links = append(b.links, l)
	return true
}

// Lookup finds the node an import of resolved refers to.
// Candidates are tried in priority order: exact id, id with an extension
// appended (first in insertion order), then resolved/index.ts and resolved/index.js.
func (b *Builder) Lookup(resolved string) (string, bool) {
	if resolved == "" {
		return "", false
	}
	if b.HasNode(resolved) {
		return resolved, true
	}
	prefix := resolved + "."
	for _, n := range b.nodes {
		if strings.HasPrefix(n.ID, prefix) {
			return n.ID, true
		}
	}
	for _, index := range []string{"index.ts", "index.js"} {
		if id := path.Join(resolved, index); b.HasNode(id) {
			return id, true
		}
	}
	return "", false
}

// Nodes returns a copy of the nodes in insertion order
func (b *Builder) Nodes() []Node {
	out := make([]Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Links returns a copy of the links in insertion order
func (b *Builder) Links() []Link {
	out := make([]Link, len(b.links))
	copy(out, b.links)
	return out
}
