package graph

import "strings"

// TreeKind tells folders from files in the display tree
type TreeKind string

const (
	TreeFolder TreeKind = "folder"
	TreeFile   TreeKind = "file"
)

// TreeNode is one entry of the display tree arena. Children are arena indexes.
type TreeNode struct {
	Name     string
	Path     string
	Kind     TreeKind
	Node     *Node
	Children []int
}

// Tree is a full recursive path trie over a flat node list, used for
// collapsible drill-down views. It is independent of the two-level
// containment links produced by AddTreeEntries.
type Tree struct {
	nodes []TreeNode
	index map[string]int
}

// NestedTree is the JSON shape of a Tree
type NestedTree struct {
	Name     string        `json:"name" yaml:"name"`
	Path     string        `json:"path" yaml:"path"`
	Type     TreeKind      `json:"type" yaml:"type"`
	Data     *Node         `json:"data,omitempty" yaml:"data,omitempty"`
	Children []*NestedTree `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildTree builds the display tree rooted at rootID ("owner/repo").
// Dependency nodes are left out. Synthetic directory ids ("owner/repo/src")
// land on the folder of the same repository-relative path.
func BuildTree(rootID string, nodes []Node) *Tree {
	t := &Tree{index: make(map[string]int)}
	t.nodes = append(t.nodes, TreeNode{Name: rootID, Path: rootID, Kind: TreeFolder})
	t.index[rootID] = 0

	prefix := rootID + "/"
	for i := range nodes {
		n := nodes[i]
		if n.Group == GroupDependency {
			continue
		}
		if n.ID == rootID {
			t.nodes[0].Node = &n
			continue
		}

		rel, synthetic := strings.CutPrefix(n.ID, prefix)
		parts := strings.Split(rel, "/")

		current := 0
		cumulative := ""
		for depth, part := range parts {
			if part == "" {
				continue
			}
			if cumulative == "" {
				cumulative = part
			} else {
				cumulative += "/" + part
			}
			last := depth == len(parts)-1

			idx, ok := t.index[cumulative]
			if !ok {
				kind := TreeFolder
				if last && !synthetic {
					kind = TreeFile
				}
				idx = len(t.nodes)
				t.nodes = append(t.nodes, TreeNode{Name: part, Path: cumulative, Kind: kind})
				t.index[cumulative] = idx
				t.nodes[current].Children = append(t.nodes[current].Children, idx)
			} else if !last {
				t.nodes[idx].Kind = TreeFolder
			}
			if last {
				t.nodes[idx].Node = &n
			}
			current = idx
		}
	}
	return t
}

// Len returns the number of tree entries including the root
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the repository root entry
func (t *Tree) Root() TreeNode {
	return t.nodes[0]
}

// Find returns the entry for a repository-relative path
func (t *Tree) Find(path string) (TreeNode, bool) {
	idx, ok := t.index[path]
	if !ok {
		return TreeNode{}, false
	}
	return t.nodes[idx], true
}

// ChildrenOf returns the direct children of the entry at path, in insertion order
func (t *Tree) ChildrenOf(path string) []TreeNode {
	idx, ok := t.index[path]
	if !ok {
		return nil
	}
	out := make([]TreeNode, 0, len(t.nodes[idx].Children))
	for _, c := range t.nodes[idx].Children {
		out = append(out, t.nodes[c])
	}
	return out
}

// Nested materializes the arena as a pointer tree for serialization
func (t *Tree) Nested() *NestedTree {
	return t.nest(0)
}

func (t *Tree) nest(idx int) *NestedTree {
	n := t.nodes[idx]
	out := &NestedTree{Name: n.Name, Path: n.Path, Type: n.Kind, Data: n.Node}
	for _, c := range n.Children {
		out.Children = append(out.Children, t.nest(c))
	}
	return out
}
