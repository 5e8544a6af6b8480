package graph

import (
	"strings"

	"repograph/backend/internal/constants"
)

// Skipped reports whether a path is excluded from the graph: vendored packages and hidden entries.
func Skipped(path string) bool {
	return strings.Contains(path, "node_modules") || strings.HasPrefix(path, ".")
}

// FileWeight converts a byte size into a node weight in [MinFileWeight, MaxFileWeight]
func FileWeight(size int64) float64 {
	if size <= 0 {
		size = constants.DefaultFileSize
	}
	w := float64(size) / constants.FileSizeDivisor
	if w < constants.MinFileWeight {
		return constants.MinFileWeight
	}
	if w > constants.MaxFileWeight {
		return constants.MaxFileWeight
	}
	return w
}

// AddTreeEntries runs the structural pass: one node per file, hung off a
// synthetic node for its top-level directory, which hangs off the root.
// Deeper directories are intentionally flattened into their top-level one.
// It returns the number of file nodes inserted.
func (b *Builder) AddTreeEntries(entries []TreeEntry) int {
	added := 0
	for _, e := range entries {
		if !e.IsBlob() || Skipped(e.Path) {
			continue
		}

		parts := strings.Split(e.Path, "/")
		fileName := parts[len(parts)-1]
		if b.AddNode(Node{
			ID:    e.Path,
			Group: Classify(e.Path),
			Label: fileName,
			Val:   FileWeight(e.Size),
		}) {
			added++
		}

		parent := b.rootID
		if len(parts) > 1 {
			parent = b.DirectoryID(parts[0])
			b.AddNode(Node{
				ID:    parent,
				Group: GroupFile,
				Label: parts[0],
				Val:   constants.DirectoryWeight,
			})
		}

		b.AddLink(Link{Source: parent, Target: e.Path, Value: constants.ContainmentLinkValue, Kind: LinkContainment})
		if parent != b.rootID {
			b.AddLink(Link{Source: b.rootID, Target: parent, Value: constants.ContainmentLinkValue, Kind: LinkContainment})
		}
	}
	return added
}
