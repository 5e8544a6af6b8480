package graph

import (
	"fmt"

	apperrors "repograph/backend/pkg/errors"
)

// Validate re-checks the structural invariants of an assembled graph:
// unique node ids, the root present first, no dangling links, and every
// node reachable from the root through non-import links.
func Validate(rootID string, nodes []Node, links []Link) error {
	if len(nodes) == 0 || nodes[0].ID != rootID {
		return apperrors.NewGraphInvariantViolated(fmt.Sprintf("root %q must be the first node", rootID))
	}

	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, dup := known[n.ID]; dup {
			return apperrors.NewGraphInvariantViolated(fmt.Sprintf("duplicate node id %q", n.ID))
		}
		known[n.ID] = struct{}{}
	}

	adjacency := make(map[string][]string)
	for _, l := range links {
		if _, ok := known[l.Source]; !ok {
			return apperrors.NewGraphInvariantViolated(fmt.Sprintf("link source %q is not a node", l.Source))
		}
		if _, ok := known[l.Target]; !ok {
			return apperrors.NewGraphInvariantViolated(fmt.Sprintf("link target %q is not a node", l.Target))
		}
		if l.Kind != LinkImport {
			adjacency[l.Source] = append(adjacency[l.Source], l.Target)
		}
	}

	reached := map[string]struct{}{rootID: {}}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[id] {
			if _, ok := reached[next]; ok {
				continue
			}
			reached[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	for _, n := range nodes {
		if _, ok := reached[n.ID]; !ok {
			return apperrors.NewGraphInvariantViolated(fmt.Sprintf("node %q is not connected to %q", n.ID, rootID))
		}
	}
	return nil
}
