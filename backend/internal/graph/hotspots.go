package graph

import (
	"sort"

	"repograph/backend/internal/constants"
)

// Hotspots ranks import targets by how many files import them.
// A pair of files importing each other is reported as a cycle on both.
func Hotspots(nodes []Node, links []Link) []Hotspot {
	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.Label
	}

	inbound := make(map[string]int)
	imports := make(map[[2]string]struct{})
	for _, l := range links {
		if l.Kind != LinkImport {
			continue
		}
		inbound[l.Target]++
		imports[[2]string{l.Source, l.Target}] = struct{}{}
	}

	cycles := make(map[string]string)
	for pair := range imports {
		if _, ok := imports[[2]string{pair[1], pair[0]}]; ok {
			a, b := pair[0], pair[1]
			if b < a {
				a, b = b, a
			}
			cycles[pair[1]] = a + " <-> " + b
		}
	}

	out := make([]Hotspot, 0, len(inbound))
	for id, count := range inbound {
		out = append(out, Hotspot{
			ID:           id,
			Name:         labels[id],
			ImportCount:  count,
			IsBottleneck: count >= constants.HotspotBottleneckImport,
			Cycle:        cycles[id],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ImportCount != out[j].ImportCount {
			return out[i].ImportCount > out[j].ImportCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > constants.HotspotLimit {
		out = out[:constants.HotspotLimit]
	}
	return out
}
