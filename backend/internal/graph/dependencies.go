package graph

import "repograph/backend/internal/constants"

// DependencyID returns the node id of a declared package
func DependencyID(name string) string {
	return constants.DependencyIDPrefix + name
}

// AddDependencies attaches declared packages under a synthetic "Dependencies" node.
// Nothing is added for an empty list. It returns the number of dependency nodes inserted.
func (b *Builder) AddDependencies(names []string) int {
	if len(names) == 0 {
		return 0
	}

	depRoot := b.DependencyRootID()
	b.AddNode(Node{
		ID:    depRoot,
		Group: GroupDependency,
		Label: constants.DependencyRootLabel,
		Val:   constants.DependencyRootWeight,
	})
	b.AddLink(Link{Source: b.rootID, Target: depRoot, Value: constants.StrongLinkValue, Kind: LinkDependency})

	added := 0
	for _, name := range names {
		id := DependencyID(name)
		if !b.AddNode(Node{
			ID:    id,
			Group: GroupDependency,
			Label: name,
			Val:   constants.DependencyWeight,
		}) {
			continue
		}
		added++
		b.AddLink(Link{Source: depRoot, Target: id, Value: constants.ContainmentLinkValue, Kind: LinkDependency})
	}
	return added
}
