package graph

import "strings"

// Classify maps a repository path to its semantic group.
// Rules overlap, so their order matters: the first match wins.
func Classify(path string) Group {
	switch {
	case strings.HasPrefix(path, "api/") || strings.Contains(path, "/api/"):
		return GroupAPI
	case containsAny(path, "schema", "prisma", "db", "model"):
		return GroupDatabase
	case strings.HasSuffix(path, ".config.js"),
		strings.HasSuffix(path, ".config.ts"),
		strings.Contains(path, "config"),
		hasAnySuffix(path, ".json", ".yml", ".yaml"):
		return GroupConfig
	case hasAnySuffix(path, ".tsx", ".jsx"),
		containsAny(path, "components", "views", "pages"):
		return GroupComponent
	default:
		return GroupFile
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
