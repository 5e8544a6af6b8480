package imports

import "strings"

// IsRelative reports whether an import specifier points into the repository
func IsRelative(importPath string) bool {
	return strings.HasPrefix(importPath, ".")
}

// Resolve joins a relative import specifier onto the importing file's
// directory and returns a repository-relative path without extension.
// Empty and "." segments are dropped, ".." pops a segment and popping past
// the repository root is ignored. ok is false for non-relative specifiers
// and for specifiers that resolve to the root itself.
func Resolve(importerPath, importPath string) (resolved string, ok bool) {
	if !IsRelative(importPath) {
		return "", false
	}

	segments := strings.Split(importerPath, "/")
	// drop the file name
	stack := append([]string(nil), segments[:len(segments)-1]...)

	for _, seg := range strings.Split(importPath, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}

	// importer directory segments may themselves be empty on odd paths
	clean := stack[:0]
	for _, seg := range stack {
		if seg != "" && seg != "." {
			clean = append(clean, seg)
		}
	}
	if len(clean) == 0 {
		return "", false
	}
	return strings.Join(clean, "/"), true
}
