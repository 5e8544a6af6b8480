package imports

import (
	"fmt"
	"regexp"
)

// Extractor pulls module specifiers out of JavaScript/TypeScript source text.
// Implementations must be safe for concurrent use.
type Extractor interface {
	ExtractImportPaths(source string) []string
}

// Names of the available strategies
const (
	StrategyRegex      = "regex"
	StrategyTreeSitter = "treesitter"
)

// New returns the extractor registered under name
func New(name string) (Extractor, error) {
	switch name {
	case "", StrategyRegex:
		return NewRegexExtractor(), nil
	case StrategyTreeSitter:
		return NewTreeSitterExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown import extractor %q", name)
	}
}

// importPattern matches `import ... from '<path>'` and bare `import '<path>'`,
// including binding clauses that span several lines
var importPattern = regexp.MustCompile(`import\s+(?:[\s\S]*?from\s+)?['"]([^'"]+)['"]`)

// RegexExtractor scans source text with a regular expression. It does not
// understand comments, dynamic import() or re-exports.
type RegexExtractor struct{}

// NewRegexExtractor creates a RegexExtractor
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// ExtractImportPaths returns every matched specifier in source order
func (RegexExtractor) ExtractImportPaths(source string) []string {
	matches := importPattern.FindAllStringSubmatch(source, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
