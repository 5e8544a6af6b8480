package imports

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// TreeSitterExtractor parses source with the TSX grammar, which accepts
// TypeScript, JSX and plain JavaScript. It reports the sources of import
// statements and of `export ... from` re-exports; specifiers inside comments
// and strings are never reported.
type TreeSitterExtractor struct {
	language *sitter.Language
}

// NewTreeSitterExtractor creates a TreeSitterExtractor
func NewTreeSitterExtractor() *TreeSitterExtractor {
	return &TreeSitterExtractor{language: tsx.GetLanguage()}
}

// ExtractImportPaths returns module specifiers in source order.
// Unparseable input yields whatever statements tree-sitter could recover.
func (e *TreeSitterExtractor) ExtractImportPaths(source string) []string {
	content := []byte(source)

	// Parsers are not safe for concurrent use, so each call gets its own
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.language)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil
	}

	var out []string
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_statement", "export_statement":
			if spec := sourceOf(child, content); spec != "" {
				out = append(out, spec)
			}
		}
	}
	return out
}

// sourceOf returns the unquoted module specifier of an import/export statement
func sourceOf(node *sitter.Node, content []byte) string {
	// `export const x` and `export default "s"` have no source field
	src := node.ChildByFieldName("source")
	if src == nil && node.Type() == "import_statement" {
		// the only direct string child of an import is its module path
		for i := 0; i < int(node.ChildCount()); i++ {
			if c := node.Child(i); c.Type() == "string" {
				src = c
				break
			}
		}
	}
	if src == nil {
		return ""
	}
	return strings.Trim(src.Content(content), "'\"`")
}
