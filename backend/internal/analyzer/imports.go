package analyzer

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"repograph/backend/internal/constants"
	"repograph/backend/internal/github"
	"repograph/backend/internal/graph"
	"repograph/backend/internal/imports"
	apperrors "repograph/backend/pkg/errors"
)

var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// importScan is the outcome of one import pass
type importScan struct {
	selected int
	parsed   int
	links    int
}

// eligibleForImports reports whether a tree entry is scanned for import statements
func eligibleForImports(b *graph.Builder, e graph.TreeEntry) bool {
	if !e.IsBlob() || graph.Skipped(e.Path) {
		return false
	}
	if strings.Contains(e.Path, "test") || strings.Contains(e.Path, "spec") {
		return false
	}
	hasExt := false
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(e.Path, ext) {
			hasExt = true
			break
		}
	}
	return hasExt && b.HasNode(e.Path)
}

// selectImportFiles picks the largest eligible source files, keeping tree order for equal sizes
func selectImportFiles(b *graph.Builder, entries []graph.TreeEntry, limit int) []graph.TreeEntry {
	var files []graph.TreeEntry
	for _, e := range entries {
		if eligibleForImports(b, e) {
			files = append(files, e)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Size > files[j].Size
	})
	if len(files) > limit {
		files = files[:limit]
	}
	return files
}

// scanImports fetches the selected files concurrently and adds an import link
// for every relative import that resolves to a node. The builder is only read
// while fetches are in flight; links are appended after all of them finished,
// in selection order.
func (s *Service) scanImports(ctx context.Context, ref github.RepoRef, b *graph.Builder, entries []graph.TreeEntry, log *zap.Logger) (importScan, error) {
	files := selectImportFiles(b, entries, s.opts.ImportScanLimit)
	scan := importScan{selected: len(files)}
	if len(files) == 0 {
		return scan, nil
	}

	found := make([][]graph.Link, len(files))
	fetched := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ImportConcurrency)

	for i, file := range files {
		idx := i
		entry := file
		g.Go(func() error {
			content, err := s.fetchEntry(gctx, ref, entry)
			if err != nil {
				if ctx.Err() != nil {
					return apperrors.NewContextCancelled("import scan", ctx.Err())
				}
				log.Debug("Skipping import scan for file", zap.String("path", entry.Path), zap.Error(err))
				return nil
			}
			if len(content) > constants.MaxContentBytes {
				content = content[:constants.MaxContentBytes]
			}
			fetched[idx] = true
			found[idx] = resolveImports(b, s.extractor, entry.Path, content, log)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return scan, err
	}

	for i, links := range found {
		if fetched[i] {
			scan.parsed++
		}
		for _, l := range links {
			if b.AddLink(l) {
				scan.links++
			}
		}
	}
	return scan, nil
}

// resolveImports turns the import specifiers of one file into candidate links
func resolveImports(b *graph.Builder, extractor imports.Extractor, importer, content string, log *zap.Logger) []graph.Link {
	var links []graph.Link
	for _, spec := range extractor.ExtractImportPaths(content) {
		resolved, ok := imports.Resolve(importer, spec)
		if !ok {
			continue
		}
		target, ok := b.Lookup(resolved)
		if !ok {
			log.Debug("Unresolved import",
				zap.String("importer", importer),
				zap.String("import", spec),
			)
			continue
		}
		if target == importer {
			continue
		}
		links = append(links, graph.Link{
			Source: importer,
			Target: target,
			Value:  constants.StrongLinkValue,
			Kind:   graph.LinkImport,
		})
	}
	return links
}
