package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"repograph/backend/internal/constants"
	"repograph/backend/internal/github"
	"repograph/backend/internal/graph"
	"repograph/backend/internal/imports"
	"repograph/backend/internal/metrics"
	apperrors "repograph/backend/pkg/errors"
	"repograph/backend/pkg/logger"
)

// Fetcher is the read-only view of GitHub the analyzer needs. *github.Client implements it.
type Fetcher interface {
	Repository(ctx context.Context, ref github.RepoRef) (*github.Repository, error)
	Tree(ctx context.Context, ref github.RepoRef, branch string) (*github.Tree, error)
	Blob(ctx context.Context, contentURL string) (string, error)
	FileContent(ctx context.Context, ref github.RepoRef, path string) (string, error)
}

// Options tunes the import pass
type Options struct {
	ImportScanLimit   int
	ImportConcurrency int
}

// Service turns a repository URL into a dependency graph
type Service struct {
	fetcher   Fetcher
	extractor imports.Extractor
	opts      Options
	logger    *zap.Logger
}

// New creates an analyzer. A nil extractor selects the regex strategy.
func New(fetcher Fetcher, extractor imports.Extractor, opts Options) *Service {
	if extractor == nil {
		extractor = imports.NewRegexExtractor()
	}
	if opts.ImportScanLimit <= 0 {
		opts.ImportScanLimit = constants.DefaultImportScanLimit
	}
	if opts.ImportConcurrency <= 0 {
		opts.ImportConcurrency = constants.DefaultImportConcurrency
	}
	return &Service{
		fetcher:   fetcher,
		extractor: extractor,
		opts:      opts,
		logger:    logger.Get(),
	}
}

// Analyze fetches a repository and builds its graph in four sequential
// passes: hierarchy, manifest dependencies, imports, assembly. Only an
// invalid URL, a failed metadata or tree fetch, a cancelled context or a
// broken graph invariant make it fail.
func (s *Service) Analyze(ctx context.Context, repoURL string) (*graph.Analysis, error) {
	start := time.Now()
	analysis, err := s.analyze(ctx, repoURL)

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ObserveAnalysis(result, time.Since(start))
	return analysis, err
}

func (s *Service) analyze(ctx context.Context, repoURL string) (*graph.Analysis, error) {
	ref, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("analysis_id", uuid.NewString()),
		zap.String("repo", ref.FullName()),
	)
	log.Info("Starting repository analysis")

	repo, err := s.fetcher.Repository(ctx, ref)
	if err != nil {
		log.Error("Failed to fetch repository metadata", zap.Error(err))
		return nil, err
	}

	branch := repo.DefaultBranch
	if branch == "" {
		branch = "HEAD"
	}
	tree, err := s.fetcher.Tree(ctx, ref, branch)
	if err != nil {
		log.Error("Failed to fetch repository tree", zap.String("branch", branch), zap.Error(err))
		return nil, err
	}
	entries := treeEntries(tree)

	b := graph.NewBuilder(ref.Owner, ref.Repo)
	fileCount := b.AddTreeEntries(entries)

	deps, manifestStatus := s.readManifest(ctx, ref, entries, log)
	depCount := b.AddDependencies(deps)
	if ctx.Err() != nil {
		return nil, apperrors.NewContextCancelled("analyze "+ref.FullName(), ctx.Err())
	}

	scan, err := s.scanImports(ctx, ref, b, entries, log)
	if err != nil {
		log.Warn("Import scan aborted", zap.Error(err))
		return nil, err
	}
	metrics.AddImportScan(scan.parsed, scan.links)

	nodes := b.Nodes()
	links := b.Links()
	if err := graph.Validate(b.RootID(), nodes, links); err != nil {
		log.Error("Assembled graph is inconsistent", zap.Error(err))
		return nil, err
	}

	language := repo.Language
	if language == "" {
		language = constants.UnknownLanguage
	}

	techStack := make([]string, 0, 1+constants.TechStackDependencyCap)
	if repo.Language != "" {
		techStack = append(techStack, repo.Language)
	}
	for i := 0; i < len(deps) && i < constants.TechStackDependencyCap; i++ {
		techStack = append(techStack, deps[i])
	}

	directoryCount := len(nodes) - 1 - fileCount
	if depCount > 0 {
		directoryCount -= depCount + 1
	}

	analysis := &graph.Analysis{
		Nodes: nodes,
		Links: links,
		Summary: fmt.Sprintf("Analysis of %s. Found %d dependencies. Parsed imports for %d files. Primary language: %s.",
			ref.FullName(), len(deps), scan.selected, language),
		RiskScore: constants.PlaceholderRiskScore,
		TechStack: techStack,
		Stats: graph.Stats{
			FileCount:       fileCount,
			DirectoryCount:  directoryCount,
			DependencyCount: depCount,
			ImportLinkCount: scan.links,
			ParsedFiles:     scan.parsed,
			ManifestStatus:  manifestStatus,
			TreeTruncated:   tree.Truncated,
		},
		Hotspots: graph.Hotspots(nodes, links),
	}

	log.Info("Repository analysis complete",
		zap.Int("nodes", len(nodes)),
		zap.Int("links", len(links)),
		zap.Int("files", fileCount),
		zap.Int("dependencies", depCount),
		zap.Int("import_links", scan.links),
		zap.String("manifest", manifestStatus),
	)
	return analysis, nil
}

// FileContent returns the decoded text of one file on the default branch
func (s *Service) FileContent(ctx context.Context, repoURL, path string) (string, error) {
	ref, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return "", err
	}
	content, err := s.fetcher.FileContent(ctx, ref, path)
	if err != nil {
		s.logger.Debug("Failed to fetch file content",
			zap.String("repo", ref.FullName()),
			zap.String("path", path),
			zap.Error(err),
		)
		return "", err
	}
	return content, nil
}

// fetchEntry reads a tree entry through its blob URL, or by path when the listing carried none
func (s *Service) fetchEntry(ctx context.Context, ref github.RepoRef, e graph.TreeEntry) (string, error) {
	if e.ContentURL != "" {
		return s.fetcher.Blob(ctx, e.ContentURL)
	}
	return s.fetcher.FileContent(ctx, ref, e.Path)
}

func treeEntries(tree *github.Tree) []graph.TreeEntry {
	entries := make([]graph.TreeEntry, 0, len(tree.Items))
	for _, item := range tree.Items {
		entries = append(entries, graph.TreeEntry{
			Path:       item.Path,
			Type:       item.Type,
			Size:       item.Size,
			ContentURL: item.URL,
		})
	}
	return entries
}
