package store

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"repograph/backend/internal/graph"
	apperrors "repograph/backend/pkg/errors"
	"repograph/backend/pkg/logger"
)

// Repository writes analysis snapshots into Neo4j
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// ExportResult describes one written snapshot
type ExportResult struct {
	ExportID string `json:"exportId" yaml:"exportId"`
	Repo     string `json:"repo" yaml:"repo"`
	Nodes    int    `json:"nodes" yaml:"nodes"`
	Links    int    `json:"links" yaml:"links"`
}

// NewDriver connects to Neo4j and verifies the connection
func NewDriver(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	return driver, nil
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// Export replaces the stored snapshot of repo with analysis in a single write transaction
func (r *Repository) Export(ctx context.Context, repo, exportID string, analysis *graph.Analysis) (*ExportResult, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if _, err := tx.Run(ctx, `
			MATCH (n:RepoNode {repo: $repo})
			DETACH DELETE n
		`, map[string]interface{}{"repo": repo}); err != nil {
			return nil, fmt.Errorf("failed to clear previous snapshot: %w", err)
		}

		if _, err := tx.Run(ctx, `
			MERGE (r:Repository {id: $repo})
			SET r.summary = $summary,
			    r.techStack = $techStack,
			    r.riskScore = $riskScore,
			    r.exportId = $exportID,
			    r.exportedAt = datetime($exportedAt)
		`, map[string]interface{}{
			"repo":       repo,
			"summary":    analysis.Summary,
			"techStack":  analysis.TechStack,
			"riskScore":  analysis.RiskScore,
			"exportID":   exportID,
			"exportedAt": time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, fmt.Errorf("failed to write repository: %w", err)
		}

		if _, err := tx.Run(ctx, `
			MATCH (r:Repository {id: $repo})
			UNWIND $nodes AS node
			MERGE (n:RepoNode {repo: $repo, id: node.id})
			SET n.group = node.group,
			    n.label = node.label,
			    n.val = node.val,
			    n.exportId = $exportID
			MERGE (r)-[:CONTAINS]->(n)
		`, map[string]interface{}{
			"repo":     repo,
			"exportID": exportID,
			"nodes":    nodeParams(analysis.Nodes),
		}); err != nil {
			return nil, fmt.Errorf("failed to write nodes: %w", err)
		}

		if _, err := tx.Run(ctx, `
			UNWIND $links AS link
			MATCH (s:RepoNode {repo: $repo, id: link.source})
			MATCH (t:RepoNode {repo: $repo, id: link.target})
			MERGE (s)-[l:LINKS_TO {kind: link.kind}]->(t)
			SET l.value = link.value
		`, map[string]interface{}{
			"repo":  repo,
			"links": linkParams(analysis.Links),
		}); err != nil {
			return nil, fmt.Errorf("failed to write links: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		r.logger.Error("Graph export failed", zap.String("repo", repo), zap.Error(err))
		return nil, apperrors.NewGraphExportFailed(repo, err)
	}

	r.logger.Info("Graph exported",
		zap.String("repo", repo),
		zap.String("export_id", exportID),
		zap.Int("nodes", len(analysis.Nodes)),
		zap.Int("links", len(analysis.Links)),
	)
	return &ExportResult{
		ExportID: exportID,
		Repo:     repo,
		Nodes:    len(analysis.Nodes),
		Links:    len(analysis.Links),
	}, nil
}

// SchemaVersion tags the constraint set created by EnsureSchema
const SchemaVersion = "repograph_schema_v1"

var schemaStatements = []struct {
	name  string
	query string
}{
	{
		name:  "repository id",
		query: `CREATE CONSTRAINT repository_id_unique IF NOT EXISTS FOR (r:Repository) REQUIRE r.id IS UNIQUE`,
	},
	{
		name:  "repo node key",
		query: `CREATE CONSTRAINT repo_node_unique IF NOT EXISTS FOR (n:RepoNode) REQUIRE (n.repo, n.id) IS UNIQUE`,
	},
	{
		name:  "repo node group",
		query: `CREATE INDEX repo_node_group IF NOT EXISTS FOR (n:RepoNode) ON (n.repo, n.group)`,
	},
}

// SchemaApplied reports whether EnsureSchema already ran against this database
func (r *Repository) SchemaApplied(ctx context.Context) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (m:Migration {version: $version})
		RETURN m.applied_at AS applied_at
	`, map[string]interface{}{"version": SchemaVersion})
	if err != nil {
		return false, fmt.Errorf("failed to check schema version: %w", err)
	}
	return result.Next(ctx), nil
}

// EnsureSchema creates the constraints and indexes exports rely on and records SchemaVersion.
// Every statement is idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		if _, err := session.Run(ctx, stmt.query, nil); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
		r.logger.Debug("Schema statement applied", zap.String("name", stmt.name))
	}

	if _, err := session.Run(ctx, `
		MERGE (m:Migration {version: $version})
		SET m.applied_at = datetime()
	`, map[string]interface{}{"version": SchemaVersion}); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	r.logger.Info("Neo4j schema ready", zap.String("version", SchemaVersion))
	return nil
}

// CountNodes returns how many nodes are stored for repo
func (r *Repository) CountNodes(ctx context.Context, repo string) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (n:RepoNode {repo: $repo})
		RETURN count(n) AS count
	`, map[string]interface{}{"repo": repo})
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return getInt(record, "count"), nil
}

func nodeParams(nodes []graph.Node) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]interface{}{
			"id":    n.ID,
			"group": string(n.Group),
			"label": n.Label,
			"val":   n.Val,
		})
	}
	return out
}

func linkParams(links []graph.Link) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		out = append(out, map[string]interface{}{
			"source": l.Source,
			"target": l.Target,
			"value":  l.Value,
			"kind":   kindName(l.Kind),
		})
	}
	return out
}

func kindName(k graph.LinkKind) string {
	switch k {
	case graph.LinkDependency:
		return "dependency"
	case graph.LinkImport:
		return "import"
	default:
		return "containment"
	}
}

func getInt(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return int(i)
	}
	return 0
}
