package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"repograph/backend/internal/app"
	"repograph/backend/internal/graph"
	"repograph/backend/pkg/config"
	apperrors "repograph/backend/pkg/errors"
	"repograph/backend/pkg/logger"
)

// cliLogLevel keeps stderr quiet unless LOG_LEVEL asks for more
const cliLogLevel = "warn"

func newRootCmd() *cobra.Command {
	var (
		outputFormat string
		showTree     bool
	)

	rootCmd := &cobra.Command{
		Use:   "repograph",
		Short: "Map a GitHub repository into a dependency graph",
		Long: `repograph reads a public GitHub repository through the REST API and
builds a graph of its files, top-level directories, declared npm packages
and relative import links.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "output format: json or yaml")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [repo-url]",
		Short: "Analyze a repository and print its graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			analysis, err := a.Analyzer.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			if showTree {
				return render(cmd.OutOrStdout(), outputFormat, graph.BuildTree(analysis.Nodes[0].ID, analysis.Nodes).Nested())
			}
			return render(cmd.OutOrStdout(), outputFormat, analysis)
		},
	}
	analyzeCmd.Flags().BoolVar(&showTree, "tree", false, "print the nested folder tree instead of the graph")

	contentCmd := &cobra.Command{
		Use:   "content [repo-url] [path]",
		Short: "Print one file from the default branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			content, err := a.Analyzer.FileContent(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [repo-url]",
		Short: "Analyze a repository and write the graph to Neo4j",
		Long:  `Requires NEO4J_URI, NEO4J_USER and NEO4J_PASSWORD. The previous snapshot of the repository is replaced.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.Exporter == nil {
				return apperrors.ErrExportDisabled
			}

			analysis, err := a.Analyzer.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			result, err := a.Exporter.Export(ctx, analysis.Nodes[0].ID, uuid.NewString(), analysis)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, result)
		},
	}

	rootCmd.AddCommand(analyzeCmd, contentCmd, exportCmd)
	return rootCmd
}

// setup loads configuration, starts the logger and wires the analyzer
func setup(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if level == "" {
		level = cliLogLevel
	}
	if err := logger.Init(cfg.Env, level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return app.New(ctx, cfg)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func render(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return apperrors.NewInvalidArgument("format", fmt.Sprintf("unknown output format %q, want json or yaml", format))
	}
}
