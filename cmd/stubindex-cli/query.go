package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/stubindex-mcp/internal/indexer"
	"github.com/dshills/stubindex-mcp/internal/searcher"
	"github.com/dshills/stubindex-mcp/pkg/types"
)

var (
	queryKind  string
	queryLimit int
)

var queryCmd = &cobra.Command{
	Use:   "query <path> <name>",
	Short: "Look up declarations by name",
	Long: `Query indexes the project and performs a ranked name lookup:
exact matches first, then prefix, substring, and case-insensitive hits.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryKind, "kind", "", "restrict to one kind (class, function, variable)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 20, "maximum number of results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := projectRoot(args[0])
	if err != nil {
		return err
	}
	name := args[1]

	if queryKind != "" && queryKind != "class" && queryKind != "function" && queryKind != "variable" {
		return fmt.Errorf("invalid kind %q (want class, function, or variable)", queryKind)
	}

	idx := indexer.New(nil)
	idx.SetScanner(configuredScanner())
	result, err := idx.IndexProject(ctx, root, indexerConfig())
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", root, err)
	}
	logger.WithField("stubs", result.Index.Size()).Debug("index built")

	srch := searcher.New(result.Index)
	var hits []searcher.Result
	if queryKind != "" {
		hits = srch.SearchKind(name, types.StubKind(queryKind), queryLimit)
	} else {
		hits = srch.Search(name, queryLimit)
	}

	if len(hits) == 0 {
		fmt.Printf("No matches for %q\n", name)
		return nil
	}

	for i, hit := range hits {
		fmt.Printf("%2d. [%.1f %s] %s\n", i+1, hit.Score, hit.Match, hit.Stub)
	}
	return nil
}
