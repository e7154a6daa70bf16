package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/stubindex-mcp/internal/indexer"
	"github.com/dshills/stubindex-mcp/internal/tree"
)

var statsCmd = &cobra.Command{
	Use:   "stats <path> [file]",
	Short: "Summarize declaration statistics",
	Long: `Stats indexes the project and tallies node counts per kind and
modifier. With a project-relative file argument only that file is counted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := projectRoot(args[0])
	if err != nil {
		return err
	}

	idx := indexer.New(nil)
	idx.SetScanner(configuredScanner())
	result, err := idx.IndexProject(ctx, root, indexerConfig())
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", root, err)
	}

	var node *tree.Node
	if len(args) == 2 {
		n, ok := result.Trees[args[1]]
		if !ok {
			return fmt.Errorf("file %q is not part of the index", args[1])
		}
		node = n
	} else {
		node = mergedTree(result)
	}
	if node == nil {
		fmt.Println("Nothing indexed")
		return nil
	}

	visitor := tree.NewStatisticsVisitor()
	node.Accept(visitor)
	fmt.Print(visitor.Report())
	return nil
}
