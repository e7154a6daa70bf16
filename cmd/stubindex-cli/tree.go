package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/stubindex-mcp/internal/indexer"
	"github.com/dshills/stubindex-mcp/internal/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree <path> [file]",
	Short: "Print the structure tree of indexed files",
	Long: `Tree indexes the project and prints each file's declaration tree.
With a project-relative file argument only that file is printed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
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

	printer := tree.NewPrintVisitor(os.Stdout)

	if len(args) == 2 {
		node, ok := result.Trees[args[1]]
		if !ok {
			return fmt.Errorf("file %q is not part of the index", args[1])
		}
		node.Accept(printer)
		return nil
	}

	files := make([]string, 0, len(result.Trees))
	for f := range result.Trees {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, f := range files {
		result.Trees[f].Accept(printer)
	}
	return nil
}

// mergedTree combines every per-file tree under one root, in sorted file
// order.
func mergedTree(result *indexer.Result) *tree.Node {
	files := make([]string, 0, len(result.Trees))
	for f := range result.Trees {
		files = append(files, f)
	}
	sort.Strings(files)

	trees := make([]*tree.Node, 0, len(files))
	for _, f := range files {
		trees = append(trees, result.Trees[f])
	}
	return tree.MergeTrees(trees)
}
