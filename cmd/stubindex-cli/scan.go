package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/stubindex-mcp/internal/indexer"
	"github.com/dshills/stubindex-mcp/internal/storage"
)

var scanDBPath string

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a project and report what was indexed",
	Long: `Scan walks the project, extracts declaration stubs from every source
file, and prints run statistics. With --db the run is also persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanDBPath, "db", "", "persist the index to this SQLite database file")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := projectRoot(args[0])
	if err != nil {
		return err
	}

	var store storage.Storage
	if scanDBPath != "" {
		store, err = storage.NewSQLiteStorage(scanDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = store.Close() }()
		logger.WithField("db", scanDBPath).Debug("persisting index")
	}

	idx := indexer.New(store)
	idx.SetScanner(configuredScanner())

	result, err := idx.IndexProject(ctx, root, indexerConfig())
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", root, err)
	}

	stats := result.Stats
	fmt.Printf("Indexed %s\n", root)
	fmt.Printf("  Files scanned:   %d\n", stats.FilesScanned)
	fmt.Printf("  Files failed:    %d\n", stats.FilesFailed)
	fmt.Printf("  Stubs extracted: %d\n", stats.StubsExtracted)
	fmt.Printf("  Trees built:     %d\n", len(result.Trees))
	fmt.Printf("  Duration:        %s\n", stats.Duration)

	for _, msg := range stats.ErrorMessages {
		logger.Warn(msg)
	}
	return nil
}
