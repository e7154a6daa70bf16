package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dshills/stubindex-mcp/internal/config"
	"github.com/dshills/stubindex-mcp/internal/indexer"
	"github.com/dshills/stubindex-mcp/internal/scanner"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stubindex-cli",
	Short: "StubIndex - declaration indexing for C/C++ projects",
	Long: `StubIndex scans C/C++ sources for class, function, and variable
declarations and answers structural queries over the result.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		// Load configuration
		path := cfgFile
		if path == "" {
			path = config.DefaultFileName
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .stubindex.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Set custom version template
	rootCmd.SetVersionTemplate(`StubIndex {{.Version}}
Build time: ` + BuildTime + `
`)

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(statsCmd)
}

// projectRoot resolves the positional project argument to an absolute path.
func projectRoot(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to access %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", abs)
	}
	return abs, nil
}

// configuredScanner builds a scanner with the config file's category
// toggles applied.
func configuredScanner() *scanner.Scanner {
	s := scanner.New()
	s.SetScanClasses(cfg.Scanner.Classes)
	s.SetScanFunctions(cfg.Scanner.Functions)
	s.SetScanVariables(cfg.Scanner.Variables)
	return s
}

// indexerConfig maps the file config onto the indexer's run config.
func indexerConfig() *indexer.Config {
	return &indexer.Config{
		Workers:      cfg.Indexer.Workers,
		Extensions:   cfg.Indexer.Extensions,
		IncludeTests: cfg.Indexer.IncludeTests,
	}
}
