package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file the CLI looks for in the working
// directory when no --config flag is given.
const DefaultFileName = ".stubindex.yaml"

// Config holds CLI-configurable options for scanning and indexing.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Indexer IndexerConfig `yaml:"indexer"`
}

// ScannerConfig toggles the scanner's declaration categories.
type ScannerConfig struct {
	Classes   bool `yaml:"classes"`
	Functions bool `yaml:"functions"`
	Variables bool `yaml:"variables"`
}

// IndexerConfig controls project traversal and concurrency.
type IndexerConfig struct {
	Workers      int      `yaml:"workers"`
	Extensions   []string `yaml:"extensions"`
	IncludeTests bool     `yaml:"include_tests"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Scanner: ScannerConfig{
			Classes:   true,
			Functions: true,
			Variables: true,
		},
		Indexer: IndexerConfig{
			Workers:      runtime.NumCPU(),
			Extensions:   []string{".cpp", ".cc", ".cxx", ".h", ".hpp", ".hxx"},
			IncludeTests: true,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Indexer.Workers <= 0 {
		cfg.Indexer.Workers = runtime.NumCPU()
	}
	if len(cfg.Indexer.Extensions) == 0 {
		cfg.Indexer.Extensions = Default().Indexer.Extensions
	}

	return cfg, nil
}
