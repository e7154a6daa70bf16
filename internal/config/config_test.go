package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Scanner.Classes)
	assert.True(t, cfg.Scanner.Functions)
	assert.True(t, cfg.Scanner.Variables)
	assert.Greater(t, cfg.Indexer.Workers, 0)
	assert.Contains(t, cfg.Indexer.Extensions, ".cpp")
	assert.Contains(t, cfg.Indexer.Extensions, ".hpp")
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := `
scanner:
  variables: false
indexer:
  workers: 2
  extensions: [".cpp", ".h"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values win, unset keys keep their defaults.
	assert.False(t, cfg.Scanner.Variables)
	assert.True(t, cfg.Scanner.Classes)
	assert.Equal(t, 2, cfg.Indexer.Workers)
	assert.Equal(t, []string{".cpp", ".h"}, cfg.Indexer.Extensions)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scanner: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ClampsWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indexer:\n  workers: -3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Greater(t, cfg.Indexer.Workers, 0)
}
