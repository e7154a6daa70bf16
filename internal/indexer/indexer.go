package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/stubindex-mcp/internal/index"
	"github.com/dshills/stubindex-mcp/internal/scanner"
	"github.com/dshills/stubindex-mcp/internal/storage"
	"github.com/dshills/stubindex-mcp/internal/tree"
	"github.com/dshills/stubindex-mcp/pkg/types"
)

// defaultExtensions are the source file extensions indexed when the config
// does not override them.
var defaultExtensions = []string{".cpp", ".cc", ".cxx", ".h", ".hpp", ".hxx"}

// Indexer coordinates the indexing pipeline: discover -> scan -> index.
// Scanning runs concurrently; index insertion and tree building happen in
// deterministic file order afterwards, so two runs over the same sources
// produce identical indexes.
type Indexer struct {
	scanner *scanner.Scanner
	builder *tree.Builder
	storage storage.Storage // nil disables persistence

	workers int
}

// Config contains configuration for the indexer
type Config struct {
	Workers      int      // Number of concurrent workers (default: runtime.NumCPU())
	Extensions   []string // Source extensions to index (default: C-family set)
	IncludeTests bool     // Whether to index test files (default: true)
}

// Statistics contains statistics about the indexing operation
type Statistics struct {
	FilesScanned   int
	FilesFailed    int
	StubsExtracted int
	Duration       time.Duration
	ErrorMessages  []string
}

// Result is the in-memory product of one indexing run.
type Result struct {
	Index *index.Index
	Trees map[string]*tree.Node // root-relative path -> per-file tree
	Stats *Statistics
}

// New creates an Indexer. store may be nil, in which case nothing is
// persisted.
func New(store storage.Storage) *Indexer {
	return &Indexer{
		scanner: scanner.New(),
		builder: tree.NewBuilder(),
		storage: store,
		workers: runtime.NumCPU(),
	}
}

// SetScanner replaces the default scanner, e.g. one with categories
// disabled.
func (idx *Indexer) SetScanner(s *scanner.Scanner) {
	if s != nil {
		idx.scanner = s
	}
}

// IndexProject scans every source file under rootPath and builds the
// in-memory index and per-file trees.
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string, config *Config) (*Result, error) {
	if config == nil {
		config = &Config{IncludeTests: true}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if len(config.Extensions) == 0 {
		config.Extensions = defaultExtensions
	}
	idx.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	files, err := idx.discoverFiles(rootPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	scans, err := idx.scanFiles(ctx, files, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}

	// Assemble in discovery order so the index is deterministic regardless
	// of worker scheduling.
	result := &Result{
		Index: index.New(),
		Trees: make(map[string]*tree.Node, len(files)),
		Stats: stats,
	}
	for i, filePath := range files {
		if scans[i] == nil {
			continue // scan failed, already counted
		}
		relPath := relativeTo(rootPath, filePath)
		result.Index.InsertAll(scans[i].Stubs)
		result.Trees[relPath] = idx.builder.BuildFromStubs(relPath, scans[i].Stubs)
	}

	if idx.storage != nil {
		if err := idx.persist(ctx, rootPath, files, scans, stats); err != nil {
			return nil, fmt.Errorf("failed to persist index: %w", err)
		}
	}

	stats.Duration = time.Since(startTime)
	return result, nil
}

// discoverFiles finds all matching source files under rootPath
func (idx *Indexer) discoverFiles(rootPath string, config *Config) ([]string, error) {
	var files []string

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(info.Name(), ".") && path != rootPath {
				return filepath.SkipDir
			}
			return nil
		}

		if !hasExtension(path, config.Extensions) {
			return nil
		}

		if !config.IncludeTests && isTestFile(info.Name()) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// isTestFile applies the common C++ test naming conventions.
func isTestFile(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test")
}

// scanFiles scans files concurrently with a bounded worker pool. The result
// slice is positionally aligned with files; failed scans leave a nil entry.
func (idx *Indexer) scanFiles(ctx context.Context, files []string, stats *Statistics) ([]*types.ScanResult, error) {
	scans := make([]*types.ScanResult, len(files))
	semaphore := make(chan struct{}, idx.workers)

	var (
		scanned int32
		failed  int32
		stubs   int32
	)

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect stats.ErrorMessages

	for i, filePath := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			result, err := idx.scanner.ScanFile(filePath)
			if err != nil {
				atomic.AddInt32(&failed, 1)
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
				mu.Unlock()
				return nil // Continue with other files
			}

			scans[i] = result
			atomic.AddInt32(&scanned, 1)
			atomic.AddInt32(&stubs, int32(len(result.Stubs)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.FilesScanned = int(scanned)
	stats.FilesFailed = int(failed)
	stats.StubsExtracted = int(stubs)
	return scans, nil
}

// persist writes the scanned stubs through the storage layer, one
// transaction for the whole run.
func (idx *Indexer) persist(ctx context.Context, rootPath string, files []string, scans []*types.ScanResult, stats *Statistics) error {
	project, err := idx.getOrCreateProject(ctx, rootPath)
	if err != nil {
		return fmt.Errorf("failed to get or create project: %w", err)
	}

	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	persisted := 0
	for i, filePath := range files {
		if scans[i] == nil {
			continue
		}

		hash, modTime, sizeBytes, err := computeFileHash(filePath)
		if err != nil {
			return err
		}

		file := &storage.SourceFile{
			ProjectID:   project.ID,
			FilePath:    relativeTo(rootPath, filePath),
			ContentHash: hash,
			ModTime:     modTime,
			SizeBytes:   sizeBytes,
		}
		if scans[i].HasErrors() {
			msg := scans[i].Errors[0].Error()
			file.ScanError = &msg
		}
		if err := tx.UpsertSourceFile(ctx, file); err != nil {
			return err
		}

		// Re-scanned files replace their old stubs wholesale.
		if err := tx.DeleteStubsByFile(ctx, file.ID); err != nil {
			return err
		}
		for _, stub := range scans[i].Stubs {
			if err := tx.UpsertStub(ctx, storage.FromTypesStub(stub, file.ID)); err != nil {
				return err
			}
		}
		persisted++
	}

	project.TotalFiles = persisted
	project.TotalStubs = stats.StubsExtracted
	project.LastIndexedAt = time.Now()
	if err := tx.UpdateProject(ctx, project); err != nil {
		return err
	}

	return tx.Commit()
}

// getOrCreateProject retrieves an existing project or creates a new one
func (idx *Indexer) getOrCreateProject(ctx context.Context, rootPath string) (*storage.Project, error) {
	project, err := idx.storage.GetProject(ctx, rootPath)
	if err == nil {
		return project, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	project = &storage.Project{
		RootPath:     rootPath,
		IndexVersion: storage.CurrentSchemaVersion,
	}
	if err := idx.storage.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func relativeTo(rootPath, filePath string) string {
	rel, err := filepath.Rel(rootPath, filePath)
	if err != nil {
		return filePath
	}
	return rel
}

// computeFileHash computes the SHA-256 hash of a file
func computeFileHash(filePath string) ([32]byte, time.Time, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}

	var result [32]byte
	copy(result[:], hash.Sum(nil))

	return result, info.ModTime(), info.Size(), nil
}
