package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/stubindex-mcp/internal/indexer"
	"github.com/dshills/stubindex-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "stubindex-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.stubindex/indices"
)

// Server wraps the MCP server with application dependencies. Indexed
// projects are cached in memory because the tree and lookup tools operate
// on the live index, not the database.
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	indexer *indexer.Indexer

	mu       sync.RWMutex
	projects map[string]*indexer.Result // project root -> last indexing run
}

// NewServer creates a new MCP server instance
func NewServer(dbPath string) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".stubindex", "indices")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Single database file shared by every project
	dbFile := filepath.Join(dbPath, "stubindex.db")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create indexer
	idx := indexer.New(store)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		indexer:  idx,
		projects: make(map[string]*indexer.Result),
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexProjectTool(), s.handleIndexProject)
	s.mcp.AddTool(lookupSymbolTool(), s.handleLookupSymbol)
	s.mcp.AddTool(queryTreeTool(), s.handleQueryTree)
	s.mcp.AddTool(treeStatsTool(), s.handleTreeStats)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}

// cacheProject records the indexing run for later lookup and tree tools.
func (s *Server) cacheProject(rootPath string, result *indexer.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[rootPath] = result
}

// project returns the cached indexing run for a project root, or nil when
// the project has not been indexed in this session.
func (s *Server) project(rootPath string) *indexer.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects[rootPath]
}
