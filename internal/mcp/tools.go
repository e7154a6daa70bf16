package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/stubindex-mcp/internal/index"
	"github.com/dshills/stubindex-mcp/internal/indexer"
	"github.com/dshills/stubindex-mcp/internal/searcher"
	"github.com/dshills/stubindex-mcp/internal/storage"
	"github.com/dshills/stubindex-mcp/internal/tree"
	"github.com/dshills/stubindex-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeProjectNotFound = -32001 // Specified path does not contain a project
	ErrorCodeNotIndexed      = -32003 // Project not indexed in this session
	ErrorCodeFileNotIndexed  = -32004 // File not part of the indexed project
)

// handleIndexProject handles the index_project tool invocation
func (s *Server) handleIndexProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	config := &indexer.Config{
		Workers:      getIntDefault(args, "workers", 0),
		Extensions:   getStringSlice(args, "extensions"),
		IncludeTests: getBoolDefault(args, "include_tests", true),
	}

	result, err := s.indexer.IndexProject(ctx, path, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.cacheProject(path, result)

	response := map[string]interface{}{
		"indexed":         true,
		"files_scanned":   result.Stats.FilesScanned,
		"files_failed":    result.Stats.FilesFailed,
		"stubs_extracted": result.Stats.StubsExtracted,
		"trees_built":     len(result.Trees),
		"duration_ms":     result.Stats.Duration.Milliseconds(),
	}

	if len(result.Stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(result.Stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = result.Stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = result.Stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleLookupSymbol handles the lookup_symbol tool invocation
func (s *Server) handleLookupSymbol(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	kind := getStringDefault(args, "kind", "")
	if kind != "" && kind != "class" && kind != "function" && kind != "variable" {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid kind", map[string]interface{}{
			"param":   "kind",
			"value":   kind,
			"allowed": []string{"class", "function", "variable"},
		})
	}

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	project := s.project(path)
	if project == nil {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}

	fileContains := getStringDefault(args, "file_contains", "")

	matches := project.Index.Query(index.Filter{
		Name:         name,
		Kind:         types.StubKind(kind),
		FileContains: fileContains,
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	symbols := make([]map[string]interface{}, 0, len(matches))
	for _, stub := range matches {
		symbols = append(symbols, symbolEntry(stub, 1.0, "exact"))
	}

	exact := len(symbols) > 0
	if !exact && getBoolDefault(args, "fuzzy", true) {
		for _, r := range fuzzyLookup(project, name, kind, fileContains, limit) {
			symbols = append(symbols, symbolEntry(r.Stub, r.Score, string(r.Match)))
		}
	}

	response := map[string]interface{}{
		"query":   name,
		"exact":   exact,
		"count":   len(symbols),
		"symbols": symbols,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// fuzzyLookup runs the ranked searcher and applies the same file filter the
// exact lookup used.
func fuzzyLookup(project *indexer.Result, name, kind, fileContains string, limit int) []searcher.Result {
	srch := searcher.New(project.Index)

	var ranked []searcher.Result
	if kind != "" {
		ranked = srch.SearchKind(name, types.StubKind(kind), 0)
	} else {
		ranked = srch.Search(name, 0)
	}

	filtered := ranked[:0]
	for _, r := range ranked {
		if fileContains != "" && !strings.Contains(r.Stub.Location.File, fileContains) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// handleQueryTree handles the query_tree tool invocation
func (s *Server) handleQueryTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	file, ok := args["file"].(string)
	if !ok || file == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file parameter is required", map[string]interface{}{
			"param":  "file",
			"reason": "missing or empty",
		})
	}

	project := s.project(path)
	if project == nil {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}

	root, ok := project.Trees[file]
	if !ok {
		return nil, newMCPError(ErrorCodeFileNotIndexed, "file not indexed", map[string]interface{}{
			"file": file,
		})
	}

	q := tree.NewQuery(root)
	if kind := getStringDefault(args, "kind", ""); kind != "" {
		q.OfKind(tree.NodeKind(kind))
	}
	if name := getStringDefault(args, "name", ""); name != "" {
		q.WithName(name)
	}
	start := getIntDefault(args, "start_line", 0)
	end := getIntDefault(args, "end_line", 0)
	if start > 0 || end > 0 {
		if start <= 0 {
			start = 1
		}
		if end <= 0 {
			end = int(^uint(0) >> 1)
		}
		q.InLineRange(start, end)
	}
	if getBoolDefault(args, "leaf_only", false) {
		q.IsLeaf()
	}

	hits := q.Execute()
	nodes := make([]map[string]interface{}, 0, len(hits))
	for _, n := range hits {
		nodes = append(nodes, nodeEntry(n))
	}

	response := map[string]interface{}{
		"file":  file,
		"count": len(nodes),
		"nodes": nodes,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleTreeStats handles the tree_stats tool invocation
func (s *Server) handleTreeStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	project := s.project(path)
	if project == nil {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}

	var (
		root  *tree.Node
		scope string
	)
	if file := getStringDefault(args, "file", ""); file != "" {
		r, ok := project.Trees[file]
		if !ok {
			return nil, newMCPError(ErrorCodeFileNotIndexed, "file not indexed", map[string]interface{}{
				"file": file,
			})
		}
		root = r
		scope = file
	} else {
		root = mergedProjectTree(project)
		scope = "project"
	}

	visitor := tree.NewStatisticsVisitor()
	root.Accept(visitor)
	st := visitor.Stats

	response := map[string]interface{}{
		"scope": scope,
		"statistics": map[string]interface{}{
			"total_nodes":       st.TotalNodes,
			"files":             st.Files,
			"namespaces":        st.Namespaces,
			"classes":           st.Classes,
			"structs":           st.Structs,
			"abstract_classes":  st.AbstractClasses,
			"functions":         st.Functions,
			"virtual_functions": st.VirtualFunctions,
			"static_functions":  st.StaticFunctions,
			"const_functions":   st.ConstFunctions,
			"variables":         st.Variables,
			"const_variables":   st.ConstVariables,
			"static_variables":  st.StaticVariables,
			"member_variables":  st.MemberVariables,
		},
		"report": visitor.Report(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// mergedProjectTree merges every per-file tree into one root, in sorted file
// order so the result is stable.
func mergedProjectTree(project *indexer.Result) *tree.Node {
	files := make([]string, 0, len(project.Trees))
	for f := range project.Trees {
		files = append(files, f)
	}
	sort.Strings(files)

	trees := make([]*tree.Node, 0, len(files))
	for _, f := range files {
		trees = append(trees, project.Trees[f])
	}

	merged := tree.MergeTrees(trees)
	if merged == nil {
		merged = tree.NewFileNode("merged", "")
	}
	return merged
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	project, err := s.storage.GetProject(ctx, path)
	if err == storage.ErrNotFound {
		response := map[string]interface{}{
			"indexed": false,
			"path":    path,
			"message": "Project not indexed. Use index_project tool to index this project.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	status, err := s.storage.GetStatus(ctx, project.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"project": map[string]interface{}{
			"path":            project.RootPath,
			"index_version":   project.IndexVersion,
			"last_indexed_at": project.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"files_count":   status.FilesCount,
			"stubs_count":   status.StubsCount,
			"index_size_mb": fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"schema_current":      status.Health.SchemaCurrent,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and is a readable directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter; a missing or malformed
// value yields nil.
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// symbolEntry renders one stub as a response map.
func symbolEntry(stub *types.Stub, score float64, match string) map[string]interface{} {
	entry := map[string]interface{}{
		"name":   stub.Name,
		"kind":   string(stub.Kind),
		"file":   stub.Location.File,
		"line":   stub.Location.Line,
		"column": stub.Location.Column,
		"score":  score,
		"match":  match,
		"detail": stub.String(),
	}
	return entry
}

// nodeEntry renders one tree node as a response map.
func nodeEntry(n *tree.Node) map[string]interface{} {
	return map[string]interface{}{
		"kind":     string(n.Kind),
		"name":     n.Text,
		"line":     n.Loc.Line,
		"children": n.ChildCount(),
		"path":     tree.Path(n),
	}
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
