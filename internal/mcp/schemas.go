package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexProjectTool returns the tool definition for index_project
func indexProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_project",
		Description: "Index a C/C++ project to make its declarations searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
				"include_tests": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, index test files (test_* / *_test)",
					"default":     true,
				},
				"workers": map[string]interface{}{
					"type":        "integer",
					"description": "Number of concurrent scan workers (default: number of CPUs)",
					"minimum":     1,
				},
				"extensions": map[string]interface{}{
					"type":        "array",
					"description": "Source file extensions to index (default: C-family set)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"path"},
		},
	}
}

// lookupSymbolTool returns the tool definition for lookup_symbol
func lookupSymbolTool() mcp.Tool {
	return mcp.Tool{
		Name:        "lookup_symbol",
		Description: "Look up indexed declarations by name, with ranked fuzzy fallback",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to an indexed project",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Symbol name to look up",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Restrict matches to one declaration kind",
					"enum":        []string{"class", "function", "variable"},
				},
				"file_contains": map[string]interface{}{
					"type":        "string",
					"description": "Substring that must appear in the declaring file path",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
				"fuzzy": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, fall back to ranked prefix/substring matching when no exact match exists",
					"default":     true,
				},
			},
			Required: []string{"path", "name"},
		},
	}
}

// queryTreeTool returns the tool definition for query_tree
func queryTreeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_tree",
		Description: "Query the structure tree of one indexed source file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to an indexed project",
				},
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Project-relative path of the source file to query",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Keep only nodes of this kind",
					"enum":        []string{"file", "namespace", "class", "function", "variable"},
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Keep only nodes with this exact name",
				},
				"start_line": map[string]interface{}{
					"type":        "integer",
					"description": "Keep only nodes at or after this line",
					"minimum":     1,
				},
				"end_line": map[string]interface{}{
					"type":        "integer",
					"description": "Keep only nodes at or before this line",
					"minimum":     1,
				},
				"leaf_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, keep only childless nodes",
					"default":     false,
				},
			},
			Required: []string{"path", "file"},
		},
	}
}

// treeStatsTool returns the tool definition for tree_stats
func treeStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "tree_stats",
		Description: "Summarize node statistics for one file's tree or the whole project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to an indexed project",
				},
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Project-relative source file; omit for project-wide statistics",
				},
			},
			Required: []string{"path"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a project",
				},
			},
			Required: []string{"path"},
		},
	}
}
