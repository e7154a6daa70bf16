// Package mcp implements the Model Context Protocol (MCP) server for the
// stub index.
//
// The server exposes five tools to AI coding assistants:
//   - index_project: scan a C/C++ project and build its stub index and trees
//   - lookup_symbol: exact multi-key lookup with ranked fuzzy fallback
//   - query_tree: fluent structural queries over one file's tree
//   - tree_stats: node statistics for one file or the whole project
//   - get_status: persisted indexing status and database health
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server reads requests on stdin and writes responses to stdout, so all
// logging goes to stderr.
//
// # Tool: index_project
//
//	Request:
//	{
//	  "name": "index_project",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "include_tests": true,
//	    "workers": 4
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "files_scanned": 120,
//	  "stubs_extracted": 3411,
//	  "trees_built": 120,
//	  "duration_ms": 180
//	}
//
// Indexing results are cached in memory per project root; lookup_symbol,
// query_tree, and tree_stats operate on that cache, so a project must be
// indexed in the current session before it can be queried.
//
// # Tool: lookup_symbol
//
// Exact lookups combine name with optional kind and file filters
// (conjunction). When nothing matches exactly and fuzzy is enabled, the
// ranked searcher takes over: exact > prefix > substring > case-insensitive.
//
//	Request:
//	{
//	  "name": "lookup_symbol",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "name": "draw",
//	    "kind": "function",
//	    "limit": 10
//	  }
//	}
//
// # Tool: query_tree
//
// Structural queries against one file's tree, all filters conjunctive:
//
//	{
//	  "name": "query_tree",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "file": "src/widget.cpp",
//	    "kind": "function",
//	    "start_line": 1,
//	    "end_line": 100
//	  }
//	}
//
// # Error Handling
//
// Errors follow the standard JSON-RPC shape:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {"param": "path", "reason": "path does not exist"}
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Project not found
//   - -32003: Project not indexed in this session
//   - -32004: File not part of the indexed project
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "stubindex": {
//	      "command": "/usr/local/bin/stubindex",
//	      "env": {
//	        "STUBINDEX_DB_PATH": "~/.stubindex/indices"
//	      }
//	    }
//	  }
//	}
package mcp
