// Package types provides shared type definitions for the StubIndex MCP server.
//
// This package defines the domain types used across the indexing and tree
// components: stubs, source locations, function parameters, and scan results.
//
// # Core Types
//
// Stub is an immutable description of one named code element extracted from
// source text:
//
//	stub := types.NewFunctionStub("ParseFile", loc, "int")
//	stub.AddParam("int", "fd")
//
// Each stub carries a kind, a name, a source location, and kind-specific
// attributes (return type and parameters for functions, const/static flags
// and the declared type for variables, the struct flag for classes).
//
// # Immutability
//
// Stubs are treated as immutable once handed to an index or a tree builder.
// The constructors and AddParam are the only intended mutation points, and
// they are meant to be used before the stub is published.
//
// # Validation
//
// Validate reports structural problems (missing name, bad kind, non-positive
// line numbers). The index intentionally does not call Validate: it silently
// drops nil and unnamed stubs instead, matching the permissive contract of
// the query surface.
package types
