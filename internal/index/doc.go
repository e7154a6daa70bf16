// Package index implements the in-memory multi-key stub index.
//
// The index stores stubs in a flat insertion-ordered list and maintains three
// auxiliary hash maps keyed by name, kind, and file path. Every lookup is
// O(1) average and returns matches in their original insertion order.
//
// # Basic Usage
//
//	idx := index.New()
//	idx.Insert(types.NewClassStub("Foo", loc, false))
//
//	for _, stub := range idx.ByName("Foo") {
//	    fmt.Println(stub)
//	}
//
// # Filtered Queries
//
// Query applies a conjunctive filter: every supplied predicate must hold.
//
//	hits := idx.Query(index.Filter{
//	    Kind:         types.KindFunction,
//	    FileContains: "util",
//	})
//
// An empty Filter matches every stub. Lookup misses return empty slices,
// never errors.
//
// # Concurrency
//
// The index is not synchronized. Concurrent writers (or a writer racing
// readers) must supply external mutual exclusion.
package index
