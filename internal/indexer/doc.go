// Package indexer coordinates the indexing pipeline for a project tree.
//
// The pipeline has three stages:
//
//  1. Discover: walk the project root collecting source files by extension,
//     skipping hidden directories and (optionally) test files.
//  2. Scan: extract stubs from each file concurrently with a bounded worker
//     pool.
//  3. Assemble: insert stubs into one in-memory index and build one tree per
//     file, in discovery order, so results are deterministic.
//
// When constructed with a storage backend the indexer also persists the run
// inside a single transaction, replacing each re-scanned file's stubs.
//
//	idx := indexer.New(nil) // in-memory only
//	result, err := idx.IndexProject(ctx, "/path/to/project", nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("indexed %d stubs from %d files\n",
//	    result.Stats.StubsExtracted, result.Stats.FilesScanned)
package indexer
