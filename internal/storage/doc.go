// Package storage provides SQLite-based persistence for indexed stub data.
//
// The storage layer is a server-side supplement: the in-memory index and
// tree never touch disk, but the MCP server records each indexed project
// here so its stubs and statistics survive restarts.
//
// # Database Schema
//
// Tables:
//   - projects: project metadata (root path, totals, index version)
//   - source_files: file paths, SHA-256 hashes, scan errors
//   - stubs: extracted declarations with kind-specific attributes
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.stubindex/project.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	rec := storage.FromTypesStub(stub, fileID)
//	if err := db.UpsertStub(ctx, rec); err != nil {
//	    return err
//	}
//
// # Transactions
//
// Use transactions for atomic multi-file updates:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.UpsertSourceFile(ctx, file)
//	tx.UpsertStub(ctx, rec)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Build Tags
//
// Two build configurations are supported:
//
// CGO build (sqlite_cgo tag), using github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
//
// Pure Go build (default), using modernc.org/sqlite:
//
//	CGO_ENABLED=0 go build ./...
package storage
