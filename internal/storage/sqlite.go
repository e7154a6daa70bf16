package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Project operations

func (s *SQLiteStorage) createProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		INSERT INTO projects (root_path, index_version, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query, project.RootPath, project.IndexVersion, now, now)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	return s.createProjectWithQuerier(ctx, s.querier(), project)
}

func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, rootPath string) (*Project, error) {
	query := `
		SELECT id, root_path, total_files, total_stubs, index_version,
		       last_indexed_at, created_at, updated_at
		FROM projects
		WHERE root_path = ?
	`
	return scanProject(q.QueryRowContext(ctx, query, rootPath))
}

func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.querier(), rootPath)
}

func (s *SQLiteStorage) getProjectByIDWithQuerier(ctx context.Context, q querier, projectID int64) (*Project, error) {
	query := `
		SELECT id, root_path, total_files, total_stubs, index_version,
		       last_indexed_at, created_at, updated_at
		FROM projects
		WHERE id = ?
	`
	return scanProject(q.QueryRowContext(ctx, query, projectID))
}

func (s *SQLiteStorage) GetProjectByID(ctx context.Context, projectID int64) (*Project, error) {
	return s.getProjectByIDWithQuerier(ctx, s.querier(), projectID)
}

func scanProject(row *sql.Row) (*Project, error) {
	var project Project
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&project.ID, &project.RootPath, &project.TotalFiles, &project.TotalStubs,
		&project.IndexVersion, &lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

func (s *SQLiteStorage) updateProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		UPDATE projects
		SET total_files = ?, total_stubs = ?, last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		project.TotalFiles, project.TotalStubs, project.LastIndexedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	return s.updateProjectWithQuerier(ctx, s.querier(), project)
}

// Source file operations

func (s *SQLiteStorage) upsertSourceFileWithQuerier(ctx context.Context, q querier, file *SourceFile) error {
	query := `
		INSERT INTO source_files (project_id, file_path, content_hash, mod_time, size_bytes, scan_error, last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			scan_error = excluded.scan_error,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		file.ProjectID, file.FilePath, file.ContentHash[:],
		file.ModTime, file.SizeBytes, file.ScanError, now, now, now).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert source file: %w", err)
	}

	file.LastIndexedAt = now
	file.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertSourceFile(ctx context.Context, file *SourceFile) error {
	return s.upsertSourceFileWithQuerier(ctx, s.querier(), file)
}

func (s *SQLiteStorage) getSourceFileWithQuerier(ctx context.Context, q querier, projectID int64, filePath string) (*SourceFile, error) {
	query := `
		SELECT id, project_id, file_path, content_hash, mod_time, size_bytes,
		       scan_error, last_indexed_at, created_at, updated_at
		FROM source_files
		WHERE project_id = ? AND file_path = ?
	`
	var file SourceFile
	var hash []byte
	var scanError sql.NullString
	err := q.QueryRowContext(ctx, query, projectID, filePath).Scan(
		&file.ID, &file.ProjectID, &file.FilePath, &hash, &file.ModTime,
		&file.SizeBytes, &scanError, &file.LastIndexedAt, &file.CreatedAt, &file.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(file.ContentHash[:], hash)
	if scanError.Valid {
		file.ScanError = &scanError.String
	}
	return &file, nil
}

func (s *SQLiteStorage) GetSourceFile(ctx context.Context, projectID int64, filePath string) (*SourceFile, error) {
	return s.getSourceFileWithQuerier(ctx, s.querier(), projectID, filePath)
}

func (s *SQLiteStorage) listSourceFilesWithQuerier(ctx context.Context, q querier, projectID int64) ([]*SourceFile, error) {
	query := `
		SELECT id, project_id, file_path, content_hash, mod_time, size_bytes,
		       scan_error, last_indexed_at, created_at, updated_at
		FROM source_files
		WHERE project_id = ?
		ORDER BY file_path
	`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	files := make([]*SourceFile, 0)
	for rows.Next() {
		var file SourceFile
		var hash []byte
		var scanError sql.NullString

		err := rows.Scan(
			&file.ID, &file.ProjectID, &file.FilePath, &hash, &file.ModTime,
			&file.SizeBytes, &scanError, &file.LastIndexedAt, &file.CreatedAt, &file.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		copy(file.ContentHash[:], hash)
		if scanError.Valid {
			file.ScanError = &scanError.String
		}

		files = append(files, &file)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListSourceFiles(ctx context.Context, projectID int64) ([]*SourceFile, error) {
	return s.listSourceFilesWithQuerier(ctx, s.querier(), projectID)
}

func (s *SQLiteStorage) deleteSourceFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	query := `DELETE FROM source_files WHERE id = ?`
	_, err := q.ExecContext(ctx, query, fileID)
	return err
}

func (s *SQLiteStorage) DeleteSourceFile(ctx context.Context, fileID int64) error {
	return s.deleteSourceFileWithQuerier(ctx, s.querier(), fileID)
}

// Stub operations

const stubColumns = `id, file_id, name, kind, line, col, is_struct, return_type, params, var_type, is_const, is_static, created_at`

func (s *SQLiteStorage) upsertStubWithQuerier(ctx context.Context, q querier, stub *StubRecord) error {
	// Atomic INSERT ... ON CONFLICT to avoid race conditions
	query := `
		INSERT INTO stubs (
			file_id, name, kind, line, col, is_struct,
			return_type, params, var_type, is_const, is_static, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, name, kind, line)
		DO UPDATE SET
			col = excluded.col,
			is_struct = excluded.is_struct,
			return_type = excluded.return_type,
			params = excluded.params,
			var_type = excluded.var_type,
			is_const = excluded.is_const,
			is_static = excluded.is_static
		RETURNING id, created_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		stub.FileID, stub.Name, stub.Kind, stub.Line, stub.Column, stub.IsStruct,
		stub.ReturnType, stub.Params, stub.VarType, stub.IsConst, stub.IsStatic, now,
	).Scan(&stub.ID, &stub.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert stub: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertStub(ctx context.Context, stub *StubRecord) error {
	return s.upsertStubWithQuerier(ctx, s.querier(), stub)
}

func scanStubRows(rows *sql.Rows) ([]*StubRecord, error) {
	stubs := make([]*StubRecord, 0)
	for rows.Next() {
		var stub StubRecord
		err := rows.Scan(
			&stub.ID, &stub.FileID, &stub.Name, &stub.Kind, &stub.Line, &stub.Column,
			&stub.IsStruct, &stub.ReturnType, &stub.Params, &stub.VarType,
			&stub.IsConst, &stub.IsStatic, &stub.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		stubs = append(stubs, &stub)
	}
	return stubs, rows.Err()
}

func (s *SQLiteStorage) listStubsByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*StubRecord, error) {
	query := `
		SELECT ` + stubColumns + `
		FROM stubs
		WHERE file_id = ?
		ORDER BY line, id
	`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanStubRows(rows)
}

func (s *SQLiteStorage) ListStubsByFile(ctx context.Context, fileID int64) ([]*StubRecord, error) {
	return s.listStubsByFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) deleteStubsByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	query := `DELETE FROM stubs WHERE file_id = ?`
	_, err := q.ExecContext(ctx, query, fileID)
	return err
}

func (s *SQLiteStorage) DeleteStubsByFile(ctx context.Context, fileID int64) error {
	return s.deleteStubsByFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) searchStubsWithQuerier(ctx context.Context, q querier, projectID int64, namePattern string, limit int) ([]*StubRecord, error) {
	query := `
		SELECT s.id, s.file_id, s.name, s.kind, s.line, s.col, s.is_struct,
		       s.return_type, s.params, s.var_type, s.is_const, s.is_static, s.created_at
		FROM stubs s
		JOIN source_files f ON s.file_id = f.id
		WHERE f.project_id = ? AND s.name LIKE ?
		ORDER BY s.name, s.line
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, projectID, namePattern, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanStubRows(rows)
}

func (s *SQLiteStorage) SearchStubs(ctx context.Context, projectID int64, namePattern string, limit int) ([]*StubRecord, error) {
	return s.searchStubsWithQuerier(ctx, s.querier(), projectID, namePattern, limit)
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	status := &ProjectStatus{
		Project:       project,
		LastIndexedAt: project.LastIndexedAt,
	}

	var fileCount int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM source_files WHERE project_id = ?", projectID).Scan(&fileCount)
	if err != nil {
		return nil, err
	}
	status.FilesCount = fileCount

	var stubCount int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM stubs s
		JOIN source_files f ON s.file_id = f.id
		WHERE f.project_id = ?
	`, projectID).Scan(&stubCount)
	if err != nil {
		return nil, err
	}
	status.StubsCount = stubCount

	// Calculate database size
	var pageCount, pageSize int
	err = s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Health = HealthStatus{
		DatabaseAccessible: true,
		SchemaCurrent:      project.IndexVersion == CurrentSchemaVersion,
	}

	return status, nil
}

// Transaction implementations delegate to the internal helpers that accept a
// querier, so every statement runs inside the transaction.

func (t *sqliteTx) CreateProject(ctx context.Context, project *Project) error {
	return t.storage.createProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) GetProjectByID(ctx context.Context, projectID int64) (*Project, error) {
	return t.storage.getProjectByIDWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) UpdateProject(ctx context.Context, project *Project) error {
	return t.storage.updateProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) UpsertSourceFile(ctx context.Context, file *SourceFile) error {
	return t.storage.upsertSourceFileWithQuerier(ctx, t.querier(), file)
}

func (t *sqliteTx) GetSourceFile(ctx context.Context, projectID int64, filePath string) (*SourceFile, error) {
	return t.storage.getSourceFileWithQuerier(ctx, t.querier(), projectID, filePath)
}

func (t *sqliteTx) ListSourceFiles(ctx context.Context, projectID int64) ([]*SourceFile, error) {
	return t.storage.listSourceFilesWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) DeleteSourceFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteSourceFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) UpsertStub(ctx context.Context, stub *StubRecord) error {
	return t.storage.upsertStubWithQuerier(ctx, t.querier(), stub)
}

func (t *sqliteTx) ListStubsByFile(ctx context.Context, fileID int64) ([]*StubRecord, error) {
	return t.storage.listStubsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) DeleteStubsByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteStubsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) SearchStubs(ctx context.Context, projectID int64, namePattern string, limit int) ([]*StubRecord, error) {
	return t.storage.searchStubsWithQuerier(ctx, t.querier(), projectID, namePattern, limit)
}

func (t *sqliteTx) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return t.storage.GetStatus(ctx, projectID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
