package storage

import (
	"context"
	"strings"
	"time"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

// Storage defines the interface for persisting indexed stub data. It is used
// only by the server layer; the core index and tree stay in memory.
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	GetProjectByID(ctx context.Context, projectID int64) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// Source file operations
	UpsertSourceFile(ctx context.Context, file *SourceFile) error
	GetSourceFile(ctx context.Context, projectID int64, filePath string) (*SourceFile, error)
	ListSourceFiles(ctx context.Context, projectID int64) ([]*SourceFile, error)
	DeleteSourceFile(ctx context.Context, fileID int64) error

	// Stub operations
	UpsertStub(ctx context.Context, stub *StubRecord) error
	ListStubsByFile(ctx context.Context, fileID int64) ([]*StubRecord, error)
	DeleteStubsByFile(ctx context.Context, fileID int64) error
	SearchStubs(ctx context.Context, projectID int64, namePattern string, limit int) ([]*StubRecord, error)

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents an indexed codebase
type Project struct {
	ID            int64
	RootPath      string
	TotalFiles    int
	TotalStubs    int
	IndexVersion  string
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SourceFile represents a tracked source file
type SourceFile struct {
	ID            int64
	ProjectID     int64
	FilePath      string // Relative to project root
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	ScanError     *string // Nullable
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StubRecord is the persisted form of a types.Stub
type StubRecord struct {
	ID     int64
	FileID int64
	Name   string
	Kind   string
	Line   int
	Column int

	// Class attributes
	IsStruct bool

	// Function attributes
	ReturnType string
	Params     string // Rendered "type name" list, comma separated

	// Variable attributes
	VarType  string
	IsConst  bool
	IsStatic bool

	CreatedAt time.Time
}

// ProjectStatus contains statistics about an indexed project
type ProjectStatus struct {
	Project       *Project
	FilesCount    int
	StubsCount    int
	IndexSizeMB   float64
	LastIndexedAt time.Time
	Health        HealthStatus
}

// HealthStatus represents the health of the index database
type HealthStatus struct {
	DatabaseAccessible bool
	SchemaCurrent      bool
}

// FromTypesStub converts a types.Stub to its persisted form
func FromTypesStub(s *types.Stub, fileID int64) *StubRecord {
	return &StubRecord{
		FileID:     fileID,
		Name:       s.Name,
		Kind:       string(s.Kind),
		Line:       s.Location.Line,
		Column:     s.Location.Column,
		IsStruct:   s.IsStruct,
		ReturnType: s.ReturnType,
		Params:     encodeParams(s.Params),
		VarType:    s.VarType,
		IsConst:    s.IsConst,
		IsStatic:   s.IsStatic,
	}
}

// ToTypesStub converts a persisted record back to a types.Stub. filePath is
// the absolute or root-relative path the caller wants in the location.
func (r *StubRecord) ToTypesStub(filePath string) *types.Stub {
	return &types.Stub{
		Kind:       types.StubKind(r.Kind),
		Name:       r.Name,
		Location:   types.NewLocation(filePath, r.Line, r.Column),
		IsStruct:   r.IsStruct,
		ReturnType: r.ReturnType,
		Params:     decodeParams(r.Params),
		VarType:    r.VarType,
		IsConst:    r.IsConst,
		IsStatic:   r.IsStatic,
	}
}

// encodeParams renders parameters as "type name, type name". Default values
// are not persisted; the scanner never produces them.
func encodeParams(params []types.Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Type+" "+p.Name)
	}
	return strings.Join(parts, ", ")
}

// decodeParams reverses encodeParams, splitting each entry at the last space.
func decodeParams(encoded string) []types.Param {
	if encoded == "" {
		return nil
	}
	var params []types.Param
	for _, part := range strings.Split(encoded, ", ") {
		if part == "" {
			continue
		}
		if i := strings.LastIndex(part, " "); i >= 0 {
			params = append(params, types.Param{Type: part[:i], Name: part[i+1:]})
		} else {
			params = append(params, types.Param{Type: part})
		}
	}
	return params
}
