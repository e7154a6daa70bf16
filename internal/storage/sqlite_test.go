package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createTestProject(t *testing.T, s *SQLiteStorage, rootPath string) *Project {
	t.Helper()
	project := &Project{RootPath: rootPath, IndexVersion: CurrentSchemaVersion}
	require.NoError(t, s.CreateProject(context.Background(), project))
	require.NotZero(t, project.ID)
	return project
}

func createTestFile(t *testing.T, s *SQLiteStorage, projectID int64, path string) *SourceFile {
	t.Helper()
	file := &SourceFile{
		ProjectID:   projectID,
		FilePath:    path,
		ContentHash: [32]byte{1, 2, 3},
		ModTime:     time.Now(),
		SizeBytes:   128,
	}
	require.NoError(t, s.UpsertSourceFile(context.Background(), file))
	require.NotZero(t, file.ID)
	return file
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	project := createTestProject(t, s, "/tmp/demo")

	got, err := s.GetProject(ctx, "/tmp/demo")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.Equal(t, CurrentSchemaVersion, got.IndexVersion)

	byID, err := s.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/demo", byID.RootPath)

	project.TotalFiles = 3
	project.TotalStubs = 42
	project.LastIndexedAt = time.Now()
	require.NoError(t, s.UpdateProject(ctx, project))

	updated, err := s.GetProject(ctx, "/tmp/demo")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalFiles)
	assert.Equal(t, 42, updated.TotalStubs)
}

func TestGetProject_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetProject(context.Background(), "/does/not/exist")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetProjectByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSourceFileUpsert(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")

	file := createTestFile(t, s, project.ID, "src/widget.cpp")
	firstID := file.ID

	// Upserting the same path updates in place, same row.
	file.ContentHash = [32]byte{9, 9, 9}
	require.NoError(t, s.UpsertSourceFile(ctx, file))
	assert.Equal(t, firstID, file.ID)

	got, err := s.GetSourceFile(ctx, project.ID, "src/widget.cpp")
	require.NoError(t, err)
	assert.Equal(t, [32]byte{9, 9, 9}, got.ContentHash)
	assert.Nil(t, got.ScanError)
}

func TestListSourceFiles_OrderedByPath(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")

	createTestFile(t, s, project.ID, "src/b.cpp")
	createTestFile(t, s, project.ID, "src/a.cpp")

	files, err := s.ListSourceFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "src/a.cpp", files[0].FilePath)
	assert.Equal(t, "src/b.cpp", files[1].FilePath)
}

func TestStubRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")
	file := createTestFile(t, s, project.ID, "src/widget.cpp")

	stub := types.NewFunctionStub("resize", types.NewLocation("src/widget.cpp", 12, 1), "int")
	stub.AddParam("int", "w")
	stub.AddParam("int", "h")

	rec := FromTypesStub(stub, file.ID)
	require.NoError(t, s.UpsertStub(ctx, rec))
	require.NotZero(t, rec.ID)

	records, err := s.ListStubsByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	restored := records[0].ToTypesStub("src/widget.cpp")
	assert.Equal(t, types.KindFunction, restored.Kind)
	assert.Equal(t, "resize", restored.Name)
	assert.Equal(t, "int", restored.ReturnType)
	assert.Equal(t, 12, restored.Location.Line)
	require.Len(t, restored.Params, 2)
	assert.Equal(t, types.Param{Type: "int", Name: "w"}, restored.Params[0])
	assert.Equal(t, types.Param{Type: "int", Name: "h"}, restored.Params[1])
}

func TestUpsertStub_ConflictUpdates(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")
	file := createTestFile(t, s, project.ID, "src/v.cpp")

	stub := types.NewVariableStub("count", types.NewLocation("src/v.cpp", 3, 1), "int", false, false)
	rec := FromTypesStub(stub, file.ID)
	require.NoError(t, s.UpsertStub(ctx, rec))
	firstID := rec.ID

	// Same (file, name, kind, line), changed attributes.
	stub2 := types.NewVariableStub("count", types.NewLocation("src/v.cpp", 3, 1), "size_t", true, false)
	rec2 := FromTypesStub(stub2, file.ID)
	require.NoError(t, s.UpsertStub(ctx, rec2))
	assert.Equal(t, firstID, rec2.ID)

	records, err := s.ListStubsByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "size_t", records[0].VarType)
	assert.True(t, records[0].IsConst)
}

func TestDeleteStubsByFile(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")
	file := createTestFile(t, s, project.ID, "src/v.cpp")

	stub := types.NewClassStub("Widget", types.NewLocation("src/v.cpp", 1, 1), false)
	require.NoError(t, s.UpsertStub(ctx, FromTypesStub(stub, file.ID)))

	require.NoError(t, s.DeleteStubsByFile(ctx, file.ID))

	records, err := s.ListStubsByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchStubs(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")
	file := createTestFile(t, s, project.ID, "src/w.cpp")

	for i, name := range []string{"drawWidget", "drawPanel", "resize"} {
		stub := types.NewFunctionStub(name, types.NewLocation("src/w.cpp", i+1, 1), "void")
		require.NoError(t, s.UpsertStub(ctx, FromTypesStub(stub, file.ID)))
	}

	hits, err := s.SearchStubs(ctx, project.ID, "draw%", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "drawPanel", hits[0].Name)
	assert.Equal(t, "drawWidget", hits[1].Name)

	limited, err := s.SearchStubs(ctx, project.ID, "%", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetStatus(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")
	file := createTestFile(t, s, project.ID, "src/w.cpp")

	stub := types.NewClassStub("Widget", types.NewLocation("src/w.cpp", 1, 1), false)
	require.NoError(t, s.UpsertStub(ctx, FromTypesStub(stub, file.ID)))

	status, err := s.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.FilesCount)
	assert.Equal(t, 1, status.StubsCount)
	assert.True(t, status.Health.DatabaseAccessible)
	assert.True(t, status.Health.SchemaCurrent)
}

func TestTransaction_Commit(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)

	file := &SourceFile{ProjectID: project.ID, FilePath: "src/tx.cpp", ContentHash: [32]byte{7}}
	require.NoError(t, tx.UpsertSourceFile(ctx, file))

	stub := types.NewClassStub("TxClass", types.NewLocation("src/tx.cpp", 1, 1), false)
	require.NoError(t, tx.UpsertStub(ctx, FromTypesStub(stub, file.ID)))

	require.NoError(t, tx.Commit())

	records, err := s.ListStubsByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestTransaction_Rollback(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	project := createTestProject(t, s, "/tmp/demo")

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)

	file := &SourceFile{ProjectID: project.ID, FilePath: "src/rb.cpp", ContentHash: [32]byte{7}}
	require.NoError(t, tx.UpsertSourceFile(ctx, file))
	require.NoError(t, tx.Rollback())

	_, err = s.GetSourceFile(ctx, project.ID, "src/rb.cpp")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNestedTransactionRejected(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
}

func TestParamCodec(t *testing.T) {
	params := []types.Param{
		{Type: "int", Name: "w"},
		{Type: "const std::string&", Name: "name"},
	}
	encoded := encodeParams(params)
	assert.Equal(t, "int w, const std::string& name", encoded)
	assert.Equal(t, params, decodeParams(encoded))

	assert.Equal(t, "", encodeParams(nil))
	assert.Nil(t, decodeParams(""))
}
