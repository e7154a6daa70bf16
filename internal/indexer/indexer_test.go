package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stubindex-mcp/internal/scanner"
	"github.com/dshills/stubindex-mcp/internal/storage"
	"github.com/dshills/stubindex-mcp/internal/tree"
	"github.com/dshills/stubindex-mcp/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "widget.cpp", "class Widget {\n};\nvoid draw();\n")
	writeFile(t, dir, "src/util.h", "int helper(int x);\n")
	writeFile(t, dir, "README.md", "not source\n")
	writeFile(t, dir, ".git/config.cpp", "class Hidden {\n};\n")
	writeFile(t, dir, "util_test.cpp", "void testHelper();\n")
	return dir
}

func TestIndexProject(t *testing.T) {
	dir := setupProject(t)

	result, err := New(nil).IndexProject(context.Background(), dir, nil)
	require.NoError(t, err)

	// widget.cpp, src/util.h, util_test.cpp (tests included by default)
	assert.Equal(t, 3, result.Stats.FilesScanned)
	assert.Equal(t, 0, result.Stats.FilesFailed)
	assert.Equal(t, 4, result.Stats.StubsExtracted)
	assert.Greater(t, result.Stats.Duration.Nanoseconds(), int64(0))

	// Hidden directories and non-source files are never indexed.
	assert.Empty(t, result.Index.ByName("Hidden"))

	widgets := result.Index.ByName("Widget")
	require.Len(t, widgets, 1)
	assert.Equal(t, types.KindClass, widgets[0].Kind)

	helpers := result.Index.ByName("helper")
	require.Len(t, helpers, 1)
	assert.Equal(t, "int", helpers[0].ReturnType)
}

func TestIndexProject_ExcludesTests(t *testing.T) {
	dir := setupProject(t)

	cfg := &Config{IncludeTests: false}
	result, err := New(nil).IndexProject(context.Background(), dir, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesScanned)
	assert.Empty(t, result.Index.ByName("testHelper"))
}

func TestIndexProject_BuildsTreePerFile(t *testing.T) {
	dir := setupProject(t)

	result, err := New(nil).IndexProject(context.Background(), dir, nil)
	require.NoError(t, err)

	root, ok := result.Trees["widget.cpp"]
	require.True(t, ok)
	assert.Equal(t, tree.KindFile, root.Kind)
	assert.Equal(t, 2, root.ChildCount()) // Widget + draw
	assert.NotNil(t, tree.FindFirstByName(root, "Widget"))

	utilRoot, ok := result.Trees[filepath.Join("src", "util.h")]
	require.True(t, ok)
	assert.NotNil(t, tree.FindFirstByName(utilRoot, "helper"))
}

func TestIndexProject_Deterministic(t *testing.T) {
	dir := setupProject(t)

	first, err := New(nil).IndexProject(context.Background(), dir, &Config{Workers: 4})
	require.NoError(t, err)
	second, err := New(nil).IndexProject(context.Background(), dir, &Config{Workers: 1})
	require.NoError(t, err)

	require.Equal(t, first.Index.Size(), second.Index.Size())
	a := first.Index.All()
	b := second.Index.All()
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Location.File, b[i].Location.File)
	}
}

func TestIndexProject_EmptyDir(t *testing.T) {
	result, err := New(nil).IndexProject(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stats.FilesScanned)
	assert.True(t, result.Index.IsEmpty())
	assert.Empty(t, result.Trees)
}

func TestIndexProject_CustomScanner(t *testing.T) {
	dir := setupProject(t)

	idx := New(nil)
	s := scanner.New()
	s.SetScanClasses(false)
	s.SetScanFunctions(false)
	idx.SetScanner(s)

	result, err := idx.IndexProject(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Index.ByKind(types.KindClass))
}

func TestIndexProject_Persists(t *testing.T) {
	dir := setupProject(t)
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "idx.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	result, err := New(store).IndexProject(ctx, dir, nil)
	require.NoError(t, err)

	project, err := store.GetProject(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, project.TotalFiles)
	assert.Equal(t, result.Stats.StubsExtracted, project.TotalStubs)

	files, err := store.ListSourceFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Stubs round-trip through the database.
	file, err := store.GetSourceFile(ctx, project.ID, "widget.cpp")
	require.NoError(t, err)
	records, err := store.ListStubsByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestIndexProject_ReindexReplacesStubs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.cpp", "class First {\n};\n")
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "idx.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = New(store).IndexProject(ctx, dir, nil)
	require.NoError(t, err)

	// Rewrite the file and index again; the old stub must be gone.
	require.NoError(t, os.WriteFile(path, []byte("class Second {\n};\n"), 0o644))
	_, err = New(store).IndexProject(ctx, dir, nil)
	require.NoError(t, err)

	project, err := store.GetProject(ctx, dir)
	require.NoError(t, err)
	file, err := store.GetSourceFile(ctx, project.ID, "a.cpp")
	require.NoError(t, err)

	records, err := store.ListStubsByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Second", records[0].Name)
}
