package index

import (
	"strings"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

// Index is a flat store of stubs with three auxiliary lookup maps
// (by name, by kind, by file path). Lookups return stubs in insertion order.
type Index struct {
	byName map[string][]*types.Stub
	byKind map[types.StubKind][]*types.Stub
	byFile map[string][]*types.Stub
	all    []*types.Stub
}

// Filter selects stubs by the conjunction (logical AND) of its non-zero
// fields: exact kind, exact name, and file-path substring.
type Filter struct {
	Kind         types.StubKind // Exact kind match; empty matches any kind
	Name         string         // Exact name match; empty matches any name
	FileContains string         // Substring of the file path; empty matches any file
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		byName: make(map[string][]*types.Stub),
		byKind: make(map[types.StubKind][]*types.Stub),
		byFile: make(map[string][]*types.Stub),
	}
}

// Insert adds a stub to the flat list and all three lookup maps.
// Nil stubs and stubs without a name are silently dropped.
func (idx *Index) Insert(stub *types.Stub) {
	if stub == nil || stub.Name == "" {
		return
	}

	idx.all = append(idx.all, stub)
	idx.byName[stub.Name] = append(idx.byName[stub.Name], stub)
	idx.byKind[stub.Kind] = append(idx.byKind[stub.Kind], stub)
	idx.byFile[stub.Location.File] = append(idx.byFile[stub.Location.File], stub)
}

// InsertAll inserts a batch of stubs in order.
func (idx *Index) InsertAll(stubs []*types.Stub) {
	for _, stub := range stubs {
		idx.Insert(stub)
	}
}

// ByName returns all stubs with the exact name, in insertion order.
func (idx *Index) ByName(name string) []*types.Stub {
	return idx.byName[name]
}

// ByKind returns all stubs of the exact kind, in insertion order.
func (idx *Index) ByKind(kind types.StubKind) []*types.Stub {
	return idx.byKind[kind]
}

// ByFile returns all stubs whose location file matches path exactly,
// in insertion order.
func (idx *Index) ByFile(path string) []*types.Stub {
	return idx.byFile[path]
}

// All returns every stub in insertion order.
func (idx *Index) All() []*types.Stub {
	return idx.all
}

// Query returns the stubs matching every predicate supplied in the filter.
// An empty filter returns all stubs. The scan starts from the narrowest
// available map (name, then kind, then file) but the result is always the
// full conjunction.
func (idx *Index) Query(f Filter) []*types.Stub {
	candidates := idx.all
	switch {
	case f.Name != "":
		candidates = idx.byName[f.Name]
	case f.Kind != "":
		candidates = idx.byKind[f.Kind]
	}

	result := make([]*types.Stub, 0, len(candidates))
	for _, stub := range candidates {
		if !f.matches(stub) {
			continue
		}
		result = append(result, stub)
	}
	return result
}

// matches reports whether the stub satisfies every supplied predicate.
func (f Filter) matches(stub *types.Stub) bool {
	if f.Kind != "" && stub.Kind != f.Kind {
		return false
	}
	if f.Name != "" && stub.Name != f.Name {
		return false
	}
	if f.FileContains != "" && !strings.Contains(stub.Location.File, f.FileContains) {
		return false
	}
	return true
}

// Size returns the number of indexed stubs.
func (idx *Index) Size() int {
	return len(idx.all)
}

// IsEmpty reports whether the index holds no stubs.
func (idx *Index) IsEmpty() bool {
	return len(idx.all) == 0
}

// Clear drops every stub and all lookup maps.
func (idx *Index) Clear() {
	idx.byName = make(map[string][]*types.Stub)
	idx.byKind = make(map[types.StubKind][]*types.Stub)
	idx.byFile = make(map[string][]*types.Stub)
	idx.all = nil
}
