package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

func classAt(name, file string, line int) *types.Stub {
	return types.NewClassStub(name, types.NewLocation(file, line, 1), false)
}

func funcAt(name, file string, line int) *types.Stub {
	return types.NewFunctionStub(name, types.NewLocation(file, line, 1), "int")
}

func varAt(name, file string, line int) *types.Stub {
	return types.NewVariableStub(name, types.NewLocation(file, line, 1), "int", false, false)
}

func TestNew(t *testing.T) {
	idx := New()
	assert.NotNil(t, idx)
	assert.True(t, idx.IsEmpty())
	assert.Equal(t, 0, idx.Size())
}

func TestInsert_AppearsInAllMappings(t *testing.T) {
	idx := New()
	stub := classAt("Foo", "foo.h", 3)
	idx.Insert(stub)

	require.Equal(t, 1, idx.Size())
	assert.Equal(t, []*types.Stub{stub}, idx.ByName("Foo"))
	assert.Equal(t, []*types.Stub{stub}, idx.ByKind(types.KindClass))
	assert.Equal(t, []*types.Stub{stub}, idx.ByFile("foo.h"))
	assert.Equal(t, []*types.Stub{stub}, idx.All())
}

func TestInsert_ExactlyOncePerMapping(t *testing.T) {
	idx := New()
	stubs := []*types.Stub{
		classAt("Foo", "a.cpp", 1),
		funcAt("bar", "a.cpp", 5),
		varAt("count", "b.cpp", 2),
	}
	idx.InsertAll(stubs)

	for _, stub := range stubs {
		assert.Len(t, stubsEqualTo(idx.ByName(stub.Name), stub), 1)
		assert.Len(t, stubsEqualTo(idx.ByKind(stub.Kind), stub), 1)
		assert.Len(t, stubsEqualTo(idx.ByFile(stub.Location.File), stub), 1)
	}
	assert.Equal(t, 3, idx.Size())
}

func stubsEqualTo(stubs []*types.Stub, want *types.Stub) []*types.Stub {
	var out []*types.Stub
	for _, s := range stubs {
		if s == want {
			out = append(out, s)
		}
	}
	return out
}

func TestInsert_RejectsNilAndUnnamed(t *testing.T) {
	idx := New()
	idx.Insert(nil)
	idx.Insert(&types.Stub{Kind: types.KindClass, Name: ""})

	assert.True(t, idx.IsEmpty())
	assert.Equal(t, 0, idx.Size())
}

func TestByName_MissReturnsEmpty(t *testing.T) {
	idx := New()
	assert.Empty(t, idx.ByName("missing"))
	assert.Empty(t, idx.ByKind(types.KindEnum))
	assert.Empty(t, idx.ByFile("nope.cpp"))
}

func TestInsertionOrderPreserved(t *testing.T) {
	idx := New()
	first := funcAt("handle", "a.cpp", 1)
	second := funcAt("handle", "b.cpp", 9)
	third := funcAt("handle", "a.cpp", 20)
	idx.InsertAll([]*types.Stub{first, second, third})

	assert.Equal(t, []*types.Stub{first, second, third}, idx.ByName("handle"))
	assert.Equal(t, []*types.Stub{first, third}, idx.ByFile("a.cpp"))
}

func TestQuery_EmptyFilterReturnsAllInOrder(t *testing.T) {
	idx := New()
	stubs := []*types.Stub{
		classAt("A", "x.cpp", 1),
		funcAt("b", "y.cpp", 2),
		varAt("c", "z.cpp", 3),
	}
	idx.InsertAll(stubs)

	assert.Equal(t, stubs, idx.Query(Filter{}))
}

func TestQuery_EmptyIndex(t *testing.T) {
	idx := New()
	assert.Empty(t, idx.Query(Filter{}))
	assert.Empty(t, idx.Query(Filter{Name: "Foo"}))
}

func TestQuery_Conjunctive(t *testing.T) {
	idx := New()
	clsA := classAt("Widget", "ui/widget.h", 1)
	fnA := funcAt("Widget", "ui/widget.cpp", 10) // same name, different kind
	fnB := funcAt("draw", "ui/widget.cpp", 20)
	fnC := funcAt("draw", "core/render.cpp", 5)
	idx.InsertAll([]*types.Stub{clsA, fnA, fnB, fnC})

	// Name + kind must both hold.
	assert.Equal(t, []*types.Stub{fnA}, idx.Query(Filter{Name: "Widget", Kind: types.KindFunction}))

	// Kind + file substring must both hold.
	assert.Equal(t, []*types.Stub{fnA, fnB}, idx.Query(Filter{Kind: types.KindFunction, FileContains: "ui/"}))

	// All three predicates.
	assert.Equal(t, []*types.Stub{fnB},
		idx.Query(Filter{Name: "draw", Kind: types.KindFunction, FileContains: "widget"}))

	// Conjunction with no survivors is empty, not an error.
	assert.Empty(t, idx.Query(Filter{Name: "Widget", Kind: types.KindVariable}))
}

func TestQuery_FileSubstringOnly(t *testing.T) {
	idx := New()
	fnA := funcAt("a", "src/main.cpp", 1)
	fnB := funcAt("b", "src/util.cpp", 2)
	fnC := funcAt("c", "include/util.h", 3)
	idx.InsertAll([]*types.Stub{fnA, fnB, fnC})

	assert.Equal(t, []*types.Stub{fnB, fnC}, idx.Query(Filter{FileContains: "util"}))
}

func TestClear(t *testing.T) {
	idx := New()
	idx.Insert(classAt("Foo", "foo.h", 1))
	require.False(t, idx.IsEmpty())

	idx.Clear()
	assert.True(t, idx.IsEmpty())
	assert.Empty(t, idx.ByName("Foo"))
	assert.Empty(t, idx.Query(Filter{}))
}
