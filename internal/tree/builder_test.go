package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

func TestBuildFromStubs_Empty(t *testing.T) {
	b := NewBuilder()
	root := b.BuildFromStubs("empty.cpp", nil)

	require.NotNil(t, root)
	assert.Equal(t, KindFile, root.Kind)
	assert.Equal(t, 0, root.ChildCount())
	assert.Nil(t, root.Parent())
}

func TestBuildFromStubs_ClassAndFunction(t *testing.T) {
	cls := types.NewClassStub("Foo", types.NewLocation("t.cpp", 1, 1), false)
	fn := types.NewFunctionStub("bar", types.NewLocation("t.cpp", 5, 1), "int")
	fn.AddParam("int", "x")

	b := NewBuilder()
	root := b.BuildFromStubs("t.cpp", []*types.Stub{cls, fn})

	// Both are direct children of the root: the builder flattens scope.
	require.Equal(t, 2, root.ChildCount())
	for _, c := range root.Children() {
		assert.Same(t, root, c.Parent())
	}

	found := FindFirstByName(root, "bar")
	require.NotNil(t, found)
	assert.Equal(t, KindFunction, found.Kind)
	require.NotNil(t, found.Function)
	assert.Equal(t, "int", found.Function.ReturnType)
	require.Len(t, found.Function.Params, 1)
	assert.Equal(t, "x", found.Function.Params[0].Name)
	assert.Equal(t, "int", found.Function.Params[0].Type)
}

func TestBuildFromStubs_PhaseOrder(t *testing.T) {
	// Input order interleaves kinds; output groups classes, functions,
	// then variables.
	stubs := []*types.Stub{
		types.NewVariableStub("v", types.NewLocation("t.cpp", 2, 1), "int", false, false),
		types.NewFunctionStub("f", types.NewLocation("t.cpp", 4, 1), "void"),
		types.NewClassStub("C", types.NewLocation("t.cpp", 6, 1), false),
	}

	root := NewBuilder().BuildFromStubs("t.cpp", stubs)

	require.Equal(t, 3, root.ChildCount())
	assert.Equal(t, KindClass, root.Children()[0].Kind)
	assert.Equal(t, KindFunction, root.Children()[1].Kind)
	assert.Equal(t, KindVariable, root.Children()[2].Kind)
}

func TestBuildFromStubs_StampsStubID(t *testing.T) {
	stubs := []*types.Stub{
		types.NewClassStub("Widget", types.NewLocation("w.cpp", 1, 1), false),
		types.NewVariableStub("count", types.NewLocation("w.cpp", 3, 1), "int", true, true),
	}

	root := NewBuilder().BuildFromStubs("w.cpp", stubs)

	for _, c := range root.Children() {
		assert.Equal(t, c.Text, c.SemanticInfo(SemanticStubID))
	}
}

func TestBuildFromStubs_CopiesVariableAttrs(t *testing.T) {
	stub := types.NewVariableStub("limit", types.NewLocation("v.cpp", 2, 1), "size_t", true, true)
	root := NewBuilder().BuildFromStubs("v.cpp", []*types.Stub{stub})

	v := root.FirstChild()
	require.NotNil(t, v)
	require.NotNil(t, v.Variable)
	assert.Equal(t, "size_t", v.Variable.Type)
	assert.True(t, v.Variable.IsConst)
	assert.True(t, v.Variable.IsStatic)
}

func TestBuildFromStubs_SkipsUnhandledKinds(t *testing.T) {
	stubs := []*types.Stub{
		{Kind: types.KindEnum, Name: "Color", Location: types.NewLocation("e.cpp", 1, 1)},
		nil,
		types.NewClassStub("Kept", types.NewLocation("e.cpp", 3, 1), false),
	}

	root := NewBuilder().BuildFromStubs("e.cpp", stubs)

	require.Equal(t, 1, root.ChildCount())
	assert.Equal(t, "Kept", root.FirstChild().Text)
}

func TestBuildFromStubs_ValidTree(t *testing.T) {
	stubs := []*types.Stub{
		types.NewClassStub("A", types.NewLocation("t.cpp", 1, 1), false),
		types.NewFunctionStub("b", types.NewLocation("t.cpp", 2, 1), "int"),
		types.NewVariableStub("c", types.NewLocation("t.cpp", 3, 1), "int", false, false),
	}

	root := NewBuilder().BuildFromStubs("t.cpp", stubs)
	assert.Empty(t, Validate(root))
}

func TestBuildFromScan(t *testing.T) {
	result := &types.ScanResult{}
	result.AddStub(types.NewFunctionStub("main", types.NewLocation("m.cpp", 1, 1), "int"))

	root := NewBuilder().BuildFromScan("m.cpp", "int main() {}", result)

	require.NotNil(t, root.File)
	assert.Equal(t, "int main() {}", root.File.Content)
	assert.Equal(t, 1, root.ChildCount())
}
