package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

func stubsOfKind(result *types.ScanResult, kind types.StubKind) []*types.Stub {
	var out []*types.Stub
	for _, s := range result.Stubs {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func findStub(result *types.ScanResult, name string) *types.Stub {
	for _, s := range result.Stubs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func TestScanSource_Classes(t *testing.T) {
	code := `class Widget {
};

struct Point {
};
`
	result := New().ScanSource("t.cpp", code)

	classes := stubsOfKind(result, types.KindClass)
	require.Len(t, classes, 2)

	widget := classes[0]
	assert.Equal(t, "Widget", widget.Name)
	assert.False(t, widget.IsStruct)
	assert.Equal(t, 1, widget.Location.Line)
	assert.Equal(t, "t.cpp", widget.Location.File)

	point := classes[1]
	assert.Equal(t, "Point", point.Name)
	assert.True(t, point.IsStruct)
	assert.Equal(t, 4, point.Location.Line)
}

func TestScanSource_ClassWithInheritance(t *testing.T) {
	code := "class Derived : public Base {\n};\n"
	result := New().ScanSource("t.cpp", code)

	classes := stubsOfKind(result, types.KindClass)
	require.Len(t, classes, 1)
	assert.Equal(t, "Derived", classes[0].Name)
}

func TestScanSource_Functions(t *testing.T) {
	code := `void draw();
int resize(int w, int h);
`
	result := New().ScanSource("t.cpp", code)

	fns := stubsOfKind(result, types.KindFunction)
	require.Len(t, fns, 2)

	draw := fns[0]
	assert.Equal(t, "draw", draw.Name)
	assert.Equal(t, "void", draw.ReturnType)
	assert.Empty(t, draw.Params)
	assert.Equal(t, 1, draw.Location.Line)

	resize := fns[1]
	assert.Equal(t, "resize", resize.Name)
	assert.Equal(t, "int", resize.ReturnType)
	require.Len(t, resize.Params, 2)
	assert.Equal(t, types.Param{Type: "int", Name: "w"}, resize.Params[0])
	assert.Equal(t, types.Param{Type: "int", Name: "h"}, resize.Params[1])
	assert.Equal(t, 2, resize.Location.Line)
}

func TestScanSource_FunctionWithQualifiers(t *testing.T) {
	code := "int size() const;\n"
	result := New().ScanSource("t.cpp", code)

	fns := stubsOfKind(result, types.KindFunction)
	require.Len(t, fns, 1)
	assert.Equal(t, "size", fns[0].Name)
}

func TestScanSource_UnnamedParamGetsPlaceholder(t *testing.T) {
	code := "void apply(int);\n"
	result := New().ScanSource("t.cpp", code)

	fns := stubsOfKind(result, types.KindFunction)
	require.Len(t, fns, 1)
	require.Len(t, fns[0].Params, 1)
	assert.Equal(t, types.Param{Type: "int", Name: "param"}, fns[0].Params[0])
}

func TestScanSource_SkipsControlFlowAsFunction(t *testing.T) {
	// A return statement that shapes like a call must not become a function.
	code := "x return foo(y);\n"
	result := New().ScanSource("t.cpp", code)

	assert.Empty(t, stubsOfKind(result, types.KindFunction))
}

func TestScanSource_Variables(t *testing.T) {
	code := `int counter = 0;
const static double ratio = 0;
static int hits;
`
	result := New().ScanSource("t.cpp", code)

	counter := findStub(result, "counter")
	require.NotNil(t, counter)
	assert.Equal(t, types.KindVariable, counter.Kind)
	assert.Equal(t, "int", counter.VarType)
	assert.False(t, counter.IsConst)
	assert.False(t, counter.IsStatic)

	ratio := findStub(result, "ratio")
	require.NotNil(t, ratio)
	assert.Equal(t, "double", ratio.VarType)
	assert.True(t, ratio.IsConst)
	assert.True(t, ratio.IsStatic)
	assert.Equal(t, 2, ratio.Location.Line)

	hits := findStub(result, "hits")
	require.NotNil(t, hits)
	assert.True(t, hits.IsStatic)
	assert.False(t, hits.IsConst)
}

func TestScanSource_MemberVariablesInsideClass(t *testing.T) {
	code := `class Widget {
    int width;
    int height;
};
`
	result := New().ScanSource("t.cpp", code)

	vars := stubsOfKind(result, types.KindVariable)
	require.Len(t, vars, 2)
	assert.Equal(t, "width", vars[0].Name)
	assert.Equal(t, "height", vars[1].Name)
}

func TestScanSource_Toggles(t *testing.T) {
	code := `class Widget {
    int width;
};
void draw();
`
	s := New()
	s.SetScanFunctions(false)
	s.SetScanVariables(false)
	result := s.ScanSource("t.cpp", code)

	assert.Len(t, stubsOfKind(result, types.KindClass), 1)
	assert.Empty(t, stubsOfKind(result, types.KindFunction))
	assert.Empty(t, stubsOfKind(result, types.KindVariable))

	s.SetScanClasses(false)
	assert.Empty(t, s.ScanSource("t.cpp", code).Stubs)
}

func TestScanSource_Empty(t *testing.T) {
	result := New().ScanSource("t.cpp", "")
	assert.Empty(t, result.Stubs)
	assert.False(t, result.HasErrors())
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.cpp")
	require.NoError(t, os.WriteFile(path, []byte("class Widget {\n};\n"), 0o644))

	result, err := New().ScanFile(path)
	require.NoError(t, err)
	require.Len(t, result.Stubs, 1)
	assert.Equal(t, path, result.Stubs[0].Location.File)
}

func TestScanFile_Missing(t *testing.T) {
	_, err := New().ScanFile(filepath.Join(t.TempDir(), "nope.cpp"))
	assert.Error(t, err)
}
