package tree

import (
	"github.com/dshills/stubindex-mcp/pkg/types"
)

// SemanticStubID is the semantic-info key stamped on every built node. Its
// value is the originating stub's name, so callers can cross-reference tree
// nodes back to index entries.
const SemanticStubID = "stub_id"

// Builder turns a sequence of stubs into a file-rooted node hierarchy.
//
// The builder is intentionally not scope-aware: classes, functions, and
// variables all become direct children of the File root, in three phases
// (classes, then functions, then variables). A method therefore appears as a
// sibling of its class, not inside it.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildFromStubs creates a File root for filePath and appends one child per
// class, function, and variable stub. An empty stub list yields a childless
// root. Nil stubs are skipped.
func (b *Builder) BuildFromStubs(filePath string, stubs []*types.Stub) *Node {
	root := NewFileNode(filePath, "")

	b.buildPhase(root, stubs, types.KindClass)
	b.buildPhase(root, stubs, types.KindFunction)
	b.buildPhase(root, stubs, types.KindVariable)

	return root
}

// BuildFromScan builds a tree from a scan result, preserving the file content
// on the root node.
func (b *Builder) BuildFromScan(filePath, content string, result *types.ScanResult) *Node {
	root := NewFileNode(filePath, content)
	if result == nil {
		return root
	}

	b.buildPhase(root, result.Stubs, types.KindClass)
	b.buildPhase(root, result.Stubs, types.KindFunction)
	b.buildPhase(root, result.Stubs, types.KindVariable)

	return root
}

// buildPhase appends a node for every stub of the given kind, in input order.
func (b *Builder) buildPhase(root *Node, stubs []*types.Stub, kind types.StubKind) {
	for _, stub := range stubs {
		if stub == nil || stub.Kind != kind {
			continue
		}
		switch kind {
		case types.KindClass:
			root.AddChild(b.classNode(stub))
		case types.KindFunction:
			root.AddChild(b.functionNode(stub))
		case types.KindVariable:
			root.AddChild(b.variableNode(stub))
		}
	}
}

func (b *Builder) classNode(stub *types.Stub) *Node {
	n := NewClassNode(stub.Name, stub.Location, stub.IsStruct)
	n.SetSemanticInfo(SemanticStubID, stub.Name)
	return n
}

func (b *Builder) functionNode(stub *types.Stub) *Node {
	n := NewFunctionNode(stub.Name, stub.Location, stub.ReturnType)
	n.Function.Params = append(n.Function.Params, stub.Params...)
	n.SetSemanticInfo(SemanticStubID, stub.Name)
	return n
}

func (b *Builder) variableNode(stub *types.Stub) *Node {
	n := NewVariableNode(stub.Name, stub.Location, stub.VarType)
	n.Variable.IsConst = stub.IsConst
	n.Variable.IsStatic = stub.IsStatic
	n.SetSemanticInfo(SemanticStubID, stub.Name)
	return n
}
