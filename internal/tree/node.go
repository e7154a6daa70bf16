package tree

import (
	"fmt"
	"strings"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

// TextRange is a half-open [Start, End) span of byte offsets in the source.
type TextRange struct {
	Start int
	End   int
}

// Len returns the length of the range.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether the offset falls inside the range.
func (r TextRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// ClassInfo holds class-specific node attributes.
type ClassInfo struct {
	IsStruct   bool
	IsAbstract bool
}

// FunctionInfo holds function-specific node attributes.
type FunctionInfo struct {
	ReturnType string
	Params     []types.Param
	IsVirtual  bool
	IsStatic   bool
	IsConst    bool
	IsOverride bool
}

// VariableInfo holds variable-specific node attributes.
type VariableInfo struct {
	Type        string
	IsConst     bool
	IsStatic    bool
	IsMember    bool
	IsParameter bool
}

// FileInfo holds file-specific node attributes.
type FileInfo struct {
	Path    string
	Content string
}

// Node is one node in the hierarchical code-structure tree. A node owns its
// children exclusively; the parent link is a plain non-owning back-reference.
//
// Kind-specific payloads (Class, Function, Variable, File) are nil unless the
// node's kind calls for them.
type Node struct {
	Kind  NodeKind
	Text  string
	Loc   types.Location
	Range TextRange

	Class    *ClassInfo
	Function *FunctionInfo
	Variable *VariableInfo
	File     *FileInfo

	parent   *Node
	children []*Node
	semantic map[string]string
}

// NewNode creates a node of the given kind with no payload.
func NewNode(kind NodeKind, text string, loc types.Location) *Node {
	return &Node{Kind: kind, Text: text, Loc: loc}
}

// NewFileNode creates a File root node for the given source file.
func NewFileNode(path, content string) *Node {
	n := NewNode(KindFile, path, types.NewLocation(path, 1, 1))
	n.File = &FileInfo{Path: path, Content: content}
	n.Range = TextRange{Start: 0, End: len(content)}
	return n
}

// NewNamespaceNode creates a Namespace node.
func NewNamespaceNode(name string, loc types.Location) *Node {
	return NewNode(KindNamespace, name, loc)
}

// NewClassNode creates a Class node.
func NewClassNode(name string, loc types.Location, isStruct bool) *Node {
	n := NewNode(KindClass, name, loc)
	n.Class = &ClassInfo{IsStruct: isStruct}
	return n
}

// NewFunctionNode creates a Function node.
func NewFunctionNode(name string, loc types.Location, returnType string) *Node {
	n := NewNode(KindFunction, name, loc)
	n.Function = &FunctionInfo{ReturnType: returnType}
	return n
}

// NewVariableNode creates a Variable node.
func NewVariableNode(name string, loc types.Location, varType string) *Node {
	n := NewNode(KindVariable, name, loc)
	n.Variable = &VariableInfo{Type: varType}
	return n
}

// Parent returns the owning parent, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the ordered child list. The slice is the node's internal
// storage: callers must not append to or reorder it directly.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// AddChild appends child and transfers ownership to n. A child currently
// attached elsewhere is detached from its old parent first, so the tree
// invariant holds after every call. Nil children are ignored.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChildAt clears the parent link of the child at index and removes it
// from the list, returning the detached child. Out-of-range indexes return
// nil. The detached child may be re-attached elsewhere.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	child := n.children[index]
	child.parent = nil
	n.children = append(n.children[:index], n.children[index+1:]...)
	return child
}

// Detach removes n from its parent's child list, leaving n a standalone
// root. No-op for a node without a parent.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.detach(n)
	}
}

// detach removes child from n's list and clears its parent link.
func (n *Node) detach(child *Node) {
	for i, c := range n.children {
		if c == child {
			child.parent = nil
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// ClearChildren detaches every child.
func (n *Node) ClearChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// NextSibling returns the child after n in the parent's list, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}

// PrevSibling returns the child before n in the parent's list, or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n && i > 0 {
			return siblings[i-1]
		}
	}
	return nil
}

// FindChildren returns the direct children of the given kind. Not recursive.
func (n *Node) FindChildren(kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FindFirstChild returns the first direct child of the given kind, or nil.
func (n *Node) FindFirstChild(kind NodeKind) *Node {
	for _, c := range n.children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FindLastChild returns the last direct child of the given kind, or nil.
func (n *Node) FindLastChild(kind NodeKind) *Node {
	for i := len(n.children) - 1; i >= 0; i-- {
		if n.children[i].Kind == kind {
			return n.children[i]
		}
	}
	return nil
}

// SetSemanticInfo stores an open-ended string annotation on the node.
func (n *Node) SetSemanticInfo(key, value string) {
	if n.semantic == nil {
		n.semantic = make(map[string]string)
	}
	n.semantic[key] = value
}

// SemanticInfo returns the annotation for key, or "" when absent.
func (n *Node) SemanticInfo(key string) string {
	return n.semantic[key]
}

// HasSemanticInfo reports whether the key is present.
func (n *Node) HasSemanticInfo(key string) bool {
	_, ok := n.semantic[key]
	return ok
}

// SemanticEntries returns a copy of the full annotation map.
func (n *Node) SemanticEntries() map[string]string {
	if len(n.semantic) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.semantic))
	for k, v := range n.semantic {
		out[k] = v
	}
	return out
}

// String returns a one-line description of the node.
func (n *Node) String() string {
	switch {
	case n.Kind == KindFile && n.File != nil:
		return fmt.Sprintf("File: %s (%d children)", n.File.Path, len(n.children))
	case n.Kind == KindClass && n.Class != nil:
		keyword := "Class"
		if n.Class.IsStruct {
			keyword = "Struct"
		}
		if n.Class.IsAbstract {
			keyword = "Abstract " + keyword
		}
		return fmt.Sprintf("%s: %s", keyword, n.Text)
	case n.Kind == KindFunction && n.Function != nil:
		params := make([]string, 0, len(n.Function.Params))
		for _, p := range n.Function.Params {
			params = append(params, p.Type+" "+p.Name)
		}
		return fmt.Sprintf("Function: %s %s(%s)", n.Function.ReturnType, n.Text, strings.Join(params, ", "))
	case n.Kind == KindVariable && n.Variable != nil:
		var b strings.Builder
		b.WriteString("Variable: ")
		if n.Variable.IsConst {
			b.WriteString("const ")
		}
		if n.Variable.IsStatic {
			b.WriteString("static ")
		}
		b.WriteString(n.Variable.Type)
		b.WriteString(" ")
		b.WriteString(n.Text)
		return b.String()
	default:
		return fmt.Sprintf("%s: %s", n.Kind, n.Text)
	}
}
