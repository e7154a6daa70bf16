package tree

import (
	"fmt"
	"io"
	"strings"
)

// Visitor receives nodes during a double-dispatch traversal. Accept routes a
// node to the method matching its kind, with VisitNode as the catch-all for
// structural kinds. Visitors drive their own recursion, typically through
// VisitChildren.
type Visitor interface {
	VisitFile(n *Node)
	VisitNamespace(n *Node)
	VisitClass(n *Node)
	VisitFunction(n *Node)
	VisitVariable(n *Node)
	VisitNode(n *Node)
}

// Accept dispatches the node to the visitor method matching its kind.
// Nil receivers and nil visitors are ignored.
func (n *Node) Accept(v Visitor) {
	if n == nil || v == nil {
		return
	}
	switch n.Kind {
	case KindFile:
		v.VisitFile(n)
	case KindNamespace:
		v.VisitNamespace(n)
	case KindClass:
		v.VisitClass(n)
	case KindFunction:
		v.VisitFunction(n)
	case KindVariable:
		v.VisitVariable(n)
	default:
		v.VisitNode(n)
	}
}

// VisitChildren dispatches each child of n to the visitor, in order.
func VisitChildren(v Visitor, n *Node) {
	for _, c := range n.children {
		c.Accept(v)
	}
}

// PrintVisitor writes an indented textual rendering of the tree.
type PrintVisitor struct {
	w      io.Writer
	indent int
}

// NewPrintVisitor creates a PrintVisitor writing to w.
func NewPrintVisitor(w io.Writer) *PrintVisitor {
	return &PrintVisitor{w: w}
}

func (p *PrintVisitor) line(n *Node) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(" ", p.indent), n.String())
}

func (p *PrintVisitor) descend(n *Node) {
	p.indent += 2
	VisitChildren(p, n)
	p.indent -= 2
}

func (p *PrintVisitor) VisitFile(n *Node)      { p.line(n); p.descend(n) }
func (p *PrintVisitor) VisitNamespace(n *Node) { p.line(n); p.descend(n) }
func (p *PrintVisitor) VisitClass(n *Node)     { p.line(n); p.descend(n) }
func (p *PrintVisitor) VisitFunction(n *Node)  { p.line(n); p.descend(n) }
func (p *PrintVisitor) VisitVariable(n *Node)  { p.line(n); p.descend(n) }
func (p *PrintVisitor) VisitNode(n *Node)      { p.line(n); p.descend(n) }

// CollectVisitor accumulates every visited node of the configured kind.
type CollectVisitor struct {
	Kind  NodeKind
	Nodes []*Node
}

// NewCollectVisitor creates a CollectVisitor filtering on kind.
func NewCollectVisitor(kind NodeKind) *CollectVisitor {
	return &CollectVisitor{Kind: kind}
}

// Clear drops the collected nodes.
func (c *CollectVisitor) Clear() {
	c.Nodes = nil
}

func (c *CollectVisitor) visit(n *Node) {
	if n.Kind == c.Kind {
		c.Nodes = append(c.Nodes, n)
	}
	VisitChildren(c, n)
}

func (c *CollectVisitor) VisitFile(n *Node)      { c.visit(n) }
func (c *CollectVisitor) VisitNamespace(n *Node) { c.visit(n) }
func (c *CollectVisitor) VisitClass(n *Node)     { c.visit(n) }
func (c *CollectVisitor) VisitFunction(n *Node)  { c.visit(n) }
func (c *CollectVisitor) VisitVariable(n *Node)  { c.visit(n) }
func (c *CollectVisitor) VisitNode(n *Node)      { c.visit(n) }

// FindVisitor stops the entire traversal at the first node satisfying the
// predicate: once Found is set, no further node is examined, siblings
// included.
type FindVisitor struct {
	Predicate Condition
	Found     *Node
}

// NewFindVisitor creates a FindVisitor with the given predicate.
func NewFindVisitor(pred Condition) *FindVisitor {
	return &FindVisitor{Predicate: pred}
}

func (f *FindVisitor) visit(n *Node) {
	if f.Found != nil {
		return
	}
	if f.Predicate != nil && f.Predicate(n) {
		f.Found = n
		return
	}
	VisitChildren(f, n)
}

func (f *FindVisitor) VisitFile(n *Node)      { f.visit(n) }
func (f *FindVisitor) VisitNamespace(n *Node) { f.visit(n) }
func (f *FindVisitor) VisitClass(n *Node)     { f.visit(n) }
func (f *FindVisitor) VisitFunction(n *Node)  { f.visit(n) }
func (f *FindVisitor) VisitVariable(n *Node)  { f.visit(n) }
func (f *FindVisitor) VisitNode(n *Node)      { f.visit(n) }

// Statistics tallies node counts per kind and per modifier flag.
type Statistics struct {
	TotalNodes int

	Files      int
	Namespaces int

	Classes         int
	Structs         int
	AbstractClasses int

	Functions        int
	VirtualFunctions int
	StaticFunctions  int
	ConstFunctions   int

	Variables       int
	ConstVariables  int
	StaticVariables int
	MemberVariables int
	Parameters      int
}

// StatisticsVisitor accumulates Statistics over a traversal.
type StatisticsVisitor struct {
	Stats Statistics
}

// NewStatisticsVisitor creates a StatisticsVisitor.
func NewStatisticsVisitor() *StatisticsVisitor {
	return &StatisticsVisitor{}
}

// Reset clears the accumulated statistics.
func (s *StatisticsVisitor) Reset() {
	s.Stats = Statistics{}
}

func (s *StatisticsVisitor) VisitFile(n *Node) {
	s.Stats.TotalNodes++
	s.Stats.Files++
	VisitChildren(s, n)
}

func (s *StatisticsVisitor) VisitNamespace(n *Node) {
	s.Stats.TotalNodes++
	s.Stats.Namespaces++
	VisitChildren(s, n)
}

func (s *StatisticsVisitor) VisitClass(n *Node) {
	s.Stats.TotalNodes++
	s.Stats.Classes++
	if n.Class != nil {
		if n.Class.IsStruct {
			s.Stats.Structs++
		}
		if n.Class.IsAbstract {
			s.Stats.AbstractClasses++
		}
	}
	VisitChildren(s, n)
}

func (s *StatisticsVisitor) VisitFunction(n *Node) {
	s.Stats.TotalNodes++
	s.Stats.Functions++
	if n.Function != nil {
		if n.Function.IsVirtual {
			s.Stats.VirtualFunctions++
		}
		if n.Function.IsStatic {
			s.Stats.StaticFunctions++
		}
		if n.Function.IsConst {
			s.Stats.ConstFunctions++
		}
	}
	VisitChildren(s, n)
}

func (s *StatisticsVisitor) VisitVariable(n *Node) {
	s.Stats.TotalNodes++
	s.Stats.Variables++
	if n.Variable != nil {
		if n.Variable.IsConst {
			s.Stats.ConstVariables++
		}
		if n.Variable.IsStatic {
			s.Stats.StaticVariables++
		}
		if n.Variable.IsMember {
			s.Stats.MemberVariables++
		}
		if n.Variable.IsParameter {
			s.Stats.Parameters++
		}
	}
	VisitChildren(s, n)
}

func (s *StatisticsVisitor) VisitNode(n *Node) {
	s.Stats.TotalNodes++
	VisitChildren(s, n)
}

// Report renders the statistics as a readable multi-line summary.
func (s *StatisticsVisitor) Report() string {
	st := s.Stats
	var b strings.Builder
	b.WriteString("=== Tree Statistics ===\n")
	fmt.Fprintf(&b, "Total nodes: %d\n", st.TotalNodes)
	fmt.Fprintf(&b, "Files: %d\n", st.Files)
	fmt.Fprintf(&b, "Namespaces: %d\n", st.Namespaces)
	fmt.Fprintf(&b, "Classes: %d (Structs: %d, Abstract: %d)\n",
		st.Classes, st.Structs, st.AbstractClasses)
	fmt.Fprintf(&b, "Functions: %d (Virtual: %d, Static: %d, Const: %d)\n",
		st.Functions, st.VirtualFunctions, st.StaticFunctions, st.ConstFunctions)
	fmt.Fprintf(&b, "Variables: %d (Const: %d, Static: %d, Member: %d, Parameter: %d)\n",
		st.Variables, st.ConstVariables, st.StaticVariables, st.MemberVariables, st.Parameters)
	return b.String()
}
