package tree

// Query is a fluent, composable filter over a tree. Each builder method
// appends one predicate and returns the query, and Execute matches nodes
// satisfying the conjunction (logical AND) of every appended predicate.
//
//	hits := tree.NewQuery(root).
//	    OfKind(tree.KindFunction).
//	    InLineRange(1, 100).
//	    Execute()
type Query struct {
	root  *Node
	preds []Condition
}

// NewQuery creates a query rooted at root. A nil root yields empty results.
func NewQuery(root *Node) *Query {
	return &Query{root: root}
}

// OfKind keeps nodes of the exact kind.
func (q *Query) OfKind(kind NodeKind) *Query {
	q.preds = append(q.preds, func(n *Node) bool { return n.Kind == kind })
	return q
}

// WithName keeps nodes whose Text equals name exactly.
func (q *Query) WithName(name string) *Query {
	q.preds = append(q.preds, func(n *Node) bool { return n.Text == name })
	return q
}

// InFile keeps nodes located in the given file.
func (q *Query) InFile(filePath string) *Query {
	q.preds = append(q.preds, func(n *Node) bool { return n.Loc.File == filePath })
	return q
}

// InLineRange keeps nodes whose line falls in [start, end].
func (q *Query) InLineRange(start, end int) *Query {
	q.preds = append(q.preds, func(n *Node) bool {
		return n.Loc.Line >= start && n.Loc.Line <= end
	})
	return q
}

// WithSemanticInfo keeps nodes whose annotation for key equals value.
func (q *Query) WithSemanticInfo(key, value string) *Query {
	q.preds = append(q.preds, func(n *Node) bool { return n.SemanticInfo(key) == value })
	return q
}

// IsLeaf keeps childless nodes.
func (q *Query) IsLeaf() *Query {
	q.preds = append(q.preds, func(n *Node) bool { return len(n.children) == 0 })
	return q
}

// IsRoot keeps nodes without a parent.
func (q *Query) IsRoot() *Query {
	q.preds = append(q.preds, func(n *Node) bool { return n.parent == nil })
	return q
}

// Execute returns every node satisfying all predicates, in pre-order.
func (q *Query) Execute() []*Node {
	if q.root == nil {
		return nil
	}
	return FindByCondition(q.root, q.matches)
}

// First returns the first match, or nil.
func (q *Query) First() *Node {
	if q.root == nil {
		return nil
	}
	return FindFirstByCondition(q.root, q.matches)
}

// Count returns the number of matches.
func (q *Query) Count() int {
	return len(q.Execute())
}

// GroupByKind tallies the matches per node kind.
func (q *Query) GroupByKind() map[NodeKind]int {
	groups := make(map[NodeKind]int)
	for _, n := range q.Execute() {
		groups[n.Kind]++
	}
	return groups
}

// GroupByName tallies the matches per node text.
func (q *Query) GroupByName() map[string]int {
	groups := make(map[string]int)
	for _, n := range q.Execute() {
		groups[n.Text]++
	}
	return groups
}

func (q *Query) matches(n *Node) bool {
	for _, pred := range q.preds {
		if !pred(n) {
			return false
		}
	}
	return true
}
