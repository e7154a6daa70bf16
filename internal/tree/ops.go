package tree

import (
	"fmt"
	"strings"

	"github.com/dshills/stubindex-mcp/pkg/types"
)

// Condition is a node predicate used by the search operations.
type Condition func(*Node) bool

// FindAll returns every node in the subtree (including root) of the given
// kind, in pre-order depth-first order. A nil root yields an empty result.
func FindAll(root *Node, kind NodeKind) []*Node {
	return FindByCondition(root, func(n *Node) bool { return n.Kind == kind })
}

// FindByCondition returns every node in the subtree satisfying cond, in
// pre-order depth-first order.
func FindByCondition(root *Node, cond Condition) []*Node {
	var result []*Node
	collect(root, cond, &result)
	return result
}

func collect(n *Node, cond Condition, result *[]*Node) {
	if n == nil {
		return
	}
	if cond(n) {
		*result = append(*result, n)
	}
	for _, c := range n.children {
		collect(c, cond, result)
	}
}

// FindFirstByCondition returns the first DFS node satisfying cond, or nil.
func FindFirstByCondition(root *Node, cond Condition) *Node {
	if root == nil {
		return nil
	}
	if cond(root) {
		return root
	}
	for _, c := range root.children {
		if hit := FindFirstByCondition(c, cond); hit != nil {
			return hit
		}
	}
	return nil
}

// FindByName returns every node whose Text equals name exactly.
func FindByName(root *Node, name string) []*Node {
	return FindByCondition(root, func(n *Node) bool { return n.Text == name })
}

// FindFirstByName returns the first DFS node whose Text equals name, or nil.
func FindFirstByName(root *Node, name string) *Node {
	return FindFirstByCondition(root, func(n *Node) bool { return n.Text == name })
}

// FindInFile returns every node located in the given file.
func FindInFile(root *Node, filePath string) []*Node {
	return FindByCondition(root, func(n *Node) bool { return n.Loc.File == filePath })
}

// FindInLineRange returns every node whose line falls in [startLine, endLine].
func FindInLineRange(root *Node, startLine, endLine int) []*Node {
	return FindByCondition(root, func(n *Node) bool {
		return n.Loc.Line >= startLine && n.Loc.Line <= endLine
	})
}

// Descendants returns every node below node (excluding node itself), in
// pre-order.
func Descendants(node *Node) []*Node {
	var result []*Node
	if node == nil {
		return result
	}
	for _, c := range node.children {
		collectDescendants(c, &result)
	}
	return result
}

func collectDescendants(n *Node, result *[]*Node) {
	*result = append(*result, n)
	for _, c := range n.children {
		collectDescendants(c, result)
	}
}

// Ancestors returns node's ancestor chain ordered root first, immediate
// parent last. A root node has no ancestors.
func Ancestors(node *Node) []*Node {
	var chain []*Node
	if node == nil {
		return chain
	}
	for cur := node.parent; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	// Reverse into root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// CommonAncestor returns the deepest shared ancestor of a and b, or nil when
// the nodes belong to disjoint trees. Two nodes of the same tree always share
// at least the root.
func CommonAncestor(a, b *Node) *Node {
	ancA := Ancestors(a)
	ancB := Ancestors(b)

	var common *Node
	for i := 0; i < len(ancA) && i < len(ancB); i++ {
		if ancA[i] != ancB[i] {
			break
		}
		common = ancA[i]
	}
	return common
}

// Path returns the node texts from root to node joined by "/".
func Path(node *Node) string {
	if node == nil {
		return ""
	}
	var parts []string
	for cur := node; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Text)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// FindByPath walks the path segment by segment from root, matching child
// Text at each level. Returns nil on the first unmatched segment. Empty
// segments are skipped, so a leading "/" is harmless. The root's own text is
// not part of the path.
func FindByPath(root *Node, path string) *Node {
	if root == nil {
		return nil
	}

	current := root
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		var next *Node
		for _, c := range current.children {
			if c.Text == segment {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// Depth returns the height of the subtree: 1 for a childless node, else
// 1 + the maximum child depth. A nil root has depth 0.
func Depth(root *Node) int {
	if root == nil {
		return 0
	}
	if len(root.children) == 0 {
		return 1
	}
	max := 0
	for _, c := range root.children {
		if d := Depth(c); d > max {
			max = d
		}
	}
	return max + 1
}

// SubtreeSize returns the number of nodes in the subtree including node.
func SubtreeSize(node *Node) int {
	if node == nil {
		return 0
	}
	size := 1
	for _, c := range node.children {
		size += SubtreeSize(c)
	}
	return size
}

// Leaves returns every childless node in the subtree, in pre-order.
func Leaves(root *Node) []*Node {
	return FindByCondition(root, func(n *Node) bool { return len(n.children) == 0 })
}

// Branches returns every node with at least one child, in pre-order.
func Branches(root *Node) []*Node {
	return FindByCondition(root, func(n *Node) bool { return len(n.children) > 0 })
}

// RemoveNode removes node from its parent. With keepChildren, the node's
// children are re-parented onto the former parent (appended after its
// existing children) before the node itself is removed. A root or detached
// node is left untouched.
func RemoveNode(node *Node, keepChildren bool) {
	if node == nil || node.parent == nil {
		return
	}
	parent := node.parent
	if keepChildren {
		// Snapshot: AddChild mutates node.children as it detaches.
		children := make([]*Node, len(node.children))
		copy(children, node.children)
		for _, c := range children {
			parent.AddChild(c)
		}
	}
	node.Detach()
}

// MoveNode transfers node under newParent as an atomic detach-and-attach.
// No-op when either side is nil or the move would make a node its own
// ancestor.
func MoveNode(node, newParent *Node) {
	if node == nil || newParent == nil || node == newParent {
		return
	}
	// Refuse cycles: newParent must not live inside node's subtree.
	for cur := newParent; cur != nil; cur = cur.parent {
		if cur == node {
			return
		}
	}
	newParent.AddChild(node) // AddChild detaches from the old parent first
}

// CopyNode deep-clones source and attaches the clone under targetParent.
// Returns the clone, or nil when either argument is nil.
func CopyNode(source, targetParent *Node) *Node {
	if source == nil || targetParent == nil {
		return nil
	}
	clone := CloneSubtree(source)
	targetParent.AddChild(clone)
	return clone
}

// Validate recursively checks the ownership invariant (child.Parent() ==
// node for every child) and returns a list of violation messages. An empty
// list means the tree is valid. The tree is never repaired.
func Validate(root *Node) []string {
	var errs []string
	validateNode(root, &errs)
	return errs
}

func validateNode(n *Node, errs *[]string) {
	if n == nil {
		*errs = append(*errs, "nil node in tree")
		return
	}
	for _, c := range n.children {
		if c.parent != n {
			*errs = append(*errs, fmt.Sprintf("parent/child mismatch at node %q (child %q)", n.Text, c.Text))
		}
		validateNode(c, errs)
	}
}

// Similarity returns a structural similarity score in [0, 1] for two trees:
// the average of a recursive node similarity and a subtree-size similarity.
// Identical trees score 1.0; a nil operand scores 0.0. This is a structural
// heuristic, not a semantic diff.
//
// The node similarity awards 0.5 for matching text (given matching kind),
// 0.3 for an equal child count, and 0.2 weighted by the average pairwise
// similarity of positionally aligned children; two childless nodes take the
// full child term.
func Similarity(t1, t2 *Node) float64 {
	if t1 == nil || t2 == nil {
		return 0.0
	}

	size1 := SubtreeSize(t1)
	size2 := SubtreeSize(t2)

	nodeSim := nodeSimilarity(t1, t2)
	max := size1
	if size2 > max {
		max = size2
	}
	diff := size1 - size2
	if diff < 0 {
		diff = -diff
	}
	sizeSim := 1.0 - float64(diff)/float64(max)

	return (nodeSim + sizeSim) / 2.0
}

func nodeSimilarity(n1, n2 *Node) float64 {
	if n1 == nil || n2 == nil {
		return 0.0
	}
	if n1.Kind != n2.Kind {
		return 0.0
	}

	similarity := 0.0
	if n1.Text == n2.Text {
		similarity += 0.5
	}

	c1 := len(n1.children)
	c2 := len(n2.children)
	if c1 == c2 {
		similarity += 0.3
	}

	min := c1
	if c2 < min {
		min = c2
	}
	switch {
	case min > 0:
		childSim := 0.0
		for i := 0; i < min; i++ {
			childSim += nodeSimilarity(n1.children[i], n2.children[i])
		}
		similarity += (childSim / float64(min)) * 0.2
	case c1 == c2:
		// Two childless nodes have vacuously identical child structure.
		similarity += 0.2
	}

	return similarity
}

// Differences returns the descendants of t1 that have no (kind, text) match
// anywhere among t2's descendants. The comparison is asymmetric and coarse.
func Differences(t1, t2 *Node) []*Node {
	var diffs []*Node
	if t1 == nil || t2 == nil {
		return diffs
	}

	nodes2 := Descendants(t2)
	seen := make(map[NodeKind]map[string]bool, len(nodes2))
	for _, n := range nodes2 {
		if seen[n.Kind] == nil {
			seen[n.Kind] = make(map[string]bool)
		}
		seen[n.Kind][n.Text] = true
	}

	for _, n := range Descendants(t1) {
		if !seen[n.Kind][n.Text] {
			diffs = append(diffs, n)
		}
	}
	return diffs
}

// Optimize removes non-root childless nodes whose kind is neither Variable
// nor Function. This is a display declutter heuristic, not a semantics-
// preserving transformation.
func Optimize(root *Node) {
	empty := FindByCondition(root, func(n *Node) bool {
		return len(n.children) == 0 && n.Kind != KindVariable && n.Kind != KindFunction
	})
	for _, n := range empty {
		if n.parent != nil {
			RemoveNode(n, false)
		}
	}
}

// CloneSubtree deep-copies the node: kind, text, location, text range,
// kind-specific payloads, the full semantic-info map, and all children.
// The clone has no parent.
func CloneSubtree(node *Node) *Node {
	if node == nil {
		return nil
	}

	clone := cloneShallow(node)
	for _, c := range node.children {
		clone.AddChild(CloneSubtree(c))
	}
	return clone
}

// cloneShallow copies a single node without its children or parent link.
func cloneShallow(node *Node) *Node {
	clone := NewNode(node.Kind, node.Text, node.Loc)
	clone.Range = node.Range

	if node.Class != nil {
		info := *node.Class
		clone.Class = &info
	}
	if node.Function != nil {
		info := *node.Function
		info.Params = append([]types.Param(nil), node.Function.Params...)
		clone.Function = &info
	}
	if node.Variable != nil {
		info := *node.Variable
		clone.Variable = &info
	}
	if node.File != nil {
		info := *node.File
		clone.File = &info
	}

	for k, v := range node.semantic {
		clone.SetSemanticInfo(k, v)
	}
	return clone
}
