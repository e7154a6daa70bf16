package tree

import "github.com/dshills/stubindex-mcp/pkg/types"

// Rewrite maps a node to its replacement in a transformed tree. Returning
// nil prunes the node and its entire subtree: children of a pruned node are
// never visited.
type Rewrite func(*Node) *Node

// Transform applies rewrite top-down to produce a new tree. The input tree
// is never modified. Transform(root, alwaysNil) returns nil; an identity
// rewrite (shallow copy) reproduces the tree's shape.
func Transform(root *Node, rewrite Rewrite) *Node {
	if root == nil || rewrite == nil {
		return nil
	}
	return transformNode(root, rewrite)
}

func transformNode(node *Node, rewrite Rewrite) *Node {
	rewritten := rewrite(node)
	if rewritten == nil {
		return nil
	}
	for _, c := range node.children {
		if tc := transformNode(c, rewrite); tc != nil {
			rewritten.AddChild(tc)
		}
	}
	return rewritten
}

// CopyRewrite is the identity rewrite: a shallow copy of every node,
// semantic info included.
func CopyRewrite(n *Node) *Node {
	return cloneShallow(n)
}

// Simplify returns a copy of the tree keeping only File, Class, Function,
// and Variable nodes; everything else is pruned. Semantic info survives on
// the kept nodes.
func Simplify(root *Node) *Node {
	return Transform(root, func(n *Node) *Node {
		switch n.Kind {
		case KindFile, KindClass, KindFunction, KindVariable:
			return cloneShallow(n)
		default:
			return nil
		}
	})
}

// RemoveByKind returns a copy of the tree with every node of the given kind
// (and its subtree) pruned. Survivors keep their semantic info.
func RemoveByKind(root *Node, kind NodeKind) *Node {
	return Transform(root, func(n *Node) *Node {
		if n.Kind == kind {
			return nil
		}
		return cloneShallow(n)
	})
}

// FlattenHierarchy returns a copy of the tree no deeper than maxDepth
// levels (the root is level 1): any node that would land deeper is promoted
// to a child of its ancestor at maxDepth-1, preserving pre-order. Values of
// maxDepth below 2 are treated as 2.
func FlattenHierarchy(root *Node, maxDepth int) *Node {
	if root == nil {
		return nil
	}
	if maxDepth < 2 {
		maxDepth = 2
	}

	result := cloneShallow(root)
	for _, c := range root.children {
		flattenInto(c, 2, maxDepth, result)
	}
	return result
}

// flattenInto clones src at the given depth under parentClone; children that
// would exceed maxDepth are attached beside the clone instead of below it.
func flattenInto(src *Node, depth, maxDepth int, parentClone *Node) {
	clone := cloneShallow(src)
	parentClone.AddChild(clone)

	for _, c := range src.children {
		if depth+1 <= maxDepth {
			flattenInto(c, depth+1, maxDepth, clone)
		} else {
			flattenInto(c, depth, maxDepth, parentClone)
		}
	}
}

// ReorganizeByNamespace returns a copy of the tree in which root children
// annotated with a "namespace" semantic-info key are grouped under synthetic
// Namespace nodes, one per distinct value, created in first-occurrence
// order. Unannotated children keep their relative position.
func ReorganizeByNamespace(root *Node) *Node {
	if root == nil {
		return nil
	}

	result := cloneShallow(root)
	namespaces := make(map[string]*Node)

	for _, c := range root.children {
		ns := c.SemanticInfo("namespace")
		if ns == "" {
			result.AddChild(CloneSubtree(c))
			continue
		}
		group, ok := namespaces[ns]
		if !ok {
			group = NewNamespaceNode(ns, types.NewLocation(root.Loc.File, c.Loc.Line, c.Loc.Column))
			namespaces[ns] = group
			result.AddChild(group)
		}
		group.AddChild(CloneSubtree(c))
	}
	return result
}

// MergeTrees builds a new File root whose children are deep clones of every
// input tree's children, concatenated in input order. Nil inputs are
// skipped; an empty input list returns nil.
func MergeTrees(trees []*Node) *Node {
	if len(trees) == 0 {
		return nil
	}

	merged := NewFileNode("merged", "")
	for _, t := range trees {
		if t == nil {
			continue
		}
		for _, c := range t.children {
			merged.AddChild(CloneSubtree(c))
		}
	}
	return merged
}

// OverlayTrees merges overlay onto base, last-write-wins, keyed by
// (kind, text) at each level: where both trees have a child with the same
// kind and text, the overlay's node data wins and the merge recurses;
// base-only children are kept and overlay-only children are appended. A nil
// overlay returns a clone of base; a nil base returns nil.
func OverlayTrees(base, overlay *Node) *Node {
	if base == nil {
		return nil
	}
	if overlay == nil {
		return CloneSubtree(base)
	}
	return overlayNodes(base, overlay)
}

type overlayKey struct {
	kind NodeKind
	text string
}

func overlayNodes(base, overlay *Node) *Node {
	result := cloneShallow(overlay)

	overlayByKey := make(map[overlayKey]*Node, len(overlay.children))
	for _, oc := range overlay.children {
		// Last occurrence wins within a level too.
		overlayByKey[overlayKey{oc.Kind, oc.Text}] = oc
	}

	consumed := make(map[overlayKey]bool)
	for _, bc := range base.children {
		key := overlayKey{bc.Kind, bc.Text}
		if oc, ok := overlayByKey[key]; ok {
			result.AddChild(overlayNodes(bc, oc))
			consumed[key] = true
			continue
		}
		result.AddChild(CloneSubtree(bc))
	}

	for _, oc := range overlay.children {
		key := overlayKey{oc.Kind, oc.Text}
		if consumed[key] {
			continue
		}
		if _, inBase := findChildByKey(base, key); inBase {
			continue // already merged above
		}
		result.AddChild(CloneSubtree(oc))
	}
	return result
}

func findChildByKey(n *Node, key overlayKey) (*Node, bool) {
	for _, c := range n.children {
		if c.Kind == key.kind && c.Text == key.text {
			return c, true
		}
	}
	return nil, false
}
