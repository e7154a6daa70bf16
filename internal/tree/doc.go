// Package tree implements the hierarchical code-structure tree: typed nodes
// with exclusive child ownership, a builder that turns scanned stubs into a
// file-rooted hierarchy, traversal and mutation operations, a fluent query
// builder, a generic rewrite engine, and a visitor framework.
//
// # Building a Tree
//
//	b := tree.NewBuilder()
//	root := b.BuildFromStubs("widget.cpp", stubs)
//
// The builder creates a File root and appends one child per class, function,
// and variable stub, in that phase order. All children are direct children of
// the root: the builder is not scope-aware, so a method stub ends up a
// sibling of its class rather than nested inside it. Callers that need
// nesting can restructure with the transform functions.
//
// # Ownership
//
// A node is owned by exactly one parent. AddChild transfers ownership: a
// child attached elsewhere is first detached from its old parent, so the
// parent/child invariant (child.Parent() == node for every child) holds at
// all times. Validate reports any violation as a list of messages.
//
// # Searching
//
//	fns := tree.FindAll(root, tree.KindFunction)
//	hit := tree.NewQuery(root).OfKind(tree.KindVariable).IsLeaf().First()
//
// All search operations accept nil roots and return empty results for them.
//
// # Rewriting
//
// Transform applies a node-to-node function top-down; returning nil prunes
// the node and its entire subtree. Simplify, RemoveByKind, FlattenHierarchy,
// ReorganizeByNamespace, MergeTrees, and OverlayTrees are built on it.
//
// # Concurrency
//
// Trees are unsynchronized in-memory structures. Callers that share a tree
// across goroutines must provide their own mutual exclusion.
package tree
