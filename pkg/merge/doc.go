// Package merge reconciles one node graph into another in place.
//
// # Overview
//
// [Merge] updates a so that it structurally matches b while keeping as much of a's
// identity as possible. Consumers that diff by reference (renderers, undo stacks)
// see unchanged subtrees keep their *node.Node pointers and slices.
//
// Values are merged by kind:
//
//   - identical values (same node, same slice, same map, equal scalars) return a
//   - two []any merge positionally: a is truncated to len(b), overlapping
//     elements are merged in place, trailing elements of b are appended
//   - two nodes with different type tags: b replaces a
//   - two nodes with the same type tag: the type's diff functions run first;
//     otherwise every resolved field except the identity field and the
//     excluded fields is merged, and fields missing from b are unset on a
//   - two map[string]any merge key-wise, keys missing from b are deleted
//   - two callables use [Options.Callable] when set
//   - anything else: b replaces a
//
// The merged value is returned. It is a itself whenever a survives, but slices may
// be reallocated by the append, so callers must store the result.
//
// # Per-Type Options
//
// [TypeOptions] are keyed by type name and cascade through inheritance. The
// effective exclusions of a type are the union over its lineage. Diff functions
// run from the root ancestor down to the type itself and the first defined result
// wins, so a base type can enforce a rule that no descendant bypasses:
//
//	opts := merge.Options{Types: map[string]merge.TypeOptions{
//	    "Element": {Exclude: []string{"selected"}},
//	    "Image":   {Diff: func(a, b *node.Node) (any, bool) { return b, true }},
//	}}
//	root = merge.Merge(root, next, opts)
//
// # Cycles
//
// A node pair already being merged is not re-entered; the in-progress target is
// returned instead. Merging two cyclic graphs with distinct identities terminates.
//
// # Failure
//
// Merge never fails. Where a merged field value would be rejected by the schema
// (only possible through a diff function result), b's value is stored instead.
//
// Merge mutates a and is not safe for concurrent use on overlapping graphs. A
// [Merger] may be shared between goroutines merging disjoint graphs.
package merge
