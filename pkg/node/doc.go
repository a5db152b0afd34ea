// Package node provides typed node instances and the traversals built on them.
//
// # Overview
//
// A [Node] is an instance of a type registered in a [schema.Registry]. Every node
// carries a unique, stable identifier (a UUID unless the caller supplies one), a
// pointer to its resolved [schema.Type], and field values keyed by field name.
//
// Field values are plain Go values of a small closed set of kinds (see [KindOf]):
//
//   - scalars: nil, bool, string and the numeric kinds
//   - *Node, owned or shared by reference
//   - []any, an ordered sequence of values
//   - map[string]any, a keyed record of values
//   - func values, treated as opaque callables
//
// Node graphs may contain shared references and cycles. Identity (the *Node
// pointer and its [Node.ID]) is what distinguishes the same node referenced twice
// from two distinct nodes that happen to look alike; [Equal] compares structure and
// ignores identity.
//
// # Construction
//
//	circle, _ := schema.Default().Get("Circle")
//	n, err := node.New(circle, node.Values{"radius": 5})
//
// [New] and [Node.Set] validate values against the resolved field list: unknown
// fields and values of the wrong kind fail with INVALID_INPUT. [Build] resolves the
// type by name first and fails with UNKNOWN_TYPE when it is not registered.
//
// # Dispatch
//
// [Match] finds the most specific handler for a node by walking its type's parent
// chain: the exact type first, then each ancestor. At most one handler runs.
// When no handler matches, Match is a no-op and reports false. This soft default
// is a deliberate choice: node variants added later pass through visitors written
// before them instead of crashing them.
//
// # Collection and Assertion
//
// [Walk] visits every node reachable from a value in depth-first, declaration
// order. A node already on the current path is not re-entered, so cyclic graphs
// terminate; a node reachable through two different paths is visited twice.
// [Collect] returns that visit sequence, and [CollectUnique] deduplicates it by
// identity for callers that need a set.
//
// [Is] and [Assert] narrow a value to a type or one of its descendants.
//
// # Concurrency
//
// Nodes are not safe for concurrent mutation. Read-only traversals (Walk, Equal,
// Match) may run concurrently on a graph that nobody is mutating.
package node
