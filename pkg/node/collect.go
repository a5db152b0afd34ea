package node

import (
	"github.com/matzehuels/typegraph/pkg/errors"
)

// Walk calls fn for every node reachable from v in depth-first order. Fields
// are visited in declaration order, list elements by index and record entries
// by sorted key. When fn returns false the children of that node are skipped.
//
// A node already on the current path is not re-entered. A node reachable
// through two different paths is visited once per path.
func Walk(v any, fn func(*Node) bool) {
	walk(v, fn, make(map[*Node]bool))
}

func walk(v any, fn func(*Node) bool, onPath map[*Node]bool) {
	switch x := v.(type) {
	case *Node:
		if x == nil || onPath[x] {
			return
		}
		if !fn(x) {
			return
		}
		onPath[x] = true
		x.Range(func(_ string, fv any) bool {
			walk(fv, fn, onPath)
			return true
		})
		delete(onPath, x)
	case []any:
		for _, e := range x {
			walk(e, fn, onPath)
		}
	case map[string]any:
		for _, k := range sortedKeys(x) {
			walk(x[k], fn, onPath)
		}
	}
}

// Collect returns the nodes reachable from v in [Walk] order, v itself first
// when it is a node.
func Collect(v any) []*Node {
	var out []*Node
	Walk(v, func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// CollectUnique is [Collect] with repeated nodes dropped.
func CollectUnique(v any) []*Node {
	var out []*Node
	seen := make(map[*Node]bool)
	Walk(v, func(n *Node) bool {
		if seen[n] {
			return false
		}
		seen[n] = true
		out = append(out, n)
		return true
	})
	return out
}

// CollectType returns the unique reachable nodes whose type is typeName or a
// descendant of it.
func CollectType(v any, typeName string) []*Node {
	var out []*Node
	for _, n := range CollectUnique(v) {
		if n.typ.IsA(typeName) {
			out = append(out, n)
		}
	}
	return out
}

// Is reports whether v is a node of type typeName or one of its descendants.
func Is(v any, typeName string) bool {
	n, ok := v.(*Node)
	return ok && n != nil && n.typ.IsA(typeName)
}

// Assert returns v as a node when [Is] holds, and an INVALID_TYPE error
// naming the expected and actual type otherwise.
func Assert(v any, typeName string) (*Node, error) {
	n, ok := v.(*Node)
	if !ok || n == nil {
		return nil, errors.InvalidType(typeName, "")
	}
	if !n.typ.IsA(typeName) {
		return nil, errors.InvalidType(typeName, n.typ.Name())
	}
	return n, nil
}

// AssertWith asserts v like [Assert] and passes the node to fn.
func AssertWith[T any](v any, typeName string, fn func(*Node) T) (T, error) {
	n, err := Assert(v, typeName)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(n), nil
}
