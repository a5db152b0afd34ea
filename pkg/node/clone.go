package node

// Clone returns a deep copy of v. Every node in the copy gets a fresh
// identifier. Sharing and cycles in the source are preserved: a node
// referenced twice is copied once and referenced twice in the result.
// Callables are shared, not copied.
func Clone(v any) any {
	return cloneValue(v, make(map[*Node]*Node))
}

// CloneNode is [Clone] for a single node.
func CloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	return cloneValue(n, make(map[*Node]*Node)).(*Node)
}

func cloneValue(v any, memo map[*Node]*Node) any {
	switch x := v.(type) {
	case *Node:
		if x == nil {
			return x
		}
		if c, ok := memo[x]; ok {
			return c
		}
		c := &Node{id: NewID(), typ: x.typ, values: make(map[string]any, len(x.values))}
		memo[x] = c
		for k, fv := range x.values {
			c.values[k] = cloneValue(fv, memo)
		}
		return c
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e, memo)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e, memo)
		}
		return out
	}
	return v
}
