package node

// Handlers maps type names to handler functions for [Match].
type Handlers[T any] map[string]func(*Node) T

// Match calls the handler registered for the most specific type of n: the exact
// type if present, otherwise the nearest ancestor. It returns the handler's
// result and true, or the zero value and false when nothing matched or n is nil.
func Match[T any](n *Node, handlers Handlers[T]) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	for t := n.typ; t != nil; t = t.Parent() {
		if h, ok := handlers[t.Name()]; ok && h != nil {
			return h(n), true
		}
	}
	return zero, false
}

// Visitor maps type names to side-effecting handlers for [Visit].
type Visitor map[string]func(*Node)

// Visit is [Match] for handlers without a result.
func Visit(n *Node, v Visitor) bool {
	if n == nil {
		return false
	}
	for t := n.typ; t != nil; t = t.Parent() {
		if h, ok := v[t.Name()]; ok && h != nil {
			h(n)
			return true
		}
	}
	return false
}
