package node

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/matzehuels/typegraph/pkg/schema"
)

// SkipFunc reports whether a field of a type is left out of a comparison.
type SkipFunc func(t *schema.Type, field string) bool

// Equal reports whether a and b are structurally equal.
//
// Nodes compare by type tag and field values, never by identifier. Numbers
// compare by value regardless of their Go type. An unset field equals a nil
// one. Cyclic graphs are handled: a node pair already under comparison is
// assumed equal.
func Equal(a, b any) bool {
	return EqualExcluding(a, b, nil)
}

// EqualExcluding is [Equal] with the fields selected by skip ignored.
func EqualExcluding(a, b any, skip SkipFunc) bool {
	c := comparer{skip: skip, seen: make(map[[2]*Node]bool)}
	return c.equal(a, b)
}

type comparer struct {
	skip SkipFunc
	seen map[[2]*Node]bool
}

func (c *comparer) equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindScalar:
		return scalarEqual(a, b)
	case KindNode:
		return c.nodeEqual(a.(*Node), b.(*Node))
	case KindList:
		la, lb := a.([]any), b.([]any)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !c.equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		ma, mb := a.(map[string]any), b.(map[string]any)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !c.equal(va, vb) {
				return false
			}
		}
		return true
	case KindCallable:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

func (c *comparer) nodeEqual(a, b *Node) bool {
	if a == b {
		return true
	}
	if a.typ.Name() != b.typ.Name() {
		return false
	}
	pair := [2]*Node{a, b}
	if c.seen[pair] {
		return true
	}
	c.seen[pair] = true

	for _, f := range a.typ.Fields() {
		if f.Name == schema.IDField {
			continue
		}
		if c.skip != nil && c.skip(a.typ, f.Name) {
			continue
		}
		if !c.equal(a.values[f.Name], b.values[f.Name]) {
			return false
		}
	}
	return true
}

func scalarEqual(a, b any) bool {
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	if oka && okb {
		return fa == fb
	}
	if oka != okb {
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
