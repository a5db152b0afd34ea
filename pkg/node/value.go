package node

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/matzehuels/typegraph/pkg/schema"
)

// ValueKind classifies a field value.
type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindNull
	KindScalar
	KindNode
	KindList
	KindRecord
	KindCallable
)

var valueKindNames = [...]string{"unknown", "null", "scalar", "node", "list", "record", "callable"}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "unknown"
}

// KindOf classifies v. A nil *Node counts as null.
func KindOf(v any) ValueKind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindScalar
	case *Node:
		if x == nil {
			return KindNull
		}
		return KindNode
	case []any:
		return KindList
	case map[string]any:
		return KindRecord
	}
	if reflect.ValueOf(v).Kind() == reflect.Func {
		return KindCallable
	}
	return KindUnknown
}

// normalize rewrites nested [Values] as plain records, in place. Lists and
// records are assumed acyclic; cycles only pass through nodes.
func normalize(v any) any {
	switch x := v.(type) {
	case Values:
		return normalize(map[string]any(x))
	case map[string]any:
		for k, e := range x {
			if _, ok := e.(Values); ok {
				x[k] = normalize(e)
			} else {
				normalize(e)
			}
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	}
	return v
}

// checkValue validates v against a field declaration.
func checkValue(f schema.Field, v any) error {
	kind := KindOf(v)
	if kind == KindUnknown {
		return fmt.Errorf("unsupported value type %T", v)
	}
	if kind == KindNull {
		return nil
	}

	switch f.Kind {
	case schema.KindAny:
		return nil
	case schema.KindScalar:
		if kind != KindScalar {
			return fmt.Errorf("want scalar, got %s", kind)
		}
	case schema.KindNode:
		if kind != KindNode {
			return fmt.Errorf("want node, got %s", kind)
		}
		return checkConstraint(f, v)
	case schema.KindArray:
		if kind != KindList {
			return fmt.Errorf("want array, got %s", kind)
		}
		for i, e := range v.([]any) {
			if err := checkElement(f, e); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	case schema.KindMap:
		if kind != KindRecord {
			return fmt.Errorf("want map, got %s", kind)
		}
		for k, e := range v.(map[string]any) {
			if err := checkElement(f, e); err != nil {
				return fmt.Errorf("[%q]: %w", k, err)
			}
		}
	}
	return nil
}

func checkElement(f schema.Field, e any) error {
	switch KindOf(e) {
	case KindUnknown:
		return fmt.Errorf("unsupported value type %T", e)
	case KindNode:
		return checkConstraint(f, e)
	}
	return nil
}

func checkConstraint(f schema.Field, v any) error {
	if f.Type == "" {
		return nil
	}
	n := v.(*Node)
	if !n.typ.IsA(f.Type) {
		return fmt.Errorf("want %s, got %s", f.Type, n.typ.Name())
	}
	return nil
}
