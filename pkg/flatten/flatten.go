package flatten

import (
	"github.com/matzehuels/typegraph/pkg/node"
)

// TypeKey is the record key holding a node's type tag.
const TypeKey = "type"

// RefKey is the JSON key of a reference token.
const RefKey = "$ref"

// Ref is a reference token standing in for a node occurrence.
type Ref struct {
	ID string `json:"$ref"`
}

// Record is the flattened form of one node: its type tag under [TypeKey] plus
// its set field values.
type Record map[string]any

// TypeName returns the record's type tag, or "" when it is missing or not a string.
func (r Record) TypeName() string {
	s, _ := r[TypeKey].(string)
	return s
}

// Flattened is the cycle-free representation of a graph.
type Flattened struct {
	Root  any               `json:"root"`
	Types map[string]Record `json:"types"`
}

// Len returns the number of node records.
func (f *Flattened) Len() int { return len(f.Types) }

// Flatten converts v into its flattened form. Each distinct node is recorded
// once, keyed by its identifier.
func Flatten(v any) *Flattened {
	fl := &flattener{types: make(map[string]Record)}
	root := fl.value(v)
	return &Flattened{Root: root, Types: fl.types}
}

type flattener struct {
	types map[string]Record
}

func (fl *flattener) value(v any) any {
	switch x := v.(type) {
	case *node.Node:
		if x == nil {
			return nil
		}
		if _, ok := fl.types[x.ID()]; !ok {
			rec := Record{TypeKey: x.TypeName()}
			// Recorded before its fields are visited so cycles stop here.
			fl.types[x.ID()] = rec
			x.Range(func(field string, fv any) bool {
				switch node.KindOf(fv) {
				case node.KindNull, node.KindCallable:
				default:
					rec[field] = fl.value(fv)
				}
				return true
			})
		}
		return Ref{ID: x.ID()}
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fl.value(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = fl.value(e)
		}
		return out
	}
	if node.KindOf(v) == node.KindCallable {
		return nil
	}
	return v
}

// refID reports whether v is a reference token, in either its typed or its
// decoded map form.
func refID(v any) (string, bool) {
	switch x := v.(type) {
	case Ref:
		return x.ID, true
	case *Ref:
		if x == nil {
			return "", false
		}
		return x.ID, true
	case map[string]any:
		if len(x) != 1 {
			return "", false
		}
		id, ok := x[RefKey].(string)
		return id, ok
	}
	return "", false
}
