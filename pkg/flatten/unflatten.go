package flatten

import (
	"slices"

	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/schema"
)

// Unflatten rebuilds the graph described by f using the types in reg.
//
// Every token naming the same identifier resolves to the same node, so shared
// references and cycles survive the round trip.
func Unflatten(reg *schema.Registry, f *Flattened) (any, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "flattened graph is nil")
	}
	u := &unflattener{reg: reg, types: f.Types, nodes: make(map[string]*node.Node, len(f.Types))}
	return u.value(f.Root)
}

// UnflattenNode is [Unflatten] for graphs whose root is a node.
func UnflattenNode(reg *schema.Registry, f *Flattened) (*node.Node, error) {
	v, err := Unflatten(reg, f)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*node.Node)
	if !ok || n == nil {
		return nil, errors.CorruptGraph("root is not a node reference")
	}
	return n, nil
}

type unflattener struct {
	reg   *schema.Registry
	types map[string]Record
	nodes map[string]*node.Node
}

func (u *unflattener) value(v any) (any, error) {
	if id, ok := refID(v); ok {
		return u.node(id)
	}
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			ev, err := u.value(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			ev, err := u.value(e)
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	}
	return v, nil
}

func (u *unflattener) node(id string) (*node.Node, error) {
	if n, ok := u.nodes[id]; ok {
		return n, nil
	}
	rec, ok := u.types[id]
	if !ok {
		return nil, errors.CorruptGraph("unresolved $ref %q", id)
	}
	typeName := rec.TypeName()
	if typeName == "" {
		return nil, errors.CorruptGraph("record %q has no type tag", id)
	}

	n, err := node.Build(u.reg, typeName, id, nil)
	if err != nil {
		if errors.Is(err, errors.ErrCodeUnknownType) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeCorruptGraph, err, "record %q", id)
	}
	// Cached before the fields so references back to it resolve to this node.
	u.nodes[id] = n

	keys := make([]string, 0, len(rec))
	for k := range rec {
		if k != TypeKey {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		v, err := u.value(rec[k])
		if err != nil {
			return nil, err
		}
		if err := n.Set(k, v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorruptGraph, err, "record %q", id)
		}
	}
	return n, nil
}
