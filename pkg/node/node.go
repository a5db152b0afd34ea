package node

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/schema"
)

// Values holds initial field values for [New]. A Values passed as a field
// value, directly or nested in lists and records, is stored as a plain
// map[string]any.
type Values map[string]any

// Node is an instance of a registered type.
//
// The zero value is not usable - use [New], [NewWithID] or [Build].
type Node struct {
	id     string
	typ    *schema.Type
	values map[string]any
}

// NewID returns a fresh node identifier.
func NewID() string { return uuid.NewString() }

// New creates a node of type t with a generated identifier.
func New(t *schema.Type, values Values) (*Node, error) {
	return NewWithID(NewID(), t, values)
}

// NewWithID creates a node of type t with the given identifier.
// The caller is responsible for the identifier being unique within its graphs.
func NewWithID(id string, t *schema.Type, values Values) (*Node, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node type must not be nil")
	}
	if err := errors.ValidateNodeID(id); err != nil {
		return nil, err
	}
	n := &Node{id: id, typ: t, values: make(map[string]any, len(values))}
	for name, v := range values {
		if err := n.Set(name, v); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Build creates a node of the named type. An empty id generates one.
func Build(reg *schema.Registry, typeName, id string, values Values) (*Node, error) {
	t, err := reg.Get(typeName)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return New(t, values)
	}
	return NewWithID(id, t, values)
}

// Must panics if err is non-nil. It is meant for tests and static fixtures:
//
//	g := node.Must(node.New(group, node.Values{"children": []any{c}}))
func Must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

// ID returns the node identifier.
func (n *Node) ID() string { return n.id }

// Type returns the resolved type of the node.
func (n *Node) Type() *schema.Type { return n.typ }

// TypeName returns the type tag.
func (n *Node) TypeName() string { return n.typ.Name() }

// Get returns the value of a field and whether it is set.
// The identity field always reports the node identifier.
func (n *Node) Get(field string) (any, bool) {
	if field == schema.IDField {
		return n.id, true
	}
	v, ok := n.values[field]
	return v, ok
}

// Set assigns a field value after validating it against the field declaration.
// Setting the identity field is only accepted when the value equals the node id.
func (n *Node) Set(field string, v any) error {
	if field == schema.IDField {
		if s, ok := v.(string); ok && s == n.id {
			return nil
		}
		return errors.New(errors.ErrCodeInvalidInput, "%s: identity field is read-only", n)
	}
	f, ok := n.typ.Field(field)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "type %s has no field %q", n.typ.Name(), field)
	}
	v = normalize(v)
	if err := checkValue(f, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.%s", n.typ.Name(), field)
	}
	n.values[field] = v
	return nil
}

// CopyField gives n the value src holds for field, or unsets it when src has
// none. It is a no-op unless both nodes have the same type. The value is not
// re-validated: src accepted it for the same field.
func (n *Node) CopyField(src *Node, field string) {
	if n.typ.Name() != src.typ.Name() || field == schema.IDField {
		return
	}
	if v, ok := src.values[field]; ok {
		n.values[field] = v
	} else {
		delete(n.values, field)
	}
}

// Delete unsets a field. Deleting an unset field is a no-op.
func (n *Node) Delete(field string) {
	delete(n.values, field)
}

// Has reports whether the field is set.
func (n *Node) Has(field string) bool {
	_, ok := n.values[field]
	return ok
}

// Range calls fn for each set field in declaration order (ancestor fields
// first). The identity field is skipped. Iteration stops when fn returns false.
func (n *Node) Range(fn func(field string, v any) bool) {
	for _, f := range n.typ.Fields() {
		if f.Name == schema.IDField {
			continue
		}
		v, ok := n.values[f.Name]
		if !ok {
			continue
		}
		if !fn(f.Name, v) {
			return
		}
	}
}

// String returns "Type#id".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%s", n.typ.Name(), n.id)
}
