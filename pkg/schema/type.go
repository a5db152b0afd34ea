package schema

import "slices"

// Reserved field names.
const (
	// IDField is the identity field. It reads back the node identifier.
	IDField = "id"
	// TypeField is the type tag key used in flattened records. It cannot be declared.
	TypeField = "type"
)

// FieldKind describes the shape of values a field holds.
type FieldKind string

// Field kinds.
const (
	KindAny    FieldKind = "any"    // any value kind
	KindScalar FieldKind = "scalar" // string, number, bool or null
	KindNode   FieldKind = "node"   // a single node reference
	KindArray  FieldKind = "array"  // ordered sequence of values
	KindMap    FieldKind = "map"    // keyed record of string to value
)

// Valid reports whether k is one of the known kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case KindAny, KindScalar, KindNode, KindArray, KindMap:
		return true
	}
	return false
}

// Field describes one field of a type.
type Field struct {
	Name string    `json:"name" toml:"name" yaml:"name"`
	Kind FieldKind `json:"kind,omitempty" toml:"kind" yaml:"kind"`
	// Type constrains node values (for KindNode) or node elements (for KindArray
	// and KindMap) to the named type or its descendants. Empty means any type.
	Type string `json:"type,omitempty" toml:"type" yaml:"type"`
}

// Descriptor is the declaration of a type as supplied to [Registry.Register].
type Descriptor struct {
	Name    string  `json:"name" toml:"name" yaml:"name"`
	Fields  []Field `json:"fields,omitempty" toml:"fields" yaml:"fields"`
	Extends string  `json:"extends,omitempty" toml:"extends" yaml:"extends"`
}

// Type is a registered, resolved type.
//
// The zero value is not usable - types are created by [Registry.Register].
type Type struct {
	name   string
	parent *Type
	own    []Field
	fields []Field        // ancestor fields first, then own
	index  map[string]int // field name -> position in fields
	depth  int            // 0 for root types
}

func newType(name string, parent *Type, own []Field) *Type {
	t := &Type{name: name, parent: parent, own: own}
	if parent != nil {
		t.depth = parent.depth + 1
		t.fields = make([]Field, 0, len(parent.fields)+len(own))
		t.fields = append(t.fields, parent.fields...)
	}
	t.fields = append(t.fields, own...)
	t.index = make(map[string]int, len(t.fields))
	for i, f := range t.fields {
		t.index[f.Name] = i
	}
	return t
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Parent returns the extended type, or nil for a root type.
func (t *Type) Parent() *Type { return t.parent }

// Depth returns the number of ancestors.
func (t *Type) Depth() int { return t.depth }

// Fields returns the resolved field list: ancestor fields first, in declaration
// order, followed by the type's own fields. The returned slice must not be modified.
func (t *Type) Fields() []Field { return t.fields }

// OwnFields returns only the fields declared by this type.
func (t *Type) OwnFields() []Field { return slices.Clone(t.own) }

// Field returns the resolved field with the given name.
func (t *Type) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

// HasField reports whether the type or one of its ancestors declares name.
func (t *Type) HasField(name string) bool {
	_, ok := t.index[name]
	return ok
}

// DeclaredBy returns the type in the lineage that declares the field, or nil.
func (t *Type) DeclaredBy(field string) *Type {
	if !t.HasField(field) {
		return nil
	}
	for cur := t; cur != nil; cur = cur.parent {
		if cur.parent == nil || !cur.parent.HasField(field) {
			return cur
		}
	}
	return nil
}

// IsA reports whether the type is name or a descendant of name.
func (t *Type) IsA(name string) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur.name == name {
			return true
		}
	}
	return false
}

// Lineage returns the type followed by its ancestors, nearest first.
func (t *Type) Lineage() []*Type {
	out := make([]*Type, 0, t.depth+1)
	for cur := t; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

// Descriptor returns the declaration the type was registered from.
func (t *Type) Descriptor() Descriptor {
	d := Descriptor{Name: t.name, Fields: t.OwnFields()}
	if t.parent != nil {
		d.Extends = t.parent.name
	}
	return d
}

// String returns the type name.
func (t *Type) String() string { return t.name }
