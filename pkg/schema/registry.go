package schema

import (
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/typegraph/pkg/errors"
)

// Registry maps type names to resolved types.
//
// The zero value is not usable - use [NewRegistry].
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register validates d and adds the resolved type to the registry.
// See the package documentation for the validation rules.
func (r *Registry) Register(d Descriptor) (*Type, error) {
	if err := errors.ValidateTypeName(d.Name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[d.Name]; exists {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "type %q already registered", d.Name)
	}

	var parent *Type
	if d.Extends != "" {
		p, ok := r.types[d.Extends]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownType, "type %q extends unregistered type %q", d.Name, d.Extends)
		}
		parent = p
	}

	own := make([]Field, 0, len(d.Fields))
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		f, err := r.checkField(d.Name, parent, f)
		if err != nil {
			return nil, err
		}
		if seen[f.Name] {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "type %q declares field %q twice", d.Name, f.Name)
		}
		seen[f.Name] = true
		own = append(own, f)
	}

	t := newType(d.Name, parent, own)
	r.types[d.Name] = t
	return t, nil
}

// checkField validates a single field declaration and fills in defaults.
// Caller must hold the write lock.
func (r *Registry) checkField(typeName string, parent *Type, f Field) (Field, error) {
	if err := errors.ValidateFieldName(f.Name); err != nil {
		return f, errors.Wrap(errors.ErrCodeInvalidSchema, err, "type %q", typeName)
	}
	if f.Name == TypeField {
		return f, errors.New(errors.ErrCodeInvalidSchema, "type %q: field name %q is reserved", typeName, TypeField)
	}
	if parent != nil {
		if owner := parent.DeclaredBy(f.Name); owner != nil {
			return f, errors.New(errors.ErrCodeInvalidSchema,
				"type %q re-declares field %q inherited from %q", typeName, f.Name, owner.name)
		}
	}

	f.Kind = FieldKind(strings.ToLower(string(f.Kind)))
	if f.Kind == "" {
		f.Kind = KindAny
	}
	if !f.Kind.Valid() {
		return f, errors.New(errors.ErrCodeInvalidSchema, "type %q: field %q has unknown kind %q", typeName, f.Name, f.Kind)
	}
	if f.Name == IDField && f.Kind != KindAny && f.Kind != KindScalar {
		return f, errors.New(errors.ErrCodeInvalidSchema, "type %q: identity field must be scalar", typeName)
	}

	if f.Type != "" {
		if f.Kind == KindScalar || f.Kind == KindAny {
			return f, errors.New(errors.ErrCodeInvalidSchema,
				"type %q: field %q of kind %s cannot carry a type constraint", typeName, f.Name, f.Kind)
		}
	}
	return f, nil
}

// Verify checks that every field type constraint names a registered type.
// Constraints are resolved lazily so that mutually referencing types can be
// registered in any order; call Verify once the registration phase is over.
func (r *Registry) Verify() error {
	for _, t := range r.Types() {
		for _, f := range t.own {
			if f.Type == "" {
				continue
			}
			if _, ok := r.Lookup(f.Type); !ok {
				return errors.New(errors.ErrCodeUnknownType,
					"type %q: field %q references unregistered type %q", t.name, f.Name, f.Type)
			}
		}
	}
	return nil
}

// Get returns the registered type, or an UNKNOWN_TYPE error.
func (r *Registry) Get(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, errors.UnknownType(name)
	}
	return t, nil
}

// MustGet is like Get but panics if the type is not registered.
// It is intended for package-level type handles initialized at startup.
func (r *Registry) MustGet(name string) *Type {
	t, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the registered type and whether it exists.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// FieldsOf returns the resolved field list of the named type.
func (r *Registry) FieldsOf(name string) ([]Field, error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return t.Fields(), nil
}

// Types returns all registered types sorted by name.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Type) int { return strings.Compare(a.name, b.name) })
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// =============================================================================
// Process-wide Registry
// =============================================================================

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level functions.
func Default() *Registry { return defaultRegistry }

// Register adds a type to the process-wide registry.
func Register(d Descriptor) (*Type, error) { return defaultRegistry.Register(d) }

// Get returns a type from the process-wide registry.
func Get(name string) (*Type, error) { return defaultRegistry.Get(name) }

// FieldsOf returns the resolved fields of a type in the process-wide registry.
func FieldsOf(name string) ([]Field, error) { return defaultRegistry.FieldsOf(name) }
