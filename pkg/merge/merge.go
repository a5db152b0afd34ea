package merge

import (
	"reflect"

	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/schema"
)

// Merger merges graphs with a fixed set of options. Effective per-type options
// are resolved once and reused across calls.
type Merger struct {
	res *resolver
}

// New returns a Merger for opts.
func New(opts Options) *Merger {
	return &Merger{res: &resolver{opts: opts, cache: make(map[*schema.Type]*effective)}}
}

// Merge merges b into a with opts and returns the merged value.
func Merge(a, b any, opts Options) any {
	return New(opts).Merge(a, b)
}

// Merge merges b into a and returns the merged value.
func (m *Merger) Merge(a, b any) any {
	r := &run{res: m.res, pairs: make(map[[2]*node.Node]any)}
	return r.merge(a, b)
}

// Excluded reports whether field is excluded for t. The identity field is
// always excluded.
func (m *Merger) Excluded(t *schema.Type, field string) bool {
	return m.res.resolve(t).exclude[field]
}

type run struct {
	res   *resolver
	pairs map[[2]*node.Node]any
}

func (r *run) merge(a, b any) any {
	ka, kb := node.KindOf(a), node.KindOf(b)
	if ka != kb {
		return b
	}

	switch ka {
	case node.KindNull:
		return a
	case node.KindScalar:
		if a == b {
			return a
		}
		return b
	case node.KindNode:
		return r.mergeNode(a.(*node.Node), b.(*node.Node))
	case node.KindList:
		return r.mergeList(a.([]any), b.([]any))
	case node.KindRecord:
		return r.mergeRecord(a.(map[string]any), b.(map[string]any))
	case node.KindCallable:
		if sameFunc(a, b) {
			return a
		}
		if cmp := r.res.opts.Callable; cmp != nil {
			if v, ok := cmp(a, b); ok {
				return v
			}
		}
	}
	return b
}

func (r *run) mergeNode(a, b *node.Node) any {
	if a == b {
		return a
	}
	if a.TypeName() != b.TypeName() {
		return b
	}

	pair := [2]*node.Node{a, b}
	if v, ok := r.pairs[pair]; ok {
		return v
	}
	r.pairs[pair] = a

	eff := r.res.resolve(a.Type())
	for _, diff := range eff.diffs {
		if v, ok := diff(a, b); ok {
			r.pairs[pair] = v
			return v
		}
	}

	for _, f := range a.Type().Fields() {
		if eff.exclude[f.Name] {
			continue
		}
		bv, ok := b.Get(f.Name)
		if !ok {
			a.Delete(f.Name)
			continue
		}
		av, _ := a.Get(f.Name)
		if err := a.Set(f.Name, r.merge(av, bv)); err != nil {
			// A diff override produced a value the field rejects.
			a.CopyField(b, f.Name)
		}
	}
	return a
}

func (r *run) mergeList(a, b []any) any {
	if sameSlice(a, b) {
		return a
	}
	if len(a) > len(b) {
		clear(a[len(b):])
		a = a[:len(b)]
	}
	for i := range a {
		a[i] = r.merge(a[i], b[i])
	}
	return append(a, b[len(a):]...)
}

func (r *run) mergeRecord(a, b map[string]any) any {
	if reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer() {
		return a
	}
	if a == nil {
		a = make(map[string]any, len(b))
	}
	for k, bv := range b {
		if av, ok := a[k]; ok {
			a[k] = r.merge(av, bv)
		} else {
			a[k] = bv
		}
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			delete(a, k)
		}
	}
	return a
}

func sameSlice(a, b []any) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func sameFunc(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
