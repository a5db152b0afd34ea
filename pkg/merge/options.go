package merge

import (
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/schema"
)

// DiffFunc overrides the merge of two nodes of the same type. When ok is true
// the returned value is used as the merged value.
type DiffFunc func(a, b *node.Node) (merged any, ok bool)

// CompareFunc decides the merge of two callables. When ok is true the returned
// value is used as the merged value.
type CompareFunc func(a, b any) (merged any, ok bool)

// TypeOptions configures merging for one type and its descendants.
type TypeOptions struct {
	// Exclude lists fields that are left untouched on the target.
	Exclude []string

	// Diff is tried before field-wise merging.
	Diff DiffFunc
}

// Options configures a [Merger].
type Options struct {
	// Types maps type names to their options.
	Types map[string]TypeOptions

	// Callable merges two callable values. Without it b wins.
	Callable CompareFunc
}

// Exclude adds an exclusion for typeName and returns the options for chaining.
func (o Options) Exclude(typeName string, fields ...string) Options {
	types := make(map[string]TypeOptions, len(o.Types)+1)
	for k, v := range o.Types {
		types[k] = v
	}
	to := types[typeName]
	to.Exclude = append(slices.Clone(to.Exclude), fields...)
	types[typeName] = to
	o.Types = types
	return o
}

// ParseExcludes parses "Type.field" selectors into options.
func ParseExcludes(selectors []string) (Options, error) {
	var o Options
	for _, sel := range selectors {
		typeName, field, ok := strings.Cut(sel, ".")
		if !ok || typeName == "" || field == "" {
			return Options{}, errors.New(errors.ErrCodeInvalidInput, "invalid exclude %q: want Type.field", sel)
		}
		o = o.Exclude(typeName, field)
	}
	return o, nil
}

// effective holds the options of a type after cascading its lineage.
type effective struct {
	exclude map[string]bool
	diffs   []DiffFunc // root ancestor first
}

// resolver caches effective options per type.
type resolver struct {
	opts  Options
	mu    sync.Mutex
	cache map[*schema.Type]*effective
}

func (r *resolver) resolve(t *schema.Type) *effective {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cache[t]; ok {
		return e
	}
	e := &effective{exclude: map[string]bool{schema.IDField: true}}
	lineage := t.Lineage()
	for i := len(lineage) - 1; i >= 0; i-- {
		to, ok := r.opts.Types[lineage[i].Name()]
		if !ok {
			continue
		}
		for _, f := range to.Exclude {
			e.exclude[f] = true
		}
		if to.Diff != nil {
			e.diffs = append(e.diffs, to.Diff)
		}
	}
	r.cache[t] = e
	return e
}
