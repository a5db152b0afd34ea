package flatten

import (
	"slices"

	"github.com/matzehuels/typegraph/pkg/errors"
)

// Validate checks that f is self-consistent: every record has a type tag and
// every reference token, from the root or from any record, names a record.
// It does not consult a schema registry.
func Validate(f *Flattened) error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "flattened graph is nil")
	}

	ids := make([]string, 0, len(f.Types))
	for id := range f.Types {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	if err := checkRefs(f, f.Root, "root"); err != nil {
		return err
	}
	for _, id := range ids {
		rec := f.Types[id]
		if rec.TypeName() == "" {
			return errors.CorruptGraph("record %q has no type tag", id)
		}
		for k, v := range rec {
			if err := checkRefs(f, v, id+"."+k); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRefs(f *Flattened, v any, path string) error {
	if id, ok := refID(v); ok {
		if _, ok := f.Types[id]; !ok {
			return errors.CorruptGraph("unresolved $ref %q at %s", id, path)
		}
		return nil
	}
	switch x := v.(type) {
	case []any:
		for _, e := range x {
			if err := checkRefs(f, e, path); err != nil {
				return err
			}
		}
	case map[string]any:
		for k, e := range x {
			if err := checkRefs(f, e, path+"."+k); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats counts the records of f per type tag.
func Stats(f *Flattened) map[string]int {
	out := make(map[string]int)
	if f == nil {
		return out
	}
	for _, rec := range f.Types {
		out[rec.TypeName()]++
	}
	return out
}
