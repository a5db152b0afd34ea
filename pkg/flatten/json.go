package flatten

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/typegraph/pkg/errors"
)

// UnmarshalJSON decodes a flattened graph, turning {"$ref": id} objects into
// [Ref] tokens and numbers into int64 or float64.
func (f *Flattened) UnmarshalJSON(data []byte) error {
	var raw struct {
		Root  any                       `json:"root"`
		Types map[string]map[string]any `json:"types"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	f.Root = decodeValue(raw.Root)
	f.Types = make(map[string]Record, len(raw.Types))
	for id, rec := range raw.Types {
		r := make(Record, len(rec))
		for k, v := range rec {
			r[k] = decodeValue(v)
		}
		f.Types[id] = r
	}
	return nil
}

func decodeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if fl, err := x.Float64(); err == nil {
			return fl
		}
		return x.String()
	case []any:
		for i, e := range x {
			x[i] = decodeValue(e)
		}
		return x
	case map[string]any:
		if id, ok := refID(x); ok {
			return Ref{ID: id}
		}
		for k, e := range x {
			x[k] = decodeValue(e)
		}
		return x
	}
	return v
}

// Marshal encodes f as indented JSON.
func Marshal(f *Flattened) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON produced by [Marshal].
func Unmarshal(data []byte) (*Flattened, error) {
	return ReadJSON(bytes.NewReader(data))
}

// WriteJSON encodes f as indented JSON and writes it to w.
// Map keys are written in sorted order, so equal graphs with equal
// identifiers encode to identical bytes.
func WriteJSON(f *Flattened, w io.Writer) error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "flattened graph is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode flattened graph")
	}
	return nil
}

// ReadJSON decodes a flattened graph from r.
//
// The input must be a JSON object with "root" and "types" keys. ReadJSON only
// checks the JSON shape; use [Validate] or [Unflatten] to check references.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Flattened, error) {
	var f Flattened
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode flattened graph")
	}
	if f.Types == nil {
		f.Types = make(map[string]Record)
	}
	return &f, nil
}

// ExportJSON writes f to a JSON file at path.
func ExportJSON(f *Flattened, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer file.Close()
	return WriteJSON(f, file)
}

// ImportJSON reads a flattened graph from the JSON file at path.
func ImportJSON(path string) (*Flattened, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer file.Close()

	f, err := ReadJSON(file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
	}
	return f, nil
}
