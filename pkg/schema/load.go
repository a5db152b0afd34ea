package schema

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/typegraph/pkg/errors"
)

// Supported schema file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// File is the on-disk shape of a schema file.
type File struct {
	Types []Descriptor `toml:"types" yaml:"types"`
}

// FormatFromPath infers the schema format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported schema file extension %q (want .toml, .yaml or .yml)", filepath.Ext(path))
}

// LoadFile reads a schema file and registers its types into reg.
// It returns the newly registered types in registration order.
func LoadFile(reg *Registry, path string) ([]*Type, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open schema %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open schema %s", path)
	}
	defer f.Close()
	return Load(reg, f, format)
}

// Load decodes descriptors from r in the given format and registers them.
// Descriptors may appear in any order; parents are registered before children.
func Load(reg *Registry, r io.Reader, format string) ([]*Type, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read schema")
	}
	file, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return RegisterAll(reg, file.Types)
}

// Parse decodes a schema file without registering anything.
func Parse(data []byte, format string) (*File, error) {
	var file File
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml schema")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml schema")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported schema format %q", format)
	}
	return &file, nil
}

// RegisterAll registers descriptors parent-first.
//
// Parents must be either in descs or already registered in reg. An extends
// cycle is reported as INVALID_SCHEMA before any descriptor is registered.
func RegisterAll(reg *Registry, descs []Descriptor) ([]*Type, error) {
	ordered, err := sortByExtends(reg, descs)
	if err != nil {
		return nil, err
	}
	out := make([]*Type, 0, len(ordered))
	for _, d := range ordered {
		t, err := reg.Register(d)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	if err := reg.Verify(); err != nil {
		return out, err
	}
	return out, nil
}

// sortByExtends orders descriptors so that every parent precedes its children.
// Relative order of unrelated descriptors is preserved.
func sortByExtends(reg *Registry, descs []Descriptor) ([]Descriptor, error) {
	const (
		white = iota
		gray
		black
	)

	byName := make(map[string]int, len(descs))
	for i, d := range descs {
		if _, dup := byName[d.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "type %q declared twice", d.Name)
		}
		byName[d.Name] = i
	}

	color := make([]int, len(descs))
	out := make([]Descriptor, 0, len(descs))
	var path []string

	var visit func(i int) error
	visit = func(i int) error {
		d := descs[i]
		color[i] = gray
		path = append(path, d.Name)
		if d.Extends != "" {
			if j, ok := byName[d.Extends]; ok {
				switch color[j] {
				case white:
					if err := visit(j); err != nil {
						return err
					}
				case gray:
					return errors.New(errors.ErrCodeInvalidSchema, "extends cycle: %s -> %s",
						strings.Join(path, " -> "), d.Extends)
				}
			} else if _, ok := reg.Lookup(d.Extends); !ok {
				return errors.New(errors.ErrCodeUnknownType, "type %q extends unknown type %q", d.Name, d.Extends)
			}
		}
		path = path[:len(path)-1]
		color[i] = black
		out = append(out, d)
		return nil
	}

	for i := range descs {
		if color[i] == white {
			if err := visit(i); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
