// Package chunkfile loads chunk libraries from YAML definitions. The file
// format is the authoring surface for templates; the engine itself never
// touches the filesystem.
package chunkfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chunkstitch/chunkstitch/pkg/chunk"
	"github.com/chunkstitch/chunkstitch/pkg/geom"
)

// ErrBadFile marks structural problems in a chunk file: wrong dims,
// malformed coordinates, or template definitions that fail validation.
var ErrBadFile = errors.New("chunkfile: invalid chunk file")

// File is a parsed chunk-library definition.
//
//	dims: 2
//	templates:
//	  - tag: room
//	    weight: 3
//	    allow_rotation: true
//	    extents: [10, 8]
//	    anchors:
//	      - {pos: [0, 4], tag: door}
//	    contexts:
//	      - {pos: [0, 4], tag: door}
//	      - {pos: [10, 4], tag: door}
type File struct {
	Dims      int           `yaml:"dims"`
	Templates []TemplateDef `yaml:"templates"`
}

// TemplateDef is one template entry. A zero weight defaults to 1.
type TemplateDef struct {
	Tag           string      `yaml:"tag"`
	Weight        int         `yaml:"weight"`
	AllowRotation bool        `yaml:"allow_rotation"`
	Extents       []float64   `yaml:"extents"`
	Anchors       []SocketDef `yaml:"anchors"`
	Contexts      []SocketDef `yaml:"contexts"`
}

// SocketDef is an anchor or context position within a template.
type SocketDef struct {
	Pos []float64 `yaml:"pos"`
	Tag string    `yaml:"tag"`
}

// Parse decodes a chunk file from YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadFile, err)
	}
	if f.Dims != 2 && f.Dims != 3 {
		return nil, fmt.Errorf("%w: dims must be 2 or 3, got %d", ErrBadFile, f.Dims)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("%w: no templates defined", ErrBadFile)
	}
	return &f, nil
}

// Load reads and parses a chunk file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chunkfile: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return f, nil
}

// Library2 builds a 2D chunk library from the file. Fails unless dims is 2.
func (f *File) Library2() (*chunk.Library[geom.Vec2], error) {
	if f.Dims != 2 {
		return nil, fmt.Errorf("%w: file is %dD, want 2D", ErrBadFile, f.Dims)
	}
	return buildLibrary(f.Templates, vec2At)
}

// Library3 builds a 3D chunk library from the file. Fails unless dims is 3.
func (f *File) Library3() (*chunk.Library[geom.Vec3], error) {
	if f.Dims != 3 {
		return nil, fmt.Errorf("%w: file is %dD, want 3D", ErrBadFile, f.Dims)
	}
	return buildLibrary(f.Templates, vec3At)
}

func buildLibrary[V geom.Vector[V]](defs []TemplateDef, vec func([]float64) (V, error)) (*chunk.Library[V], error) {
	lib := chunk.NewLibrary[V]()
	for i, def := range defs {
		extents, err := vec(def.Extents)
		if err != nil {
			return nil, fmt.Errorf("%w: template %d extents: %w", ErrBadFile, i, err)
		}
		weight := def.Weight
		if weight == 0 {
			weight = 1
		}
		t, err := chunk.NewTemplate(extents, weight, def.Tag, def.AllowRotation)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		for j, a := range def.Anchors {
			pos, err := vec(a.Pos)
			if err != nil {
				return nil, fmt.Errorf("%w: template %d anchor %d: %w", ErrBadFile, i, j, err)
			}
			if err := t.AddAnchor(pos, a.Tag); err != nil {
				return nil, fmt.Errorf("template %d anchor %d: %w", i, j, err)
			}
		}
		for j, c := range def.Contexts {
			pos, err := vec(c.Pos)
			if err != nil {
				return nil, fmt.Errorf("%w: template %d context %d: %w", ErrBadFile, i, j, err)
			}
			if err := t.AddContext(pos, c.Tag); err != nil {
				return nil, fmt.Errorf("template %d context %d: %w", i, j, err)
			}
		}
		if err := lib.Add(t); err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
	}
	return lib, nil
}

func vec2At(c []float64) (geom.Vec2, error) {
	if len(c) != 2 {
		return geom.Vec2{}, fmt.Errorf("want 2 components, got %d", len(c))
	}
	return geom.V2(c[0], c[1]), nil
}

func vec3At(c []float64) (geom.Vec3, error) {
	if len(c) != 3 {
		return geom.Vec3{}, fmt.Errorf("want 3 components, got %d", len(c))
	}
	return geom.V3(c[0], c[1], c[2]), nil
}
