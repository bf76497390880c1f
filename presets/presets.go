// Package presets loads named effect configurations from TOML.
//
// A preset file lists effects by kind with parameter values keyed by the
// names of the effect's fx.ParamSet:
//
//	[[preset]]
//	name = "noir"
//	kind = "colormatrix"
//
//	[preset.params]
//	Matrix = [0.2126, 0.2126, 0.2126, 0, 0.7152, 0.7152, 0.7152, 0, 0.0722, 0.0722, 0.0722, 0, 0, 0, 0, 1]
//
//	[[preset]]
//	name = "soft-threshold"
//	kind = "threshold"
//
//	[preset.params]
//	Threshold = 0.4
//	Smoothness = 0.1
//
// Scalars are numbers and booleans are true or false. Vectors are arrays,
// as are matrices, whose elements are listed column by column.
package presets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/effects"
)

// ErrUnknownPreset is returned when a preset name is not in the file.
var ErrUnknownPreset = errors.New("presets: unknown preset")

// Preset is one named effect configuration.
type Preset struct {
	Name   string         `toml:"name"`
	Kind   fx.Kind        `toml:"kind"`
	Params map[string]any `toml:"params"`
}

// File is a decoded preset file.
type File struct {
	Presets []Preset `toml:"preset"`
}

// Decode reads a preset file from r. Unknown top-level keys are rejected.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("presets: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("presets: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads the preset file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Encode writes f as TOML.
func Encode(w io.Writer, f *File) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("presets: %w", err)
	}
	return nil
}

func (f *File) validate() error {
	seen := make(map[string]bool, len(f.Presets))
	for i, p := range f.Presets {
		if p.Name == "" {
			return fmt.Errorf("presets: preset %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("presets: duplicate preset %q", p.Name)
		}
		seen[p.Name] = true
		if _, ok := effects.Lookup(p.Kind); !ok {
			return fmt.Errorf("presets: preset %q: %w: %q", p.Name, fx.ErrUnknownKind, p.Kind)
		}
	}
	return nil
}

// Names returns the preset names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.Presets))
	for i, p := range f.Presets {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the preset called name.
func (f *File) Lookup(name string) (Preset, bool) {
	i := slices.IndexFunc(f.Presets, func(p Preset) bool { return p.Name == name })
	if i < 0 {
		return Preset{}, false
	}
	return f.Presets[i], true
}

// Build creates the effect of the preset called name on h and applies its
// parameters.
func (f *File) Build(h *fx.Host, name string) (fx.Tunable, error) {
	p, ok := f.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p.Build(h)
}

// Build creates the preset's effect on h and applies its parameters.
// The effect is closed if a parameter is rejected.
func (p Preset) Build(h *fx.Host) (fx.Tunable, error) {
	e, err := effects.New(h, p.Kind)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(e.Params()); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

// Apply sets every parameter of p on params, in sorted name order.
func (p Preset) Apply(params *fx.ParamSet) error {
	names := make([]string, 0, len(p.Params))
	for name := range p.Params {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		v, err := floats(p.Params[name])
		if err != nil {
			return fmt.Errorf("presets: %s.%s: %w", p.Name, name, err)
		}
		if err := params.Set(name, v...); err != nil {
			return fmt.Errorf("presets: %s: %w", p.Name, err)
		}
	}
	return nil
}

// Capture records the current parameter values of params as a preset.
func Capture(name string, kind fx.Kind, params *fx.ParamSet) (Preset, error) {
	p := Preset{Name: name, Kind: kind, Params: make(map[string]any, params.Len())}
	for _, n := range params.Names() {
		v, err := params.Get(n)
		if err != nil {
			return Preset{}, err
		}
		param, _ := params.Lookup(n)
		switch {
		case param.Kind == fx.ParamBool:
			p.Params[n] = v[0] != 0
		case len(v) == 1:
			p.Params[n] = float64(v[0])
		default:
			vals := make([]float64, len(v))
			for i, x := range v {
				vals[i] = float64(x)
			}
			p.Params[n] = vals
		}
	}
	return p, nil
}

// floats converts a decoded TOML value to parameter components.
func floats(v any) ([]float32, error) {
	switch x := v.(type) {
	case float64:
		return []float32{float32(x)}, nil
	case int64:
		return []float32{float32(x)}, nil
	case bool:
		if x {
			return []float32{1}, nil
		}
		return []float32{0}, nil
	case []float64:
		out := make([]float32, len(x))
		for i, f := range x {
			out[i] = float32(f)
		}
		return out, nil
	case []any:
		out := make([]float32, 0, len(x))
		for _, elem := range x {
			f, err := floats(elem)
			if err != nil {
				return nil, err
			}
			if len(f) != 1 {
				return nil, fmt.Errorf("nested value %v", elem)
			}
			out = append(out, f[0])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
