package fx

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/chewxy/math32"
)

// Range is an inclusive parameter range.
type Range struct {
	Min, Max float32
}

// Unbounded accepts every finite value.
var Unbounded = Range{Min: -math32.MaxFloat32, Max: math32.MaxFloat32}

// Unit is the range [0, 1].
var Unit = Range{Min: 0, Max: 1}

// Signed is the range [-1, 1].
var Signed = Range{Min: -1, Max: 1}

// Contains reports whether v is finite and inside r.
func (r Range) Contains(v float32) bool {
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return false
	}
	return v >= r.Min && v <= r.Max
}

// String formats the range as [min, max].
func (r Range) String() string {
	return "[" + formatFloat(r.Min) + ", " + formatFloat(r.Max) + "]"
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// RangeError reports a rejected parameter value.
type RangeError struct {
	Param string
	Value float32
	Range Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("fx: parameter %s = %s outside %s", e.Param, formatFloat(e.Value), e.Range)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// CheckRange returns a *RangeError if v is NaN, infinite or outside r.
func CheckRange(name string, v float32, r Range) error {
	if !r.Contains(v) {
		return &RangeError{Param: name, Value: v, Range: r}
	}
	return nil
}

// Marker records dirty bits. Bindable and ConstantBuffer implement it.
type Marker interface {
	Mark(flags DirtyFlags)
}

// Assign stores v in *dst and marks flags on m, unless *dst already equals v.
// It reports whether the value changed.
func Assign[V comparable](m Marker, dst *V, v V, flags DirtyFlags) bool {
	if *dst == v {
		return false
	}
	*dst = v
	m.Mark(flags)
	return true
}

// ParamKind is the shape of a parameter value.
type ParamKind uint8

// Parameter kinds.
const (
	ParamScalar ParamKind = iota
	ParamVec2
	ParamVec3
	ParamVec4
	ParamMat4
	ParamBool
)

// Components returns the number of float32 values the kind carries.
func (k ParamKind) Components() int {
	switch k {
	case ParamVec2:
		return 2
	case ParamVec3:
		return 3
	case ParamVec4:
		return 4
	case ParamMat4:
		return 16
	default:
		return 1
	}
}

func (k ParamKind) String() string {
	switch k {
	case ParamScalar:
		return "scalar"
	case ParamVec2:
		return "vec2"
	case ParamVec3:
		return "vec3"
	case ParamVec4:
		return "vec4"
	case ParamMat4:
		return "mat4"
	case ParamBool:
		return "bool"
	default:
		return "ParamKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Param describes one tunable effect parameter.
// Get and Set exchange values as flat float32 slices of Kind.Components length;
// booleans use 0 and 1.
type Param struct {
	Name  string
	Kind  ParamKind
	Range Range
	Get   func() []float32
	Set   func(v []float32) error
}

// ParamSet is an ordered, name-indexed set of parameters.
// It lets tools and presets drive effects without knowing their Go types.
type ParamSet struct {
	params []Param
	index  map[string]int
}

// NewParamSet creates a set from params. Later duplicates replace earlier ones.
func NewParamSet(params ...Param) *ParamSet {
	s := &ParamSet{index: make(map[string]int, len(params))}
	for _, p := range params {
		if i, ok := s.index[p.Name]; ok {
			s.params[i] = p
			continue
		}
		s.index[p.Name] = len(s.params)
		s.params = append(s.params, p)
	}
	return s
}

// Names returns the parameter names in declaration order.
func (s *ParamSet) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of parameters.
func (s *ParamSet) Len() int { return len(s.params) }

// Lookup returns the named parameter.
func (s *ParamSet) Lookup(name string) (Param, bool) {
	i, ok := s.index[name]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// Get returns the current value of the named parameter.
func (s *ParamSet) Get(name string) ([]float32, error) {
	p, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return p.Get(), nil
}

// Set assigns the named parameter. The number of values must match its kind.
func (s *ParamSet) Set(name string, v ...float32) error {
	p, ok := s.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if n := p.Kind.Components(); len(v) != n {
		return fmt.Errorf("fx: parameter %s is %s, got %d values, want %d", name, p.Kind, len(v), n)
	}
	return p.Set(slices.Clone(v))
}

// ScalarParam builds a scalar parameter from a getter and a setter.
func ScalarParam(name string, r Range, get func() float32, set func(float32) error) Param {
	return Param{
		Name:  name,
		Kind:  ParamScalar,
		Range: r,
		Get:   func() []float32 { return []float32{get()} },
		Set:   func(v []float32) error { return set(v[0]) },
	}
}

// BoolParam builds a boolean parameter. It accepts only 0 (false) and 1 (true).
func BoolParam(name string, get func() bool, set func(bool)) Param {
	return Param{
		Name:  name,
		Kind:  ParamBool,
		Range: Unit,
		Get: func() []float32 {
			if get() {
				return []float32{1}
			}
			return []float32{0}
		},
		Set: func(v []float32) error {
			if v[0] != 0 && v[0] != 1 {
				return &RangeError{Param: name, Value: v[0], Range: Unit}
			}
			set(v[0] == 1)
			return nil
		},
	}
}

// Vec2Param builds a two-component parameter.
func Vec2Param(name string, r Range, get func() Vec2, set func(Vec2) error) Param {
	return Param{
		Name:  name,
		Kind:  ParamVec2,
		Range: r,
		Get:   func() []float32 { return get().Slice() },
		Set:   func(v []float32) error { return set(V2(v[0], v[1])) },
	}
}

// Vec3Param builds a three-component parameter.
func Vec3Param(name string, r Range, get func() Vec3, set func(Vec3) error) Param {
	return Param{
		Name:  name,
		Kind:  ParamVec3,
		Range: r,
		Get:   func() []float32 { return get().Slice() },
		Set:   func(v []float32) error { return set(V3(v[0], v[1], v[2])) },
	}
}

// Vec4Param builds a four-component parameter.
func Vec4Param(name string, r Range, get func() Vec4, set func(Vec4) error) Param {
	return Param{
		Name:  name,
		Kind:  ParamVec4,
		Range: r,
		Get:   func() []float32 { return get().Slice() },
		Set:   func(v []float32) error { return set(V4(v[0], v[1], v[2], v[3])) },
	}
}

// Mat4Param builds a matrix parameter. Values are column-major.
func Mat4Param(name string, get func() Mat4, set func(Mat4) error) Param {
	return Param{
		Name:  name,
		Kind:  ParamMat4,
		Range: Unbounded,
		Get: func() []float32 {
			m := get()
			return m[:]
		},
		Set: func(v []float32) error { return set(Mat4(v)) },
	}
}

// CheckVec3 validates every component of v against r.
// Components are reported as name.x, name.y and name.z.
func CheckVec3(name string, v Vec3, r Range) error {
	for i, c := range v.Slice() {
		if err := CheckRange(name+"."+string("xyz"[i]), c, r); err != nil {
			return err
		}
	}
	return nil
}

// CheckVec4 validates every component of v against r.
func CheckVec4(name string, v Vec4, r Range) error {
	for i, c := range v.Slice() {
		if err := CheckRange(name+"."+string("xyzw"[i]), c, r); err != nil {
			return err
		}
	}
	return nil
}

// CheckMat4 rejects matrices with NaN or infinite elements.
func CheckMat4(name string, m Mat4) error {
	for i, c := range m {
		if err := CheckRange(name+"["+strconv.Itoa(i)+"]", c, Unbounded); err != nil {
			return err
		}
	}
	return nil
}
