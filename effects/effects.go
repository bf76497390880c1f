// Package effects provides the built-in fx effect catalog.
//
// Post-processing effects (threshold, colortone, desaturate, gaussianblur,
// colormatrix, vignette, depthfog) draw a fullscreen triangle without a
// vertex buffer and sample their input with the fragment stage. Basic and
// BasicTextured transform caller-provided geometry.
//
// Every effect starts fully dirty, so the first Apply always uploads.
package effects

import (
	"embed"
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/fx"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

// Effect kinds.
const (
	KindThreshold     fx.Kind = "threshold"
	KindColorTone     fx.Kind = "colortone"
	KindDesaturate    fx.Kind = "desaturate"
	KindGaussianBlur  fx.Kind = "gaussianblur"
	KindColorMatrix   fx.Kind = "colormatrix"
	KindVignette      fx.Kind = "vignette"
	KindDepthFog      fx.Kind = "depthfog"
	KindBasic         fx.Kind = "basic"
	KindBasicTextured fx.Kind = "basic_textured"
)

// Info describes a catalog entry.
type Info struct {
	Kind    fx.Kind
	Name    string
	Summary string
	New     func(h *fx.Host) (fx.Tunable, error)
}

// Title returns the display name in title case.
func (i Info) Title() string {
	return cases.Title(language.English).String(i.Name)
}

func wrap[E fx.Tunable](newFn func(*fx.Host) (E, error)) func(*fx.Host) (fx.Tunable, error) {
	return func(h *fx.Host) (fx.Tunable, error) {
		e, err := newFn(h)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

var catalog = []Info{
	{KindThreshold, "threshold", "luminance step with an optional smoothing band", wrap(NewThreshold)},
	{KindColorTone, "color tone", "chroma shift from Cb/Cr offsets", wrap(NewColorTone)},
	{KindDesaturate, "desaturate", "blend toward a tinted grayscale", wrap(NewDesaturate)},
	{KindGaussianBlur, "gaussian blur", "separable 15-tap gaussian pass", wrap(NewGaussianBlur)},
	{KindColorMatrix, "color matrix", "4x4 color transform with bias", wrap(NewColorMatrix)},
	{KindVignette, "vignette", "elliptical edge darkening", wrap(NewVignette)},
	{KindDepthFog, "depth fog", "fog from a depth texture", wrap(NewDepthFog)},
	{KindBasic, "basic", "transformed geometry with diffuse color and fog", wrap(NewBasic)},
	{KindBasicTextured, "basic textured", "basic effect modulated by a texture", wrap(NewBasicTextured)},
}

// Catalog returns every built-in effect in a stable order.
func Catalog() []Info { return slices.Clone(catalog) }

// Lookup returns the catalog entry for kind.
func Lookup(kind fx.Kind) (Info, bool) {
	for _, info := range catalog {
		if info.Kind == kind {
			return info, true
		}
	}
	return Info{}, false
}

// New creates a built-in effect by kind.
func New(h *fx.Host, kind fx.Kind) (fx.Tunable, error) {
	info, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", fx.ErrUnknownKind, kind)
	}
	return info.New(h)
}

// Source returns the embedded WGSL source for kind.
func Source(kind fx.Kind) (string, error) {
	b, err := shaderFS.ReadFile("shaders/" + string(kind) + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("%w: %q", fx.ErrUnknownKind, kind)
	}
	return string(b), nil
}

// newPostEffect builds the Bindable for a fullscreen effect reading
// textures inputs through one sampler.
func newPostEffect[T any](h *fx.Host, kind fx.Kind, textures int, groups ...fx.DerivedGroup[T]) (*fx.Bindable[T], error) {
	src, err := Source(kind)
	if err != nil {
		return nil, err
	}
	return fx.NewBindable(h, &fx.ProgramDesc{
		Kind:   kind,
		Source: src,
		Layout: fx.ProgramLayout{
			ConstantStages: fx.StageFragment,
			Textures:       textures,
			Samplers:       1,
		},
	}, groups...)
}
