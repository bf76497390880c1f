package effects

import "github.com/gogpu/fx"

type vignetteConstants struct {
	Color    fx.Vec3
	Radius   float32
	Center   fx.Vec2
	Softness float32
	Aspect   float32
}

const (
	vignetteShapeDirty fx.DirtyFlags = 1 << iota
	vignetteColorDirty
)

var radiusRange = fx.Range{Min: 0.01, Max: 2}

// Vignette fades the image toward Color outside an ellipse around Center.
// The ellipse is corrected for the input's aspect ratio.
type Vignette struct {
	*fx.Bindable[vignetteConstants]

	center   fx.Vec2
	radius   float32
	softness float32
	color    fx.Vec3
	aspect   float32
}

// NewVignette creates a black vignette centered on the image.
func NewVignette(h *fx.Host) (*Vignette, error) {
	e := &Vignette{center: fx.V2(0.5, 0.5), radius: 0.75, softness: 0.45, aspect: 1}
	b, err := newPostEffect(h, KindVignette, 1,
		fx.DerivedGroup[vignetteConstants]{Name: "shape", Flag: vignetteShapeDirty, Update: e.packShape},
		fx.DerivedGroup[vignetteConstants]{Name: "color", Flag: vignetteColorDirty, Update: e.packColor},
	)
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

func (e *Vignette) packShape(d *vignetteConstants) {
	d.Center = e.center
	d.Radius = e.radius
	d.Softness = e.softness
	d.Aspect = e.aspect
}

func (e *Vignette) packColor(d *vignetteConstants) { d.Color = e.color }

// Center returns the ellipse center in UV space.
func (e *Vignette) Center() fx.Vec2 { return e.center }

// SetCenter sets the ellipse center; both components in [0, 1].
func (e *Vignette) SetCenter(v fx.Vec2) error {
	if err := fx.CheckRange("Center.x", v.X, fx.Unit); err != nil {
		return err
	}
	if err := fx.CheckRange("Center.y", v.Y, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.center, v, vignetteShapeDirty)
	return nil
}

// Radius returns the distance at which the vignette is fully applied.
func (e *Vignette) Radius() float32 { return e.radius }

// SetRadius sets the outer radius in [0.01, 2].
func (e *Vignette) SetRadius(v float32) error {
	if err := fx.CheckRange("Radius", v, radiusRange); err != nil {
		return err
	}
	fx.Assign(e, &e.radius, v, vignetteShapeDirty)
	return nil
}

// Softness returns the width of the fade inside the radius.
func (e *Vignette) Softness() float32 { return e.softness }

// SetSoftness sets the fade width in [0, 1].
func (e *Vignette) SetSoftness(v float32) error {
	if err := fx.CheckRange("Softness", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.softness, v, vignetteShapeDirty)
	return nil
}

// Color returns the vignette color.
func (e *Vignette) Color() fx.Vec3 { return e.color }

// SetColor sets the vignette color; each component in [0, 1].
func (e *Vignette) SetColor(v fx.Vec3) error {
	if err := fx.CheckVec3("Color", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.color, v, vignetteColorDirty)
	return nil
}

// Aspect returns the width/height ratio used to round the ellipse.
func (e *Vignette) Aspect() float32 { return e.aspect }

// Input returns the input texture.
func (e *Vignette) Input() fx.Texture { return e.Texture(0) }

// SetInput sets the input texture and adopts its aspect ratio.
func (e *Vignette) SetInput(tex fx.Texture) {
	e.SetTexture(0, tex)
	if tex != nil && tex.Width() > 0 && tex.Height() > 0 {
		fx.Assign(e, &e.aspect, float32(tex.Width())/float32(tex.Height()), vignetteShapeDirty)
	}
}

// Params implements fx.Tunable.
func (e *Vignette) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.Vec2Param("Center", fx.Unit, e.Center, e.SetCenter),
		fx.ScalarParam("Radius", radiusRange, e.Radius, e.SetRadius),
		fx.ScalarParam("Softness", fx.Unit, e.Softness, e.SetSoftness),
		fx.Vec3Param("Color", fx.Unit, e.Color, e.SetColor),
	)
}
