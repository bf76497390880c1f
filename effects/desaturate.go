package effects

import "github.com/gogpu/fx"

type desaturateConstants struct {
	Tint       fx.Vec3
	Saturation float32
}

const desaturateDirty fx.DirtyFlags = 1 << 0

// Desaturate blends the input toward its tinted grayscale. Saturation 0 gives
// pure (tinted) gray, 1 leaves the input unchanged.
type Desaturate struct {
	*fx.Bindable[desaturateConstants]

	saturation float32
	tint       fx.Vec3
}

// NewDesaturate creates a desaturate effect with Saturation 0 and a white tint.
func NewDesaturate(h *fx.Host) (*Desaturate, error) {
	e := &Desaturate{tint: fx.V3(1, 1, 1)}
	b, err := newPostEffect(h, KindDesaturate, 1, fx.DerivedGroup[desaturateConstants]{
		Name:   "color",
		Flag:   desaturateDirty,
		Update: e.pack,
	})
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

func (e *Desaturate) pack(d *desaturateConstants) {
	d.Tint = e.tint
	d.Saturation = e.saturation
}

// Saturation returns the amount of original color kept.
func (e *Desaturate) Saturation() float32 { return e.saturation }

// SetSaturation sets the amount of original color kept, in [0, 1].
func (e *Desaturate) SetSaturation(v float32) error {
	if err := fx.CheckRange("Saturation", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.saturation, v, desaturateDirty)
	return nil
}

// Tint returns the grayscale tint.
func (e *Desaturate) Tint() fx.Vec3 { return e.tint }

// SetTint sets the grayscale tint; each component must be in [0, 1].
func (e *Desaturate) SetTint(v fx.Vec3) error {
	if err := fx.CheckVec3("Tint", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.tint, v, desaturateDirty)
	return nil
}

// Input returns the input texture.
func (e *Desaturate) Input() fx.Texture { return e.Texture(0) }

// SetInput sets the input texture.
func (e *Desaturate) SetInput(tex fx.Texture) { e.SetTexture(0, tex) }

// Params implements fx.Tunable.
func (e *Desaturate) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.ScalarParam("Saturation", fx.Unit, e.Saturation, e.SetSaturation),
		fx.Vec3Param("Tint", fx.Unit, e.Tint, e.SetTint),
	)
}
