package effects

import "github.com/gogpu/fx"

type colorToneConstants struct {
	Shift    fx.Vec3
	Strength float32
}

const (
	colorToneShiftDirty fx.DirtyFlags = 1 << iota
	colorToneStrengthDirty
)

// toneScale keeps a full-scale Cb or Cr at half of the YCbCr conversion swing.
const toneScale = 0.5

// ColorTone shifts image chroma. Cb pushes toward blue or yellow and Cr
// toward red or cyan; both default to 0, which leaves the image unchanged.
type ColorTone struct {
	*fx.Bindable[colorToneConstants]

	cb, cr   float32
	strength float32
}

// NewColorTone creates a color tone effect with Cb = Cr = 0 and Strength 1.
func NewColorTone(h *fx.Host) (*ColorTone, error) {
	e := &ColorTone{strength: 1}
	b, err := newPostEffect(h, KindColorTone, 1,
		fx.DerivedGroup[colorToneConstants]{Name: "shift", Flag: colorToneShiftDirty, Update: e.packShift},
		fx.DerivedGroup[colorToneConstants]{Name: "strength", Flag: colorToneStrengthDirty, Update: e.packStrength},
	)
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

// ChromaShift returns the RGB offset produced by Cb and Cr, using the
// inverse YCbCr transform with luma held constant.
func ChromaShift(cb, cr float32) fx.Vec3 {
	return fx.V3(
		1.402*cr,
		-0.344136*cb-0.714136*cr,
		1.772*cb,
	).Mul(toneScale)
}

func (e *ColorTone) packShift(d *colorToneConstants) { d.Shift = ChromaShift(e.cb, e.cr) }

func (e *ColorTone) packStrength(d *colorToneConstants) { d.Strength = e.strength }

// Cb returns the blue-difference offset.
func (e *ColorTone) Cb() float32 { return e.cb }

// SetCb sets the blue-difference offset in [-1, 1].
func (e *ColorTone) SetCb(v float32) error {
	if err := fx.CheckRange("Cb", v, fx.Signed); err != nil {
		return err
	}
	fx.Assign(e, &e.cb, v, colorToneShiftDirty)
	return nil
}

// Cr returns the red-difference offset.
func (e *ColorTone) Cr() float32 { return e.cr }

// SetCr sets the red-difference offset in [-1, 1].
func (e *ColorTone) SetCr(v float32) error {
	if err := fx.CheckRange("Cr", v, fx.Signed); err != nil {
		return err
	}
	fx.Assign(e, &e.cr, v, colorToneShiftDirty)
	return nil
}

// Strength returns the blend strength.
func (e *ColorTone) Strength() float32 { return e.strength }

// SetStrength sets the blend strength in [0, 1].
func (e *ColorTone) SetStrength(v float32) error {
	if err := fx.CheckRange("Strength", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.strength, v, colorToneStrengthDirty)
	return nil
}

// Input returns the input texture.
func (e *ColorTone) Input() fx.Texture { return e.Texture(0) }

// SetInput sets the input texture.
func (e *ColorTone) SetInput(tex fx.Texture) { e.SetTexture(0, tex) }

// Params implements fx.Tunable.
func (e *ColorTone) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.ScalarParam("Cb", fx.Signed, e.Cb, e.SetCb),
		fx.ScalarParam("Cr", fx.Signed, e.Cr, e.SetCr),
		fx.ScalarParam("Strength", fx.Unit, e.Strength, e.SetStrength),
	)
}
