package effects

import "github.com/gogpu/fx"

type thresholdConstants struct {
	Threshold  float32
	Smoothness float32
	_          [2]float32
}

const thresholdDirty fx.DirtyFlags = 1 << 0

// Smoothness range; the band is applied on both sides of the threshold.
var smoothnessRange = fx.Range{Min: 0, Max: 0.5}

// Threshold maps pixels whose luminance is above Threshold to white and the
// rest to black.
type Threshold struct {
	*fx.Bindable[thresholdConstants]

	threshold  float32
	smoothness float32
}

// NewThreshold creates a threshold effect with Threshold 0.5 and no smoothing.
func NewThreshold(h *fx.Host) (*Threshold, error) {
	e := &Threshold{threshold: 0.5}
	b, err := newPostEffect(h, KindThreshold, 1, fx.DerivedGroup[thresholdConstants]{
		Name:   "threshold",
		Flag:   thresholdDirty,
		Update: e.pack,
	})
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

func (e *Threshold) pack(d *thresholdConstants) {
	d.Threshold = e.threshold
	d.Smoothness = e.smoothness
}

// Threshold returns the luminance threshold.
func (e *Threshold) Threshold() float32 { return e.threshold }

// SetThreshold sets the luminance threshold in [0, 1].
func (e *Threshold) SetThreshold(v float32) error {
	if err := fx.CheckRange("Threshold", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.threshold, v, thresholdDirty)
	return nil
}

// Smoothness returns the half-width of the transition band.
func (e *Threshold) Smoothness() float32 { return e.smoothness }

// SetSmoothness sets the half-width of the transition band in [0, 0.5].
func (e *Threshold) SetSmoothness(v float32) error {
	if err := fx.CheckRange("Smoothness", v, smoothnessRange); err != nil {
		return err
	}
	fx.Assign(e, &e.smoothness, v, thresholdDirty)
	return nil
}

// Input returns the input texture.
func (e *Threshold) Input() fx.Texture { return e.Texture(0) }

// SetInput sets the input texture.
func (e *Threshold) SetInput(tex fx.Texture) { e.SetTexture(0, tex) }

// Params implements fx.Tunable.
func (e *Threshold) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.ScalarParam("Threshold", fx.Unit, e.Threshold, e.SetThreshold),
		fx.ScalarParam("Smoothness", smoothnessRange, e.Smoothness, e.SetSmoothness),
	)
}
