package effects

import "github.com/gogpu/fx"

type depthFogConstants struct {
	Color fx.Vec3
	Scale float32
	Bias  float32
	_     [3]float32
}

const (
	depthFogRangeDirty fx.DirtyFlags = 1 << iota
	depthFogColorDirty
)

// DepthFog blends a color texture toward FogColor using depth read from the
// red channel of a second texture. Fog is 0 at FogStart and 1 at FogEnd.
type DepthFog struct {
	*fx.Bindable[depthFogConstants]

	start, end float32
	color      fx.Vec3
}

// NewDepthFog creates a depth fog effect spanning depths 0.5 to 1.
func NewDepthFog(h *fx.Host) (*DepthFog, error) {
	e := &DepthFog{start: 0.5, end: 1, color: fx.V3(1, 1, 1)}
	b, err := newPostEffect(h, KindDepthFog, 2,
		fx.DerivedGroup[depthFogConstants]{Name: "range", Flag: depthFogRangeDirty, Update: e.packRange},
		fx.DerivedGroup[depthFogConstants]{Name: "color", Flag: depthFogColorDirty, Update: e.packColor},
	)
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

// FogFactors returns scale and bias such that fog = depth*scale + bias is
// 0 at start and 1 at end. When start equals end everything is fully fogged.
func FogFactors(start, end float32) (scale, bias float32) {
	if start == end {
		return 0, 1
	}
	scale = 1 / (end - start)
	return scale, -start * scale
}

func (e *DepthFog) packRange(d *depthFogConstants) { d.Scale, d.Bias = FogFactors(e.start, e.end) }

func (e *DepthFog) packColor(d *depthFogConstants) { d.Color = e.color }

// FogStart returns the depth where fog begins.
func (e *DepthFog) FogStart() float32 { return e.start }

// SetFogStart sets the depth where fog begins, in [0, 1].
func (e *DepthFog) SetFogStart(v float32) error {
	if err := fx.CheckRange("FogStart", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.start, v, depthFogRangeDirty)
	return nil
}

// FogEnd returns the depth where fog is complete.
func (e *DepthFog) FogEnd() float32 { return e.end }

// SetFogEnd sets the depth where fog is complete, in [0, 1].
func (e *DepthFog) SetFogEnd(v float32) error {
	if err := fx.CheckRange("FogEnd", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.end, v, depthFogRangeDirty)
	return nil
}

// FogColor returns the fog color.
func (e *DepthFog) FogColor() fx.Vec3 { return e.color }

// SetFogColor sets the fog color; each component in [0, 1].
func (e *DepthFog) SetFogColor(v fx.Vec3) error {
	if err := fx.CheckVec3("FogColor", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.color, v, depthFogColorDirty)
	return nil
}

// Input returns the color texture.
func (e *DepthFog) Input() fx.Texture { return e.Texture(0) }

// SetInput sets the color texture.
func (e *DepthFog) SetInput(tex fx.Texture) { e.SetTexture(0, tex) }

// Depth returns the depth texture.
func (e *DepthFog) Depth() fx.Texture { return e.Texture(1) }

// SetDepth sets the depth texture.
func (e *DepthFog) SetDepth(tex fx.Texture) { e.SetTexture(1, tex) }

// Params implements fx.Tunable.
func (e *DepthFog) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.ScalarParam("FogStart", fx.Unit, e.FogStart, e.SetFogStart),
		fx.ScalarParam("FogEnd", fx.Unit, e.FogEnd, e.SetFogEnd),
		fx.Vec3Param("FogColor", fx.Unit, e.FogColor, e.SetFogColor),
	)
}
