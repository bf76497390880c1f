package effects

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/fx"
)

// BlurTaps is the number of distinct sample distances, center included.
// Each pass reads 2*BlurTaps-1 texels.
const BlurTaps = 8

type blurConstants struct {
	// Taps[i].X/Y is the UV offset of distance i, Taps[i].Z its weight.
	Taps [BlurTaps]fx.Vec4
}

const (
	blurWeightsDirty fx.DirtyFlags = 1 << iota
	blurOffsetsDirty
)

var (
	sigmaRange       = fx.Range{Min: 0.1, Max: 4}
	textureSizeRange = fx.Range{Min: 1, Max: 1 << 16}
)

// BlurDirection selects the axis of a blur pass.
type BlurDirection uint8

// Blur directions.
const (
	BlurHorizontal BlurDirection = iota
	BlurVertical
)

func (d BlurDirection) String() string {
	switch d {
	case BlurHorizontal:
		return "horizontal"
	case BlurVertical:
		return "vertical"
	default:
		return fmt.Sprintf("BlurDirection(%d)", uint8(d))
	}
}

// GaussianBlur is one separable gaussian pass. Run it twice, horizontal then
// vertical, for a full 2D blur.
//
// Weights depend only on Sigma; offsets depend on Direction and TextureSize,
// so changing the direction between passes does not recompute weights.
type GaussianBlur struct {
	*fx.Bindable[blurConstants]

	sigma     float32
	direction BlurDirection
	size      fx.Vec2
}

// NewGaussianBlur creates a horizontal blur with Sigma 2 over a 1x1 texture.
// SetInput adopts the input's size.
func NewGaussianBlur(h *fx.Host) (*GaussianBlur, error) {
	e := &GaussianBlur{sigma: 2, size: fx.V2(1, 1)}
	b, err := newPostEffect(h, KindGaussianBlur, 1,
		fx.DerivedGroup[blurConstants]{Name: "weights", Flag: blurWeightsDirty, Update: e.packWeights},
		fx.DerivedGroup[blurConstants]{Name: "offsets", Flag: blurOffsetsDirty, Update: e.packOffsets},
	)
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

// BlurWeights returns normalized gaussian weights for distances 0..BlurTaps-1.
// Every distance but 0 is sampled twice, so w[0] + 2*sum(w[1:]) == 1.
func BlurWeights(sigma float32) [BlurTaps]float32 {
	var w [BlurTaps]float32
	var total float32
	for i := range w {
		x := float32(i)
		w[i] = math32.Exp(-(x * x) / (2 * sigma * sigma))
		if i == 0 {
			total += w[i]
		} else {
			total += 2 * w[i]
		}
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

func (e *GaussianBlur) packWeights(d *blurConstants) {
	for i, w := range BlurWeights(e.sigma) {
		d.Taps[i].Z = w
	}
}

func (e *GaussianBlur) packOffsets(d *blurConstants) {
	step := fx.V2(1/e.size.X, 0)
	if e.direction == BlurVertical {
		step = fx.V2(0, 1/e.size.Y)
	}
	for i := range d.Taps {
		d.Taps[i].X = step.X * float32(i)
		d.Taps[i].Y = step.Y * float32(i)
	}
}

// Sigma returns the gaussian standard deviation in texels.
func (e *GaussianBlur) Sigma() float32 { return e.sigma }

// SetSigma sets the standard deviation in texels, in [0.1, 4].
func (e *GaussianBlur) SetSigma(v float32) error {
	if err := fx.CheckRange("Sigma", v, sigmaRange); err != nil {
		return err
	}
	fx.Assign(e, &e.sigma, v, blurWeightsDirty)
	return nil
}

// Direction returns the pass direction.
func (e *GaussianBlur) Direction() BlurDirection { return e.direction }

// SetDirection sets the pass direction.
func (e *GaussianBlur) SetDirection(d BlurDirection) error {
	if d != BlurHorizontal && d != BlurVertical {
		return &fx.RangeError{Param: "Direction", Value: float32(d), Range: fx.Unit}
	}
	fx.Assign(e, &e.direction, d, blurOffsetsDirty)
	return nil
}

// TextureSize returns the texel grid size used to compute offsets.
func (e *GaussianBlur) TextureSize() fx.Vec2 { return e.size }

// SetTextureSize sets the texel grid size; both components must be at least 1.
func (e *GaussianBlur) SetTextureSize(v fx.Vec2) error {
	if err := fx.CheckRange("TextureSize.x", v.X, textureSizeRange); err != nil {
		return err
	}
	if err := fx.CheckRange("TextureSize.y", v.Y, textureSizeRange); err != nil {
		return err
	}
	fx.Assign(e, &e.size, v, blurOffsetsDirty)
	return nil
}

// Input returns the input texture.
func (e *GaussianBlur) Input() fx.Texture { return e.Texture(0) }

// SetInput sets the input texture and adopts its size, clamped to the
// TextureSize range.
func (e *GaussianBlur) SetInput(tex fx.Texture) {
	e.SetTexture(0, tex)
	if tex != nil && tex.Width() > 0 && tex.Height() > 0 {
		size := fx.V2(
			min(float32(tex.Width()), textureSizeRange.Max),
			min(float32(tex.Height()), textureSizeRange.Max),
		)
		fx.Assign(e, &e.size, size, blurOffsetsDirty)
	}
}

// Params implements fx.Tunable. Direction is exposed as 0 (horizontal) or 1.
func (e *GaussianBlur) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.ScalarParam("Sigma", sigmaRange, e.Sigma, e.SetSigma),
		fx.ScalarParam("Direction", fx.Unit,
			func() float32 { return float32(e.direction) },
			func(v float32) error {
				if v != 0 && v != 1 {
					return &fx.RangeError{Param: "Direction", Value: v, Range: fx.Unit}
				}
				return e.SetDirection(BlurDirection(v))
			}),
		fx.Vec2Param("TextureSize", textureSizeRange, e.TextureSize, e.SetTextureSize),
	)
}
