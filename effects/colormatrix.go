package effects

import "github.com/gogpu/fx"

type colorMatrixConstants struct {
	Matrix fx.Mat4
	Bias   fx.Vec4
}

const colorMatrixDirty fx.DirtyFlags = 1 << 0

// ColorMatrix transforms straight (unpremultiplied) RGBA by a 4x4 matrix and
// adds a bias. The result is clamped and premultiplied again.
type ColorMatrix struct {
	*fx.Bindable[colorMatrixConstants]

	matrix fx.Mat4
	bias   fx.Vec4
}

// NewColorMatrix creates an identity color matrix.
func NewColorMatrix(h *fx.Host) (*ColorMatrix, error) {
	e := &ColorMatrix{matrix: fx.Identity4()}
	b, err := newPostEffect(h, KindColorMatrix, 1, fx.DerivedGroup[colorMatrixConstants]{
		Name:   "matrix",
		Flag:   colorMatrixDirty,
		Update: e.pack,
	})
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

func (e *ColorMatrix) pack(d *colorMatrixConstants) {
	d.Matrix = e.matrix
	d.Bias = e.bias
}

// Matrix returns the color matrix.
func (e *ColorMatrix) Matrix() fx.Mat4 { return e.matrix }

// SetMatrix sets the color matrix. All elements must be finite.
func (e *ColorMatrix) SetMatrix(m fx.Mat4) error {
	if err := fx.CheckMat4("Matrix", m); err != nil {
		return err
	}
	fx.Assign(e, &e.matrix, m, colorMatrixDirty)
	return nil
}

// Bias returns the value added after the matrix.
func (e *ColorMatrix) Bias() fx.Vec4 { return e.bias }

// SetBias sets the value added after the matrix; components in [-1, 1].
func (e *ColorMatrix) SetBias(v fx.Vec4) error {
	if err := fx.CheckVec4("Bias", v, fx.Signed); err != nil {
		return err
	}
	fx.Assign(e, &e.bias, v, colorMatrixDirty)
	return nil
}

// Input returns the input texture.
func (e *ColorMatrix) Input() fx.Texture { return e.Texture(0) }

// SetInput sets the input texture.
func (e *ColorMatrix) SetInput(tex fx.Texture) { e.SetTexture(0, tex) }

// Params implements fx.Tunable.
func (e *ColorMatrix) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.Mat4Param("Matrix", e.Matrix, e.SetMatrix),
		fx.Vec4Param("Bias", fx.Signed, e.Bias, e.SetBias),
	)
}

// Rec. 709 luma weights, shared by every grayscale conversion.
const lumaR, lumaG, lumaB = 0.2126, 0.7152, 0.0722

// GrayscaleMatrix returns a Rec. 709 luma matrix.
func GrayscaleMatrix() fx.Mat4 {
	return rowMajor(
		lumaR, lumaG, lumaB, 0,
		lumaR, lumaG, lumaB, 0,
		lumaR, lumaG, lumaB, 0,
		0, 0, 0, 1,
	)
}

// SepiaMatrix returns the common sepia tone matrix.
func SepiaMatrix() fx.Mat4 {
	return rowMajor(
		0.393, 0.769, 0.189, 0,
		0.349, 0.686, 0.168, 0,
		0.272, 0.534, 0.131, 0,
		0, 0, 0, 1,
	)
}

// SaturationMatrix returns a matrix that scales saturation by s
// (0 is grayscale, 1 is identity).
func SaturationMatrix(s float32) fx.Mat4 {
	const lr, lg, lb = lumaR, lumaG, lumaB
	i := 1 - s
	return rowMajor(
		lr*i+s, lg*i, lb*i, 0,
		lr*i, lg*i+s, lb*i, 0,
		lr*i, lg*i, lb*i+s, 0,
		0, 0, 0, 1,
	)
}

// rowMajor builds a Mat4 from elements written in reading order.
func rowMajor(v ...float32) fx.Mat4 {
	var m fx.Mat4
	for row := range 4 {
		for col := range 4 {
			m[col*4+row] = v[row*4+col]
		}
	}
	return m
}
