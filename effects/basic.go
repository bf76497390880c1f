// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effects

import (
	"fmt"

	"github.com/gogpu/fx"
)

type basicConstants struct {
	WorldViewProj fx.Mat4
	Diffuse       fx.Vec4 // premultiplied rgb, alpha
	FogColor      fx.Vec3
	_             float32
	FogVector     fx.Vec4
}

const (
	basicMatrixDirty fx.DirtyFlags = 1 << iota
	basicFogDirty
	basicMaterialDirty
	basicFogColorDirty
)

// BasicVertex is the vertex format read by Basic and BasicTextured.
type BasicVertex struct {
	Position fx.Vec3
	UV       fx.Vec2
}

// BasicVertexLayout describes BasicVertex.
var BasicVertexLayout = fx.VertexLayout{
	Stride: 20,
	Attributes: []fx.VertexAttribute{
		{Location: 0, Format: fx.VertexFloat32x3, Offset: 0},
		{Location: 1, Format: fx.VertexFloat32x2, Offset: 12},
	},
}

// BasicEffect transforms geometry by World, View and Projection, shades it
// with a diffuse color and alpha, and optionally applies linear fog by view
// distance. The textured variant also modulates by a texture.
//
// Output is premultiplied: the diffuse color is multiplied by Alpha.
type BasicEffect struct {
	*fx.Bindable[basicConstants]

	world, view, projection fx.Mat4
	diffuse                 fx.Vec3
	alpha                   float32

	fogEnabled       bool
	fogStart, fogEnd float32
	fogColor         fx.Vec3
}

// NewBasic creates an untextured basic effect.
func NewBasic(h *fx.Host) (*BasicEffect, error) {
	return newBasic(h, KindBasic)
}

// NewBasicTextured creates a textured basic effect.
func NewBasicTextured(h *fx.Host) (*BasicEffect, error) {
	return newBasic(h, KindBasicTextured)
}

func newBasic(h *fx.Host, kind fx.Kind) (*BasicEffect, error) {
	e := &BasicEffect{
		world:      fx.Identity4(),
		view:       fx.Identity4(),
		projection: fx.Identity4(),
		diffuse:    fx.V3(1, 1, 1),
		alpha:      1,
		fogStart:   0,
		fogEnd:     1,
	}
	src, err := Source(kind)
	if err != nil {
		return nil, err
	}
	layout := fx.ProgramLayout{ConstantStages: fx.StageAll}
	if kind == KindBasicTextured {
		layout.Textures = 1
		layout.Samplers = 1
	}
	b, err := fx.NewBindable(h, &fx.ProgramDesc{
		Kind:          kind,
		Source:        src,
		Layout:        layout,
		Vertex:        BasicVertexLayout,
		Premultiplied: true,
	},
		fx.DerivedGroup[basicConstants]{Name: "matrix", Flag: basicMatrixDirty, Update: e.packMatrix},
		fx.DerivedGroup[basicConstants]{Name: "fog", Flag: basicFogDirty, Update: e.packFog},
		fx.DerivedGroup[basicConstants]{Name: "material", Flag: basicMaterialDirty, Update: e.packMaterial},
		fx.DerivedGroup[basicConstants]{Name: "fogcolor", Flag: basicFogColorDirty, Update: e.packFogColor},
	)
	if err != nil {
		return nil, err
	}
	e.Bindable = b
	return e, nil
}

func (e *BasicEffect) packMatrix(d *basicConstants) {
	d.WorldViewProj = e.projection.Mul(e.view).Mul(e.world)
}

// FogVector returns v such that dot(position, v) is 0 at view distance start
// and 1 at end, for object-space positions with w = 1. When start equals end
// every position is fully fogged.
func FogVector(worldView fx.Mat4, start, end float32) fx.Vec4 {
	if start == end {
		return fx.V4(0, 0, 0, 1)
	}
	// View distance is -z in a right-handed view space.
	scale := 1 / (start - end)
	z := worldView.Row(2)
	return fx.V4(z.X*scale, z.Y*scale, z.Z*scale, (z.W+start)*scale)
}

func (e *BasicEffect) packFog(d *basicConstants) {
	if !e.fogEnabled {
		d.FogVector = fx.Vec4{}
		return
	}
	d.FogVector = FogVector(e.view.Mul(e.world), e.fogStart, e.fogEnd)
}

func (e *BasicEffect) packMaterial(d *basicConstants) {
	d.Diffuse = e.diffuse.Mul(e.alpha).Vec4(e.alpha)
}

func (e *BasicEffect) packFogColor(d *basicConstants) { d.FogColor = e.fogColor }

// Textured reports whether the effect samples a texture.
func (e *BasicEffect) Textured() bool { return e.Kind() == KindBasicTextured }

// World returns the world matrix.
func (e *BasicEffect) World() fx.Mat4 { return e.world }

// SetWorld sets the world matrix.
func (e *BasicEffect) SetWorld(m fx.Mat4) error {
	if err := fx.CheckMat4("World", m); err != nil {
		return err
	}
	fx.Assign(e, &e.world, m, basicMatrixDirty|basicFogDirty)
	return nil
}

// View returns the view matrix.
func (e *BasicEffect) View() fx.Mat4 { return e.view }

// SetView sets the view matrix.
func (e *BasicEffect) SetView(m fx.Mat4) error {
	if err := fx.CheckMat4("View", m); err != nil {
		return err
	}
	fx.Assign(e, &e.view, m, basicMatrixDirty|basicFogDirty)
	return nil
}

// Projection returns the projection matrix.
func (e *BasicEffect) Projection() fx.Mat4 { return e.projection }

// SetProjection sets the projection matrix. Fog does not depend on it.
func (e *BasicEffect) SetProjection(m fx.Mat4) error {
	if err := fx.CheckMat4("Projection", m); err != nil {
		return err
	}
	fx.Assign(e, &e.projection, m, basicMatrixDirty)
	return nil
}

// DiffuseColor returns the straight (not premultiplied) diffuse color.
func (e *BasicEffect) DiffuseColor() fx.Vec3 { return e.diffuse }

// SetDiffuseColor sets the diffuse color; each component in [0, 1].
func (e *BasicEffect) SetDiffuseColor(v fx.Vec3) error {
	if err := fx.CheckVec3("DiffuseColor", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.diffuse, v, basicMaterialDirty)
	return nil
}

// Alpha returns the material opacity.
func (e *BasicEffect) Alpha() float32 { return e.alpha }

// SetAlpha sets the material opacity in [0, 1].
func (e *BasicEffect) SetAlpha(v float32) error {
	if err := fx.CheckRange("Alpha", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.alpha, v, basicMaterialDirty)
	return nil
}

// FogEnabled reports whether fog is applied.
func (e *BasicEffect) FogEnabled() bool { return e.fogEnabled }

// SetFogEnabled turns fog on or off.
func (e *BasicEffect) SetFogEnabled(on bool) {
	fx.Assign(e, &e.fogEnabled, on, basicFogDirty)
}

// FogStart returns the view distance where fog begins.
func (e *BasicEffect) FogStart() float32 { return e.fogStart }

// SetFogStart sets the view distance where fog begins.
func (e *BasicEffect) SetFogStart(v float32) error {
	if err := fx.CheckRange("FogStart", v, fx.Unbounded); err != nil {
		return err
	}
	fx.Assign(e, &e.fogStart, v, basicFogDirty)
	return nil
}

// FogEnd returns the view distance where fog is complete.
func (e *BasicEffect) FogEnd() float32 { return e.fogEnd }

// SetFogEnd sets the view distance where fog is complete.
func (e *BasicEffect) SetFogEnd(v float32) error {
	if err := fx.CheckRange("FogEnd", v, fx.Unbounded); err != nil {
		return err
	}
	fx.Assign(e, &e.fogEnd, v, basicFogDirty)
	return nil
}

// FogColor returns the fog color.
func (e *BasicEffect) FogColor() fx.Vec3 { return e.fogColor }

// SetFogColor sets the fog color; each component in [0, 1].
func (e *BasicEffect) SetFogColor(v fx.Vec3) error {
	if err := fx.CheckVec3("FogColor", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(e, &e.fogColor, v, basicFogColorDirty)
	return nil
}

// Input returns the diffuse texture, or nil for the untextured variant.
func (e *BasicEffect) Input() fx.Texture {
	if !e.Textured() {
		return nil
	}
	return e.Texture(0)
}

// SetInput sets the diffuse texture of the textured variant.
func (e *BasicEffect) SetInput(tex fx.Texture) error {
	if !e.Textured() {
		return fmt.Errorf("effects: %s has no texture input", e.Kind())
	}
	e.SetTexture(0, tex)
	return nil
}

// Params implements fx.Tunable.
func (e *BasicEffect) Params() *fx.ParamSet {
	return fx.NewParamSet(
		fx.Mat4Param("World", e.World, e.SetWorld),
		fx.Mat4Param("View", e.View, e.SetView),
		fx.Mat4Param("Projection", e.Projection, e.SetProjection),
		fx.Vec3Param("DiffuseColor", fx.Unit, e.DiffuseColor, e.SetDiffuseColor),
		fx.ScalarParam("Alpha", fx.Unit, e.Alpha, e.SetAlpha),
		fx.BoolParam("FogEnabled", e.FogEnabled, e.SetFogEnabled),
		fx.ScalarParam("FogStart", fx.Unbounded, e.FogStart, e.SetFogStart),
		fx.ScalarParam("FogEnd", fx.Unbounded, e.FogEnd, e.SetFogEnd),
		fx.Vec3Param("FogColor", fx.Unit, e.FogColor, e.SetFogColor),
	)
}
