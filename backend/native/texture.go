package native

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	// Formats accepted by LoadTexture besides the standard library ones.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gogpu/fx"
)

// Texture is a 2D texture with its default view. It implements fx.Texture.
//
// Textures created with CreateRenderTarget can also be rendered into with
// BeginFrame.
type Texture struct {
	dev    *Device
	tex    hal.Texture
	view   hal.TextureView
	format gputypes.TextureFormat
	width  int
	height int
	once   sync.Once
}

// Width implements fx.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements fx.Texture.
func (t *Texture) Height() int { return t.height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Release destroys the view and the texture. Bind groups that reference the
// texture are destroyed first.
func (t *Texture) Release() {
	t.once.Do(func() {
		t.dev.forget(t)
		if t.view != nil {
			t.dev.dev.DestroyTextureView(t.view)
			t.view = nil
		}
		if t.tex != nil {
			t.dev.dev.DestroyTexture(t.tex)
			t.tex = nil
		}
	})
}

// CreateTexture uploads img as an RGBA8 texture.
// Images that are not *image.RGBA are converted first.
func (d *Device) CreateTexture(label string, img image.Image) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("native: texture %q: nil image", label)
	}
	rgba := toRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	t, err := d.newTexture(label, w, h, gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		rgba.Pix,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(rgba.Stride), RowsPerImage: uint32(h)},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	return t, nil
}

// LoadTexture decodes the image file at path and uploads it.
// PNG, JPEG, BMP, TIFF and WebP are supported.
func (d *Device) LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("native: load texture: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("native: decode %s: %w", path, err)
	}
	return d.CreateTexture(path, img)
}

// CreateRenderTarget creates a texture in the device's target format that
// can be drawn into and sampled by a later pass.
func (d *Device) CreateRenderTarget(label string, width, height int) (*Texture, error) {
	return d.newTexture(label, width, height, d.opts.targetFormat,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc)
}

func (d *Device) newTexture(label string, width, height int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	tex, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label: d.label(label),
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", label, err)
	}
	view, err := d.dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         d.label(label + "_view"),
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.dev.DestroyTexture(tex)
		return nil, fmt.Errorf("native: create texture view %q: %w", label, err)
	}
	return &Texture{dev: d, tex: tex, view: view, format: format, width: width, height: height}, nil
}

// toRGBA returns img as a tightly positioned *image.RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

var _ fx.Texture = (*Texture)(nil)
