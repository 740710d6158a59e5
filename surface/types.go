// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
)

// Rect is an axis-aligned rectangle in normalized texture space.
//
// The origin is the top-left corner of the texture, X grows right and Y grows
// down, matching image.Image coordinates. A rect covering the whole texture is
// {0, 0, 1, 1}.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// UnitRect returns the rect covering the whole texture.
func UnitRect() Rect {
	return Rect{Width: 1, Height: 1}
}

// XMin returns the left edge.
func (r Rect) XMin() float32 { return r.X }

// XMax returns the right edge.
func (r Rect) XMax() float32 { return r.X + r.Width }

// YMin returns the top edge.
func (r Rect) YMin() float32 { return r.Y }

// YMax returns the bottom edge.
func (r Rect) YMax() float32 { return r.Y + r.Height }

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Sub maps region, given in coordinates normalized to r, into the coordinate
// space r itself lives in. Sub(UnitRect()) returns r.
func (r Rect) Sub(region Rect) Rect {
	x0 := Lerp(r.XMin(), r.XMax(), region.XMin())
	y0 := Lerp(r.YMin(), r.YMax(), region.YMin())
	x1 := Lerp(r.XMin(), r.XMax(), region.XMax())
	y1 := Lerp(r.YMin(), r.YMax(), region.YMax())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Pixels converts the rect to pixel coordinates of a width x height texture.
// Edges are rounded to the nearest pixel boundary.
func (r Rect) Pixels(width, height int) image.Rectangle {
	w, h := float32(width), float32(height)
	return image.Rect(
		int(math32.Floor(r.XMin()*w+0.5)),
		int(math32.Floor(r.YMin()*h+0.5)),
		int(math32.Floor(r.XMax()*w+0.5)),
		int(math32.Floor(r.YMax()*h+0.5)),
	)
}

// Vec4 packs the rect as (x, y, width, height), the layout shaders receive.
func (r Rect) Vec4() [4]float32 {
	return [4]float32{r.X, r.Y, r.Width, r.Height}
}

// String returns a string representation of the rect.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Lerp interpolates between a and b without clamping t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Material selects the compositing program a blit runs with.
type Material uint8

const (
	// MaterialBlit copies the source stretched over TargetRect, replacing the
	// destination pixels. Used to clear slots with the blank texture.
	MaterialBlit Material = iota

	// MaterialSliced samples the source through 9-slice control points,
	// applies the color matrix and mask, and composites over the destination
	// inside TargetRect.
	MaterialSliced
)

// String returns the material name.
func (m Material) String() string {
	switch m {
	case MaterialBlit:
		return "Blit"
	case MaterialSliced:
		return "Sliced"
	default:
		return fmt.Sprintf("Material(%d)", m)
	}
}

// IdentityColorMatrix is the column-major color matrix that leaves colors
// unchanged.
var IdentityColorMatrix = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// BlitParams is the parameter set of one textured quad draw into a surface.
// All rects are normalized; TargetRect is in surface space, BorderRect is
// normalized to TargetRect, MaskRect is in mask texture space.
type BlitParams struct {
	Material Material

	// TargetRect is the destination area of the surface.
	TargetRect Rect

	// BorderRect is the stretchable interior of the 9-slice grid.
	// {0, 0, 1, 1} disables slicing.
	BorderRect Rect

	// UVx and UVy are the source control points per axis: outer-min,
	// inner-min, inner-max, outer-max.
	UVx, UVy [4]float32

	// ColorMatrix is column-major: out.rgb = M * (in.rgb, 1), out.a = in.a * M[15].
	ColorMatrix [16]float32

	// MaskTexture multiplies the drawn color per pixel when non-nil.
	MaskTexture image.Image
	MaskRect    Rect
}

// BlitParamsFor returns parameters that stretch-copy the whole source into
// target using MaterialBlit.
func BlitParamsFor(target Rect) *BlitParams {
	return &BlitParams{
		Material:    MaterialBlit,
		TargetRect:  target,
		BorderRect:  UnitRect(),
		UVx:         [4]float32{0, 0, 1, 1},
		UVy:         [4]float32{0, 0, 1, 1},
		ColorMatrix: IdentityColorMatrix,
		MaskRect:    UnitRect(),
	}
}

// Descriptor describes the texture backing a surface.
type Descriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture size in pixels.
	Width, Height int

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// MipLevelCount is the number of mip levels. Atlases use 1.
	MipLevelCount uint32

	// Sampling of the texture when it is bound for drawing.
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode

	// Provider is an optional host device provider for GPU backends
	// (for example a gpucontext.DeviceProvider that exposes HAL types).
	Provider any
}

// DefaultDescriptor returns a descriptor with no mipmaps, bilinear filtering
// and clamp-to-edge addressing.
func DefaultDescriptor(width, height int) Descriptor {
	return Descriptor{
		Label:         "iconatlas",
		Width:         width,
		Height:        height,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		MagFilter:     gputypes.FilterModeLinear,
		MinFilter:     gputypes.FilterModeLinear,
		AddressModeU:  gputypes.AddressModeClampToEdge,
		AddressModeV:  gputypes.AddressModeClampToEdge,
	}
}

// SupportedFormat reports whether surfaces can be created with format.
// Only 8-bit four-channel formats are supported.
func SupportedFormat(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}

// IsBGRA reports whether format stores blue in the first byte.
func IsBGRA(format gputypes.TextureFormat) bool {
	return format == gputypes.TextureFormatBGRA8Unorm ||
		format == gputypes.TextureFormatBGRA8UnormSrgb
}
