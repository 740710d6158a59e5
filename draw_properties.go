package iconatlas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/iconatlas/surface"
)

// Rect is a normalized rectangle, origin top-left. See surface.Rect.
type Rect = surface.Rect

// MaskRegion selects what a mask rect is relative to.
type MaskRegion uint8

const (
	// MaskIconRegion maps the mask over the whole icon cell. When a draw
	// region is set, the mask rect is narrowed to the part under it.
	MaskIconRegion MaskRegion = iota

	// MaskDrawRegion maps the mask rect over the draw region as given.
	MaskDrawRegion
)

// String returns the mask region name.
func (m MaskRegion) String() string {
	switch m {
	case MaskIconRegion:
		return "IconRegion"
	case MaskDrawRegion:
		return "DrawRegion"
	default:
		return fmt.Sprintf("MaskRegion(%d)", m)
	}
}

// DrawProperties describes how one Draw composites its source into an icon.
//
// Setters return a modified copy, so properties chain:
//
//	props := iconatlas.DefaultDrawProperties().
//	    WithSaturation(0).
//	    WithSliced(8, 8, 8, 8).
//	    WithMask(roundMask, iconatlas.MaskIconRegion)
//
// The zero value is equivalent to DefaultDrawProperties.
type DrawProperties struct {
	region       Rect
	regionSet    bool
	regionPixels bool

	matrix    ColorMatrix
	matrixSet bool

	// 9-slice insets in icon pixels.
	slicedRight, slicedTop, slicedLeft, slicedBottom int

	// Source border fractions of the source UV rect.
	borderRight, borderTop, borderLeft, borderBottom float32

	mask       image.Image
	maskRect   Rect
	maskRegion MaskRegion
}

// DefaultDrawProperties returns properties that draw the source over the
// whole icon with no color change, slicing or mask.
func DefaultDrawProperties() DrawProperties {
	return DrawProperties{matrix: IdentityColorMatrix(), matrixSet: true}
}

// WithDrawRegion limits drawing to region, normalized to the icon cell.
func (p DrawProperties) WithDrawRegion(region Rect) DrawProperties {
	p.region = region
	p.regionSet = true
	p.regionPixels = false
	return p
}

// WithDrawRegionPixels limits drawing to a pixel rectangle of the icon cell.
// It is normalized by the atlas icon size at draw time.
func (p DrawProperties) WithDrawRegionPixels(x, y, width, height int) DrawProperties {
	p.region = Rect{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}
	p.regionSet = true
	p.regionPixels = true
	return p
}

// WithColor tints the drawn pixels with c.
func (p DrawProperties) WithColor(c color.Color) DrawProperties {
	return p.WithColorMatrix(TintColorMatrix(c))
}

// WithSaturation desaturates the drawn pixels. 0 is grayscale, 1 is unchanged.
func (p DrawProperties) WithSaturation(s float32) DrawProperties {
	return p.WithColorMatrix(SaturationColorMatrix(s))
}

// WithColorMatrix sets the color transform.
func (p DrawProperties) WithColorMatrix(m ColorMatrix) DrawProperties {
	p.matrix = m
	p.matrixSet = true
	return p
}

// WithSliced sets 9-slice insets in icon pixels. The inset borders keep
// their size while the interior stretches.
func (p DrawProperties) WithSliced(right, top, left, bottom int) DrawProperties {
	p.slicedRight, p.slicedTop, p.slicedLeft, p.slicedBottom = right, top, left, bottom
	return p
}

// WithSpriteBorders sets the source borders matching WithSliced, as
// fractions of the source UV rect.
func (p DrawProperties) WithSpriteBorders(right, top, left, bottom float32) DrawProperties {
	p.borderRight, p.borderTop, p.borderLeft, p.borderBottom = right, top, left, bottom
	return p
}

// WithMask multiplies the drawn pixels by the whole of mask.
func (p DrawProperties) WithMask(mask image.Image, region MaskRegion) DrawProperties {
	return p.WithMaskRect(mask, surface.UnitRect(), region)
}

// WithMaskRect multiplies the drawn pixels by the part of mask selected by
// rect, normalized to the mask bounds.
func (p DrawProperties) WithMaskRect(mask image.Image, rect Rect, region MaskRegion) DrawProperties {
	p.mask = mask
	p.maskRect = rect
	p.maskRegion = region
	return p
}

// ColorMatrix returns the color transform. Unset properties return the
// identity.
func (p DrawProperties) ColorMatrix() ColorMatrix {
	if !p.matrixSet {
		return IdentityColorMatrix()
	}
	return p.matrix
}

// Mask returns the mask texture, or nil.
func (p DrawProperties) Mask() image.Image {
	return p.mask
}

// drawRegion returns the draw region normalized to an iconW x iconH cell.
func (p DrawProperties) drawRegion(iconW, iconH int) Rect {
	if !p.regionSet {
		return surface.UnitRect()
	}
	if !p.regionPixels {
		return p.region
	}
	w, h := float32(iconW), float32(iconH)
	return Rect{X: p.region.X / w, Y: p.region.Y / h, Width: p.region.Width / w, Height: p.region.Height / h}
}

// borderRect returns the stretchable interior of the 9-slice grid,
// normalized to the target rect.
func (p DrawProperties) borderRect(iconW, iconH int) Rect {
	w, h := float32(iconW), float32(iconH)
	left := float32(p.slicedLeft) / w
	top := float32(p.slicedTop) / h
	return Rect{
		X:      left,
		Y:      top,
		Width:  1 - float32(p.slicedLeft+p.slicedRight)/w,
		Height: 1 - float32(p.slicedTop+p.slicedBottom)/h,
	}
}

// sourceControlPoints returns the outer and inner source coordinates per
// axis for uv.
func (p DrawProperties) sourceControlPoints(uv Rect) (ux, uy [4]float32) {
	ux = [4]float32{
		uv.XMin(),
		surface.Lerp(uv.XMin(), uv.XMax(), p.borderLeft),
		surface.Lerp(uv.XMax(), uv.XMin(), p.borderRight),
		uv.XMax(),
	}
	uy = [4]float32{
		uv.YMin(),
		surface.Lerp(uv.YMin(), uv.YMax(), p.borderTop),
		surface.Lerp(uv.YMax(), uv.YMin(), p.borderBottom),
		uv.YMax(),
	}
	return ux, uy
}

// maskUV returns the mask rect for a draw into region.
func (p DrawProperties) maskUV(region Rect) Rect {
	m := p.maskRect
	if p.maskRegion != MaskIconRegion {
		return m
	}
	return Rect{
		X:      m.X + m.Width*region.X,
		Y:      m.Y + m.Height*region.Y,
		Width:  m.Width * region.Width,
		Height: m.Height * region.Height,
	}
}
