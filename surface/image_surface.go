// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// ImageSurface is a CPU-based surface that composites into an *image.RGBA.
//
// It implements the full blit contract in software: stretched blank blits
// for MaterialBlit and 9-slice sampling, color matrix and mask for
// MaterialSliced. Pixels are stored premultiplied, like gg's Pixmap.
//
// Example:
//
//	s := surface.NewImageSurface(512, 512)
//	defer s.Release()
//
//	_ = s.Create()
//	_ = s.Blit(icon, params)
//	img := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	format gputypes.TextureFormat
	img    *image.RGBA

	created  bool
	released bool
}

// NewImageSurface creates a CPU surface with the given dimensions.
// The surface is not created yet; call Create before drawing.
func NewImageSurface(width, height int) *ImageSurface {
	return NewImageSurfaceWithDescriptor(DefaultDescriptor(width, height))
}

// NewImageSurfaceWithDescriptor creates a CPU surface from desc.
// Only the size and format are used; sampling state has no CPU meaning.
func NewImageSurfaceWithDescriptor(desc Descriptor) *ImageSurface {
	width, height := desc.Width, desc.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	return &ImageSurface{
		width:  width,
		height: height,
		format: format,
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Format returns the texture format.
func (s *ImageSurface) Format() gputypes.TextureFormat {
	return s.format
}

// IsCreated reports whether the pixel buffer exists.
func (s *ImageSurface) IsCreated() bool {
	return s.created && !s.released
}

// Create allocates the pixel buffer.
func (s *ImageSurface) Create() error {
	if s.released {
		return ErrReleased
	}
	if s.created {
		return nil
	}
	s.img = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.created = true
	return nil
}

// DiscardContents zeroes the pixel buffer.
func (s *ImageSurface) DiscardContents() {
	if !s.IsCreated() {
		return
	}
	clear(s.img.Pix)
}

// Invalidate drops the pixel buffer as if the platform had lost it.
func (s *ImageSurface) Invalidate() {
	s.created = false
	s.img = nil
}

// Blit draws src into the surface according to p.
func (s *ImageSurface) Blit(src image.Image, p *BlitParams) error {
	if s.released {
		return ErrReleased
	}
	if !s.created {
		return ErrNotCreated
	}
	if src == nil {
		return ErrNilSource
	}

	if p == nil {
		xdraw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		return nil
	}

	switch p.Material {
	case MaterialBlit:
		dst := s.blitBounds(p)
		if dst.Empty() {
			return nil
		}
		xdraw.ApproxBiLinear.Scale(s.img, dst, src, sourceRect(src, p), xdraw.Src, nil)
	case MaterialSliced:
		s.composite(src, p)
	}
	return nil
}

// Snapshot returns a copy of the surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if !s.IsCreated() {
		return nil
	}
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// Release frees the pixel buffer. The surface cannot be created again.
func (s *ImageSurface) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.created = false
	s.img = nil
	return nil
}

// blitBounds returns the pixel area a blit with p touches.
func (s *ImageSurface) blitBounds(p *BlitParams) image.Rectangle {
	bounds := image.Rect(0, 0, s.width, s.height)
	if p == nil {
		return bounds
	}
	return p.TargetRect.Pixels(s.width, s.height).Intersect(bounds)
}

// region copies the pixels of r into a tightly packed RGBA buffer.
// When bgra is set, red and blue are swapped.
func (s *ImageSurface) region(r image.Rectangle, bgra bool) []byte {
	rowBytes := r.Dx() * 4
	out := make([]byte, rowBytes*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.img.PixOffset(r.Min.X, y)
		row := out[(y-r.Min.Y)*rowBytes : (y-r.Min.Y+1)*rowBytes]
		copy(row, s.img.Pix[i:i+rowBytes])
		if bgra {
			for j := 0; j < len(row); j += 4 {
				row[j], row[j+2] = row[j+2], row[j]
			}
		}
	}
	return out
}

// sourceRect returns the pixel area of src selected by the outer UV
// control points of p.
func sourceRect(src image.Image, p *BlitParams) image.Rectangle {
	b := src.Bounds()
	uv := Rect{X: p.UVx[0], Y: p.UVy[0], Width: p.UVx[3] - p.UVx[0], Height: p.UVy[3] - p.UVy[0]}
	r := uv.Pixels(b.Dx(), b.Dy()).Add(b.Min).Intersect(b)
	if r.Empty() {
		return b
	}
	return r
}

// Verify ImageSurface implements Surface and Invalidator.
var (
	_ Surface     = (*ImageSurface)(nil)
	_ Invalidator = (*ImageSurface)(nil)
)
