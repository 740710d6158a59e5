// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"

	"github.com/chewxy/math32"
	xdraw "golang.org/x/image/draw"
)

// rgba is a color with float32 channels in [0, 1].
type rgba struct {
	r, g, b, a float32
}

func (c rgba) lerp(o rgba, t float32) rgba {
	return rgba{
		r: Lerp(c.r, o.r, t),
		g: Lerp(c.g, o.g, t),
		b: Lerp(c.b, o.b, t),
		a: Lerp(c.a, o.a, t),
	}
}

func (c rgba) unpremultiply() rgba {
	if c.a <= 0 {
		return rgba{}
	}
	return rgba{r: c.r / c.a, g: c.g / c.a, b: c.b / c.a, a: c.a}
}

// transform applies a column-major color matrix to a straight-alpha color.
func (c rgba) transform(m *[16]float32) rgba {
	return rgba{
		r: m[0]*c.r + m[4]*c.g + m[8]*c.b + m[12],
		g: m[1]*c.r + m[5]*c.g + m[9]*c.b + m[13],
		b: m[2]*c.r + m[6]*c.g + m[10]*c.b + m[14],
		a: c.a * m[15],
	}
}

func (c rgba) mul(o rgba) rgba {
	return rgba{r: c.r * o.r, g: c.g * o.g, b: c.b * o.b, a: c.a * o.a}
}

// sampler reads bilinear, clamp-to-edge samples from an image.
type sampler struct {
	pix    []uint8
	stride int
	w, h   int

	// premul is false for *image.NRGBA sources.
	premul bool
}

func newSampler(img image.Image) sampler {
	b := img.Bounds()
	switch t := img.(type) {
	case *image.RGBA:
		return sampler{pix: t.Pix[t.PixOffset(b.Min.X, b.Min.Y):], stride: t.Stride, w: b.Dx(), h: b.Dy(), premul: true}
	case *image.NRGBA:
		return sampler{pix: t.Pix[t.PixOffset(b.Min.X, b.Min.Y):], stride: t.Stride, w: b.Dx(), h: b.Dy()}
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return sampler{pix: dst.Pix, stride: dst.Stride, w: b.Dx(), h: b.Dy(), premul: true}
}

// texel returns the premultiplied color at (x, y).
func (s *sampler) texel(x, y int) rgba {
	i := y*s.stride + x*4
	p := s.pix[i : i+4 : i+4]
	c := rgba{
		r: float32(p[0]) / 255,
		g: float32(p[1]) / 255,
		b: float32(p[2]) / 255,
		a: float32(p[3]) / 255,
	}
	if !s.premul {
		c.r *= c.a
		c.g *= c.a
		c.b *= c.a
	}
	return c
}

// sample returns the premultiplied bilinear sample at normalized (u, v).
func (s *sampler) sample(u, v float32) rgba {
	if s.w <= 0 || s.h <= 0 {
		return rgba{}
	}
	fx := u*float32(s.w) - 0.5
	fy := v*float32(s.h) - 0.5
	x0f, y0f := math32.Floor(fx), math32.Floor(fy)
	ax, ay := fx-x0f, fy-y0f

	x0 := clampInt(int(x0f), 0, s.w-1)
	x1 := clampInt(int(x0f)+1, 0, s.w-1)
	y0 := clampInt(int(y0f), 0, s.h-1)
	y1 := clampInt(int(y0f)+1, 0, s.h-1)

	top := s.texel(x0, y0).lerp(s.texel(x1, y0), ax)
	bottom := s.texel(x0, y1).lerp(s.texel(x1, y1), ax)
	return top.lerp(bottom, ay)
}

// sliceAxis maps t, normalized across the target, to a source coordinate.
// [start, start+size] is the stretchable interior; p holds outer-min,
// inner-min, inner-max and outer-max.
func sliceAxis(t, start, size float32, p [4]float32) float32 {
	end := start + size
	switch {
	case t < start:
		if start <= 0 {
			return p[0]
		}
		return Lerp(p[0], p[1], t/start)
	case t > end:
		if end >= 1 {
			return p[2]
		}
		return Lerp(p[2], p[3], (t-end)/(1-end))
	case size <= 0:
		return p[1]
	default:
		return Lerp(p[1], p[2], (t-start)/size)
	}
}

// composite runs MaterialSliced over the target area.
func (s *ImageSurface) composite(src image.Image, p *BlitParams) {
	dst := s.blitBounds(p)
	if dst.Empty() {
		return
	}
	tx0 := p.TargetRect.X * float32(s.width)
	ty0 := p.TargetRect.Y * float32(s.height)
	tw := p.TargetRect.Width * float32(s.width)
	th := p.TargetRect.Height * float32(s.height)
	if tw <= 0 || th <= 0 {
		return
	}

	tex := newSampler(src)
	var mask *sampler
	if p.MaskTexture != nil {
		m := newSampler(p.MaskTexture)
		mask = &m
	}

	for py := dst.Min.Y; py < dst.Max.Y; py++ {
		ty := (float32(py) + 0.5 - ty0) / th
		v := sliceAxis(ty, p.BorderRect.Y, p.BorderRect.Height, p.UVy)
		mv := p.MaskRect.Y + ty*p.MaskRect.Height
		for px := dst.Min.X; px < dst.Max.X; px++ {
			tx := (float32(px) + 0.5 - tx0) / tw
			u := sliceAxis(tx, p.BorderRect.X, p.BorderRect.Width, p.UVx)

			c := tex.sample(u, v).unpremultiply().transform(&p.ColorMatrix)
			if mask != nil {
				mu := p.MaskRect.X + tx*p.MaskRect.Width
				c = c.mul(mask.sample(mu, mv).unpremultiply())
			}
			s.over(px, py, c)
		}
	}
}

// over composites a straight-alpha color onto the pixel at (x, y).
func (s *ImageSurface) over(x, y int, c rgba) {
	a := clamp01(c.a)
	if a <= 0 {
		return
	}
	i := s.img.PixOffset(x, y)
	d := s.img.Pix[i : i+4 : i+4]
	inv := 1 - a
	d[0] = toByte(clamp01(c.r)*a + float32(d[0])/255*inv)
	d[1] = toByte(clamp01(c.g)*a + float32(d[1])/255*inv)
	d[2] = toByte(clamp01(c.b)*a + float32(d[2])/255*inv)
	d[3] = toByte(a + float32(d[3])/255*inv)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

func toByte(v float32) uint8 {
	return uint8(math32.Floor(clamp01(v)*255 + 0.5))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
