package iconatlas

import (
	"fmt"
	"image/color"
	"sync/atomic"
)

// ColorMatrix is an affine color transform applied to every drawn pixel.
//
// Field names are input channel followed by output channel, so GR is the
// contribution of input green to output red:
//
//	out.r = in.r*RR + in.g*GR + in.b*BR + RC
//	out.g = in.r*RG + in.g*GG + in.b*BG + GC
//	out.b = in.r*RB + in.g*GB + in.b*BB + BC
//	out.a = in.a * Alpha
//
// Colors are straight (non-premultiplied) values in [0, 1]. The zero value
// maps everything to transparent black; use IdentityColorMatrix for no change.
type ColorMatrix struct {
	RR, RG, RB float32
	GR, GG, GB float32
	BR, BG, BB float32

	// RC, GC and BC are added to the red, green and blue outputs.
	RC, GC, BC float32

	// Alpha scales the input alpha.
	Alpha float32
}

// IdentityColorMatrix returns the transform that leaves colors unchanged.
func IdentityColorMatrix() ColorMatrix {
	return ColorMatrix{RR: 1, GG: 1, BB: 1, Alpha: 1}
}

// TintColorMatrix multiplies every channel by the matching channel of c.
func TintColorMatrix(c color.Color) ColorMatrix {
	r, g, b, a := colorComponents(c)
	return ColorMatrix{RR: r, GG: g, BB: b, Alpha: a}
}

// SaturationColorMatrix blends between grayscale (s = 0) and the original
// color (s = 1). Values outside [0, 1] extrapolate.
func SaturationColorMatrix(s float32) ColorMatrix {
	return SaturationTintColorMatrix(s, color.White)
}

// SaturationTintColorMatrix combines SaturationColorMatrix(s) with a tint.
// The grayscale weights come from LuminanceWeights.
func SaturationTintColorMatrix(s float32, tint color.Color) ColorMatrix {
	lum := LuminanceWeights()
	tr, tg, tb, ta := colorComponents(tint)

	m := ColorMatrix{Alpha: ta}
	m.RR = lerpExact(lum.R, 1, s) * tr
	m.RG = lerpExact(lum.R, 0, s) * tr
	m.RB = m.RG
	m.GG = lerpExact(lum.G, 1, s) * tg
	m.GR = lerpExact(lum.G, 0, s) * tg
	m.GB = m.GR
	m.BB = lerpExact(lum.B, 1, s) * tb
	m.BR = lerpExact(lum.B, 0, s) * tb
	m.BG = m.BR
	return m
}

// Apply transforms a straight-alpha color.
func (m ColorMatrix) Apply(r, g, b, a float32) (float32, float32, float32, float32) {
	return r*m.RR + g*m.GR + b*m.BR + m.RC,
		r*m.RG + g*m.GG + b*m.BG + m.GC,
		r*m.RB + g*m.GB + b*m.BB + m.BC,
		a * m.Alpha
}

// Mat4 packs the transform as a column-major 4x4 matrix, the layout the
// compositing shaders and surface.BlitParams use.
func (m ColorMatrix) Mat4() [16]float32 {
	return [16]float32{
		m.RR, m.RG, m.RB, 0,
		m.GR, m.GG, m.GB, 0,
		m.BR, m.BG, m.BB, 0,
		m.RC, m.GC, m.BC, m.Alpha,
	}
}

// IsIdentity reports whether m leaves colors unchanged.
func (m ColorMatrix) IsIdentity() bool {
	return m == IdentityColorMatrix()
}

// String returns a string representation of the matrix.
func (m ColorMatrix) String() string {
	return fmt.Sprintf("ColorMatrix[%g %g %g %g; %g %g %g %g; %g %g %g %g; a=%g]",
		m.RR, m.GR, m.BR, m.RC,
		m.RG, m.GG, m.BG, m.GC,
		m.RB, m.GB, m.BB, m.BC,
		m.Alpha)
}

// Luminance holds the per-channel grayscale weights.
type Luminance struct {
	R, G, B float32
}

// Standard luminance weights.
var (
	// LuminanceBT709 is used when rendering happens in linear space.
	LuminanceBT709 = Luminance{R: 0.2126, G: 0.7152, B: 0.0722}

	// LuminanceBT601 is used when rendering happens in gamma space.
	LuminanceBT601 = Luminance{R: 0.299, G: 0.587, B: 0.114}
)

// ColorSpace is the space the host renders in. It selects the default
// luminance weights.
type ColorSpace int32

const (
	// ColorSpaceGamma selects BT.601 weights. This is the default.
	ColorSpaceGamma ColorSpace = iota

	// ColorSpaceLinear selects BT.709 weights.
	ColorSpaceLinear
)

// String returns the color space name.
func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceGamma:
		return "Gamma"
	case ColorSpaceLinear:
		return "Linear"
	default:
		return fmt.Sprintf("ColorSpace(%d)", c)
	}
}

var (
	colorSpace       atomic.Int32
	luminanceWeights atomic.Pointer[Luminance]
)

// SetColorSpace sets the host color space used to pick default luminance
// weights.
func SetColorSpace(c ColorSpace) {
	colorSpace.Store(int32(c))
}

// CurrentColorSpace returns the configured host color space.
func CurrentColorSpace() ColorSpace {
	return ColorSpace(colorSpace.Load())
}

// SetLuminanceWeights overrides the grayscale weights. The zero Luminance
// restores the color space default.
func SetLuminanceWeights(l Luminance) {
	if l == (Luminance{}) {
		luminanceWeights.Store(nil)
		return
	}
	luminanceWeights.Store(&l)
}

// LuminanceWeights returns the grayscale weights saturation transforms use.
func LuminanceWeights() Luminance {
	if l := luminanceWeights.Load(); l != nil {
		return *l
	}
	if CurrentColorSpace() == ColorSpaceLinear {
		return LuminanceBT709
	}
	return LuminanceBT601
}

// lerpExact returns a at t = 0 and b at t = 1 exactly.
func lerpExact(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// colorComponents returns the straight-alpha components of c in [0, 1].
// Non-premultiplied colors keep their RGB even when fully transparent.
func colorComponents(c color.Color) (r, g, b, a float32) {
	switch n := c.(type) {
	case color.NRGBA:
		return float32(n.R) / 0xff, float32(n.G) / 0xff, float32(n.B) / 0xff, float32(n.A) / 0xff
	case color.NRGBA64:
		return float32(n.R) / 0xffff, float32(n.G) / 0xffff, float32(n.B) / 0xffff, float32(n.A) / 0xffff
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return float32(n.R) / 0xffff, float32(n.G) / 0xffff, float32(n.B) / 0xffff, float32(n.A) / 0xffff
}
