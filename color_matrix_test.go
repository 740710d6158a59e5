package iconatlas

import (
	"image/color"
	"math"
	"testing"
)

func withColorSpace(t *testing.T, c ColorSpace, l Luminance) {
	t.Helper()
	origSpace := CurrentColorSpace()
	origWeights := luminanceWeights.Load()
	t.Cleanup(func() {
		SetColorSpace(origSpace)
		luminanceWeights.Store(origWeights)
	})
	SetColorSpace(c)
	SetLuminanceWeights(l)
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestSaturationZeroIsGrayscale(t *testing.T) {
	tests := []struct {
		name  string
		space ColorSpace
		lum   Luminance
		want  Luminance
	}{
		{"gamma default", ColorSpaceGamma, Luminance{}, LuminanceBT601},
		{"linear default", ColorSpaceLinear, Luminance{}, LuminanceBT709},
		{"override", ColorSpaceLinear, Luminance{R: 0.5, G: 0.25, B: 0.25}, Luminance{R: 0.5, G: 0.25, B: 0.25}},
	}
	inputs := [][4]float32{
		{1, 0, 0, 1},
		{0, 1, 0, 0.5},
		{0, 0, 1, 0},
		{0.3, 0.6, 0.9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withColorSpace(t, tt.space, tt.lum)
			if got := LuminanceWeights(); got != tt.want {
				t.Fatalf("LuminanceWeights() = %v, want %v", got, tt.want)
			}

			m := SaturationColorMatrix(0)
			for _, in := range inputs {
				r, g, b, a := m.Apply(in[0], in[1], in[2], in[3])
				if r != g || g != b {
					t.Errorf("Apply(%v) = (%g, %g, %g), want equal channels", in, r, g, b)
				}
				want := in[0]*tt.want.R + in[1]*tt.want.G + in[2]*tt.want.B
				if !approx(r, want) {
					t.Errorf("Apply(%v) gray = %g, want %g", in, r, want)
				}
				if a != in[3] {
					t.Errorf("alpha = %g, want %g", a, in[3])
				}
			}
		})
	}
}

func TestSaturationOneIsIdentity(t *testing.T) {
	for _, space := range []ColorSpace{ColorSpaceGamma, ColorSpaceLinear} {
		withColorSpace(t, space, Luminance{})
		m := SaturationColorMatrix(1)
		if !m.IsIdentity() {
			t.Errorf("%v: SaturationColorMatrix(1) = %v, want identity", space, m)
		}
		r, g, b, a := m.Apply(0.1, 0.2, 0.3, 0.4)
		if r != 0.1 || g != 0.2 || b != 0.3 || a != 0.4 {
			t.Errorf("%v: Apply = (%g, %g, %g, %g)", space, r, g, b, a)
		}
	}
}

func TestTintColorMatrix(t *testing.T) {
	m := TintColorMatrix(color.NRGBA{R: 255, G: 0, B: 255, A: 0})
	r, g, b, a := m.Apply(0.5, 0.5, 0.5, 1)
	if r != 0.5 || g != 0 || b != 0.5 || a != 0 {
		t.Errorf("Apply = (%g, %g, %g, %g), want (0.5, 0, 0.5, 0)", r, g, b, a)
	}
}

func TestSaturationTintColorMatrix(t *testing.T) {
	withColorSpace(t, ColorSpaceGamma, Luminance{})
	m := SaturationTintColorMatrix(0, color.NRGBA{R: 255, A: 255})
	// Only the red input survives, weighted into every output.
	r, g, b, _ := m.Apply(1, 1, 1, 1)
	if !approx(r, LuminanceBT601.R) || r != g || g != b {
		t.Errorf("Apply = (%g, %g, %g), want all %g", r, g, b, LuminanceBT601.R)
	}
}

func TestColorMatrixMat4(t *testing.T) {
	m := ColorMatrix{
		RR: 1, RG: 2, RB: 3,
		GR: 4, GG: 5, GB: 6,
		BR: 7, BG: 8, BB: 9,
		RC: 10, GC: 11, BC: 12,
		Alpha: 13,
	}
	mat := m.Mat4()

	// out = M * (in.rgb, 1) with M column-major must match Apply.
	in := [3]float32{0.5, 0.25, 2}
	r, g, b, a := m.Apply(in[0], in[1], in[2], 0.5)
	got := [4]float32{
		mat[0]*in[0] + mat[4]*in[1] + mat[8]*in[2] + mat[12],
		mat[1]*in[0] + mat[5]*in[1] + mat[9]*in[2] + mat[13],
		mat[2]*in[0] + mat[6]*in[1] + mat[10]*in[2] + mat[14],
		0.5 * mat[15],
	}
	if got != [4]float32{r, g, b, a} {
		t.Errorf("Mat4 evaluation = %v, Apply = %v", got, [4]float32{r, g, b, a})
	}
	if mat[3] != 0 || mat[7] != 0 || mat[11] != 0 {
		t.Errorf("Mat4 fourth row = %g %g %g, want zeros", mat[3], mat[7], mat[11])
	}
}

func TestColorSpaceString(t *testing.T) {
	if ColorSpaceGamma.String() != "Gamma" || ColorSpaceLinear.String() != "Linear" {
		t.Error("unexpected color space names")
	}
}
