// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func slicedParams(target Rect) *BlitParams {
	p := BlitParamsFor(target)
	p.Material = MaterialSliced
	return p
}

func createdSurface(t *testing.T, w, h int) *ImageSurface {
	t.Helper()
	s := NewImageSurface(w, h)
	if err := s.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return s
}

func TestImageSurfaceLifecycle(t *testing.T) {
	s := NewImageSurface(8, 4)
	if s.IsCreated() {
		t.Fatal("surface created before Create")
	}
	if err := s.Blit(solid(1, 1, color.NRGBA{}), nil); !errors.Is(err, ErrNotCreated) {
		t.Errorf("Blit before Create = %v, want ErrNotCreated", err)
	}
	if s.Snapshot() != nil {
		t.Error("Snapshot before Create should be nil")
	}

	if err := s.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !s.IsCreated() {
		t.Fatal("IsCreated false after Create")
	}
	if got := s.Snapshot().Bounds(); got != image.Rect(0, 0, 8, 4) {
		t.Errorf("Snapshot bounds = %v", got)
	}

	s.Invalidate()
	if s.IsCreated() {
		t.Error("IsCreated true after Invalidate")
	}
	if err := s.Create(); err != nil {
		t.Fatalf("re-Create failed: %v", err)
	}

	if err := s.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Errorf("second Release = %v, want nil", err)
	}
	if err := s.Create(); !errors.Is(err, ErrReleased) {
		t.Errorf("Create after Release = %v, want ErrReleased", err)
	}
}

func TestImageSurfaceNilSource(t *testing.T) {
	s := createdSurface(t, 2, 2)
	if err := s.Blit(nil, nil); !errors.Is(err, ErrNilSource) {
		t.Errorf("Blit(nil) = %v, want ErrNilSource", err)
	}
}

func TestImageSurfaceFullBlit(t *testing.T) {
	s := createdSurface(t, 4, 4)
	red := color.NRGBA{R: 255, A: 255}
	if err := s.Blit(solid(2, 2, red), nil); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := snap.RGBAAt(x, y); got != (color.RGBA{R: 255, A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want opaque red", x, y, got)
			}
		}
	}
}

func TestImageSurfaceBlitReplacesOnlyTarget(t *testing.T) {
	s := createdSurface(t, 4, 4)
	if err := s.Blit(solid(1, 1, color.NRGBA{G: 255, A: 255}), nil); err != nil {
		t.Fatal(err)
	}

	// Clear the top-left quadrant with a transparent texture.
	target := Rect{X: 0, Y: 0, Width: 0.5, Height: 0.5}
	if err := s.Blit(solid(2, 2, color.NRGBA{}), BlitParamsFor(target)); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := snap.RGBAAt(x, y)
			inside := x < 2 && y < 2
			if inside && got != (color.RGBA{}) {
				t.Errorf("pixel (%d,%d) = %v, want cleared", x, y, got)
			}
			if !inside && got != (color.RGBA{G: 255, A: 255}) {
				t.Errorf("pixel (%d,%d) = %v, want untouched green", x, y, got)
			}
		}
	}
}

func TestImageSurfaceSlicedIdentity(t *testing.T) {
	s := createdSurface(t, 4, 4)
	target := Rect{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5}
	if err := s.Blit(solid(2, 2, color.NRGBA{R: 255, A: 255}), slicedParams(target)); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if got := snap.RGBAAt(3, 3); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside pixel = %v, want opaque red", got)
	}
	if got := snap.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
}

func TestImageSurfaceSlicedColorMatrix(t *testing.T) {
	s := createdSurface(t, 2, 2)
	p := slicedParams(UnitRect())
	// Halve every channel except alpha.
	p.ColorMatrix = [16]float32{
		0.5, 0, 0, 0,
		0, 0.5, 0, 0,
		0, 0, 0.5, 0,
		0, 0, 0, 1,
	}
	if err := s.Blit(solid(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), p); err != nil {
		t.Fatal(err)
	}
	got := s.Snapshot().RGBAAt(0, 0)
	if got.R != 128 || got.G != 128 || got.B != 128 || got.A != 255 {
		t.Errorf("pixel = %v, want half grey", got)
	}
}

func TestImageSurfaceSlicedMask(t *testing.T) {
	s := createdSurface(t, 4, 1)

	mask := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	mask.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	p := slicedParams(UnitRect())
	p.MaskTexture = mask
	if err := s.Blit(solid(1, 1, color.NRGBA{B: 255, A: 255}), p); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if got := snap.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("masked pixel alpha = %d, want 0", got.A)
	}
	if got := snap.RGBAAt(3, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("unmasked pixel = %v, want opaque blue", got)
	}
}

func TestImageSurfaceRegionBGRA(t *testing.T) {
	s := createdSurface(t, 2, 2)
	if err := s.Blit(solid(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), nil); err != nil {
		t.Fatal(err)
	}

	r := image.Rect(1, 0, 2, 2)
	rgba := s.region(r, false)
	bgra := s.region(r, true)
	if len(rgba) != 8 || len(bgra) != 8 {
		t.Fatalf("region sizes = %d, %d, want 8", len(rgba), len(bgra))
	}
	if rgba[0] != 10 || rgba[2] != 30 {
		t.Errorf("rgba = %v", rgba[:4])
	}
	if bgra[0] != 30 || bgra[2] != 10 {
		t.Errorf("bgra = %v", bgra[:4])
	}
}
