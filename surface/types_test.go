// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRectSub(t *testing.T) {
	slot := Rect{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.25}

	tests := []struct {
		name   string
		region Rect
		want   Rect
	}{
		{"whole", UnitRect(), slot},
		{"left half", Rect{Width: 0.5, Height: 1}, Rect{X: 0.25, Y: 0.5, Width: 0.25, Height: 0.25}},
		{"bottom right quarter", Rect{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5}, Rect{X: 0.5, Y: 0.625, Width: 0.25, Height: 0.125}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slot.Sub(tt.region); got != tt.want {
				t.Errorf("Sub(%v) = %v, want %v", tt.region, got, tt.want)
			}
		})
	}
}

func TestRectPixels(t *testing.T) {
	r := Rect{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.5}
	if got, want := r.Pixels(8, 4), image.Rect(2, 2, 6, 4); got != want {
		t.Errorf("Pixels = %v, want %v", got, want)
	}
	if !(Rect{Width: 0, Height: 1}).IsEmpty() {
		t.Error("zero-width rect should be empty")
	}
}

func TestSliceAxis(t *testing.T) {
	p := [4]float32{0, 0.25, 0.75, 1}

	tests := []struct {
		name         string
		t, start, sz float32
		want         float32
	}{
		{"no border start", 0, 0, 1, 0.25},
		{"no border end", 1, 0, 1, 0.75},
		{"inside", 0.5, 0.25, 0.5, 0.5},
		{"left border", 0.125, 0.25, 0.5, 0.125},
		{"right border", 0.875, 0.25, 0.5, 0.875},
		{"collapsed interior", 0.5, 0.5, 0, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sliceAxis(tt.t, tt.start, tt.sz, p); got != tt.want {
				t.Errorf("sliceAxis(%g) = %g, want %g", tt.t, got, tt.want)
			}
		})
	}
}

func TestSupportedFormat(t *testing.T) {
	if !SupportedFormat(gputypes.TextureFormatBGRA8Unorm) {
		t.Error("BGRA8Unorm should be supported")
	}
	if SupportedFormat(gputypes.TextureFormatUndefined) {
		t.Error("Undefined should not be supported")
	}
	if !IsBGRA(gputypes.TextureFormatBGRA8UnormSrgb) || IsBGRA(gputypes.TextureFormatRGBA8Unorm) {
		t.Error("IsBGRA mismatch")
	}
}

func TestMaterialString(t *testing.T) {
	if MaterialBlit.String() != "Blit" || MaterialSliced.String() != "Sliced" {
		t.Errorf("names = %s, %s", MaterialBlit, MaterialSliced)
	}
}
