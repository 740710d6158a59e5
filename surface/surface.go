// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"

	"github.com/gogpu/gputypes"
)

// Surface errors.
var (
	// ErrNotCreated is returned when drawing into a surface whose texture is
	// not currently created (never created, or lost by the platform).
	ErrNotCreated = errors.New("surface: texture not created")

	// ErrReleased is returned when operating on a released surface.
	ErrReleased = errors.New("surface: surface has been released")

	// ErrNilSource is returned when a blit has no source texture.
	ErrNilSource = errors.New("surface: nil source texture")
)

// Surface is a resettable render target holding an atlas texture.
//
// The texture behind a surface may be lost at any time (device reset,
// context loss). IsCreated reports this; the owner recreates the texture with
// Create and repaints it. Drawing into a surface that is not created fails
// with ErrNotCreated.
//
// Surfaces are NOT thread-safe. Each surface should be used from the
// goroutine driving frame submission.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// IsCreated reports whether the backing texture currently exists.
	IsCreated() bool

	// Create (re)creates the backing texture. Contents are undefined until
	// the first blit. Calling Create on a created surface is a no-op.
	Create() error

	// DiscardContents tells the backend the current contents are no longer
	// needed and need not be preserved.
	DiscardContents()

	// Blit draws src into the surface. A nil p stretch-copies src over the
	// whole surface, replacing its contents.
	Blit(src image.Image, p *BlitParams) error

	// Snapshot returns a copy of the current contents.
	// Returns nil if the surface is not created.
	Snapshot() *image.RGBA

	// Release frees the texture and every compositing resource.
	// Release is idempotent.
	Release() error
}

// Invalidator is implemented by surfaces whose texture can be dropped on
// request, simulating platform loss.
type Invalidator interface {
	// Invalidate drops the backing texture. IsCreated returns false
	// afterwards until Create is called.
	Invalidate()
}
