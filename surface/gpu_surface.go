// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// GPUSurface is a surface whose texture lives on a GPU device.
//
// Every blit is composited on a CPU shadow (an ImageSurface), which serves
// Snapshot. Backends implementing Compositor repeat the blit on the device;
// others receive an upload of the pixels it touched. The GPU side is provided by a
// GPUBackend so this package stays independent of specific GPU libraries.
//
// Example integration:
//
//	surface.Register("wgpu", 100, func(desc surface.Descriptor) (surface.Surface, error) {
//	    backend, err := native.NewBackend(desc.Provider)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return surface.NewGPUSurface(desc, backend), nil
//	}, nil)
type GPUSurface struct {
	desc    Descriptor
	shadow  *ImageSurface
	backend GPUBackend
	closed  bool
}

// GPUBackend manages the device texture behind a GPUSurface.
type GPUBackend interface {
	// CreateTexture creates the device texture described by desc,
	// replacing any previous one.
	CreateTexture(desc Descriptor) error

	// TextureValid reports whether the device texture exists and its
	// device has not been lost.
	TextureValid() bool

	// Upload writes tightly packed 4-byte pixels into r of the texture.
	Upload(r image.Rectangle, pixels []byte) error

	// Close releases the texture and all compositing resources.
	Close() error
}

// Compositor is implemented by backends that draw blits on the device
// with the surface materials instead of receiving uploads of the shadow.
type Compositor interface {
	// Composite runs the material of p on the device texture. A nil p
	// stretch-copies src over the whole texture.
	Composite(src image.Image, p *BlitParams) error
}

// NewGPUSurface creates a surface backed by backend.
// The texture is not created until Create is called.
func NewGPUSurface(desc Descriptor, backend GPUBackend) *GPUSurface {
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = gputypes.TextureFormatRGBA8Unorm
	}
	return &GPUSurface{
		desc:    desc,
		shadow:  NewImageSurfaceWithDescriptor(desc),
		backend: backend,
	}
}

// Width returns the surface width.
func (s *GPUSurface) Width() int {
	return s.shadow.Width()
}

// Height returns the surface height.
func (s *GPUSurface) Height() int {
	return s.shadow.Height()
}

// Format returns the texture format.
func (s *GPUSurface) Format() gputypes.TextureFormat {
	return s.desc.Format
}

// IsCreated reports whether both the device texture and the shadow exist.
func (s *GPUSurface) IsCreated() bool {
	return !s.closed && s.backend != nil && s.shadow.IsCreated() && s.backend.TextureValid()
}

// Create (re)creates the device texture and the shadow.
func (s *GPUSurface) Create() error {
	if s.closed {
		return ErrReleased
	}
	if s.backend == nil {
		return ErrNotCreated
	}
	if s.IsCreated() {
		return nil
	}
	if err := s.backend.CreateTexture(s.desc); err != nil {
		return fmt.Errorf("surface: create %q texture: %w", s.desc.Label, err)
	}
	// A lost device texture means the shadow must be rebuilt too, so both
	// sides start from the same undefined state.
	s.shadow.Invalidate()
	return s.shadow.Create()
}

// DiscardContents drops the shadow contents.
func (s *GPUSurface) DiscardContents() {
	s.shadow.DiscardContents()
}

// Invalidate drops the shadow, forcing recreation on the next Create.
// Hosts call it when the device reports loss.
func (s *GPUSurface) Invalidate() {
	s.shadow.Invalidate()
}

// Blit composites on the shadow, then either runs the same blit on the
// device (Compositor backends) or uploads the touched pixels.
func (s *GPUSurface) Blit(src image.Image, p *BlitParams) error {
	if s.closed {
		return ErrReleased
	}
	if !s.IsCreated() {
		return ErrNotCreated
	}
	if err := s.shadow.Blit(src, p); err != nil {
		return err
	}
	r := s.shadow.blitBounds(p)
	if r.Empty() {
		return nil
	}
	if c, ok := s.backend.(Compositor); ok {
		if err := c.Composite(src, p); err != nil {
			return fmt.Errorf("surface: composite %v: %w", r, err)
		}
		return nil
	}
	if err := s.backend.Upload(r, s.shadow.region(r, IsBGRA(s.desc.Format))); err != nil {
		return fmt.Errorf("surface: upload %v: %w", r, err)
	}
	return nil
}

// Snapshot returns the shadow contents. No GPU readback is involved.
func (s *GPUSurface) Snapshot() *image.RGBA {
	if !s.IsCreated() {
		return nil
	}
	return s.shadow.Snapshot()
}

// Release frees the device texture, compositing resources and the shadow.
func (s *GPUSurface) Release() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.shadow.Release()
	if s.backend != nil {
		return s.backend.Close()
	}
	return nil
}

// Backend returns the underlying GPU backend.
// Returns nil if the surface is released.
func (s *GPUSurface) Backend() GPUBackend {
	if s.closed {
		return nil
	}
	return s.backend
}

// Verify GPUSurface implements Surface and Invalidator.
var (
	_ Surface     = (*GPUSurface)(nil)
	_ Invalidator = (*GPUSurface)(nil)
)
