// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/iconatlas"
	"github.com/gogpu/iconatlas/surface"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by gogpu's DeviceProvider.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Backend is a surface.GPUBackend on a shared wgpu HAL device.
//
// The device and queue belong to the host and are never destroyed here.
// Everything else (texture, view, sampler, shader modules, pipelines) is
// owned by the backend and released by Close. Blits are drawn on the device
// by Composite.
type Backend struct {
	device hal.Device
	queue  hal.Queue

	shaders   *shaderSet
	materials *materials

	desc    surface.Descriptor
	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	lost   atomic.Bool
	closed bool
}

// NewBackend creates a backend on the device exposed by provider and
// compiles the compositing shaders.
func NewBackend(provider any) (*Backend, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	shaders, err := createShaders(device)
	if err != nil {
		return nil, err
	}
	return &Backend{device: device, queue: queue, shaders: shaders}, nil
}

func halFromProvider(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok || hp == nil {
		return nil, nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, ErrNilHALDevice
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, ErrNilHALQueue
	}
	return device, queue, nil
}

// CreateTexture creates the atlas texture, its view and sampler,
// replacing any previous set.
func (b *Backend) CreateTexture(desc surface.Descriptor) error {
	if b.closed {
		return ErrClosed
	}
	texDesc, err := textureDescriptor(desc)
	if err != nil {
		return err
	}
	b.destroyTexture()

	tex, err := b.device.CreateTexture(texDesc)
	if err != nil {
		return fmt.Errorf("create %s texture: %w", texDesc.Label, err)
	}
	view, err := b.device.CreateTextureView(tex, viewDescriptor(desc))
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("create %s texture view: %w", texDesc.Label, err)
	}
	sampler, err := b.device.CreateSampler(samplerDescriptor(desc))
	if err != nil {
		b.device.DestroyTextureView(view)
		b.device.DestroyTexture(tex)
		return fmt.Errorf("create %s sampler: %w", texDesc.Label, err)
	}

	b.desc = desc
	b.texture, b.view, b.sampler = tex, view, sampler
	b.lost.Store(false)
	iconatlas.Logger().Debug("wgpu: atlas texture created",
		"label", texDesc.Label, "width", desc.Width, "height", desc.Height)
	return nil
}

// TextureValid reports whether the texture exists and has not been marked
// lost since it was created.
func (b *Backend) TextureValid() bool {
	return !b.closed && b.texture != nil && !b.lost.Load()
}

// MarkLost records that the device lost the texture. The next watchdog
// tick recreates it. Safe to call from a device-lost callback.
func (b *Backend) MarkLost() {
	b.lost.Store(true)
}

// Upload writes tightly packed pixels into r of the texture.
func (b *Backend) Upload(r image.Rectangle, pixels []byte) error {
	if b.closed {
		return ErrClosed
	}
	if b.texture == nil {
		return ErrNoTexture
	}
	if r.Empty() {
		return nil
	}
	bounds := image.Rect(0, 0, b.desc.Width, b.desc.Height)
	if !r.In(bounds) || len(pixels) < r.Dx()*r.Dy()*4 {
		return fmt.Errorf("%w: %v in %v", ErrUploadBounds, r, bounds)
	}

	dst, layout, size := uploadRegion(b.texture, r)
	if err := b.queue.WriteTexture(dst, pixels, layout, size); err != nil {
		return fmt.Errorf("write %s texture: %w", b.desc.Label, err)
	}
	return nil
}

// View returns the texture view for binding, or nil before CreateTexture.
func (b *Backend) View() hal.TextureView {
	return b.view
}

// Sampler returns the atlas sampler, or nil before CreateTexture.
func (b *Backend) Sampler() hal.Sampler {
	return b.sampler
}

// Close releases every resource owned by the backend. It is idempotent.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.destroyTexture()
	b.materials.destroy(b.device)
	b.materials = nil
	b.shaders.destroy(b.device)
	b.shaders = nil
	return nil
}

func (b *Backend) destroyTexture() {
	if b.sampler != nil {
		b.device.DestroySampler(b.sampler)
		b.sampler = nil
	}
	if b.view != nil {
		b.device.DestroyTextureView(b.view)
		b.view = nil
	}
	if b.texture != nil {
		b.device.DestroyTexture(b.texture)
		b.texture = nil
	}
}

// textureDescriptor describes a 2D texture that can be sampled, uploaded
// to and rendered into.
func textureDescriptor(desc surface.Descriptor) (*hal.TextureDescriptor, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, desc.Width, desc.Height)
	}
	mips := desc.MipLevelCount
	if mips == 0 {
		mips = 1
	}
	return &hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),  //nolint:gosec // checked positive above
			Height:             uint32(desc.Height), //nolint:gosec // checked positive above
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: mips,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        textureFormat(desc.Format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageRenderAttachment,
	}, nil
}

func viewDescriptor(desc surface.Descriptor) *hal.TextureViewDescriptor {
	return &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        textureFormat(desc.Format),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	}
}

func samplerDescriptor(desc surface.Descriptor) *hal.SamplerDescriptor {
	return &hal.SamplerDescriptor{
		Label:        desc.Label + "_sampler",
		AddressModeU: desc.AddressModeU,
		AddressModeV: desc.AddressModeV,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: gputypes.FilterModeLinear,
	}
}

func textureFormat(f gputypes.TextureFormat) gputypes.TextureFormat {
	if f == gputypes.TextureFormatUndefined {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return f
}

// uploadRegion returns the WriteTexture arguments for a tightly packed
// upload of r.
func uploadRegion(tex hal.Texture, r image.Rectangle) (*hal.ImageCopyTexture, *hal.ImageDataLayout, *hal.Extent3D) {
	w, h := uint32(r.Dx()), uint32(r.Dy()) //nolint:gosec // r is non-empty and inside the texture
	return &hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y)}, //nolint:gosec // r is inside the texture
			Aspect:   gputypes.TextureAspectAll,
		},
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
}

var _ surface.GPUBackend = (*Backend)(nil)
