// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlascanvas

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/iconatlas"
	_ "github.com/gogpu/iconatlas/backend/native" // registers the wgpu surface backend
	"github.com/gogpu/iconatlas/surface"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("atlascanvas: canvas is closed")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("atlascanvas: nil DeviceProvider")

	// ErrNilAtlas is returned when Wrap is given a nil atlas.
	ErrNilAtlas = errors.New("atlascanvas: nil atlas")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// textureUpdater matches gpucontext.TextureUpdater.
type textureUpdater interface {
	UpdateData(data []byte) error
}

// Canvas keeps a window texture in sync with an atlas.
type Canvas struct {
	atlas    *iconatlas.Atlas
	owned    bool
	provider gpucontext.DeviceProvider

	texture    any // window texture, nil until the first RenderTo
	oldTexture any // awaiting destruction once the next texture exists
	uploaded   uint64
	closed     bool
}

// New creates an atlas on provider's device and a canvas presenting it.
// The canvas owns the atlas and disposes it on Close.
func New(provider gpucontext.DeviceProvider, cfg iconatlas.Config, opts ...iconatlas.Option) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	opts = append([]iconatlas.Option{iconatlas.WithDeviceProvider(provider)}, opts...)
	a, err := iconatlas.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Canvas{atlas: a, owned: true, provider: provider}, nil
}

// Wrap presents an existing atlas. The caller keeps ownership of a.
func Wrap(a *iconatlas.Atlas) (*Canvas, error) {
	if a == nil {
		return nil, ErrNilAtlas
	}
	return &Canvas{atlas: a}, nil
}

// Atlas returns the presented atlas, or nil once the canvas is closed.
func (c *Canvas) Atlas() *iconatlas.Atlas {
	if c.closed {
		return nil
	}
	return c.atlas
}

// Provider returns the DeviceProvider the atlas was created on.
// Returns nil for wrapped atlases and closed canvases.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}

// IsDirty reports whether the atlas changed since the last upload.
func (c *Canvas) IsDirty() bool {
	return c.texture == nil || c.uploaded != c.atlas.Revision()
}

// Texture returns the current window texture without uploading.
func (c *Canvas) Texture() any {
	return c.texture
}

// Invalidate drops the window texture and marks the atlas surface lost.
// Call it when the host device was lost or reset.
func (c *Canvas) Invalidate() {
	if c.closed {
		return
	}
	c.retire()
	if inv, ok := c.atlas.Surface().(surface.Invalidator); ok {
		inv.Invalidate()
	}
}

// retire defers destruction of the current texture until a replacement
// has been created, since in-flight frames may still sample it.
func (c *Canvas) retire() {
	if c.texture == nil {
		return
	}
	destroy(c.oldTexture)
	c.oldTexture = c.texture
	c.texture = nil
}

// flush creates or updates the window texture from the atlas snapshot.
func (c *Canvas) flush(create func(width, height int, data []byte) (any, error)) (any, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	if err := c.atlas.Ready(); err != nil {
		return nil, err
	}
	if !c.IsDirty() {
		return c.texture, nil
	}

	rev := c.atlas.Revision()
	snap := c.atlas.Surface().Snapshot()
	if snap == nil {
		return nil, iconatlas.ErrSurfaceNotCreated
	}

	if c.texture == nil {
		tex, err := create(snap.Rect.Dx(), snap.Rect.Dy(), snap.Pix)
		if err != nil {
			return nil, err
		}
		// Atlas pixels are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		c.texture = tex
		destroy(c.oldTexture)
		c.oldTexture = nil
		iconatlas.Logger().Debug("atlascanvas: window texture created",
			"width", snap.Rect.Dx(), "height", snap.Rect.Dy(), "revision", rev)
	} else if updater, ok := c.texture.(textureUpdater); ok {
		if err := updater.UpdateData(snap.Pix); err != nil {
			return nil, err
		}
	}
	c.uploaded = rev
	return c.texture, nil
}

// Close destroys the window textures and disposes an owned atlas.
// Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	destroy(c.oldTexture)
	destroy(c.texture)
	c.oldTexture, c.texture = nil, nil

	if c.owned {
		c.atlas.Dispose()
	}
	c.provider = nil
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
