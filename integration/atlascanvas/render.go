// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlascanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Rendering errors.
var (
	// ErrInvalidDrawContext is returned when the window texture is not a
	// gpucontext.Texture.
	ErrInvalidDrawContext = errors.New("atlascanvas: texture is not a gpucontext.Texture")

	// ErrInvalidRenderer is returned when the draw context has no
	// texture creator.
	ErrInvalidRenderer = errors.New("atlascanvas: draw context has no TextureCreator")
)

// RenderTo uploads the atlas if it changed and draws it at (0, 0).
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition uploads the atlas if it changed and draws it at (x, y).
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	return c.render(
		func(width, height int, data []byte) (any, error) {
			creator := dc.TextureCreator()
			if creator == nil {
				return nil, ErrInvalidRenderer
			}
			tex, err := creator.NewTextureFromRGBA(width, height, data)
			if err != nil {
				return nil, fmt.Errorf("atlascanvas: NewTextureFromRGBA failed: %w", err)
			}
			return tex, nil
		},
		func(tex any) error {
			gpuTex, ok := tex.(gpucontext.Texture)
			if !ok {
				return ErrInvalidDrawContext
			}
			return dc.DrawTexture(gpuTex, x, y)
		},
	)
}

func (c *Canvas) render(create func(width, height int, data []byte) (any, error), draw func(tex any) error) error {
	tex, err := c.flush(create)
	if err != nil {
		return err
	}
	return draw(tex)
}
