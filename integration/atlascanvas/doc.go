// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package atlascanvas presents an icon atlas in gogpu GPU-accelerated
// windows.
//
// The data flow is:
//
//	iconatlas.Atlas (draw) -> surface snapshot (CPU) -> GPU Texture -> Window
//
// # Usage
//
//	canvas, err := atlascanvas.New(app.GPUContextProvider(), iconatlas.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer canvas.Close()
//
//	atlas := canvas.Atlas()
//	h, uv := atlas.AllocateIcon(redraw)
//	atlas.DrawTexture(h, icon)
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    iconatlas.Tick()
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// # Uploads
//
// The window texture is created on the first RenderTo. Later renders upload
// the snapshot again only when the atlas Revision changed, so an idle
// atlas costs one DrawTexture per frame.
//
// When the host loses its device, call Invalidate: the window texture is
// recreated on the next RenderTo and the atlas surface is marked lost, so
// the next watchdog tick asks every icon owner to redraw.
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use.
//
// # Integration Without Circular Imports
//
// This package uses gpucontext interfaces and never imports gogpu.
// Importing it also registers the wgpu surface backend; providers that do
// not expose HAL types fall back to the CPU image backend.
package atlascanvas
