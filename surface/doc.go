// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the render targets an icon atlas draws into.
//
// A Surface holds one texture that the platform may invalidate at any time.
// Owners poll IsCreated, recreate with Create and repaint. All drawing goes
// through Blit with a fixed parameter set (BlitParams): target rect, 9-slice
// border rect, source control points, color matrix and mask. This keeps the
// atlas bookkeeping independent of how a backend composites.
//
// # Surface Types
//
//   - ImageSurface: CPU compositing into *image.RGBA (premultiplied)
//   - GPUSurface: CPU shadow plus a GPUBackend texture, drawn by a
//     Compositor backend or kept in sync by per-blit uploads
//
// # Registry
//
// Backends register factories under a name and priority. The "image"
// backend is always registered; importing backend/native adds "wgpu".
//
//	s, err := surface.NewSurface(surface.DefaultDescriptor(1024, 1024))
//
// The best available backend whose factory succeeds is used.
//
// # Coordinates
//
// Rects are normalized to [0, 1] with the origin at the top-left corner,
// matching image.Image.
package surface
