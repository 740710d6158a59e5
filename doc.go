// Package iconatlas packs dynamically drawn icons into one GPU texture.
//
// # Overview
//
// UIs that show many small, frequently changing icons (inventory grids,
// avatars, map markers) pay for every texture object and draw call. An
// Atlas keeps all of them in a single texture divided into a grid of
// equal-size cells. Icons are allocated, drawn, cleared and released by
// opaque handles; the UV rect of a slot never changes while it is allocated.
//
// # Quick Start
//
//	import "github.com/gogpu/iconatlas"
//
//	a, err := iconatlas.New(iconatlas.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Dispose()
//
//	h, uv := a.AllocateIcon(nil)
//	a.Draw(h, avatar, iconatlas.Rect{Width: 1, Height: 1},
//	    iconatlas.DefaultDrawProperties().WithSaturation(0))
//
//	// Once per frame, before drawing:
//	iconatlas.Tick()
//
// # Allocation
//
// Cells are bump allocated left to right, top to bottom, starting at
// (padding, padding). Released cells go to a free-list that is always
// preferred. Once the grid is exhausted only released cells can be
// allocated again. A grid of W x H pixels with cells cw x ch and padding p
// holds floor((W-p)/(cw+p)) * floor((H-p)/(ch+p)) icons.
//
// # Surface Loss
//
// The platform may drop the atlas texture at any time (device reset,
// context loss). Draws fail until the next watchdog tick recreates the
// texture, clears it and calls the ResetFunc of every allocated icon so its
// owner can redraw it.
//
// # Coordinate System
//
// All rects are normalized to [0, 1]:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// # Backends
//
// Surfaces come from the surface package registry. The "image" backend
// composites in software and is always available. Importing
// github.com/gogpu/iconatlas/backend/native adds a "wgpu" backend that
// keeps the atlas on a GPU device. Package
// github.com/gogpu/iconatlas/integration/atlascanvas presents an atlas in
// a gogpu window.
package iconatlas
