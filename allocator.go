package iconatlas

import "image"

// gridAllocator hands out fixed-size cells left to right, top to bottom.
//
// The cursor starts at (padding, padding) and only advances. Once a row
// cannot fit another cell the cursor wraps; once no further row fits the
// allocator is full for good. Released cells are recycled by the Atlas
// free-list, never by the allocator.
type gridAllocator struct {
	width     int // Atlas width
	height    int // Atlas height
	cellW     int // Cell width
	cellH     int // Cell height
	padding   int // Padding between cells
	x, y      int // Cursor
	full      bool
	allocated int // Cells handed out
}

// newGridAllocator creates an allocator for cfg. cfg must be valid.
func newGridAllocator(cfg Config) *gridAllocator {
	return &gridAllocator{
		width:   cfg.Width,
		height:  cfg.Height,
		cellW:   cfg.IconWidth,
		cellH:   cfg.IconHeight,
		padding: cfg.Padding,
		x:       cfg.Padding,
		y:       cfg.Padding,
	}
}

// allocate returns the pixel origin of the next cell.
// Returns false if the grid is full.
func (g *gridAllocator) allocate() (image.Point, bool) {
	if g.full {
		return image.Point{}, false
	}
	pt := image.Pt(g.x, g.y)
	g.allocated++

	g.x += g.padding + g.cellW
	if g.x+g.padding+g.cellW > g.width {
		g.x = g.padding
		g.y += g.padding + g.cellH
		if g.y+g.padding+g.cellH > g.height {
			g.full = true
		}
	}
	return pt, true
}

// uv returns the normalized rect of the cell at pt.
func (g *gridAllocator) uv(pt image.Point) Rect {
	w, h := float32(g.width), float32(g.height)
	return Rect{
		X:      float32(pt.X) / w,
		Y:      float32(pt.Y) / h,
		Width:  float32(g.cellW) / w,
		Height: float32(g.cellH) / h,
	}
}

// isFull returns true if no more cells can be bump allocated.
func (g *gridAllocator) isFull() bool {
	return g.full
}

// cursor returns the position of the next cell.
func (g *gridAllocator) cursor() image.Point {
	return image.Pt(g.x, g.y)
}
