package iconatlas

import (
	"fmt"
	"sync/atomic"
)

// Handle identifies one allocated icon slot.
//
// A handle pairs a slot index with the slot's generation at allocation time.
// Releasing the icon advances the generation, so a released handle never
// resolves again, even after its slot is reused. Handles also carry the
// id of the atlas that minted them and never resolve in another atlas.
// The zero Handle is invalid.
type Handle struct {
	atlas      uint32
	index      uint32
	generation uint32
}

// IsValid reports whether h was returned by a successful allocation.
// It does not report whether the icon is still allocated; use Atlas.Lookup.
func (h Handle) IsValid() bool {
	return h.generation != 0
}

// Index returns the slot index of the handle.
func (h Handle) Index() uint32 {
	return h.index
}

// Generation returns the slot generation the handle was minted with.
func (h Handle) Generation() uint32 {
	return h.generation
}

// String renders the handle for debugging purposes.
func (h Handle) String() string {
	if !h.IsValid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d:%d:%d)", h.atlas, h.index, h.generation)
}

// atlasIDs numbers atlases in creation order, starting at 1.
var atlasIDs atomic.Uint32

// nextAtlasID returns a fresh atlas id, skipping zero on wraparound.
func nextAtlasID() uint32 {
	for {
		if id := atlasIDs.Add(1); id != 0 {
			return id
		}
	}
}

// nextGeneration advances a slot generation, skipping zero on wraparound.
func nextGeneration(g uint32) uint32 {
	g++
	if g == 0 {
		g = 1
	}
	return g
}
