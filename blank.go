package iconatlas

import (
	"image"
	"sync"
)

var (
	blankMu  sync.Mutex
	blankTex *image.NRGBA
)

// BlankTexture returns the shared 2x2 fully transparent texture atlases
// clear slots with. It is created on first use and shared by every Atlas in
// the process. Callers must not modify it.
func BlankTexture() image.Image {
	blankMu.Lock()
	defer blankMu.Unlock()
	if blankTex == nil {
		blankTex = image.NewNRGBA(image.Rect(0, 0, 2, 2))
	}
	return blankTex
}

// ResetBlankTexture drops the shared blank texture. The next BlankTexture
// call creates a new one.
func ResetBlankTexture() {
	blankMu.Lock()
	blankTex = nil
	blankMu.Unlock()
}
