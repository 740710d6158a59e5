// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "github.com/gogpu/iconatlas/surface"

// BackendName is the registry name of this backend.
const BackendName = "wgpu"

func init() {
	surface.Register(BackendName, 100, newSurface, nil)
}

// newSurface builds a GPU surface on desc.Provider. Without a HAL provider
// it fails, and the registry moves on to the next backend.
func newSurface(desc surface.Descriptor) (surface.Surface, error) {
	b, err := NewBackend(desc.Provider)
	if err != nil {
		return nil, err
	}
	return surface.NewGPUSurface(desc, b), nil
}
