// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

// Package errors for the wgpu surface backend.
var (
	// ErrNoHALProvider is returned when the device provider does not
	// expose HAL types.
	ErrNoHALProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrNilHALDevice is returned when the provider has no hal.Device.
	ErrNilHALDevice = errors.New("wgpu: provider HalDevice is not hal.Device")

	// ErrNilHALQueue is returned when the provider has no hal.Queue.
	ErrNilHALQueue = errors.New("wgpu: provider HalQueue is not hal.Queue")

	// ErrInvalidTextureSize is returned for non-positive texture sizes.
	ErrInvalidTextureSize = errors.New("wgpu: invalid texture size")

	// ErrNoTexture is returned when uploading or compositing before
	// CreateTexture.
	ErrNoTexture = errors.New("wgpu: texture not created")

	// ErrUploadBounds is returned when an upload falls outside the texture
	// or its pixel buffer is too short.
	ErrUploadBounds = errors.New("wgpu: upload out of bounds")

	// ErrNoShaders is returned when compositing without compiled materials.
	ErrNoShaders = errors.New("wgpu: shaders not compiled")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("wgpu: backend closed")
)
