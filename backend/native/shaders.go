// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/icon_blit.wgsl
var iconBlitShaderSource string

//go:embed shaders/icon_sliced.wgsl
var iconSlicedShaderSource string

// shaderSet holds the compositing materials of an atlas.
type shaderSet struct {
	blit   hal.ShaderModule
	sliced hal.ShaderModule
}

// compileSPIRV compiles WGSL source to little-endian SPIR-V words.
func compileSPIRV(source string) ([]uint32, error) {
	b, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	return spirvWords(b), nil
}

func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// createShaders compiles and creates both material modules.
// On error nothing is left allocated on device.
func createShaders(device hal.Device) (*shaderSet, error) {
	blit, err := createShaderModule(device, "icon_blit", iconBlitShaderSource)
	if err != nil {
		return nil, err
	}
	sliced, err := createShaderModule(device, "icon_sliced", iconSlicedShaderSource)
	if err != nil {
		device.DestroyShaderModule(blit)
		return nil, err
	}
	return &shaderSet{blit: blit, sliced: sliced}, nil
}

func createShaderModule(device hal.Device, label, source string) (hal.ShaderModule, error) {
	code, err := compileSPIRV(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", label, err)
	}
	return m, nil
}

func (s *shaderSet) destroy(device hal.Device) {
	if s == nil {
		return
	}
	if s.sliced != nil {
		device.DestroyShaderModule(s.sliced)
		s.sliced = nil
	}
	if s.blit != nil {
		device.DestroyShaderModule(s.blit)
		s.blit = nil
	}
}
