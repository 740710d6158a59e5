// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/iconatlas/surface"
	"github.com/gogpu/wgpu/hal"
	xdraw "golang.org/x/image/draw"
)

// Uniform buffer sizes of the two materials.
const (
	blitUniformSize   = 32  // target_rect, uv_rect
	slicedUniformSize = 160 // 5 x vec4, mat4x4, use_mask + padding
)

// materials holds the render pipelines blits are composited with.
// Pipelines depend on the atlas format and are built on first use.
type materials struct {
	format gputypes.TextureFormat

	blitLayout   hal.BindGroupLayout
	slicedLayout hal.BindGroupLayout

	blitPipeLayout   hal.PipelineLayout
	slicedPipeLayout hal.PipelineLayout

	blit   hal.RenderPipeline
	sliced hal.RenderPipeline
}

// Composite draws src into the atlas texture with the material of p.
// A nil p stretch-copies src over the whole texture.
func (b *Backend) Composite(src image.Image, p *surface.BlitParams) error {
	if b.closed {
		return ErrClosed
	}
	if b.texture == nil || b.view == nil {
		return ErrNoTexture
	}
	if src == nil || src.Bounds().Empty() {
		return nil
	}
	if p == nil {
		p = surface.BlitParamsFor(surface.UnitRect())
	}
	if err := b.ensureMaterials(); err != nil {
		return err
	}

	srcTex, srcView, err := b.uploadSource("icon_source", src)
	if err != nil {
		return err
	}
	defer b.destroySource(srcTex, srcView)

	var (
		layout   hal.BindGroupLayout
		pipeline hal.RenderPipeline
		uniform  []byte
		entries  []gputypes.BindGroupEntry
	)
	switch p.Material {
	case surface.MaterialSliced:
		mask := p.MaskTexture
		if mask == nil || mask.Bounds().Empty() {
			mask = whiteTexel
		}
		maskTex, maskView, err := b.uploadSource("icon_mask", mask)
		if err != nil {
			return err
		}
		defer b.destroySource(maskTex, maskView)

		layout, pipeline = b.materials.slicedLayout, b.materials.sliced
		uniform = slicedUniform(p)
		entries = []gputypes.BindGroupEntry{
			textureEntry(1, srcView),
			samplerEntry(2, b.sampler),
			textureEntry(3, maskView),
		}
	default:
		layout, pipeline = b.materials.blitLayout, b.materials.blit
		uniform = blitUniform(p)
		entries = []gputypes.BindGroupEntry{
			textureEntry(1, srcView),
			samplerEntry(2, b.sampler),
		}
	}

	uniformBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "icon_uniform",
		Size:  uint64(len(uniform)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer b.device.DestroyBuffer(uniformBuf)
	if err := b.queue.WriteBuffer(uniformBuf, 0, uniform); err != nil {
		return fmt.Errorf("write uniform buffer: %w", err)
	}

	entries = append([]gputypes.BindGroupEntry{{Binding: 0, Resource: gputypes.BufferBinding{
		Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uint64(len(uniform)),
	}}}, entries...)
	bindGroup, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "icon_bind",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer b.device.DestroyBindGroup(bindGroup)

	return b.encodeAndSubmit(pipeline, bindGroup)
}

// encodeAndSubmit draws one quad into the atlas view and waits for the GPU.
// The pass loads the existing contents so other slots survive.
func (b *Backend) encodeAndSubmit(pipeline hal.RenderPipeline, bindGroup hal.BindGroup) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "icon_composite",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("icon_composite"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "icon_composite_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    b.view,
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			},
		},
	})
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(6, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if _, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}

// ensureMaterials builds the pipelines for the current atlas format,
// rebuilding them when the format changed.
func (b *Backend) ensureMaterials() error {
	format := textureFormat(b.desc.Format)
	if b.materials != nil && b.materials.format == format {
		return nil
	}
	b.materials.destroy(b.device)
	b.materials = nil

	m := &materials{format: format}
	if err := m.create(b.device, b.shaders); err != nil {
		m.destroy(b.device)
		return err
	}
	b.materials = m
	return nil
}

func (m *materials) create(device hal.Device, shaders *shaderSet) error {
	if shaders == nil {
		return ErrNoShaders
	}
	var err error
	if m.blitLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "icon_blit_layout",
		Entries: bindLayoutEntries(false),
	}); err != nil {
		return fmt.Errorf("create icon_blit bind group layout: %w", err)
	}
	if m.slicedLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "icon_sliced_layout",
		Entries: bindLayoutEntries(true),
	}); err != nil {
		return fmt.Errorf("create icon_sliced bind group layout: %w", err)
	}
	if m.blitPipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "icon_blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{m.blitLayout},
	}); err != nil {
		return fmt.Errorf("create icon_blit pipeline layout: %w", err)
	}
	if m.slicedPipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "icon_sliced_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{m.slicedLayout},
	}); err != nil {
		return fmt.Errorf("create icon_sliced pipeline layout: %w", err)
	}
	if m.blit, err = device.CreateRenderPipeline(
		pipelineDescriptor("icon_blit_pipeline", m.blitPipeLayout, shaders.blit, m.format, nil),
	); err != nil {
		return fmt.Errorf("create icon_blit pipeline: %w", err)
	}
	premulBlend := gputypes.BlendStatePremultiplied()
	if m.sliced, err = device.CreateRenderPipeline(
		pipelineDescriptor("icon_sliced_pipeline", m.slicedPipeLayout, shaders.sliced, m.format, &premulBlend),
	); err != nil {
		return fmt.Errorf("create icon_sliced pipeline: %w", err)
	}
	return nil
}

func (m *materials) destroy(device hal.Device) {
	if m == nil {
		return
	}
	if m.sliced != nil {
		device.DestroyRenderPipeline(m.sliced)
		m.sliced = nil
	}
	if m.blit != nil {
		device.DestroyRenderPipeline(m.blit)
		m.blit = nil
	}
	if m.slicedPipeLayout != nil {
		device.DestroyPipelineLayout(m.slicedPipeLayout)
		m.slicedPipeLayout = nil
	}
	if m.blitPipeLayout != nil {
		device.DestroyPipelineLayout(m.blitPipeLayout)
		m.blitPipeLayout = nil
	}
	if m.slicedLayout != nil {
		device.DestroyBindGroupLayout(m.slicedLayout)
		m.slicedLayout = nil
	}
	if m.blitLayout != nil {
		device.DestroyBindGroupLayout(m.blitLayout)
		m.blitLayout = nil
	}
}

// pipelineDescriptor describes a vertex-less quad pipeline drawing into
// the atlas. A nil blend replaces the destination pixels.
func pipelineDescriptor(
	label string,
	layout hal.PipelineLayout,
	module hal.ShaderModule,
	format gputypes.TextureFormat,
	blend *gputypes.BlendState,
) *hal.RenderPipelineDescriptor {
	return &hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

// bindLayoutEntries returns uniform, source texture and sampler bindings,
// plus the mask texture for the sliced material.
func bindLayoutEntries(mask bool) []gputypes.BindGroupLayoutEntry {
	texture := &gputypes.TextureBindingLayout{
		SampleType:    gputypes.TextureSampleTypeFloat,
		ViewDimension: gputypes.TextureViewDimension2D,
	}
	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{Binding: 1, Visibility: gputypes.ShaderStageFragment, Texture: texture},
		{
			Binding:    2,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
	if mask {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding: 3, Visibility: gputypes.ShaderStageFragment, Texture: texture,
		})
	}
	return entries
}

func textureEntry(binding uint32, view hal.TextureView) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()},
	}
}

func samplerEntry(binding uint32, s hal.Sampler) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.SamplerBinding{Sampler: s.NativeHandle()},
	}
}

// whiteTexel is bound as the mask when a sliced blit has none.
var whiteTexel = &image.NRGBA{
	Pix:    []uint8{0xff, 0xff, 0xff, 0xff},
	Stride: 4,
	Rect:   image.Rect(0, 0, 1, 1),
}

// uploadSource copies img into a temporary sampled texture.
// Pixels are uploaded with straight alpha, as the materials expect.
func (b *Backend) uploadSource(label string, img image.Image) (hal.Texture, hal.TextureView, error) {
	pix := straightPixels(img)
	desc := surface.Descriptor{
		Label:  label,
		Width:  pix.Rect.Dx(),
		Height: pix.Rect.Dy(),
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
	texDesc, err := textureDescriptor(desc)
	if err != nil {
		return nil, nil, err
	}
	texDesc.Usage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst

	tex, err := b.device.CreateTexture(texDesc)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	dst, layout, size := uploadRegion(tex, pix.Rect)
	if err := b.queue.WriteTexture(dst, pix.Pix, layout, size); err != nil {
		b.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("write %s texture: %w", label, err)
	}
	view, err := b.device.CreateTextureView(tex, viewDescriptor(desc))
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create %s texture view: %w", label, err)
	}
	return tex, view, nil
}

func (b *Backend) destroySource(tex hal.Texture, view hal.TextureView) {
	b.device.DestroyTextureView(view)
	b.device.DestroyTexture(tex)
}

// straightPixels returns img as tightly packed NRGBA anchored at (0, 0).
func straightPixels(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*bounds.Dx() {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(out, out.Rect, img, bounds.Min, xdraw.Src)
	return out
}

// blitUniform packs BlitUniforms: target_rect, uv_rect.
func blitUniform(p *surface.BlitParams) []byte {
	buf := make([]byte, blitUniformSize)
	putVec4(buf[0:], p.TargetRect.Vec4())
	putVec4(buf[16:], outerUV(p).Vec4())
	return buf
}

// slicedUniform packs SlicedUniforms: target_rect, border_rect, uv_x, uv_y,
// mask_rect, color_matrix, use_mask.
func slicedUniform(p *surface.BlitParams) []byte {
	buf := make([]byte, slicedUniformSize)
	putVec4(buf[0:], p.TargetRect.Vec4())
	putVec4(buf[16:], p.BorderRect.Vec4())
	putVec4(buf[32:], p.UVx)
	putVec4(buf[48:], p.UVy)
	putVec4(buf[64:], p.MaskRect.Vec4())
	for i, v := range p.ColorMatrix {
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(v))
	}
	if p.MaskTexture != nil && !p.MaskTexture.Bounds().Empty() {
		binary.LittleEndian.PutUint32(buf[144:], math.Float32bits(1))
	}
	return buf
}

// outerUV is the source area a MaterialBlit copies. An empty area falls
// back to the whole source.
func outerUV(p *surface.BlitParams) surface.Rect {
	r := surface.Rect{X: p.UVx[0], Y: p.UVy[0], Width: p.UVx[3] - p.UVx[0], Height: p.UVy[3] - p.UVy[0]}
	if r.IsEmpty() {
		return surface.UnitRect()
	}
	return r
}

func putVec4(dst []byte, v [4]float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}

var _ surface.Compositor = (*Backend)(nil)
