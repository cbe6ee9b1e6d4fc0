//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureSet holds the multisampled color target and the single-sample
// resolve target for offscreen stroke rendering.
//
//   - MSAA color: sampleCount samples, BGRA8Unorm, RenderAttachment
//   - Resolve: 1x sample, BGRA8Unorm, RenderAttachment | CopySrc
//
// With a sample count of 1 there is no MSAA texture and the pass renders
// straight into the resolve texture.
type textureSet struct {
	msaaTex     hal.Texture
	msaaView    hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
	width       uint32
	height      uint32
	samples     uint32
	surface     bool
}

// ensureTextures creates or recreates the offscreen targets if the
// requested dimensions differ from the current size. Matching dimensions
// are a no-op.
func (ts *textureSet) ensureTextures(device hal.Device, w, h, samples uint32) error {
	if ts.width == w && ts.height == h && ts.samples == samples && !ts.surface && ts.resolveTex != nil {
		return nil
	}
	ts.destroyTextures(device)

	if err := ts.createMSAA(device, w, h, samples); err != nil {
		return err
	}

	// Single-sample resolve target (CopySrc for readback).
	resolveTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ink_resolve",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create resolve texture: %w", err)
	}
	ts.resolveTex = resolveTex

	resolveView, err := device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{
		Label: "ink_resolve_view",
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create resolve view: %w", err)
	}
	ts.resolveView = resolveView

	ts.width, ts.height, ts.samples = w, h, samples
	return nil
}

// ensureSurfaceTextures creates only the MSAA color texture. The caller's
// surface view is the resolve target, so no resolve texture is created.
func (ts *textureSet) ensureSurfaceTextures(device hal.Device, w, h, samples uint32) error {
	if ts.width == w && ts.height == h && ts.samples == samples && ts.surface {
		return nil
	}
	ts.destroyTextures(device)

	if err := ts.createMSAA(device, w, h, samples); err != nil {
		return err
	}
	ts.width, ts.height, ts.samples = w, h, samples
	ts.surface = true
	return nil
}

func (ts *textureSet) createMSAA(device hal.Device, w, h, samples uint32) error {
	if samples <= 1 {
		return nil
	}
	msaaTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ink_msaa_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create MSAA color texture: %w", err)
	}
	ts.msaaTex = msaaTex

	msaaView, err := device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
		Label: "ink_msaa_color_view",
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create MSAA color view: %w", err)
	}
	ts.msaaView = msaaView
	return nil
}

// colorAttachment returns the pass attachment that renders into the set
// and resolves into target. A nil target means the offscreen resolve view.
func (ts *textureSet) colorAttachment(target hal.TextureView, clear gputypes.Color) hal.RenderPassColorAttachment {
	if target == nil {
		target = ts.resolveView
	}
	att := hal.RenderPassColorAttachment{
		View:       target,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: clear,
	}
	if ts.msaaView != nil {
		att.View = ts.msaaView
		att.ResolveTarget = target
	}
	return att
}

// destroyTextures releases all texture resources and resets dimensions.
func (ts *textureSet) destroyTextures(device hal.Device) {
	if ts.resolveView != nil {
		device.DestroyTextureView(ts.resolveView)
		ts.resolveView = nil
	}
	if ts.resolveTex != nil {
		device.DestroyTexture(ts.resolveTex)
		ts.resolveTex = nil
	}
	if ts.msaaView != nil {
		device.DestroyTextureView(ts.msaaView)
		ts.msaaView = nil
	}
	if ts.msaaTex != nil {
		device.DestroyTexture(ts.msaaTex)
		ts.msaaTex = nil
	}
	ts.width = 0
	ts.height = 0
	ts.samples = 0
	ts.surface = false
}
