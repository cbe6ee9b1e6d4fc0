//go:build !nogpu

// Package gpu exposes the stroke renderer.
//
// A host that already owns a GPU device shares it through its
// gpucontext.DeviceProvider:
//
//	r, err := gpu.NewRendererFromProvider(provider, ink.DefaultConfig())
//
// Standalone programs open a device of their own:
//
//	dev, err := gpu.OpenDevice()
//	defer dev.Close()
//	r, err := gpu.NewRenderer(dev.Device, dev.Queue, ink.DefaultConfig())
//
// The renderer's GPU methods (Init, Resize, Frame, FrameTo, Snapshot,
// Buffers, Destroy) must be called from a single render goroutine.
// Publish, State, Enqueue, Config, Projection, View and Size are safe
// anywhere.
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ink"
	gpuimpl "github.com/gogpu/ink/internal/gpu"
)

type (
	// Renderer draws published drawing states.
	Renderer = gpuimpl.Renderer

	// StrokeBuffers holds the per-stroke GPU buffers of a Renderer.
	StrokeBuffers = gpuimpl.StrokeBuffers

	// Device is a GPU device opened by OpenDevice.
	Device = gpuimpl.Device

	// MemoryStats summarizes the GPU memory held by StrokeBuffers.
	MemoryStats = gpuimpl.MemoryStats
)

// Renderer errors.
var (
	ErrPipeline  = gpuimpl.ErrPipeline
	ErrNotReady  = gpuimpl.ErrNotReady
	ErrNoAdapter = gpuimpl.ErrNoAdapter
	ErrProvider  = gpuimpl.ErrProvider
	ErrDestroyed = gpuimpl.ErrDestroyed
)

// NewRenderer creates a renderer on an existing device and queue.
func NewRenderer(device hal.Device, queue hal.Queue, cfg ink.Config) (*Renderer, error) {
	return gpuimpl.NewRenderer(device, queue, cfg)
}

// NewRendererFromProvider creates a renderer on a host's shared device.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, cfg ink.Config) (*Renderer, error) {
	return gpuimpl.NewRendererFromProvider(provider, cfg)
}

// OpenDevice opens a Vulkan device, preferring hardware adapters.
func OpenDevice() (*Device, error) {
	return gpuimpl.OpenDevice()
}
