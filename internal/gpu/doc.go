//go:build !nogpu

// Package gpu draws freehand strokes with the gogpu/wgpu HAL.
//
// # Architecture Overview
//
//	capture.Recorder --Publish--> Renderer (atomic snapshot)
//	                 --Enqueue--> task queue --Frame--> StrokeBuffers
//
// Key components:
//
//   - Renderer: owns the pipeline, render targets and frame uniform.
//     Frame drains queued tasks, then draws every committed stroke and
//     the active stroke in one MSAA render pass.
//   - StrokeBuffers: one vertex buffer and one color uniform per stroke
//     id, tessellated by internal/tessellate.
//   - OpenDevice: opens a Vulkan device when no host provides one.
//
// # Threading
//
// The GPU objects belong to the goroutine that calls Frame. Other
// goroutines hand work over through Publish and Enqueue, which never
// block on the GPU.
//
// # Shaders
//
// The stroke shader is WGSL. With Config.ShaderSPIRV it is compiled to
// SPIR-V with naga before the pipeline is created.
//
// # Build Tags
//
// The package is excluded with the nogpu build tag.
package gpu
