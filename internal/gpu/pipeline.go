//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// strokeVertexStride is the byte stride per vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0)
const strokeVertexStride = 8

// Uniform block sizes in bytes.
const (
	frameUniformSize  = 64 // mat4x4<f32>
	strokeUniformSize = 16 // vec4<f32>
)

// colorFormat is the render target format for offscreen and surface passes.
const colorFormat = gputypes.TextureFormatBGRA8Unorm

// strokePipeline owns the shader, bind group layouts and render pipeline
// shared by every stroke draw.
//
// Bind groups:
//
//	group 0: frame uniforms (projection * view), one per renderer
//	group 1: stroke uniforms (premultiplied color), one per stroke slot
type strokePipeline struct {
	device hal.Device

	shader       hal.ShaderModule
	frameLayout  hal.BindGroupLayout
	strokeLayout hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.RenderPipeline
}

// newStrokePipeline compiles the stroke shader and creates the render
// pipeline with premultiplied alpha blending and the given MSAA sample
// count. On error every partially created object is released.
func newStrokePipeline(device hal.Device, sampleCount uint32, spirv bool) (*strokePipeline, error) { //nolint:funlen // GPU pipeline descriptors are a single cohesive unit
	sp := &strokePipeline{device: device}

	source, err := strokeShaderSourceFor(spirv)
	if err != nil {
		return nil, err
	}
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "stroke_shader",
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("create stroke shader: %w", err)
	}
	sp.shader = shader

	sp.frameLayout, err = createUniformLayout(device, "stroke_frame_layout", gputypes.ShaderStageVertex)
	if err != nil {
		sp.destroy()
		return nil, err
	}
	sp.strokeLayout, err = createUniformLayout(device, "stroke_color_layout", gputypes.ShaderStageFragment)
	if err != nil {
		sp.destroy()
		return nil, err
	}

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "stroke_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{sp.frameLayout, sp.strokeLayout},
	})
	if err != nil {
		sp.destroy()
		return nil, fmt.Errorf("create stroke pipeline layout: %w", err)
	}
	sp.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "stroke_pipeline",
		Layout: sp.pipeLayout,
		Vertex: hal.VertexState{
			Module:     sp.shader,
			EntryPoint: "vs_main",
			Buffers:    strokeVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     sp.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		sp.destroy()
		return nil, fmt.Errorf("create stroke pipeline: %w", err)
	}
	sp.pipeline = pipeline

	return sp, nil
}

func createUniformLayout(device hal.Device, label string, visibility gputypes.ShaderStages) (hal.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return layout, nil
}

// createUniformBindGroup binds buf at binding 0 of layout.
func createUniformBindGroup(device hal.Device, label string, layout hal.BindGroupLayout, buf hal.Buffer, size uint64) (hal.BindGroup, error) {
	bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: size,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return bg, nil
}

// destroy releases all pipeline resources in reverse creation order.
func (sp *strokePipeline) destroy() {
	if sp == nil || sp.device == nil {
		return
	}
	if sp.pipeline != nil {
		sp.device.DestroyRenderPipeline(sp.pipeline)
		sp.pipeline = nil
	}
	if sp.pipeLayout != nil {
		sp.device.DestroyPipelineLayout(sp.pipeLayout)
		sp.pipeLayout = nil
	}
	if sp.strokeLayout != nil {
		sp.device.DestroyBindGroupLayout(sp.strokeLayout)
		sp.strokeLayout = nil
	}
	if sp.frameLayout != nil {
		sp.device.DestroyBindGroupLayout(sp.frameLayout)
		sp.frameLayout = nil
	}
	if sp.shader != nil {
		sp.device.DestroyShaderModule(sp.shader)
		sp.shader = nil
	}
}

// strokeVertexLayout returns the vertex buffer layout for the stroke pipeline.
func strokeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: strokeVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			},
		},
	}
}
