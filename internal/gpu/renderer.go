//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ink"
)

// camera is the immutable projection state published by Resize.
type camera struct {
	proj, view    ink.Mat4
	width, height int
}

// Renderer draws the published drawing state with the stroke pipeline.
//
// Publish, State, Enqueue, Config, Projection, View and Size are safe to call
// from any goroutine. Everything else, including every task passed to
// Enqueue, runs on the single render goroutine that calls Frame.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	cfg    ink.Config

	pipeline  *strokePipeline
	buffers   *StrokeBuffers
	frameBuf  hal.Buffer
	frameBind hal.BindGroup
	textures  textureSet

	width, height uint32
	destroyed     bool

	state  atomic.Pointer[ink.DrawingState]
	camera atomic.Pointer[camera]

	tasksMu sync.Mutex
	tasks   []func()
}

// NewRenderer creates a renderer on device and queue. The caller keeps
// ownership of both. Call Init and Resize before the first Frame.
func NewRenderer(device hal.Device, queue hal.Queue, cfg ink.Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{device: device, queue: queue, cfg: cfg}
	r.state.Store(&ink.DrawingState{})
	r.camera.Store(&camera{proj: ink.Identity(), view: ink.Identity()})
	return r, nil
}

// NewRendererFromProvider creates a renderer that shares a host's GPU
// device. The provider must expose HAL access through HalDevice and
// HalQueue.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, cfg ink.Config) (*Renderer, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return NewRenderer(device, queue, cfg)
}

// Init builds the stroke pipeline, the frame uniform and the buffer
// manager. It is a no-op once it has succeeded. Failures wrap
// ErrPipeline and leave the renderer uninitialized.
func (r *Renderer) Init() error {
	if r.destroyed {
		return ErrDestroyed
	}
	if r.pipeline != nil {
		return nil
	}

	pipeline, err := newStrokePipeline(r.device, uint32(r.cfg.SampleCount), r.cfg.ShaderSPIRV) //nolint:gosec // validated 1 or 4
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPipeline, err)
	}

	frameBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ink_frame_uniforms",
		Size:  frameUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		pipeline.destroy()
		return fmt.Errorf("%w: create frame uniform buffer: %w", ErrPipeline, err)
	}
	frameBind, err := createUniformBindGroup(r.device, "ink_frame_bind", pipeline.frameLayout, frameBuf, frameUniformSize)
	if err != nil {
		r.device.DestroyBuffer(frameBuf)
		pipeline.destroy()
		return fmt.Errorf("%w: %w", ErrPipeline, err)
	}

	r.pipeline = pipeline
	r.frameBuf = frameBuf
	r.frameBind = frameBind
	r.buffers = NewStrokeBuffers(r.device, r.queue, pipeline.strokeLayout, r.cfg)

	c := r.camera.Load()
	r.queue.WriteBuffer(r.frameBuf, 0, mat4Bytes(c.proj.Mul(c.view)))
	return nil
}

// Resize sets the drawable size in pixels. It rebuilds the render
// targets and publishes a top-left origin orthographic projection with
// an identity camera. A zero size leaves the renderer not ready.
func (r *Renderer) Resize(width, height int) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("gpu: invalid size %dx%d", width, height)
	}

	c := &camera{
		proj:   ink.Ortho(0, float32(width), float32(height), 0, -1, 1),
		view:   ink.LookAt(0, 0, 1, 0, 0, 0, 0, 1, 0),
		width:  width,
		height: height,
	}
	r.camera.Store(c)
	r.width, r.height = uint32(width), uint32(height) //nolint:gosec // checked non-negative

	if r.frameBuf != nil {
		r.queue.WriteBuffer(r.frameBuf, 0, mat4Bytes(c.proj.Mul(c.view)))
	}
	if width == 0 || height == 0 {
		r.textures.destroyTextures(r.device)
		return nil
	}
	if err := r.textures.ensureTextures(r.device, r.width, r.height, r.samples()); err != nil {
		return err
	}
	slogger().Debug("renderer resized", slog.Int("width", width), slog.Int("height", height))
	return nil
}

// Publish replaces the drawing state the next frame draws.
func (r *Renderer) Publish(s ink.DrawingState) {
	r.state.Store(&s)
}

// State returns the most recently published drawing state.
func (r *Renderer) State() ink.DrawingState {
	return *r.state.Load()
}

// Enqueue schedules fn to run on the render goroutine at the start of the
// next frame. Tasks run in submission order.
func (r *Renderer) Enqueue(fn func()) {
	r.tasksMu.Lock()
	r.tasks = append(r.tasks, fn)
	r.tasksMu.Unlock()
}

// drainTasks runs every queued task. Tasks enqueued while draining run
// in the next frame.
func (r *Renderer) drainTasks() {
	r.tasksMu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.tasksMu.Unlock()

	for _, fn := range tasks {
		fn()
	}
}

// Projection returns a copy of the current projection matrix.
func (r *Renderer) Projection() ink.Mat4 { return r.camera.Load().proj }

// View returns a copy of the current view matrix.
func (r *Renderer) View() ink.Mat4 { return r.camera.Load().view }

// Config returns the configuration the renderer was created with. It is
// safe from any goroutine.
func (r *Renderer) Config() ink.Config { return r.cfg }

// Size returns the current drawable size in pixels.
func (r *Renderer) Size() (width, height int) {
	c := r.camera.Load()
	return c.width, c.height
}

// Buffers returns the stroke buffer manager, or nil before Init.
// It must only be used on the render goroutine.
func (r *Renderer) Buffers() *StrokeBuffers { return r.buffers }

// Ready reports whether Frame can draw.
func (r *Renderer) Ready() bool {
	return !r.destroyed && r.pipeline != nil && r.width > 0 && r.height > 0
}

// Frame runs queued tasks, then draws the published state into the
// offscreen target and waits for the GPU.
func (r *Renderer) Frame() error {
	if err := r.begin(); err != nil {
		return err
	}
	if err := r.textures.ensureTextures(r.device, r.width, r.height, r.samples()); err != nil {
		return err
	}
	return r.encodeFrame(frameTarget{})
}

// FrameTo draws the published state and resolves it into view, a surface
// texture of the current size owned by the caller.
func (r *Renderer) FrameTo(view hal.TextureView) error {
	if view == nil {
		return r.Frame()
	}
	if err := r.begin(); err != nil {
		return err
	}
	if err := r.textures.ensureSurfaceTextures(r.device, r.width, r.height, r.samples()); err != nil {
		return err
	}
	return r.encodeFrame(frameTarget{surface: view})
}

// Snapshot draws the published state and reads the result back.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	if err := r.textures.ensureTextures(r.device, r.width, r.height, r.samples()); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(r.width), int(r.height)))
	if err := r.encodeFrame(frameTarget{readback: img}); err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Renderer) begin() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.drainTasks()
	if !r.Ready() {
		return ErrNotReady
	}
	return nil
}

func (r *Renderer) samples() uint32 {
	if r.cfg.SampleCount <= 1 {
		return 1
	}
	return uint32(r.cfg.SampleCount) //nolint:gosec // validated 1 or 4
}

// Destroy releases every GPU object the renderer created. The device and
// queue are left to their owner. Pending tasks are dropped.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true

	r.tasksMu.Lock()
	r.tasks = nil
	r.tasksMu.Unlock()

	if r.buffers != nil {
		slogger().Debug("releasing stroke buffers", slog.String("memory", r.buffers.Stats().String()))
		r.buffers.Destroy()
		r.buffers = nil
	}
	r.textures.destroyTextures(r.device)
	if r.frameBind != nil {
		r.device.DestroyBindGroup(r.frameBind)
		r.frameBind = nil
	}
	if r.frameBuf != nil {
		r.device.DestroyBuffer(r.frameBuf)
		r.frameBuf = nil
	}
	r.pipeline.destroy()
	r.pipeline = nil
}
