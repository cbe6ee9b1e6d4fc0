//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/tessellate"
)

// strokeSlot is the GPU state of one stroke.
type strokeSlot struct {
	vertBuf     hal.Buffer
	capacity    uint64 // bytes
	vertexCount uint32

	colorBuf  hal.Buffer
	bindGroup hal.BindGroup
	color     ink.Color
	hasColor  bool
}

// StrokeBuffers owns one vertex buffer and one color uniform per stroke,
// keyed by stroke id. Buffers are allocated lazily and reused across
// updates of the same stroke; a buffer only grows.
//
// StrokeBuffers is not safe for concurrent use. It belongs to the render
// goroutine.
type StrokeBuffers struct {
	device hal.Device
	queue  hal.Queue
	layout hal.BindGroupLayout

	opts        tessellate.Options
	maxVertices int

	slots map[int64]*strokeSlot
}

// NewStrokeBuffers creates an empty buffer manager. layout is the bind
// group layout of the per-stroke color uniform (group 1).
func NewStrokeBuffers(device hal.Device, queue hal.Queue, layout hal.BindGroupLayout, cfg ink.Config) *StrokeBuffers {
	maxVertices := cfg.MaxVerticesPerStroke
	if maxVertices <= 0 {
		maxVertices = ink.DefaultMaxVerticesPerStroke
	}
	return &StrokeBuffers{
		device:      device,
		queue:       queue,
		layout:      layout,
		opts:        tessellate.OptionsFromConfig(cfg),
		maxVertices: maxVertices,
		slots:       make(map[int64]*strokeSlot),
	}
}

// Prepare tessellates s and uploads the result into the stroke's slot.
//
// A stroke with no geometry releases its slot. A stroke over the vertex
// budget is logged and left as it was. Only device allocation failures
// are returned.
func (b *StrokeBuffers) Prepare(s ink.Stroke) error {
	tris := tessellate.TriangleCount(s, b.opts)
	if tris == 0 {
		b.Remove(s.ID)
		return nil
	}
	if verts := tris * 3; verts > b.maxVertices {
		slogger().Warn("stroke exceeds vertex budget, skipping upload",
			slog.Int64("id", s.ID),
			slog.Int("vertices", verts),
			slog.Int("max", b.maxVertices))
		return nil
	}

	data := float32SliceToBytes(tessellate.Tessellate(s, b.opts))
	need := uint64(len(data))

	slot := b.slots[s.ID]
	if slot == nil {
		slot = &strokeSlot{}
		if err := b.createColor(slot, s.ID); err != nil {
			return err
		}
		b.slots[s.ID] = slot
	}

	if slot.vertBuf == nil || slot.capacity < need {
		capacity := max(need, 2*slot.capacity)
		buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("stroke_%d_vertices", s.ID),
			Size:  capacity,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create stroke vertex buffer: %w", err)
		}
		if slot.vertBuf != nil {
			b.device.DestroyBuffer(slot.vertBuf)
		}
		slot.vertBuf = buf
		slot.capacity = capacity
		slogger().Debug("stroke vertex buffer allocated",
			slog.Int64("id", s.ID),
			slog.Uint64("bytes", capacity))
	}

	b.queue.WriteBuffer(slot.vertBuf, 0, data)
	slot.vertexCount = uint32(tris * 3) //nolint:gosec // bounded by maxVertices
	return nil
}

func (b *StrokeBuffers) createColor(slot *strokeSlot, id int64) error {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("stroke_%d_color", id),
		Size:  strokeUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create stroke color buffer: %w", err)
	}
	bg, err := createUniformBindGroup(b.device, "stroke_color_bind", b.layout, buf, strokeUniformSize)
	if err != nil {
		b.device.DestroyBuffer(buf)
		return err
	}
	slot.colorBuf = buf
	slot.bindGroup = bg
	return nil
}

// Draw records the draw of s into rp. The caller has already set the
// stroke pipeline and the frame bind group. It returns false when the
// stroke has no prepared buffer.
func (b *StrokeBuffers) Draw(rp hal.RenderPassEncoder, s ink.Stroke) bool {
	slot := b.slots[s.ID]
	if slot == nil || slot.vertexCount == 0 {
		slogger().Debug("no buffer for stroke, skipping draw", slog.Int64("id", s.ID))
		return false
	}
	if c := s.DrawColor(); !slot.hasColor || slot.color != c {
		b.queue.WriteBuffer(slot.colorBuf, 0, colorBytes(c))
		slot.color = c
		slot.hasColor = true
	}
	rp.SetBindGroup(1, slot.bindGroup, nil)
	rp.SetVertexBuffer(0, slot.vertBuf, 0)
	rp.Draw(slot.vertexCount, 1, 0, 0)
	return true
}

// Remove releases the buffers of the stroke with the given id.
// Unknown ids are ignored.
func (b *StrokeBuffers) Remove(id int64) {
	slot, ok := b.slots[id]
	if !ok {
		return
	}
	b.release(slot)
	delete(b.slots, id)
}

// Clear releases every slot.
func (b *StrokeBuffers) Clear() {
	for id, slot := range b.slots {
		b.release(slot)
		delete(b.slots, id)
	}
}

func (b *StrokeBuffers) release(slot *strokeSlot) {
	if slot.bindGroup != nil {
		b.device.DestroyBindGroup(slot.bindGroup)
	}
	if slot.colorBuf != nil {
		b.device.DestroyBuffer(slot.colorBuf)
	}
	if slot.vertBuf != nil {
		b.device.DestroyBuffer(slot.vertBuf)
	}
}

// Has reports whether the stroke has a slot.
func (b *StrokeBuffers) Has(id int64) bool {
	_, ok := b.slots[id]
	return ok
}

// VertexCount returns the number of vertices uploaded for the stroke.
func (b *StrokeBuffers) VertexCount(id int64) uint32 {
	if slot := b.slots[id]; slot != nil {
		return slot.vertexCount
	}
	return 0
}

// Capacity returns the vertex buffer size in bytes for the stroke.
func (b *StrokeBuffers) Capacity(id int64) uint64 {
	if slot := b.slots[id]; slot != nil {
		return slot.capacity
	}
	return 0
}

// Len returns the number of strokes with buffers.
func (b *StrokeBuffers) Len() int { return len(b.slots) }

// Destroy releases all buffers. The manager stays usable.
func (b *StrokeBuffers) Destroy() { b.Clear() }
