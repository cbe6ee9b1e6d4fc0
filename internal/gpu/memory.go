//go:build !nogpu

package gpu

import "fmt"

// MemoryStats summarizes the GPU memory held by stroke buffers.
type MemoryStats struct {
	// Strokes is the number of strokes with buffers.
	Strokes int

	// VertexBytes is the total vertex buffer capacity in bytes.
	VertexBytes uint64

	// UsedVertexBytes is the part of VertexBytes holding geometry.
	UsedVertexBytes uint64

	// UniformBytes is the total size of the per-stroke color uniforms.
	UniformBytes uint64
}

// TotalBytes returns the vertex and uniform bytes together.
func (s MemoryStats) TotalBytes() uint64 { return s.VertexBytes + s.UniformBytes }

// Utilization returns the used fraction of vertex capacity (0.0 to 1.0).
func (s MemoryStats) Utilization() float64 {
	if s.VertexBytes == 0 {
		return 0
	}
	return float64(s.UsedVertexBytes) / float64(s.VertexBytes)
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%d strokes, %.1f KB, %.1f%% of vertex capacity used]",
		s.Strokes,
		float64(s.TotalBytes())/1024,
		s.Utilization()*100)
}

// Stats reports the memory currently held by b. A nil b holds nothing.
func (b *StrokeBuffers) Stats() MemoryStats {
	var s MemoryStats
	if b == nil {
		return s
	}
	for _, slot := range b.slots {
		s.Strokes++
		s.VertexBytes += slot.capacity
		s.UsedVertexBytes += uint64(slot.vertexCount) * strokeVertexStride
		if slot.colorBuf != nil {
			s.UniformBytes += strokeUniformSize
		}
	}
	return s
}
