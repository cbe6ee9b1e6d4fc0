//go:build !nogpu

package gpu

import (
	"strings"
	"testing"

	"github.com/gogpu/ink"
)

func TestStrokeBuffersStats(t *testing.T) {
	b, _ := newTestBuffers(t, ink.DefaultConfig())
	if s := b.Stats(); s != (MemoryStats{}) {
		t.Fatalf("empty stats = %+v", s)
	}
	if s := b.Stats(); s.Utilization() != 0 {
		t.Errorf("empty utilization = %v", s.Utilization())
	}

	for id := int64(1); id <= 2; id++ {
		if err := b.Prepare(testStroke(id, 5)); err != nil {
			t.Fatalf("Prepare: %v", err)
		}
	}
	s := b.Stats()
	if s.Strokes != 2 {
		t.Errorf("Strokes = %d, want 2", s.Strokes)
	}
	if s.UniformBytes != 2*strokeUniformSize {
		t.Errorf("UniformBytes = %d", s.UniformBytes)
	}
	want := uint64(b.VertexCount(1)+b.VertexCount(2)) * strokeVertexStride
	if s.UsedVertexBytes != want {
		t.Errorf("UsedVertexBytes = %d, want %d", s.UsedVertexBytes, want)
	}
	// Fresh buffers are sized exactly.
	if s.VertexBytes != s.UsedVertexBytes || s.Utilization() != 1 {
		t.Errorf("VertexBytes = %d, used %d", s.VertexBytes, s.UsedVertexBytes)
	}
	if s.TotalBytes() != s.VertexBytes+s.UniformBytes {
		t.Errorf("TotalBytes = %d", s.TotalBytes())
	}
	if !strings.Contains(s.String(), "2 strokes") {
		t.Errorf("String = %q", s.String())
	}

	// Shrinking geometry keeps the capacity.
	if err := b.Prepare(testStroke(1, 2)); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if s2 := b.Stats(); s2.VertexBytes != s.VertexBytes || s2.UsedVertexBytes >= s.UsedVertexBytes {
		t.Errorf("after shrink: %+v, before %+v", s2, s)
	}

	b.Clear()
	if s := b.Stats(); s.Strokes != 0 || s.TotalBytes() != 0 {
		t.Errorf("stats after Clear = %+v", s)
	}
}
