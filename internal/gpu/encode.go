//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ink"
)

// float32SliceToBytes encodes floats as little-endian bytes for upload.
// Empty input returns nil.
func float32SliceToBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	out := make([]byte, len(f)*4)
	for i, v := range f {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// mat4Bytes encodes a column-major matrix as a mat4x4<f32> uniform.
func mat4Bytes(m ink.Mat4) []byte {
	return float32SliceToBytes(m[:])
}

// colorBytes encodes a premultiplied color as a vec4<f32> uniform.
func colorBytes(c ink.Color) []byte {
	p := c.Premultiplied()
	return float32SliceToBytes(p[:])
}

// convertBGRAToRGBA swaps the red and blue channels of n pixels from src
// into dst.
func convertBGRAToRGBA(src, dst []byte, n int) {
	for i := 0; i < n; i++ {
		o := i * 4
		dst[o+0] = src[o+2]
		dst[o+1] = src[o+1]
		dst[o+2] = src[o+0]
		dst[o+3] = src[o+3]
	}
}
