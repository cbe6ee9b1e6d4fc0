//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/stroke.wgsl
var strokeShaderSource string

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// compileSPIRV compiles WGSL source to SPIR-V words with naga.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes) < 4 || len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: malformed SPIR-V (%d bytes)", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("compile shader: bad SPIR-V magic %#08x", words[0])
	}
	return words, nil
}

// strokeShaderSourceFor returns the shader source in the requested form.
func strokeShaderSourceFor(spirv bool) (hal.ShaderSource, error) {
	if !spirv {
		return hal.ShaderSource{WGSL: strokeShaderSource}, nil
	}
	words, err := compileSPIRV(strokeShaderSource)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: words}, nil
}
