//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/glyph.wgsl
var glyphShaderWGSL string

// UniformSize is the size of the glyph shader uniform block in bytes:
// a 4x4 transform followed by an RGBA color.
const UniformSize = 80

// GlyphShaderSource returns the WGSL source of the glyph shader.
func GlyphShaderSource() string {
	return glyphShaderWGSL
}

// CompileGlyphShader compiles the glyph shader to SPIR-V words.
func CompileGlyphShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(glyphShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile glyph shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpu: glyph shader SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// CreateGlyphShaderModule compiles the glyph shader and creates a shader
// module on device.
func CreateGlyphShaderModule(device hal.Device) (hal.ShaderModule, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	code, err := CompileGlyphShader()
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "fontatlas_glyph_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create glyph shader module: %w", err)
	}
	return module, nil
}

// CreateGlyphSampler creates the linear, clamp-to-edge sampler used with
// page textures.
func CreateGlyphSampler(device hal.Device) (hal.Sampler, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "fontatlas_glyph_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create glyph sampler: %w", err)
	}
	return sampler, nil
}

// MakeUniforms packs a row-major 4x4 transform and a straight-alpha RGBA
// color into the uniform block layout.
func MakeUniforms(transform [16]float32, color [4]float32) []byte {
	buf := make([]byte, UniformSize)
	for i, v := range transform {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range color {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	return buf
}

// OrthoTransform maps pixel coordinates in a width x height target, Y down,
// to clip space.
func OrthoTransform(width, height float32) [16]float32 {
	return [16]float32{
		2 / width, 0, 0, -1,
		0, -2 / height, 0, 1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
