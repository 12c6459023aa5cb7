package scene

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/cognitive-cannon/game/particle"
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
)

// GPUEntityUniform is the GPU-aligned per-entity uniform block shared by the shape and particle shaders.
// Matches the WGSL EntityUniform struct layout exactly.
// Size: 96 bytes.
type GPUEntityUniform struct {
	Model  [16]float32 // offset  0: model matrix (mat4x4<f32>)
	Color  [4]float32  // offset 64: rgb + alpha (vec4<f32>)
	Params [4]float32  // offset 80: x threat, y targeted flag, z life, w unused (vec4<f32>)
}

// Size returns the size of the GPUEntityUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUEntityUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little-endian byte buffer for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUEntityUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the uniform into buf, which must be at least Size bytes.
func (g *GPUEntityUniform) MarshalTo(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Color[i]))
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(g.Params[i]))
	}
}

// ShapeUniform builds the uniform block for a shape.
func ShapeUniform(s *shape.Shape, targeted bool) GPUEntityUniform {
	var flag float32
	if targeted {
		flag = 1
	}
	return GPUEntityUniform{
		Model:  s.ModelMatrix(),
		Color:  [4]float32{s.Color[0], s.Color[1], s.Color[2], 1},
		Params: [4]float32{s.Threat, flag, 1, 0},
	}
}

// ParticleUniform builds the uniform block for a particle; alpha and life carry the fade.
func ParticleUniform(p *particle.Particle) GPUEntityUniform {
	return GPUEntityUniform{
		Model:  p.ModelMatrix(),
		Color:  [4]float32{p.Color[0], p.Color[1], p.Color[2], p.Life},
		Params: [4]float32{0, 0, p.Life, 0},
	}
}
