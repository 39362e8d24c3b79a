package light

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUSceneUniformSource is the canonical WGSL definition of the SceneUniform struct bound at
// group 0 by both the shadow and lit pipelines. Matches GPUSceneUniform layout exactly.
//
//go:embed assets/scene_uniform.wgsl
var GPUSceneUniformSource string

// Byte offsets of the SceneUniform fields.
const (
	SceneLightViewProjOffset  = 0
	SceneCameraViewProjOffset = 64
	SceneLightPosOffset       = 128

	// SceneUniformSize is the WGSL struct size: 140 bytes of data rounded up to the
	// 16-byte alignment of its vec3 member.
	SceneUniformSize = 144
)

// GPUSceneUniform is the GPU-aligned representation of the shared scene uniform block.
//
//	[0:64]    light view-projection (mat4x4<f32>)
//	[64:128]  camera view-projection (mat4x4<f32>)
//	[128:140] light position (vec3<f32>)
//	[140:144] padding
type GPUSceneUniform struct {
	LightViewProj  mgl32.Mat4
	CameraViewProj mgl32.Mat4
	LightPos       mgl32.Vec3
}

// Size returns the size of the uniform block in bytes, including trailing padding.
//
// Returns:
//   - int: SceneUniformSize
func (g *GPUSceneUniform) Size() int {
	return SceneUniformSize
}

// Marshal serializes the GPUSceneUniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (g *GPUSceneUniform) Marshal() []byte {
	buf := make([]byte, SceneUniformSize)
	common.PutMat4(buf[SceneLightViewProjOffset:], g.LightViewProj)
	common.PutMat4(buf[SceneCameraViewProjOffset:], g.CameraViewProj)
	binary.LittleEndian.PutUint32(buf[128:132], math.Float32bits(g.LightPos[0]))
	binary.LittleEndian.PutUint32(buf[132:136], math.Float32bits(g.LightPos[1]))
	binary.LittleEndian.PutUint32(buf[136:140], math.Float32bits(g.LightPos[2]))
	return buf
}
