package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveCounts(t *testing.T) {
	cube := Cube()
	assert.Equal(t, "cube", cube.Name())
	assert.Equal(t, uint32(36), cube.VertexCount())
	assert.Len(t, cube.VertexData(), 36*VertexStride)

	pyramid := Pyramid()
	assert.Equal(t, "pyramid", pyramid.Name())
	assert.Equal(t, uint32(18), pyramid.VertexCount())
	assert.Len(t, pyramid.VertexData(), 18*VertexStride)
}

func TestPrimitiveNormalsPointOutward(t *testing.T) {
	for _, m := range []Model{Cube(), Pyramid()} {
		verts := m.Vertices()
		require.Zero(t, len(verts)%3, m.Name())
		for i := 0; i < len(verts); i += 3 {
			a := mgl32.Vec3(verts[i].Position)
			b := mgl32.Vec3(verts[i+1].Position)
			c := mgl32.Vec3(verts[i+2].Position)
			centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
			n := mgl32.Vec3(verts[i].Normal)

			assert.InDelta(t, 1.0, n.Len(), 1e-5, "%s triangle %d", m.Name(), i/3)
			assert.Greater(t, n.Dot(centroid), float32(0), "%s triangle %d faces inward", m.Name(), i/3)
		}
	}
}

func TestGPUVertexMarshal(t *testing.T) {
	v := GPUVertex{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}}
	assert.Equal(t, VertexStride, v.Size())

	buf := v.Marshal()
	require.Len(t, buf, VertexStride)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])))
}

func TestGPUModelUniformMarshal(t *testing.T) {
	u := GPUModelUniform{ModelMatrix: mgl32.Translate3D(4, 5, 6)}
	assert.Equal(t, 64, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 64)
	// column-major: translation lives in elements 12..14
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52])))
	assert.Equal(t, float32(6), math.Float32frombits(binary.LittleEndian.Uint32(buf[56:60])))
}

func TestBoundingRadius(t *testing.T) {
	assert.InDelta(t, math.Sqrt(3), Cube().BoundingRadius(), 1e-5)
	assert.InDelta(t, math.Sqrt(3), Pyramid().BoundingRadius(), 1e-5)
}
