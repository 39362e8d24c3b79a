package model

import "github.com/go-gl/mathgl/mgl32"

// Cube returns a 2x2x2 cube centered on its origin: 6 faces, 36 vertices, counter-clockwise
// winding seen from outside.
//
// Returns:
//   - Model: the cube model
func Cube() Model {
	var v []GPUVertex
	// +Z
	v = appendQuad(v, [3]float32{-1, -1, 1}, [3]float32{1, -1, 1}, [3]float32{1, 1, 1}, [3]float32{-1, 1, 1})
	// -Z
	v = appendQuad(v, [3]float32{1, -1, -1}, [3]float32{-1, -1, -1}, [3]float32{-1, 1, -1}, [3]float32{1, 1, -1})
	// +X
	v = appendQuad(v, [3]float32{1, -1, 1}, [3]float32{1, -1, -1}, [3]float32{1, 1, -1}, [3]float32{1, 1, 1})
	// -X
	v = appendQuad(v, [3]float32{-1, -1, -1}, [3]float32{-1, -1, 1}, [3]float32{-1, 1, 1}, [3]float32{-1, 1, -1})
	// +Y
	v = appendQuad(v, [3]float32{-1, 1, 1}, [3]float32{1, 1, 1}, [3]float32{1, 1, -1}, [3]float32{-1, 1, -1})
	// -Y
	v = appendQuad(v, [3]float32{-1, -1, -1}, [3]float32{1, -1, -1}, [3]float32{1, -1, 1}, [3]float32{-1, -1, 1})
	return NewModel(WithName("cube"), WithVertices(v))
}

// Pyramid returns a square pyramid with a 2x2 base at y=-1 and its apex at (0,1,0):
// 18 vertices, counter-clockwise winding seen from outside.
//
// Returns:
//   - Model: the pyramid model
func Pyramid() Model {
	apex := [3]float32{0, 1, 0}
	var v []GPUVertex
	// base
	v = appendQuad(v, [3]float32{-1, -1, -1}, [3]float32{1, -1, -1}, [3]float32{1, -1, 1}, [3]float32{-1, -1, 1})
	v = appendTriangle(v, [3]float32{-1, -1, 1}, [3]float32{1, -1, 1}, apex)
	v = appendTriangle(v, [3]float32{1, -1, 1}, [3]float32{1, -1, -1}, apex)
	v = appendTriangle(v, [3]float32{1, -1, -1}, [3]float32{-1, -1, -1}, apex)
	v = appendTriangle(v, [3]float32{-1, -1, -1}, [3]float32{-1, -1, 1}, apex)
	return NewModel(WithName("pyramid"), WithVertices(v))
}

// appendQuad appends two flat-shaded triangles (a,b,c) and (a,c,d).
func appendQuad(dst []GPUVertex, a, b, c, d [3]float32) []GPUVertex {
	dst = appendTriangle(dst, a, b, c)
	return appendTriangle(dst, a, c, d)
}

// appendTriangle appends a flat-shaded triangle whose normal follows its winding.
func appendTriangle(dst []GPUVertex, a, b, c [3]float32) []GPUVertex {
	pa, pb, pc := mgl32.Vec3(a), mgl32.Vec3(b), mgl32.Vec3(c)
	n := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
	normal := [3]float32{n.X(), n.Y(), n.Z()}
	return append(dst,
		GPUVertex{Position: a, Normal: normal},
		GPUVertex{Position: b, Normal: normal},
		GPUVertex{Position: c, Normal: normal},
	)
}
