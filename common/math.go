package common

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mat4Size is the byte size of a 4x4 float32 matrix as laid out in a WGSL uniform.
const Mat4Size = 16 * 4

// Mat4Bytes serializes a column-major matrix into a freshly allocated little-endian byte slice.
//
// Parameters:
//   - m: the matrix to serialize
//
// Returns:
//   - []byte: 64 bytes ready for a uniform buffer write
func Mat4Bytes(m mgl32.Mat4) []byte {
	buf := make([]byte, Mat4Size)
	PutMat4(buf, m)
	return buf
}

// PutMat4 writes a column-major matrix into the first 64 bytes of dst.
//
// Parameters:
//   - dst: destination slice (must be at least 64 bytes)
//   - m: the matrix to serialize
func PutMat4(dst []byte, m mgl32.Mat4) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], math.Float32bits(v))
	}
}

// Perspective creates a perspective projection matrix for WebGPU clip space, where depth maps to [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// Ortho creates an orthographic projection matrix for WebGPU clip space, where depth maps to [0, 1].
//
// Parameters:
//   - left, right: horizontal bounds of the view volume
//   - bottom, top: vertical bounds of the view volume
//   - near, far: depth bounds of the view volume
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Ortho(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	lr := 1.0 / (left - right)
	bt := 1.0 / (bottom - top)
	nf := 1.0 / (near - far)

	out := mgl32.Ident4()
	out[0] = -2.0 * lr
	out[5] = -2.0 * bt
	out[10] = nf
	out[12] = (left + right) * lr
	out[13] = (top + bottom) * bt
	out[14] = near * nf
	return out
}

// degenerateEpsilon is the length below which a look direction or basis axis counts as zero.
const degenerateEpsilon = 1e-6

// LookAt builds a right-handed view matrix looking from eye toward center.
// When eye and center coincide the identity is returned. When the look direction is parallel
// to up, up is swapped for +Z (or +X if the direction also runs along Z) so the basis stays finite.
//
// Parameters:
//   - eye: the viewer position
//   - center: the point being looked at
//   - up: the world up direction
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	forward := center.Sub(eye)
	if forward.Len() < degenerateEpsilon {
		return mgl32.Ident4()
	}
	if forward.Cross(up).Len() < degenerateEpsilon*forward.Len()*max(up.Len(), 1) {
		up = mgl32.Vec3{0, 0, 1}
		if forward.Cross(up).Len() < degenerateEpsilon*forward.Len() {
			up = mgl32.Vec3{1, 0, 0}
		}
	}
	return mgl32.LookAtV(eye, center, up)
}

// RotateXYZ post-multiplies m by rotations about X, then Y, then Z.
// Equivalent to m * Rx(rx) * Ry(ry) * Rz(rz).
//
// Parameters:
//   - m: the matrix to rotate
//   - rx, ry, rz: rotation angles in radians
//
// Returns:
//   - mgl32.Mat4: the rotated matrix
func RotateXYZ(m mgl32.Mat4, rx, ry, rz float32) mgl32.Mat4 {
	return m.
		Mul4(mgl32.HomogRotate3DX(rx)).
		Mul4(mgl32.HomogRotate3DY(ry)).
		Mul4(mgl32.HomogRotate3DZ(rz))
}

// BuildModelMatrix constructs a model matrix that translates to pos and then rotates about
// the object's own origin around X, Y and Z in that order: T * Rx * Ry * Rz.
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func BuildModelMatrix(pos, rot mgl32.Vec3) mgl32.Mat4 {
	return RotateXYZ(mgl32.Translate3D(pos[0], pos[1], pos[2]), rot[0], rot[1], rot[2])
}

// AlignUp rounds value up to the next multiple of alignment. An alignment of zero returns value unchanged.
//
// Parameters:
//   - value: the size or offset to align
//   - alignment: the required alignment in bytes
//
// Returns:
//   - uint64: the aligned value
func AlignUp(value, alignment uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}
