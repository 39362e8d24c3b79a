package render_object

import "github.com/go-gl/mathgl/mgl32"

// Placement is an initial transform: a position and rotation angles in radians around X, Y
// and Z. The zero value places an object at the origin with no rotation.
type Placement struct {
	X, Y, Z          float32
	RotX, RotY, RotZ float32
}

// Position returns the placement's translation.
func (p Placement) Position() mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// Rotation returns the placement's rotation angles.
func (p Placement) Rotation() mgl32.Vec3 {
	return mgl32.Vec3{p.RotX, p.RotY, p.RotZ}
}
