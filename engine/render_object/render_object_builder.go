package render_object

import "github.com/go-gl/mathgl/mgl32"

// RenderObjectBuilderOption is a functional option for configuring a RenderObject via NewRenderObject.
type RenderObjectBuilderOption func(*renderObject)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - x: the X coordinate
//   - y: the Y coordinate
//   - z: the Z coordinate
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the position option
func WithPosition(x, y, z float32) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial rotation angles in radians.
//
// Parameters:
//   - rx: rotation around X
//   - ry: rotation around Y
//   - rz: rotation around Z
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the rotation option
func WithRotation(rx, ry, rz float32) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.rotation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithPlacement sets position and rotation together from a Placement.
//
// Parameters:
//   - p: the placement to apply
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the placement option
func WithPlacement(p Placement) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.position = p.Position()
		o.rotation = p.Rotation()
	}
}

// WithRotationSpeed sets the angular velocity applied by Step.
//
// Parameters:
//   - rx, ry, rz: radians per second around each axis
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the rotation speed option
func WithRotationSpeed(rx, ry, rz float32) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.rotationSpeed = mgl32.Vec3{rx, ry, rz}
	}
}

// WithEnabled sets whether the object starts enabled. Objects are enabled by default.
//
// Parameters:
//   - enabled: true to draw the object
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the enabled option
func WithEnabled(enabled bool) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.enabled.Store(enabled)
	}
}
