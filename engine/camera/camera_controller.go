package camera

// CameraController maps pointer input onto a Camera. A drag of (dx, dy) pixels rotates the
// camera by (dy / RotateDivisor) about X and (dx / RotateDivisor) about Y; a wheel delta
// moves it along Z by -deltaY / ZoomDivisor.
type CameraController interface {
	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera input is applied to
	Camera() Camera

	// Drag applies a pointer drag.
	//
	// Parameters:
	//   - dx: horizontal movement in pixels
	//   - dy: vertical movement in pixels
	Drag(dx, dy float32)

	// Wheel applies a scroll wheel movement.
	//
	// Parameters:
	//   - deltaY: vertical scroll amount, positive away from the user
	Wheel(deltaY float32)

	// RotateDivisor returns the pixels-per-radian divisor applied to drags.
	//
	// Returns:
	//   - float32: the drag divisor
	RotateDivisor() float32

	// ZoomDivisor returns the divisor applied to wheel deltas.
	//
	// Returns:
	//   - float32: the wheel divisor
	ZoomDivisor() float32
}
