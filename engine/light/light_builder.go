package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a functional option for configuring a Light via NewLight.
type LightBuilderOption func(*lightImpl)

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - x: the X coordinate
//   - y: the Y coordinate
//   - z: the Z coordinate
//
// Returns:
//   - LightBuilderOption: a function that applies the position option
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithTarget sets the point the light looks at. Defaults to the world origin.
//
// Parameters:
//   - x: the X coordinate
//   - y: the Y coordinate
//   - z: the Z coordinate
//
// Returns:
//   - LightBuilderOption: a function that applies the target option
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = mgl32.Vec3{x, y, z}
	}
}

// WithBounds sets the orthographic shadow volume.
//
// Parameters:
//   - bounds: the left/right/bottom/top/near/far planes in light view space
//
// Returns:
//   - LightBuilderOption: a function that applies the bounds option
func WithBounds(bounds OrthoBounds) LightBuilderOption {
	return func(l *lightImpl) {
		l.bounds = bounds
	}
}
