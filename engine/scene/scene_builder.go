package scene

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene name, also used to label its GPU resources.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithLight sets the scene's light. Defaults to light.NewLight().
//
// Parameters:
//   - l: the light to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lt = l
	}
}

// WithAnimationWorkers sets the number of worker goroutines used by Animate.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of animation workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAnimationWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.animationWorkers = n
	}
}

// WithShadowMapResolution sets the width and height in texels of the shadow
// depth texture. The texture is allocated once when the scene is created.
// Default is light.ShadowMapResolution (1024).
//
// Parameters:
//   - resolution: shadow map width and height in texels (e.g. 1024, 2048)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowMapResolution(resolution uint32) SceneBuilderOption {
	return func(s *scene) {
		if resolution > 0 {
			s.shadowMapSize = resolution
		}
	}
}
