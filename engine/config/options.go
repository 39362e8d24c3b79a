package config

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PresentModeValue maps present_mode onto the device present mode.
func (r RendererConfig) PresentModeValue() device.PresentMode {
	if r.PresentMode == PresentModeUncapped {
		return device.PresentModeUncapped
	}
	return device.PresentModeVSync
}

// RendererOptions converts the [renderer] section.
//
// Returns:
//   - []renderer.RendererBuilderOption: the renderer options
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(c.Renderer.PresentModeValue()),
		renderer.WithForceSoftwareRenderer(c.Renderer.ForceSoftware),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
	}
}

// CameraOptions converts the [camera] section. The aspect ratio comes from the window size.
//
// Returns:
//   - []camera.CameraBuilderOption: the camera options
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	p, r := c.Camera.Position, c.Camera.Rotation
	return []camera.CameraBuilderOption{
		camera.WithPosition(p[0], p[1], p[2]),
		camera.WithRotation(r[0], r[1], r[2]),
		camera.WithFovy(c.Camera.Fovy),
		camera.WithNearFar(c.Camera.Near, c.Camera.Far),
		camera.WithAspect(float32(c.Window.Width) / float32(c.Window.Height)),
	}
}

// CameraControllerOptions converts the [input] section.
//
// Returns:
//   - []camera.CameraControllerOption: the controller options
func (c Config) CameraControllerOptions() []camera.CameraControllerOption {
	return []camera.CameraControllerOption{
		camera.WithRotateDivisor(c.Input.RotateDivisor),
		camera.WithZoomDivisor(c.Input.ZoomDivisor),
	}
}

// LightOptions converts the [light] section.
//
// Returns:
//   - []light.LightBuilderOption: the light options
func (c Config) LightOptions() []light.LightBuilderOption {
	p, b := c.Light.Position, c.Light.Bounds
	return []light.LightBuilderOption{
		light.WithPosition(p[0], p[1], p[2]),
		light.WithBounds(light.OrthoBounds{Left: b[0], Right: b[1], Bottom: b[2], Top: b[3], Near: b[4], Far: b[5]}),
	}
}

// SceneOptions converts the light, shadow map size and worker count into scene options.
//
// Returns:
//   - []scene.SceneBuilderOption: the scene options
func (c Config) SceneOptions() []scene.SceneBuilderOption {
	opts := []scene.SceneBuilderOption{
		scene.WithLight(light.NewLight(c.LightOptions()...)),
		scene.WithShadowMapResolution(c.Renderer.ShadowMapSize),
	}
	if c.Engine.Workers > 0 {
		opts = append(opts, scene.WithAnimationWorkers(c.Engine.Workers))
	}
	return opts
}

// LightPosition returns the configured light position as a vector.
func (c Config) LightPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Light.Position)
}
