package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// ShadowPipelineKey labels the depth-only pipeline rendering the scene from the light.
	ShadowPipelineKey = "shadow"

	// ColorPipelineKey labels the lit pipeline rendering the scene from the camera.
	ColorPipelineKey = "lit"
)

// Bind group indices shared by both pipelines.
const (
	SceneGroup = 0
	ModelGroup = 1
)

// library is the implementation of the Library interface.
type library struct {
	dev         device.Device
	colorFormat wgpu.TextureFormat

	sceneShadowLayout device.BindGroupLayout
	sceneColorLayout  device.BindGroupLayout
	modelLayout       device.BindGroupLayout

	shadow Pipeline
	color  Pipeline
}

// Library holds the render pipelines and bind group layouts shared by every object of every
// scene on one device. Both pipelines draw the same vertex layout and bind the same model
// layout at group 1; they differ in their group 0 layout.
type Library interface {
	// Shadow returns the depth-only pipeline writing the shadow map.
	Shadow() Pipeline

	// Color returns the lit pipeline writing the surface.
	Color() Pipeline

	// SceneShadowLayout returns the group 0 layout of the shadow pipeline: {scene uniform}.
	SceneShadowLayout() device.BindGroupLayout

	// SceneColorLayout returns the group 0 layout of the color pipeline:
	// {scene uniform, shadow depth texture, comparison sampler}.
	SceneColorLayout() device.BindGroupLayout

	// ModelLayout returns the group 1 layout shared by both pipelines: {model uniform}.
	ModelLayout() device.BindGroupLayout

	// ColorFormat returns the color target format the lit pipeline was built for.
	ColorFormat() wgpu.TextureFormat

	// Release frees the pipelines and layouts.
	Release()
}

var _ Library = &library{}

// NewLibrary loads the embedded shaders, builds the bind group layouts from their reflected
// declarations and compiles the shadow and lit pipelines.
//
// Parameters:
//   - dev: the device to build on
//   - colorFormat: the surface format the lit pipeline renders into
//
// Returns:
//   - Library: the built library
//   - error: an error if a shader fails to load or the device rejects a layout or pipeline
func NewLibrary(dev device.Device, colorFormat wgpu.TextureFormat) (Library, error) {
	shadowVS, err := shader.Load(shader.ShadowVertexKey, shader.ShaderTypeVertex)
	if err != nil {
		return nil, err
	}
	litVS, err := shader.Load(shader.LitVertexKey, shader.ShaderTypeVertex)
	if err != nil {
		return nil, err
	}
	litFS, err := shader.Load(shader.LitFragmentKey, shader.ShaderTypeFragment)
	if err != nil {
		return nil, err
	}

	l := &library{dev: dev, colorFormat: colorFormat}

	shadowGroups := shadowVS.BindGroupLayoutEntries()
	colorGroups := shader.MergeBindGroupLayouts(litVS, litFS)
	modelEntries := shader.MergeBindGroupLayouts(shadowVS, litVS)[ModelGroup]

	if l.sceneShadowLayout, err = createLayout(dev, "Scene Shadow Layout", shadowGroups[SceneGroup]); err != nil {
		l.Release()
		return nil, err
	}
	if l.sceneColorLayout, err = createLayout(dev, "Scene Color Layout", colorGroups[SceneGroup]); err != nil {
		l.Release()
		return nil, err
	}
	if l.modelLayout, err = createLayout(dev, "Model Layout", modelEntries); err != nil {
		l.Release()
		return nil, err
	}

	l.shadow = NewPipeline(ShadowPipelineKey,
		WithVertexShader(shadowVS),
		WithDepthFormat(light.ShadowMapFormat),
	)
	if err := l.shadow.Build(dev, []device.BindGroupLayout{l.sceneShadowLayout, l.modelLayout}); err != nil {
		l.Release()
		return nil, err
	}

	l.color = NewPipeline(ColorPipelineKey,
		WithVertexShader(litVS),
		WithFragmentShader(litFS),
		WithColorFormat(colorFormat),
		WithDepthFormat(wgpu.TextureFormatDepth24PlusStencil8),
	)
	if err := l.color.Build(dev, []device.BindGroupLayout{l.sceneColorLayout, l.modelLayout}); err != nil {
		l.Release()
		return nil, err
	}

	return l, nil
}

func createLayout(dev device.Device, label string, entries []wgpu.BindGroupLayoutEntry) (device.BindGroupLayout, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: shaders declare no bindings", label)
	}
	return dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	})
}

func (l *library) Shadow() Pipeline {
	return l.shadow
}

func (l *library) Color() Pipeline {
	return l.color
}

func (l *library) SceneShadowLayout() device.BindGroupLayout {
	return l.sceneShadowLayout
}

func (l *library) SceneColorLayout() device.BindGroupLayout {
	return l.sceneColorLayout
}

func (l *library) ModelLayout() device.BindGroupLayout {
	return l.modelLayout
}

func (l *library) ColorFormat() wgpu.TextureFormat {
	return l.colorFormat
}

func (l *library) Release() {
	if l.shadow != nil {
		l.shadow.Release()
		l.shadow = nil
	}
	if l.color != nil {
		l.color.Release()
		l.color = nil
	}
	for _, layout := range []*device.BindGroupLayout{&l.sceneShadowLayout, &l.sceneColorLayout, &l.modelLayout} {
		if *layout != nil {
			(*layout).Release()
			*layout = nil
		}
	}
}
