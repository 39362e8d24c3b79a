package scene

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/render_object"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Bindings of the scene bind groups at group 0.
const (
	sceneUniformBinding  = 0
	shadowMapBinding     = 1
	shadowSamplerBinding = 2
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu   *sync.RWMutex
	name string

	dev device.Device
	lib pipeline.Library

	lt      light.Light
	objects []render_object.RenderObject

	// shadowMapSize is the width and height of the square shadow map.
	shadowMapSize uint32
	shadowTexture device.Texture

	// shadowProvider owns the scene uniform buffer and the shadow-pass bind group.
	shadowProvider bind_group_provider.BindGroupProvider
	// colorProvider shares the uniform buffer and owns the shadow map view, the comparison
	// sampler and the color-pass bind group.
	colorProvider bind_group_provider.BindGroupProvider

	// animationPool runs the per-object animation step. Workers persist across frames and
	// idle-exit between bursts.
	animationPool    worker.DynamicWorkerPool
	animationWorkers int
}

// Scene is the flat, ordered list of objects drawn each frame together with the single
// shadow-casting light and the GPU resources the two passes share: the scene uniform buffer,
// the shadow map and the two group 0 bind groups.
//
// The scene uniform buffer is laid out as described by light.GPUSceneUniform.
type Scene interface {
	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Add appends an object to the draw list and attaches it to the scene's shadow-pass
	// bind group. Insertion order is draw order.
	//
	// Parameters:
	//   - obj: the object to add
	Add(obj render_object.RenderObject)

	// Objects returns a copy of the draw list in insertion order.
	//
	// Returns:
	//   - []render_object.RenderObject: the objects
	Objects() []render_object.RenderObject

	// Light returns the scene's light.
	//
	// Returns:
	//   - light.Light: the shadow-casting light
	Light() light.Light

	// LightViewProjection recomputes ortho(bounds) * lookAt(lightPos, origin, +Y) on every
	// call. Two calls with unchanged light state return identical matrices.
	//
	// Returns:
	//   - mgl32.Mat4: the light view-projection matrix
	LightViewProjection() mgl32.Mat4

	// SetLightPosition moves the light.
	//
	// Parameters:
	//   - position: the new world-space light position
	SetLightPosition(position mgl32.Vec3)

	// SetLightBounds replaces the light's orthographic shadow volume.
	//
	// Parameters:
	//   - bounds: the new bounds
	SetLightBounds(bounds light.OrthoBounds)

	// SceneUniformBuffer returns the shared uniform buffer.
	//
	// Returns:
	//   - device.Buffer: the scene uniform buffer
	SceneUniformBuffer() device.Buffer

	// ShadowPassTarget returns the depth view the shadow pass renders into.
	//
	// Returns:
	//   - device.TextureView: the shadow map view
	ShadowPassTarget() device.TextureView

	// ShadowMapSize returns the width and height of the square shadow map in texels.
	//
	// Returns:
	//   - uint32: the shadow map size
	ShadowMapSize() uint32

	// ShadowBindGroup returns the group 0 bind group of the shadow pipeline: {scene uniform}.
	//
	// Returns:
	//   - device.BindGroup: the shadow-pass scene bind group
	ShadowBindGroup() device.BindGroup

	// ColorPassBindGroup returns the group 0 bind group of the lit pipeline:
	// {scene uniform, shadow map, comparison sampler}.
	//
	// Returns:
	//   - device.BindGroup: the color-pass scene bind group
	ColorPassBindGroup() device.BindGroup

	// WriteUniforms recomputes the light view-projection and queues the scene uniform
	// writes: light view-projection at 0, camera view-projection at 64, light position at 128.
	//
	// Parameters:
	//   - cameraViewProj: the camera view-projection matrix for this frame
	//
	// Returns:
	//   - error: an error if a write fails
	WriteUniforms(cameraViewProj mgl32.Mat4) error

	// Animate advances every object by dt in parallel and returns once all objects are done.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Animate(dt float32)

	// Release frees every object and the scene's GPU resources.
	Release()
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates the scene's GPU resources on the injected device: the uniform buffer,
// the shadow map texture and view, the comparison sampler and both scene bind groups.
//
// Parameters:
//   - dev: the device to create resources on
//   - lib: the pipeline library providing the scene layouts
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error if a resource cannot be created
func NewScene(dev device.Device, lib pipeline.Library, options ...SceneBuilderOption) (Scene, error) {
	if dev == nil || lib == nil {
		return nil, errors.New("scene: NewScene requires a device and a pipeline library")
	}

	s := &scene{
		mu:               &sync.RWMutex{},
		name:             "scene",
		dev:              dev,
		lib:              lib,
		shadowMapSize:    light.ShadowMapResolution,
		animationWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}
	if s.lt == nil {
		s.lt = light.NewLight()
	}

	// Queue size of 256 accommodates typical object counts with headroom.
	s.animationPool = worker.NewDynamicWorkerPool(s.animationWorkers, 256, 1*time.Second)

	if err := s.initResources(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// initResources creates the uniform buffer, the shadow map and both bind groups.
func (s *scene) initResources() error {
	uniformBuffer, err := s.dev.CreateBuffer(device.BufferDescriptor{
		Label: s.name + " Scene Uniform",
		Size:  light.SceneUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	s.shadowProvider = bind_group_provider.NewBindGroupProvider(s.name+" Scene Shadow Bind Group",
		bind_group_provider.WithLayout(s.lib.SceneShadowLayout()),
		bind_group_provider.WithBuffer(sceneUniformBinding, uniformBuffer),
	)
	if err := s.shadowProvider.Build(s.dev); err != nil {
		return err
	}

	s.shadowTexture, err = s.dev.CreateTexture(device.TextureDescriptor{
		Label:  s.name + " Shadow Map",
		Width:  s.shadowMapSize,
		Height: s.shadowMapSize,
		Format: light.ShadowMapFormat,
		Usage:  wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return err
	}
	shadowView, err := s.shadowTexture.CreateView()
	if err != nil {
		return err
	}
	sampler, err := s.dev.CreateSampler(device.SamplerDescriptor{
		Label:       s.name + " Shadow Sampler",
		AddressMode: wgpu.AddressModeClampToEdge,
		Filter:      wgpu.FilterModeLinear,
		Compare:     wgpu.CompareFunctionLess,
	})
	if err != nil {
		shadowView.Release()
		return err
	}

	s.colorProvider = bind_group_provider.NewBindGroupProvider(s.name+" Scene Color Bind Group",
		bind_group_provider.WithLayout(s.lib.SceneColorLayout()),
		bind_group_provider.WithSharedBuffer(sceneUniformBinding, uniformBuffer),
		bind_group_provider.WithTextureView(shadowMapBinding, shadowView),
		bind_group_provider.WithSampler(shadowSamplerBinding, sampler),
	)
	return s.colorProvider.Build(s.dev)
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Add(obj render_object.RenderObject) {
	if obj == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj.Attach(s.shadowProvider.BindGroup())
	s.objects = append(s.objects, obj)
}

func (s *scene) Objects() []render_object.RenderObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]render_object.RenderObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) Light() light.Light {
	return s.lt
}

func (s *scene) LightViewProjection() mgl32.Mat4 {
	return s.lt.ViewProjection()
}

func (s *scene) SetLightPosition(position mgl32.Vec3) {
	s.lt.SetPosition(position)
}

func (s *scene) SetLightBounds(bounds light.OrthoBounds) {
	s.lt.SetBounds(bounds)
}

func (s *scene) SceneUniformBuffer() device.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shadowProvider.Buffer(sceneUniformBinding)
}

func (s *scene) ShadowPassTarget() device.TextureView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colorProvider.TextureView(shadowMapBinding)
}

func (s *scene) ShadowMapSize() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shadowMapSize
}

func (s *scene) ShadowBindGroup() device.BindGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shadowProvider.BindGroup()
}

func (s *scene) ColorPassBindGroup() device.BindGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colorProvider.BindGroup()
}

func (s *scene) WriteUniforms(cameraViewProj mgl32.Mat4) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uniform := light.GPUSceneUniform{
		LightViewProj:  s.lt.ViewProjection(),
		CameraViewProj: cameraViewProj,
		LightPos:       s.lt.Position(),
	}
	data := uniform.Marshal()
	return bind_group_provider.ApplyWrites(s.dev,
		bind_group_provider.BufferWrite{
			Provider: s.shadowProvider,
			Binding:  sceneUniformBinding,
			Offset:   light.SceneLightViewProjOffset,
			Data:     data[light.SceneLightViewProjOffset:light.SceneCameraViewProjOffset],
		},
		bind_group_provider.BufferWrite{
			Provider: s.shadowProvider,
			Binding:  sceneUniformBinding,
			Offset:   light.SceneCameraViewProjOffset,
			Data:     data[light.SceneCameraViewProjOffset:light.SceneLightPosOffset],
		},
		bind_group_provider.BufferWrite{
			Provider: s.shadowProvider,
			Binding:  sceneUniformBinding,
			Offset:   light.SceneLightPosOffset,
			Data:     data[light.SceneLightPosOffset : light.SceneLightPosOffset+12],
		},
	)
}

func (s *scene) Animate(dt float32) {
	objects := s.Objects()

	// A WaitGroup provides the per-frame barrier since pool.Wait() blocks until
	// workers idle-exit, which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for i, obj := range objects {
		if !obj.Enabled() {
			continue
		}
		wg.Add(1)
		o := obj
		s.animationPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				o.Step(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range s.objects {
		obj.Release()
	}
	s.objects = nil

	if s.colorProvider != nil {
		s.colorProvider.Release()
		s.colorProvider = nil
	}
	if s.shadowProvider != nil {
		s.shadowProvider.Release()
		s.shadowProvider = nil
	}
	if s.shadowTexture != nil {
		s.shadowTexture.Release()
		s.shadowTexture = nil
	}
}
