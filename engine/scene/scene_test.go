package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/render_object"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, options ...SceneBuilderOption) (*devicetest.Device, pipeline.Library, Scene) {
	t.Helper()
	dev := devicetest.NewDevice(0)
	lib, err := pipeline.NewLibrary(dev, wgpu.TextureFormatBGRA8Unorm)
	require.NoError(t, err)
	s, err := NewScene(dev, lib, options...)
	require.NoError(t, err)
	return dev, lib, s
}

func floatAt(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset : offset+4]))
}

func TestNewSceneCreatesSharedResources(t *testing.T) {
	_, lib, s := newTestScene(t)

	ub := s.SceneUniformBuffer().(*devicetest.Buffer)
	assert.Equal(t, uint64(light.SceneUniformSize), ub.Size())
	assert.NotZero(t, ub.Usage&wgpu.BufferUsageUniform)
	assert.NotZero(t, ub.Usage&wgpu.BufferUsageCopyDst)

	view := s.ShadowPassTarget().(*devicetest.TextureView)
	require.NotNil(t, view.Texture)
	assert.Equal(t, uint32(1024), s.ShadowMapSize())
	assert.Equal(t, uint32(1024), view.Texture.Width())
	assert.Equal(t, wgpu.TextureFormatDepth32Float, view.Texture.Format())
	assert.NotZero(t, view.Texture.Usage&wgpu.TextureUsageRenderAttachment)
	assert.NotZero(t, view.Texture.Usage&wgpu.TextureUsageTextureBinding)

	shadowBG := s.ShadowBindGroup().(*devicetest.BindGroup)
	assert.Same(t, lib.SceneShadowLayout(), shadowBG.Layout)
	require.Len(t, shadowBG.Entries, 1)
	assert.Same(t, ub, shadowBG.Entries[0].Buffer)

	colorBG := s.ColorPassBindGroup().(*devicetest.BindGroup)
	assert.Same(t, lib.SceneColorLayout(), colorBG.Layout)
	require.Len(t, colorBG.Entries, 3)
	assert.Same(t, ub, colorBG.Entries[0].Buffer)
	assert.Same(t, view, colorBG.Entries[1].TextureView)

	sampler := colorBG.Entries[2].Sampler.(*devicetest.Sampler)
	assert.Equal(t, wgpu.CompareFunctionLess, sampler.Desc.Compare)
	assert.Equal(t, wgpu.AddressModeClampToEdge, sampler.Desc.AddressMode)
}

func TestWithShadowMapResolution(t *testing.T) {
	dev, _, s := newTestScene(t, WithName("small"), WithShadowMapResolution(512))
	assert.Equal(t, "small", s.Name())
	assert.Equal(t, uint32(512), s.ShadowMapSize())

	textures := dev.TexturesLabelled("small Shadow Map")
	require.Len(t, textures, 1)
	assert.Equal(t, uint32(512), textures[0].Height())
}

func TestWriteUniformsLayout(t *testing.T) {
	dev, _, s := newTestScene(t, WithLight(light.NewLight(light.WithPosition(1, 2, 3))))
	cameraVP := mgl32.Translate3D(7, 8, 9)

	require.NoError(t, s.WriteUniforms(cameraVP))

	writes := dev.WritesTo("scene Scene Uniform")
	require.Len(t, writes, 3)
	assert.Equal(t, uint64(0), writes[0].Offset)
	assert.Len(t, writes[0].Data, 64)
	assert.Equal(t, uint64(64), writes[1].Offset)
	assert.Len(t, writes[1].Data, 64)
	assert.Equal(t, uint64(128), writes[2].Offset)
	assert.Len(t, writes[2].Data, 12)

	data := s.SceneUniformBuffer().(*devicetest.Buffer).Bytes()
	lvp := s.LightViewProjection()
	assert.Equal(t, lvp[0], floatAt(data, 0))
	assert.Equal(t, lvp[15], floatAt(data, 60))
	assert.Equal(t, float32(7), floatAt(data, 64+48))
	assert.Equal(t, float32(9), floatAt(data, 64+56))
	assert.Equal(t, float32(1), floatAt(data, 128))
	assert.Equal(t, float32(3), floatAt(data, 136))
}

func TestLightViewProjectionFollowsLight(t *testing.T) {
	_, _, s := newTestScene(t)

	first := s.LightViewProjection()
	assert.Equal(t, first, s.LightViewProjection())
	assert.Equal(t, light.DefaultPosition, s.Light().Position())

	s.SetLightPosition(mgl32.Vec3{-50, 100, 100})
	moved := s.LightViewProjection()
	assert.NotEqual(t, first, moved)

	s.SetLightBounds(light.OrthoBounds{Left: -10, Right: 10, Bottom: -10, Top: 10, Near: -20, Far: 20})
	assert.NotEqual(t, moved, s.LightViewProjection())
}

func TestAddAttachesInOrder(t *testing.T) {
	dev, lib, s := newTestScene(t)

	cube, err := render_object.NewRenderObject(dev, lib, render_object.ShapeCube)
	require.NoError(t, err)
	pyramid, err := render_object.NewRenderObject(dev, lib, render_object.ShapePyramid)
	require.NoError(t, err)
	assert.False(t, cube.Attached())

	s.Add(cube)
	s.Add(pyramid)
	s.Add(nil)

	objects := s.Objects()
	require.Len(t, objects, 2)
	assert.Same(t, cube, objects[0])
	assert.Same(t, pyramid, objects[1])
	assert.True(t, cube.Attached())
	assert.True(t, pyramid.Attached())

	objects[0] = nil
	assert.NotNil(t, s.Objects()[0])
}

func TestAnimateStepsEnabledObjects(t *testing.T) {
	dev, lib, s := newTestScene(t, WithAnimationWorkers(2))

	var spinning []render_object.RenderObject
	for i := 0; i < 8; i++ {
		obj, err := render_object.NewRenderObject(dev, lib, render_object.ShapeCube,
			render_object.WithRotationSpeed(0, 1, 0))
		require.NoError(t, err)
		s.Add(obj)
		spinning = append(spinning, obj)
	}
	paused, err := render_object.NewRenderObject(dev, lib, render_object.ShapePyramid,
		render_object.WithRotationSpeed(0, 1, 0), render_object.WithEnabled(false))
	require.NoError(t, err)
	s.Add(paused)

	s.Animate(0.5)
	s.Animate(0.25)

	for _, obj := range spinning {
		assert.InDelta(t, 0.75, obj.Rotation().Y(), 1e-6)
	}
	assert.Zero(t, paused.Rotation().Y())
}

func TestRelease(t *testing.T) {
	dev, lib, s := newTestScene(t)
	obj, err := render_object.NewRenderObject(dev, lib, render_object.ShapeCube)
	require.NoError(t, err)
	s.Add(obj)

	ub := s.SceneUniformBuffer().(*devicetest.Buffer)
	view := s.ShadowPassTarget().(*devicetest.TextureView)
	colorBG := s.ColorPassBindGroup().(*devicetest.BindGroup)
	vb := obj.VertexBuffer().(*devicetest.Buffer)

	s.Release()

	assert.True(t, ub.Released)
	assert.True(t, view.Released)
	assert.True(t, view.Texture.Released)
	assert.True(t, colorBG.Released)
	assert.True(t, vb.Released)
	assert.Empty(t, s.Objects())
	assert.False(t, lib.SceneColorLayout().(*devicetest.BindGroupLayout).Released)
}

func TestNewSceneRequiresDevice(t *testing.T) {
	_, err := NewScene(nil, nil)
	assert.Error(t, err)
}
