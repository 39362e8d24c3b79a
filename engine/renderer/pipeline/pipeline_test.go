package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("test")
	assert.Equal(t, "test", p.PipelineKey())
	assert.True(t, p.DepthOnly())
	assert.Equal(t, wgpu.TextureFormatUndefined, p.ColorFormat())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.Nil(t, p.Pipeline())
}

func TestDescriptorRequiresVertexShader(t *testing.T) {
	_, err := NewPipeline("empty").Descriptor(nil)
	assert.ErrorIs(t, err, ErrMissingVertexShader)

	err = NewPipeline("empty").Build(devicetest.NewDevice(0), nil)
	assert.ErrorIs(t, err, ErrMissingVertexShader)
}

func TestDepthOnlyDescriptorHasNoFragment(t *testing.T) {
	vs, err := shader.Load(shader.ShadowVertexKey, shader.ShaderTypeVertex)
	require.NoError(t, err)

	desc, err := NewPipeline("shadow", WithVertexShader(vs), WithDepthFormat(wgpu.TextureFormatDepth32Float)).Descriptor(nil)
	require.NoError(t, err)
	assert.Nil(t, desc.Fragment)
	assert.Equal(t, "vs_shadow", desc.Vertex.EntryPoint)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
	require.Len(t, desc.VertexBuffers, 1)
	assert.Equal(t, uint64(24), desc.VertexBuffers[0].ArrayStride)
}

func TestLibraryBuildsSharedLayoutsAndPipelines(t *testing.T) {
	dev := devicetest.NewDevice(0)
	lib, err := NewLibrary(dev, wgpu.TextureFormatBGRA8Unorm)
	require.NoError(t, err)

	require.Len(t, dev.Layouts, 3)
	require.Len(t, dev.Pipelines, 2)

	shadowLayout := lib.SceneShadowLayout().(*devicetest.BindGroupLayout)
	assert.Len(t, shadowLayout.Entries, 1)

	colorLayout := lib.SceneColorLayout().(*devicetest.BindGroupLayout)
	require.Len(t, colorLayout.Entries, 3)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, colorLayout.Entries[0].Visibility)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, colorLayout.Entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, colorLayout.Entries[2].Sampler.Type)

	modelLayout := lib.ModelLayout().(*devicetest.BindGroupLayout)
	require.Len(t, modelLayout.Entries, 1)
	assert.Equal(t, uint64(64), modelLayout.Entries[0].Buffer.MinBindingSize)

	shadow := dev.Pipelines[0].Desc
	assert.Nil(t, shadow.Fragment)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, shadow.DepthStencil.Format)
	require.Len(t, shadow.Layouts, 2)
	assert.Same(t, lib.SceneShadowLayout(), shadow.Layouts[0])
	assert.Same(t, lib.ModelLayout(), shadow.Layouts[1])

	color := dev.Pipelines[1].Desc
	require.NotNil(t, color.Fragment)
	assert.Equal(t, "fs_lit", color.Fragment.EntryPoint)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, color.ColorFormat)
	assert.Equal(t, wgpu.TextureFormatDepth24PlusStencil8, color.DepthStencil.Format)
	assert.Equal(t, wgpu.CullModeBack, color.Primitive.CullMode)
	assert.Same(t, lib.SceneColorLayout(), color.Layouts[0])
	assert.Same(t, lib.ModelLayout(), color.Layouts[1])

	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, lib.ColorFormat())

	lib.Release()
	for _, p := range dev.Pipelines {
		assert.True(t, p.Released)
	}
	for _, l := range dev.Layouts {
		assert.True(t, l.Released)
	}
}
