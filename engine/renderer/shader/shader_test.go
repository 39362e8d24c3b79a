package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorExpandsIncludesAndGroups(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include scene\n//@oxy:include scene\n//@oxy:group 0 0 storage_uniform scene scene\n")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct SceneUniform"))
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> scene: SceneUniform;")

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, AnnotationTypeBindingGroup, decls[0].Type)
	assert.Equal(t, 0, *decls[0].Group)
}

func TestPreProcessorRejectsUnknownAnnotations(t *testing.T) {
	cases := []string{
		"//@oxy:include camera",
		"//@oxy:group 0 0 storage_read scene scene",
		"//@oxy:group x 0 storage_uniform scene scene",
		"//@oxy:provider 4 0 shadow",
		"//@oxy:",
	}
	for _, src := range cases {
		_, err := NewPreProcessor().Process(src)
		assert.Error(t, err, src)
	}
}

func TestShadowShaderReflection(t *testing.T) {
	s, err := Load(ShadowVertexKey, ShaderTypeVertex)
	require.NoError(t, err)

	assert.Equal(t, "vs_shadow", s.EntryPoint())

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(24), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layouts[0].Attributes[1].ShaderLocation)

	groups := s.BindGroupLayoutEntries()
	require.Len(t, groups[0], 1)
	require.Len(t, groups[1], 1)
	assert.Equal(t, uint64(144), groups[0][0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(64), groups[1][0].Buffer.MinBindingSize)
	assert.Equal(t, "model", s.BindGroupVarName(1, 0))
}

func TestLitShadersMergeVisibility(t *testing.T) {
	vs, err := Load(LitVertexKey, ShaderTypeVertex)
	require.NoError(t, err)
	fs, err := Load(LitFragmentKey, ShaderTypeFragment)
	require.NoError(t, err)

	assert.Equal(t, "vs_lit", vs.EntryPoint())
	assert.Equal(t, "fs_lit", fs.EntryPoint())
	assert.Nil(t, fs.VertexLayouts())

	merged := MergeBindGroupLayouts(vs, fs)
	scene := merged[0]
	require.Len(t, scene, 3)

	assert.Equal(t, wgpu.BufferBindingTypeUniform, scene[0].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, scene[0].Visibility)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, scene[1].Texture.SampleType)
	assert.Equal(t, wgpu.ShaderStageFragment, scene[1].Visibility)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, scene[2].Sampler.Type)

	require.Len(t, merged[1], 1)
	assert.Equal(t, wgpu.ShaderStageVertex, merged[1][0].Visibility)
}

func TestLitFragmentUsesInjectedShadowConstants(t *testing.T) {
	fs, err := Load(LitFragmentKey, ShaderTypeFragment)
	require.NoError(t, err)

	src := fs.Source()
	assert.Contains(t, src, "const depthBias = 0.007;")
	assert.Contains(t, src, "const ambientFactor = 0.2;")
	assert.Contains(t, src, "const pcfRadius = 1;")
	assert.Contains(t, src, "const pcfTaps = 9.0;")
	assert.Contains(t, src, "visibility / pcfTaps")
	assert.NotContains(t, src, "@oxy:")
}

func TestShadowIncludeCannotBeBound(t *testing.T) {
	_, err := NewPreProcessor().Process("//@oxy:group 0 0 storage_uniform filter shadow")
	assert.Error(t, err)

	out, err := NewPreProcessor().Process("//@oxy:include shadow\n//@oxy:include shadow\n")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "const depthBias"))
}

func TestNewShaderRequiresEntryPoint(t *testing.T) {
	_, err := NewShader("empty", ShaderTypeFragment, "struct A { x: f32, }")
	assert.Error(t, err)

	_, err = Load("missing", ShaderTypeVertex)
	assert.Error(t, err)
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* nested */ c */ d // tail\ne"
	assert.Equal(t, "a  d \ne\n", stripComments(src))
}
