package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/device/devicetest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLayout(t *testing.T, dev *devicetest.Device, n int) device.BindGroupLayout {
	t.Helper()
	entries := make([]wgpu.BindGroupLayoutEntry, n)
	for i := range entries {
		entries[i].Binding = uint32(i)
	}
	l, err := dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{Label: "layout", Entries: entries})
	require.NoError(t, err)
	return l
}

func TestBuildOrdersEntriesByBinding(t *testing.T) {
	dev := devicetest.NewDevice(0)
	buf, err := dev.CreateBuffer(device.BufferDescriptor{Label: "uniform", Size: 64})
	require.NoError(t, err)
	tex, err := dev.CreateTexture(device.TextureDescriptor{Label: "depth", Width: 4, Height: 4})
	require.NoError(t, err)
	view, err := tex.CreateView()
	require.NoError(t, err)
	sampler, err := dev.CreateSampler(device.SamplerDescriptor{})
	require.NoError(t, err)

	p := NewBindGroupProvider("scene",
		WithLayout(newLayout(t, dev, 3)),
		WithSampler(2, sampler),
		WithTextureView(1, view),
		WithBuffer(0, buf),
	)
	require.NoError(t, p.Build(dev))

	bg := p.BindGroup().(*devicetest.BindGroup)
	assert.Equal(t, "scene", bg.Label())
	require.Len(t, bg.Entries, 3)
	for i, e := range bg.Entries {
		assert.Equal(t, uint32(i), e.Binding)
	}
	assert.Same(t, buf, bg.Entries[0].Buffer)
	assert.Same(t, view, bg.Entries[1].TextureView)
	assert.Same(t, sampler, bg.Entries[2].Sampler)
}

func TestBuildWithoutLayout(t *testing.T) {
	err := NewBindGroupProvider("orphan").Build(devicetest.NewDevice(0))
	assert.ErrorIs(t, err, ErrNoLayout)
}

func TestRebuildReleasesPreviousBindGroup(t *testing.T) {
	dev := devicetest.NewDevice(0)
	buf, err := dev.CreateBuffer(device.BufferDescriptor{Label: "uniform", Size: 64})
	require.NoError(t, err)

	p := NewBindGroupProvider("model", WithLayout(newLayout(t, dev, 1)), WithBuffer(0, buf))
	require.NoError(t, p.Build(dev))
	first := p.BindGroup().(*devicetest.BindGroup)
	require.NoError(t, p.Build(dev))

	assert.True(t, first.Released)
	assert.NotSame(t, first, p.BindGroup())
}

func TestReleaseKeepsSharedBuffers(t *testing.T) {
	dev := devicetest.NewDevice(0)
	owned, err := dev.CreateBuffer(device.BufferDescriptor{Label: "owned", Size: 16})
	require.NoError(t, err)
	shared, err := dev.CreateBuffer(device.BufferDescriptor{Label: "shared", Size: 16})
	require.NoError(t, err)
	vertices, err := dev.CreateBuffer(device.BufferDescriptor{Label: "vertices", Size: 24})
	require.NoError(t, err)

	p := NewBindGroupProvider("mixed",
		WithLayout(newLayout(t, dev, 2)),
		WithBuffer(0, owned),
		WithSharedBuffer(1, shared),
		WithVertexBuffer(vertices, 1),
	)
	require.NoError(t, p.Build(dev))
	bg := p.BindGroup().(*devicetest.BindGroup)
	assert.Equal(t, uint32(1), p.VertexCount())

	p.Release()
	assert.True(t, owned.(*devicetest.Buffer).Released)
	assert.False(t, shared.(*devicetest.Buffer).Released)
	assert.True(t, vertices.(*devicetest.Buffer).Released)
	assert.True(t, bg.Released)
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.VertexBuffer())
	assert.False(t, p.Layout().(*devicetest.BindGroupLayout).Released)
}

func TestSetTextureViewReleasesReplacedView(t *testing.T) {
	dev := devicetest.NewDevice(0)
	tex, err := dev.CreateTexture(device.TextureDescriptor{Label: "depth", Width: 4, Height: 4})
	require.NoError(t, err)
	a, err := tex.CreateView()
	require.NoError(t, err)
	b, err := tex.CreateView()
	require.NoError(t, err)

	p := NewBindGroupProvider("views", WithTextureView(0, a))
	p.SetTextureView(0, b)
	assert.True(t, a.(*devicetest.TextureView).Released)
	assert.False(t, b.(*devicetest.TextureView).Released)
	assert.Same(t, b, p.TextureView(0))
}

func TestApplyWritesHonorsBoundOffset(t *testing.T) {
	dev := devicetest.NewDevice(0)
	buf, err := dev.CreateBuffer(device.BufferDescriptor{Label: "objects", Size: 512})
	require.NoError(t, err)

	p := NewBindGroupProvider("object", WithBufferRange(0, buf, 256, 64))
	require.NoError(t, ApplyWrites(dev, BufferWrite{Provider: p, Binding: 0, Offset: 4, Data: []byte{1, 2, 3, 4}}))

	writes := dev.WritesTo("objects")
	require.Len(t, writes, 1)
	assert.Equal(t, uint64(260), writes[0].Offset)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf.(*devicetest.Buffer).Bytes()[260:264])

	err = ApplyWrites(dev, BufferWrite{Provider: p, Binding: 3, Data: []byte{1}})
	assert.Error(t, err)
}
