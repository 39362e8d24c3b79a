package devicetest

import (
	"context"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDeviceFailures(t *testing.T) {
	ctx := context.Background()

	_, _, err := NewInstance().RequestDevice(ctx, nil)
	assert.ErrorIs(t, err, device.ErrNoSurface)

	_, _, err = NewInstance(WithNoAdapter()).RequestDevice(ctx, &wgpu.SurfaceDescriptor{})
	assert.ErrorIs(t, err, device.ErrNoAdapter)

	_, _, err = NewInstance(WithNoDevice()).RequestDevice(ctx, &wgpu.SurfaceDescriptor{})
	assert.ErrorIs(t, err, device.ErrNoDevice)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = NewInstance().RequestDevice(cancelled, &wgpu.SurfaceDescriptor{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteBufferTracksContents(t *testing.T) {
	dev := NewDevice(0)
	assert.Equal(t, uint64(256), dev.MinUniformBufferOffsetAlignment())

	buf, err := dev.CreateBuffer(device.BufferDescriptor{Label: "u", Size: 8, Usage: wgpu.BufferUsageUniform})
	require.NoError(t, err)

	require.NoError(t, dev.WriteBuffer(buf, 4, []byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4}, buf.(*Buffer).Bytes())
	assert.Error(t, dev.WriteBuffer(buf, 6, []byte{1, 2, 3, 4}))

	writes := dev.WritesTo("u")
	require.Len(t, writes, 1)
	assert.Equal(t, uint64(4), writes[0].Offset)
}

func TestPassRecordsDrawState(t *testing.T) {
	dev := NewDevice(256)
	layout, err := dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{Label: "l"})
	require.NoError(t, err)
	bg, err := dev.CreateBindGroup(device.BindGroupDescriptor{Label: "g", Layout: layout})
	require.NoError(t, err)
	pl, err := dev.CreateRenderPipeline(device.RenderPipelineDescriptor{
		Label:  "p",
		Vertex: device.ShaderStage{Code: "x", EntryPoint: "main"},
	})
	require.NoError(t, err)
	vb, err := dev.CreateBuffer(device.BufferDescriptor{Label: "v", Contents: []byte{1, 2, 3, 4}})
	require.NoError(t, err)

	enc, err := dev.CreateCommandEncoder("frame")
	require.NoError(t, err)
	pass := enc.BeginRenderPass(device.RenderPassDescriptor{Label: "color"})
	pass.SetPipeline(pl)
	pass.SetBindGroup(1, bg)
	pass.SetVertexBuffer(0, vb)
	pass.Draw(36, 1, 0, 0)
	require.NoError(t, pass.End())

	cb, err := enc.Finish()
	require.NoError(t, err)
	dev.Submit(cb)

	require.Len(t, dev.Submissions, 1)
	draws := dev.Submissions[0].Passes[0].Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, "p", draws[0].Pipeline)
	assert.Equal(t, "v", draws[0].VertexBuffer)
	assert.Equal(t, "g", draws[0].BindGroups[1])
	assert.Equal(t, uint32(36), draws[0].VertexCount)
}

func TestFinishWithOpenPassFails(t *testing.T) {
	dev := NewDevice(256)
	enc, err := dev.CreateCommandEncoder("frame")
	require.NoError(t, err)
	enc.BeginRenderPass(device.RenderPassDescriptor{Label: "shadow"})

	_, err = enc.Finish()
	assert.Error(t, err)
}

func TestSurfacePairsAcquireWithPresentOrDiscard(t *testing.T) {
	_, surface, err := NewInstance().RequestDevice(context.Background(), &wgpu.SurfaceDescriptor{})
	require.NoError(t, err)
	require.NoError(t, surface.Configure(640, 480))
	s := surface.(*Surface)

	first, err := s.AcquireView()
	require.NoError(t, err)
	_, err = s.AcquireView()
	assert.Error(t, err, "second acquire before present")

	s.Discard()
	assert.True(t, first.(*TextureView).Released)
	assert.Equal(t, 1, s.Discards)
	assert.Zero(t, s.Presents)

	second, err := s.AcquireView()
	require.NoError(t, err)
	assert.Equal(t, "Surface View 2", second.Label())
	s.Present()
	assert.Equal(t, 1, s.Presents)

	_, err = s.AcquireView()
	assert.NoError(t, err)
}
