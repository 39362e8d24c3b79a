package render_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T, alignment uint64) (*devicetest.Device, pipeline.Library, device.BindGroup) {
	t.Helper()
	dev := devicetest.NewDevice(alignment)
	lib, err := pipeline.NewLibrary(dev, wgpu.TextureFormatBGRA8Unorm)
	require.NoError(t, err)

	sceneBuf, err := dev.CreateBuffer(device.BufferDescriptor{Label: "scene", Size: 144})
	require.NoError(t, err)
	sceneShadow, err := dev.CreateBindGroup(device.BindGroupDescriptor{
		Label:   "scene shadow",
		Layout:  lib.SceneShadowLayout(),
		Entries: []device.BindGroupEntry{{Binding: 0, Buffer: sceneBuf}},
	})
	require.NoError(t, err)
	return dev, lib, sceneShadow
}

func openPass(t *testing.T, dev *devicetest.Device, label string) *devicetest.Pass {
	t.Helper()
	enc, err := dev.CreateCommandEncoder(label)
	require.NoError(t, err)
	return enc.BeginRenderPass(device.RenderPassDescriptor{Label: label}).(*devicetest.Pass)
}

func TestShapeKind(t *testing.T) {
	assert.Equal(t, "cube", ShapeCube.String())
	assert.Equal(t, "pyramid", ShapePyramid.String())
	assert.Equal(t, "ShapeKind(7)", ShapeKind(7).String())

	k, err := ParseShapeKind(" Pyramid ")
	require.NoError(t, err)
	assert.Equal(t, ShapePyramid, k)

	_, err = ParseShapeKind("sphere")
	assert.Error(t, err)

	_, err = ShapeKind(7).Model()
	assert.Error(t, err)
}

func TestUniformBufferIsPaddedToAlignment(t *testing.T) {
	for _, alignment := range []uint64{256, 64} {
		dev, lib, _ := newFixture(t, alignment)
		obj, err := NewRenderObject(dev, lib, ShapeCube)
		require.NoError(t, err)

		assert.Zero(t, obj.UniformOffset()%alignment)
		assert.Equal(t, alignment+64, obj.UniformBufferSize())

		bg := obj.ModelBindGroup().(*devicetest.BindGroup)
		require.Len(t, bg.Entries, 1)
		assert.Equal(t, obj.UniformOffset(), bg.Entries[0].Offset)
		assert.Equal(t, uint64(64), bg.Entries[0].Size)
	}
}

func TestVertexBufferHoldsShapeGeometry(t *testing.T) {
	dev, lib, _ := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapePyramid)
	require.NoError(t, err)

	vb := obj.VertexBuffer().(*devicetest.Buffer)
	assert.Equal(t, obj.Model().VertexData(), vb.Bytes())
	assert.NotZero(t, vb.Usage&wgpu.BufferUsageVertex)
}

func TestModelMatrixTranslatesThenRotates(t *testing.T) {
	dev, lib, _ := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapeCube, WithPosition(1, 2, 3), WithRotation(0.3, 0.5, 0.7))
	require.NoError(t, err)

	want := mgl32.Translate3D(1, 2, 3).
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.HomogRotate3DY(0.5)).
		Mul4(mgl32.HomogRotate3DZ(0.7))
	assert.True(t, want.ApproxEqual(obj.ModelMatrix()))

	rotateFirst := mgl32.HomogRotate3DX(0.3).
		Mul4(mgl32.HomogRotate3DY(0.5)).
		Mul4(mgl32.HomogRotate3DZ(0.7)).
		Mul4(mgl32.Translate3D(1, 2, 3))
	assert.False(t, rotateFirst.ApproxEqual(obj.ModelMatrix()))
}

func TestDrawBeforeAttachFails(t *testing.T) {
	dev, lib, sceneShadow := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapeCube)
	require.NoError(t, err)

	pass := openPass(t, dev, "shadow")
	assert.ErrorIs(t, obj.ShadowDraw(pass), ErrNotAttached)
	assert.ErrorIs(t, obj.ColorDraw(pass, sceneShadow), ErrNotAttached)
	assert.Empty(t, pass.Commands)
}

func TestShadowDrawRecordsBindingsAndDraw(t *testing.T) {
	dev, lib, sceneShadow := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapeCube, WithPlacement(Placement{X: -2, Y: 1}))
	require.NoError(t, err)
	obj.Attach(sceneShadow)

	pass := openPass(t, dev, "shadow")
	require.NoError(t, obj.ShadowDraw(pass))

	draws := pass.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, lib.Shadow().Pipeline().Label(), draws[0].Pipeline)
	assert.Equal(t, "scene shadow", draws[0].BindGroups[0])
	assert.Equal(t, obj.ModelBindGroup().Label(), draws[0].BindGroups[1])
	assert.Equal(t, obj.VertexBuffer().Label(), draws[0].VertexBuffer)
	assert.Equal(t, uint32(36), draws[0].VertexCount)
	assert.Equal(t, uint32(1), draws[0].InstanceCount)
}

func TestColorDrawUsesCallerSceneBindGroup(t *testing.T) {
	dev, lib, sceneShadow := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapePyramid)
	require.NoError(t, err)
	obj.Attach(sceneShadow)

	sceneBuf, err := dev.CreateBuffer(device.BufferDescriptor{Label: "scene", Size: 144})
	require.NoError(t, err)
	sceneColor, err := dev.CreateBindGroup(device.BindGroupDescriptor{
		Label:   "scene color",
		Layout:  lib.SceneShadowLayout(),
		Entries: []device.BindGroupEntry{{Binding: 0, Buffer: sceneBuf}},
	})
	require.NoError(t, err)

	pass := openPass(t, dev, "color")
	require.NoError(t, obj.ColorDraw(pass, sceneColor))

	draws := pass.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, lib.Color().Pipeline().Label(), draws[0].Pipeline)
	assert.Equal(t, "scene color", draws[0].BindGroups[0])
	assert.Equal(t, uint32(18), draws[0].VertexCount)
}

func TestRepeatedDrawsWriteIdenticalBytes(t *testing.T) {
	dev, lib, sceneShadow := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapeCube, WithPosition(4, 0, 1), WithRotation(1, 0, 0))
	require.NoError(t, err)
	obj.Attach(sceneShadow)

	pass := openPass(t, dev, "shadow")
	require.NoError(t, obj.ShadowDraw(pass))
	require.NoError(t, obj.ColorDraw(pass, sceneShadow))

	var writes []devicetest.Write
	for _, w := range dev.Writes {
		if len(w.Data) == 64 {
			writes = append(writes, w)
		}
	}
	require.Len(t, writes, 2)
	assert.Equal(t, writes[0].Data, writes[1].Data)
	assert.Equal(t, writes[0].Buffer, writes[1].Buffer)
	assert.Equal(t, obj.UniformOffset(), writes[0].Offset)
}

func TestDisabledObjectIssuesNoCommands(t *testing.T) {
	dev, lib, sceneShadow := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapeCube, WithEnabled(false))
	require.NoError(t, err)
	obj.Attach(sceneShadow)

	pass := openPass(t, dev, "shadow")
	require.NoError(t, obj.ShadowDraw(pass))
	assert.Empty(t, pass.Commands)
	assert.Empty(t, dev.Writes)
}

func TestStepAppliesRotationSpeed(t *testing.T) {
	dev, lib, _ := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapeCube, WithRotation(0, 1, 0), WithRotationSpeed(0, 2, 0.5))
	require.NoError(t, err)

	obj.Step(0.5)
	assert.True(t, mgl32.Vec3{0, 2, 0.25}.ApproxEqual(obj.Rotation()))

	obj.Rotate(1, 0, 0)
	assert.True(t, mgl32.Vec3{1, 2, 0.25}.ApproxEqual(obj.Rotation()))
}

func TestReleaseFreesOwnedResources(t *testing.T) {
	dev, lib, sceneShadow := newFixture(t, 0)
	obj, err := NewRenderObject(dev, lib, ShapeCube)
	require.NoError(t, err)
	obj.Attach(sceneShadow)

	vb := obj.VertexBuffer().(*devicetest.Buffer)
	bg := obj.ModelBindGroup().(*devicetest.BindGroup)
	obj.Release()

	assert.True(t, vb.Released)
	assert.True(t, bg.Released)
	assert.False(t, obj.Attached())
	assert.False(t, sceneShadow.(*devicetest.BindGroup).Released)
}
