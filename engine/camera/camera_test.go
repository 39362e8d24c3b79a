package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.InDelta(t, 2*math32.Pi/5, c.Fovy(), 1e-6)
	assert.InDelta(t, 16.0/9.0, c.Aspect(), 1e-6)
	assert.Equal(t, float32(1), c.Near())
	assert.Equal(t, float32(1000), c.Far())
	assert.Equal(t, mgl32.Vec3{}, c.Position())
	assert.Equal(t, mgl32.Vec3{}, c.Rotation())
}

func TestViewProjectionIsProjectionTimesView(t *testing.T) {
	cases := []Camera{
		NewCamera(WithPosition(0, 0, -7)),
		NewCamera(WithPosition(3, 4, -5), WithRotation(0.2, -0.4, 0.1), WithAspect(1.25)),
		NewCamera(WithPosition(-1, 10, 2), WithFovy(0.8), WithNearFar(0.5, 50)),
	}
	for _, c := range cases {
		assert.Equal(t, c.Projection().Mul4(c.View()), c.ViewProjection())
	}
}

func TestViewRotatesAfterLookAt(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, -7), WithRotation(0.3, 0.6, 0.9))
	lookAt := common.LookAt(mgl32.Vec3{0, 0, -7}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	want := lookAt.
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.HomogRotate3DY(0.6)).
		Mul4(mgl32.HomogRotate3DZ(0.9))
	assert.True(t, want.ApproxEqual(c.View()))
}

func TestOriginIsInFrontOfCamera(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, -7))
	clip := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())

	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
}

func TestEyeAtOriginFallsBackToIdentityBasis(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Ident4(), c.View())
}

func TestCameraStraightAboveOrBelowOriginStaysFinite(t *testing.T) {
	for _, y := range []float32{7, -7} {
		c := NewCamera(WithPosition(0, y, 0))
		for i, v := range c.ViewProjection() {
			assert.False(t, math32.IsNaN(v) || math32.IsInf(v, 0), "y=%v element %d is %v", y, i, v)
		}

		clip := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		ndc := clip.Vec3().Mul(1 / clip.W())
		assert.InDelta(t, 0, ndc.X(), 1e-5)
		assert.InDelta(t, 0, ndc.Y(), 1e-5)
		assert.Greater(t, ndc.Z(), float32(0))
	}
}

func TestMutators(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3))
	c.Translate(1, 1, 1)
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, c.Position())

	c.Rotate(0.1, 0.2, 0.3)
	c.Rotate(0.1, 0, 0)
	assert.True(t, mgl32.Vec3{0.2, 0.2, 0.3}.ApproxEqual(c.Rotation()))

	c.SetAspect(2)
	c.SetFovy(1)
	c.SetNearFar(0.1, 10)
	assert.Equal(t, float32(2), c.Aspect())
	assert.Equal(t, float32(1), c.Fovy())
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(10), c.Far())
}

func TestControllerMapsDragAndWheel(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, -7))
	cc := NewCameraController(c)
	assert.Equal(t, DefaultInputDivisor, cc.RotateDivisor())
	assert.Same(t, c, cc.Camera())

	cc.Drag(50, 25)
	assert.True(t, mgl32.Vec3{0.25, 0.5, 0}.ApproxEqual(c.Rotation()))

	cc.Wheel(100)
	assert.True(t, mgl32.Vec3{0, 0, -8}.ApproxEqual(c.Position()))
}

func TestControllerDivisors(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, -7))
	cc := NewCameraController(c, WithRotateDivisor(10), WithZoomDivisor(-1))
	assert.Equal(t, float32(10), cc.RotateDivisor())
	assert.Equal(t, DefaultInputDivisor, cc.ZoomDivisor())

	cc.Drag(1, 0)
	assert.InDelta(t, 0.1, c.Rotation().Y(), 1e-6)
}
