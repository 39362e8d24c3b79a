package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	assert.Equal(t, mgl32.Vec3{50, 100, -100}, l.Position())
	assert.Equal(t, mgl32.Vec3{}, l.Target())
	assert.Equal(t, DefaultBounds, l.Bounds())
}

func TestViewProjectionIsStableForUnchangedState(t *testing.T) {
	l := NewLight(WithPosition(10, 20, 30))
	assert.Equal(t, l.ViewProjection(), l.ViewProjection())
	assert.Equal(t, l.Projection().Mul4(l.View()), l.ViewProjection())
}

func TestViewProjectionFollowsMutations(t *testing.T) {
	l := NewLight()
	before := l.ViewProjection()

	l.SetPosition(mgl32.Vec3{-50, 100, -100})
	moved := l.ViewProjection()
	assert.NotEqual(t, before, moved)

	l.SetBounds(OrthoBounds{Left: -10, Right: 10, Bottom: -10, Top: 10, Near: -50, Far: 50})
	assert.NotEqual(t, moved, l.ViewProjection())
}

func TestLightSeesOriginAtCenterOfShadowMap(t *testing.T) {
	l := NewLight()
	clip := l.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	assert.InDelta(t, 0, clip.X(), 1e-4)
	assert.InDelta(t, 0, clip.Y(), 1e-4)
	assert.Greater(t, clip.Z(), float32(0))
	assert.Less(t, clip.Z(), float32(1))
}

func TestOverheadLightStaysFinite(t *testing.T) {
	for _, y := range []float32{10, -10} {
		l := NewLight(WithPosition(0, y, 0))
		vp := l.ViewProjection()
		for i, v := range vp {
			require.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "y=%v element %d is %v", y, i, v)
		}

		clip := vp.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		assert.InDelta(t, 0, clip.X(), 1e-4)
		assert.InDelta(t, 0, clip.Y(), 1e-4)
		assert.Greater(t, clip.Z(), float32(0))
		assert.Less(t, clip.Z(), float32(1))
	}
}

func TestWithBoundsAndTarget(t *testing.T) {
	b := OrthoBounds{Left: -1, Right: 1, Bottom: -2, Top: 2, Near: 0.5, Far: 20}
	l := NewLight(WithBounds(b), WithTarget(0, 0, 5), WithPosition(3, 10, 5))
	assert.Equal(t, b, l.Bounds())
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, l.Target())

	clip := l.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 5, 1})
	assert.InDelta(t, 0, clip.X(), 1e-4)
	assert.InDelta(t, 0, clip.Y(), 1e-4)
}

func TestSceneUniformMarshal(t *testing.T) {
	u := GPUSceneUniform{
		LightViewProj:  mgl32.Translate3D(1, 2, 3),
		CameraViewProj: mgl32.Translate3D(4, 5, 6),
		LightPos:       mgl32.Vec3{7, 8, 9},
	}
	buf := u.Marshal()
	require.Len(t, buf, u.Size())
	require.Equal(t, SceneUniformSize, len(buf))

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])) }
	assert.Equal(t, float32(1), f(SceneLightViewProjOffset+48))
	assert.Equal(t, float32(4), f(SceneCameraViewProjOffset+48))
	assert.Equal(t, float32(7), f(SceneLightPosOffset))
	assert.Equal(t, float32(9), f(SceneLightPosOffset+8))
	assert.Equal(t, float32(0), f(140))
}

func TestShadowConstantsSource(t *testing.T) {
	src := GPUShadowConstantsSource()
	assert.Contains(t, src, "const depthBias = 0.007;\n")
	assert.Contains(t, src, "const ambientFactor = 0.2;\n")
	assert.Contains(t, src, "const pcfRadius = 1;\n")
	assert.Contains(t, src, "const pcfTaps = 9.0;\n")
}

func TestWGSLFloatAlwaysHasDecimalPoint(t *testing.T) {
	assert.Equal(t, "1.0", wgslFloat(1))
	assert.Equal(t, "0.007", wgslFloat(0.007))
	assert.Equal(t, "-2.5", wgslFloat(-2.5))
}
