package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveMapsNearAndFarToUnitDepth(t *testing.T) {
	proj := Perspective(math.Pi/2, 1, 1, 100)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -100, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-6)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestOrthoMapsBoundsToClipSpace(t *testing.T) {
	proj := Ortho(-10, 10, -5, 5, -20, 30)

	minCorner := proj.Mul4x1(mgl32.Vec4{-10, -5, 20, 1})
	maxCorner := proj.Mul4x1(mgl32.Vec4{10, 5, -30, 1})

	assert.InDelta(t, -1, minCorner.X(), 1e-6)
	assert.InDelta(t, -1, minCorner.Y(), 1e-6)
	assert.InDelta(t, 0, minCorner.Z(), 1e-6)
	assert.InDelta(t, 1, maxCorner.X(), 1e-6)
	assert.InDelta(t, 1, maxCorner.Y(), 1e-6)
	assert.InDelta(t, 1, maxCorner.Z(), 1e-6)
}

func assertFinite(t *testing.T, m mgl32.Mat4) {
	t.Helper()
	for i, v := range m {
		f := float64(v)
		require.False(t, math.IsNaN(f) || math.IsInf(f, 0), "element %d is %v", i, v)
	}
}

func TestLookAtAlongUpAxisStaysFinite(t *testing.T) {
	for _, eye := range []mgl32.Vec3{{0, 10, 0}, {0, -10, 0}, {0, 7, 0}} {
		view := LookAt(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
		assertFinite(t, view)

		// The target still lands on the view axis, in front of the eye.
		target := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		assert.InDelta(t, 0, target.X(), 1e-5, "eye %v", eye)
		assert.InDelta(t, 0, target.Y(), 1e-5, "eye %v", eye)
		assert.InDelta(t, -eye.Len(), target.Z(), 1e-4, "eye %v", eye)
	}
}

func TestLookAtUpAlongZFallsBackToX(t *testing.T) {
	view := LookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	assertFinite(t, view)
	assert.InDelta(t, -5, view.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Z(), 1e-5)
}

func TestLookAtMatchesLookAtVWhenWellPosed(t *testing.T) {
	eye := mgl32.Vec3{3, 4, -7}
	want := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, want, LookAt(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))
	assert.Equal(t, mgl32.Ident4(), LookAt(eye, eye, mgl32.Vec3{0, 1, 0}))
}

func TestBuildModelMatrixTranslatesThenRotates(t *testing.T) {
	pos := mgl32.Vec3{2, 0, 0}
	rot := mgl32.Vec3{0, math.Pi / 2, 0}

	m := BuildModelMatrix(pos, rot)

	// The local origin stays at the translated position.
	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 2, origin.X(), 1e-6)
	assert.InDelta(t, 0, origin.Z(), 1e-6)

	// Rotating first and translating after would swing the object about the world origin.
	swapped := mgl32.HomogRotate3DY(rot[1]).Mul4(mgl32.Translate3D(pos[0], pos[1], pos[2]))
	assert.False(t, m.ApproxEqualThreshold(swapped, 1e-4))
}

func TestBuildModelMatrixRotationOrder(t *testing.T) {
	m := BuildModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0.3, 0.5, 0.7})
	want := mgl32.Translate3D(1, 2, 3).
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.HomogRotate3DY(0.5)).
		Mul4(mgl32.HomogRotate3DZ(0.7))
	assert.Equal(t, want, m)

	reversed := mgl32.Translate3D(1, 2, 3).
		Mul4(mgl32.HomogRotate3DZ(0.7)).
		Mul4(mgl32.HomogRotate3DY(0.5)).
		Mul4(mgl32.HomogRotate3DX(0.3))
	assert.False(t, m.ApproxEqualThreshold(reversed, 1e-4))
}

func TestMat4BytesIsColumnMajorLittleEndian(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	b := Mat4Bytes(m)
	require.Len(t, b, Mat4Size)

	// Translation lives in column 3 (floats 12..14).
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b[48:52])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x40}, b[52:56])
	assert.Equal(t, []byte{0x00, 0x00, 0x40, 0x40}, b[56:60])
}

func TestAlignUp(t *testing.T) {
	cases := []struct {
		value, alignment, want uint64
	}{
		{0, 256, 0},
		{1, 256, 256},
		{64, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{140, 16, 144},
		{7, 0, 7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AlignUp(tc.value, tc.alignment), "AlignUp(%d, %d)", tc.value, tc.alignment)
	}
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}
