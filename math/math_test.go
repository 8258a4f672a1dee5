package math

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2))
	assert.Equal(t, NewVec3(4, 10, 18), MulVec(v1, v2))

	// Right x Up = Front in a right-handed system
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up))
}

func TestNormalizeZeroVector(t *testing.T) {
	assert.Equal(t, Vec3Zero, Normalize(Vec3Zero))
	assert.InDelta(t, 1.0, float64(Normalize(NewVec3(3, 4, 0)).Len()), 1e-6)
}

func TestReflect(t *testing.T) {
	r := Reflect(NewVec3(1, -1, 0), Vec3Up)
	assert.InDelta(t, 1.0, float64(r[0]), 1e-6)
	assert.InDelta(t, 1.0, float64(r[1]), 1e-6)
}

func TestWrapDegrees(t *testing.T) {
	cases := []struct {
		in, want float32
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{540, 180},
		{-540, 180},
		{725, 5},
		{-90, -90},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, WrapDegrees(c.in), 1e-4, "wrap(%v)", c.in)
	}
}

func TestSpherical(t *testing.T) {
	p := Spherical(90, 0, 4)
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 4, p[2], 1e-5)

	p = Spherical(90, 90, 2)
	assert.InDelta(t, 2, p[0], 1e-5)

	p = Spherical(0, 37, 3)
	assert.InDelta(t, 3, p[1], 1e-5)
}

func TestStripTranslation(t *testing.T) {
	view := Mat4LookAt(NewVec3(0, 0, 5), Vec3Zero, Vec3Up)
	sky := StripTranslation(view)
	p := TransformPoint(sky, Vec3Zero)
	assert.Equal(t, Vec3Zero, p)
	assert.Equal(t, view.Mat3(), sky.Mat3())
}

func TestNormalMatrixUndoesNonUniformScale(t *testing.T) {
	model := Mat4Scale(NewVec3(2, 1, 1))
	n := Normalize(TransformDir(NormalMatrix(model), NewVec3(1, 1, 0)))
	// the normal of the plane x + y = 0 scaled by 2 in x becomes (0.5, 1)
	want := Normalize(NewVec3(0.5, 1, 0))
	assert.InDelta(t, want[0], n[0], 1e-5)
	assert.InDelta(t, want[1], n[1], 1e-5)
}

func TestDirectionToCubeRoundTrip(t *testing.T) {
	const size = 8
	for f := 0; f < CubeFaceCount; f++ {
		face := CubeFace(f)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d := CubeTexelDirection(face, x, y, size)
				gotFace, u, v := DirectionToCube(d)
				require.Equal(t, face, gotFace)
				assert.InDelta(t, (float32(x)+0.5)/size, u, 1e-5)
				assert.InDelta(t, (float32(y)+0.5)/size, v, 1e-5)
			}
		}
	}
}

// Rendering a face with its capture view must cover the same directions
// CubeFaceDirection assigns to the face's texels.
func TestCaptureViewsMatchFaceDirections(t *testing.T) {
	proj := CaptureProjection()
	views := CaptureViews()
	for f := 0; f < CubeFaceCount; f++ {
		invVP := proj.Mul4(views[f]).Inv()
		for _, st := range [][2]float32{{0, 0}, {0.5, -0.25}, {-0.75, 0.6}} {
			clip := invVP.Mul4x1(NewVec4(st[0], st[1], 1, 1))
			far := clip.Vec3().Mul(1 / clip[3])
			got := Normalize(far)
			want := CubeFaceDirection(CubeFace(f), st[0], st[1])
			for i := 0; i < 3; i++ {
				assert.InDelta(t, want[i], got[i], 1e-4, "face %d st %v", f, st)
			}
		}
	}
}

func TestClampHelpers(t *testing.T) {
	assert.Equal(t, float32(1), Saturate(3))
	assert.Equal(t, float32(0), Saturate(-1))
	assert.Equal(t, float32(0.25), Mix(0, 1, 0.25))
	assert.InDelta(t, Pi, Radians(180), 1e-6)
	assert.InDelta(t, 90, Degrees(Pi/2), 1e-4)
	assert.False(t, IsFiniteScalar(math32.Inf(1)))
	assert.False(t, IsFinite(NewVec3(0, math32.NaN(), 0)))
}
