package math

import "github.com/chewxy/math32"

// CubeFace indexes the six faces of a cube map in OpenGL order
// (GL_TEXTURE_CUBE_MAP_POSITIVE_X + face).
type CubeFace int

const (
	FacePosX CubeFace = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

const CubeFaceCount = 6

// CaptureProjection is the 90° square frustum used to render one cube face.
func CaptureProjection() Mat4 {
	return Mat4Perspective(Radians(90), 1, 0.1, 10)
}

// CaptureViews returns one view matrix per cube face, looking out from the
// origin with the up vectors the OpenGL cube map layout expects.
func CaptureViews() [CubeFaceCount]Mat4 {
	return [CubeFaceCount]Mat4{
		Mat4LookAt(Vec3Zero, Vec3{1, 0, 0}, Vec3{0, -1, 0}),
		Mat4LookAt(Vec3Zero, Vec3{-1, 0, 0}, Vec3{0, -1, 0}),
		Mat4LookAt(Vec3Zero, Vec3{0, 1, 0}, Vec3{0, 0, 1}),
		Mat4LookAt(Vec3Zero, Vec3{0, -1, 0}, Vec3{0, 0, -1}),
		Mat4LookAt(Vec3Zero, Vec3{0, 0, 1}, Vec3{0, -1, 0}),
		Mat4LookAt(Vec3Zero, Vec3{0, 0, -1}, Vec3{0, -1, 0}),
	}
}

// CubeFaceDirection returns the unit direction through face coordinates
// (s, t) in [-1, 1]. Row 0 of a face is t = -1, matching what glTexImage2D
// uploads first.
func CubeFaceDirection(face CubeFace, s, t float32) Vec3 {
	var d Vec3
	switch face {
	case FacePosX:
		d = Vec3{1, -t, -s}
	case FaceNegX:
		d = Vec3{-1, -t, s}
	case FacePosY:
		d = Vec3{s, 1, t}
	case FaceNegY:
		d = Vec3{s, -1, -t}
	case FacePosZ:
		d = Vec3{s, -t, 1}
	default:
		d = Vec3{-s, -t, -1}
	}
	return Normalize(d)
}

// CubeTexelDirection returns the direction through the centre of texel
// (x, y) of a face with the given edge length.
func CubeTexelDirection(face CubeFace, x, y, size int) Vec3 {
	s := 2*(float32(x)+0.5)/float32(size) - 1
	t := 2*(float32(y)+0.5)/float32(size) - 1
	return CubeFaceDirection(face, s, t)
}

// DirectionToCube is the inverse of CubeFaceDirection: it selects the face by
// the major axis of d and returns face coordinates u, v in [0, 1].
func DirectionToCube(d Vec3) (face CubeFace, u, v float32) {
	ax, ay, az := math32.Abs(d[0]), math32.Abs(d[1]), math32.Abs(d[2])
	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if d[0] > 0 {
			face, sc, tc = FacePosX, -d[2], -d[1]
		} else {
			face, sc, tc = FaceNegX, d[2], -d[1]
		}
	case ay >= az:
		ma = ay
		if d[1] > 0 {
			face, sc, tc = FacePosY, d[0], d[2]
		} else {
			face, sc, tc = FaceNegY, d[0], -d[2]
		}
	default:
		ma = az
		if d[2] > 0 {
			face, sc, tc = FacePosZ, d[0], -d[1]
		} else {
			face, sc, tc = FaceNegZ, -d[0], -d[1]
		}
	}
	if ma == 0 {
		return FacePosZ, 0.5, 0.5
	}
	return face, 0.5 * (sc/ma + 1), 0.5 * (tc/ma + 1)
}

// CubeTexelSolidAngle approximates the solid angle subtended by one texel of
// a cube face with the given edge length (uniform over the face).
func CubeTexelSolidAngle(size int) float32 {
	return 4 * Pi / (CubeFaceCount * float32(size*size))
}
