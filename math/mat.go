package math

import "github.com/go-gl/mathgl/mgl32"

func Mat4Identity() Mat4 {
	return mgl32.Ident4()
}

func Mat4Translation(t Vec3) Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2])
}

func Mat4Scale(s Vec3) Mat4 {
	return mgl32.Scale3D(s[0], s[1], s[2])
}

// Mat4Perspective builds an OpenGL clip-space projection; fovY is in radians.
func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	return mgl32.Perspective(fovY, aspect, near, far)
}

func Mat4LookAt(eye, target, up Vec3) Mat4 {
	return mgl32.LookAtV(eye, target, up)
}

// StripTranslation removes the translation column of a view matrix so that
// geometry drawn with it stays centred on the viewer (skyboxes).
func StripTranslation(view Mat4) Mat4 {
	m := view
	m[12], m[13], m[14] = 0, 0, 0
	return m
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 of model.
func NormalMatrix(model Mat4) Mat3 {
	return model.Mat3().Inv().Transpose()
}

// TransformPoint applies m to the point p (w = 1) without a perspective divide.
func TransformPoint(m Mat4, p Vec3) Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDir applies the upper 3x3 of m to the direction d.
func TransformDir(m Mat3, d Vec3) Vec3 {
	return m.Mul3x1(d)
}
