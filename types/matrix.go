package types

import "github.com/go-gl/mathgl/mgl32"

// Mat4 uses the same column-major layout as mgl32 so it can be converted to
// and from mgl32 types without copying.
type Mat4 mgl32.Mat4

// Create a 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Create a perspective projection matrix. The fovY argument is specified in
// radians. Clip space follows the OpenGL convention: after the perspective
// divide, points inside the frustum map to [-1, 1] on all axes and the
// clip-space W component equals the camera-space distance along the view axis.
func Perspective4(fovY, aspect, near, far float32) Mat4 {
	return Mat4(mgl32.Perspective(fovY, aspect, near, far))
}

// Create a view matrix for a camera at eye looking at center.
func LookAtV(eye, center, up Vec3) Mat4 {
	return Mat4(mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up)))
}

// Multiply two 4x4 matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(m2)))
}

// Multiply matrix with a 4 component column vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

// Calculate the matrix inverse. Singular matrices yield the zero matrix.
func (m Mat4) Inv() Mat4 {
	return Mat4(mgl32.Mat4(m).Inv())
}

// Transform a point (w = 1). The result is not divided by w so this should
// only be used with affine matrices.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// Transform a direction vector (w = 0).
func (m Mat4) TransformDir(d Vec3) Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}
