package types

import "github.com/go-gl/mathgl/mgl32"

// Quat is a rotation quaternion backed by mgl32.Quat.
type Quat struct {
	V Vec3
	W float32
}

func fromMgl(q mgl32.Quat) Quat {
	return Quat{V: Vec3(q.V), W: q.W}
}

func (q1 Quat) mgl() mgl32.Quat {
	return mgl32.Quat{W: q1.W, V: mgl32.Vec3(q1.V)}
}

// Create a quaternion from an axis vector and an angle (radians).
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return fromMgl(mgl32.QuatRotate(angle, mgl32.Vec3(axis)))
}

// Rotates a vector by the rotation this quaternion represents.
func (q1 Quat) Rotate(v Vec3) Vec3 {
	return Vec3(q1.mgl().Rotate(mgl32.Vec3(v)))
}

// Multiplies two quaternions. Multiplication is not commutative.
func (q1 Quat) Mul(q2 Quat) Quat {
	return fromMgl(q1.mgl().Mul(q2.mgl()))
}

// Normalizes the quaternion, returning its versor (unit quaternion). A zero
// quaternion normalizes to the identity.
func (q1 Quat) Normalize() Quat {
	return fromMgl(q1.mgl().Normalize())
}
