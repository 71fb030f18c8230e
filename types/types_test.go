package types

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Ops(t *testing.T) {
	v := XYZ(3, 0, 4)
	if l := v.Len(); l != 5 {
		t.Fatalf("expected length 5; got %f", l)
	}
	if n := v.Normalize(); !n.ApproxEqual(XYZ(0.6, 0, 0.8), 1e-6) {
		t.Fatalf("expected normalized vector (0.6, 0, 0.8); got %v", n)
	}
	if n := (Vec3{}).Normalize(); n != (Vec3{}) {
		t.Fatalf("expected zero vector to normalize to zero; got %v", n)
	}

	if c := XYZ(1, 0, 0).Cross(XYZ(0, 1, 0)); c != XYZ(0, 0, 1) {
		t.Fatalf("expected x cross y = z; got %v", c)
	}

	// Reflect a direction hitting the floor at 45 degrees.
	r := XYZ(1, -1, 0).Reflect(XYZ(0, 1, 0))
	if r != XYZ(1, 1, 0) {
		t.Fatalf("expected reflected vector (1, 1, 0); got %v", r)
	}

	lo, hi := MinVec3(XYZ(1, 5, -2), XYZ(3, -1, 0)), MaxVec3(XYZ(1, 5, -2), XYZ(3, -1, 0))
	if lo != XYZ(1, -1, -2) || hi != XYZ(3, 5, 0) {
		t.Fatalf("expected component min/max (1,-1,-2)/(3,5,0); got %v/%v", lo, hi)
	}
}

func TestMat4Transforms(t *testing.T) {
	view := LookAtV(XYZ(0, 0, 5), XYZ(0, 0, 0), XYZ(0, 1, 0))
	if p := view.TransformPoint(XYZ(0, 0, 0)); !p.ApproxEqual(XYZ(0, 0, -5), 1e-5) {
		t.Fatalf("expected origin at (0, 0, -5) in camera space; got %v", p)
	}
	if d := view.TransformDir(XYZ(1, 0, 0)); !d.ApproxEqual(XYZ(1, 0, 0), 1e-5) {
		t.Fatalf("expected unchanged x axis; got %v", d)
	}

	ident := view.Mul4(view.Inv())
	for i := 0; i < 16; i++ {
		exp := float32(0)
		if i%5 == 0 {
			exp = 1
		}
		if math32.Abs(ident[i]-exp) > 1e-5 {
			t.Fatalf("expected m * inv(m) to be the identity; got %v", ident)
		}
	}

	// A point on the near plane maps to w = near and ndc z = -1.
	proj := Perspective4(math32.Pi/2, 1, 0.5, 100)
	clip := proj.Mul4x1(XYZW(0, 0, -0.5, 1))
	if math32.Abs(clip[3]-0.5) > 1e-6 || math32.Abs(clip[2]/clip[3]+1) > 1e-5 {
		t.Fatalf("expected near plane point at w 0.5, ndc z -1; got %v", clip)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(XYZ(0, 1, 0), math32.Pi/2)
	if v := q.Rotate(XYZ(1, 0, 0)); !v.ApproxEqual(XYZ(0, 0, -1), 1e-5) {
		t.Fatalf("expected x axis to rotate to -z; got %v", v)
	}

	twice := q.Mul(q).Normalize()
	if v := twice.Rotate(XYZ(1, 0, 0)); !v.ApproxEqual(XYZ(-1, 0, 0), 1e-5) {
		t.Fatalf("expected x axis to rotate to -x; got %v", v)
	}
}
