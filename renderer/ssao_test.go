package renderer

import (
	"testing"

	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

func TestSSAOKernel(t *testing.T) {
	k := newSSAOKernel(32)
	if len(k.samples) != 32 {
		t.Fatalf("expected 32 samples; got %d", len(k.samples))
	}

	for index, s := range k.samples {
		if l := s.Len(); l > 1 {
			t.Fatalf("expected sample %d to lie in the unit ball; got length %f", index, l)
		}
	}
	for index, n := range k.noise {
		if n[2] != 0 {
			t.Fatalf("expected noise vector %d to lie in the xy plane; got %v", index, n)
		}
	}

	other := newSSAOKernel(32)
	for index := range k.samples {
		if k.samples[index] != other.samples[index] {
			t.Fatalf("expected kernels to be reproducible; sample %d differs", index)
		}
	}
}

func TestSSAOBasis(t *testing.T) {
	k := newSSAOKernel(1)

	type spec struct {
		n        types.Vec3
		rotation types.Vec3
	}

	specs := []spec{
		{types.XYZ(0, 0, 1), types.XYZ(0.3, -0.7, 0)},
		{types.XYZ(0, 1, 0), types.XYZ(1, 0, 0)},
		// rotation parallel to the normal
		{types.XYZ(1, 0, 0), types.XYZ(1, 0, 0)},
		{types.XYZ(0, 0, 1), types.Vec3{}},
	}

	for specIndex, s := range specs {
		tangent, bitangent := k.basis(s.n, s.rotation)
		if math32.Abs(tangent.Len()-1) > 1e-4 || math32.Abs(bitangent.Len()-1) > 1e-4 {
			t.Fatalf("[spec %d] expected unit basis vectors; got %v, %v", specIndex, tangent, bitangent)
		}
		if math32.Abs(tangent.Dot(s.n)) > 1e-4 || math32.Abs(bitangent.Dot(s.n)) > 1e-4 || math32.Abs(tangent.Dot(bitangent)) > 1e-4 {
			t.Fatalf("[spec %d] expected an orthogonal basis; got %v, %v, %v", specIndex, tangent, bitangent, s.n)
		}
	}
}
