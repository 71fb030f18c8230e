package renderer

import (
	"testing"

	"github.com/achilleasa/hybris/types"
)

func clipVert(x, y, z, w float32) clipVertex {
	return clipVertex{Pos: types.Vec4{x, y, z, w}}
}

// Signed area of the triangle after the perspective divide.
func ndcArea(tri clipTriangle) float32 {
	var p [3][2]float32
	for k := 0; k < 3; k++ {
		p[k] = [2]float32{tri[k].Pos[0] / tri[k].Pos[3], tri[k].Pos[1] / tri[k].Pos[3]}
	}
	return (p[1][0]-p[0][0])*(p[2][1]-p[0][1]) - (p[1][1]-p[0][1])*(p[2][0]-p[0][0])
}

func TestClipAgainstPlane(t *testing.T) {
	right := clipPlane{axis: 0, sign: 1}

	type spec struct {
		tri      clipTriangle
		expCount int
		expArea  float32
	}

	specs := []spec{
		// fully inside
		{clipTriangle{clipVert(0, 0, 0, 1), clipVert(1, 0, 0, 1), clipVert(0, 1, 0, 1)}, 1, 0.5},
		// fully outside
		{clipTriangle{clipVert(2, 0, 0, 1), clipVert(3, 0, 0, 1), clipVert(2, 1, 0, 1)}, 0, 0},
		// one vertex inside; keeps the [0, 1] x [0, 1] corner
		{clipTriangle{clipVert(0, 0, 0, 1), clipVert(2, 0, 0, 1), clipVert(2, 2, 0, 1)}, 1, 0.5},
		// two vertices inside
		{clipTriangle{clipVert(0, 0, 0, 1), clipVert(2, 0, 0, 1), clipVert(0, 1, 0, 1)}, 2, 0.75},
	}

	for specIndex, s := range specs {
		out := clipAgainstPlane(right, s.tri, nil)
		if len(out) != s.expCount {
			t.Fatalf("[spec %d] expected %d triangles; got %d", specIndex, s.expCount, len(out))
		}

		var area float32
		for _, tri := range out {
			a := ndcArea(tri)
			if a <= 0 {
				t.Fatalf("[spec %d] expected clipped triangles to keep the input winding; got area %f", specIndex, a)
			}
			area += a * 0.5
			for k := 0; k < 3; k++ {
				if d := right.distance(tri[k].Pos); d < -1e-6 {
					t.Fatalf("[spec %d] expected vertex %v to be inside the plane; got distance %f", specIndex, tri[k].Pos, d)
				}
			}
		}

		if diff := area - s.expArea; diff < -1e-5 || diff > 1e-5 {
			t.Fatalf("[spec %d] expected clipped area %f; got %f", specIndex, s.expArea, area)
		}
	}
}

func TestClipInterpolatesBarycentrics(t *testing.T) {
	tri := clipTriangle{
		{Pos: types.Vec4{0, 0, 0, 1}, Bary: types.Vec3{1, 0, 0}},
		{Pos: types.Vec4{2, 0, 0, 1}, Bary: types.Vec3{0, 1, 0}},
		{Pos: types.Vec4{0, 1, 0, 1}, Bary: types.Vec3{0, 0, 1}},
	}

	out := clipAgainstPlane(clipPlane{axis: 0, sign: 1}, tri, nil)
	for _, ct := range out {
		for k := 0; k < 3; k++ {
			v := ct[k]
			sum := v.Bary[0] + v.Bary[1] + v.Bary[2]
			if sum < 1-1e-5 || sum > 1+1e-5 {
				t.Fatalf("expected barycentrics of %v to sum to 1; got %f", v.Pos, sum)
			}

			// Barycentric reconstruction must reproduce the vertex position.
			x := v.Bary[1] * 2
			y := v.Bary[2]
			if diff := x - v.Pos[0]; diff < -1e-5 || diff > 1e-5 {
				t.Fatalf("expected x %f from barycentrics %v; got %f", v.Pos[0], v.Bary, x)
			}
			if diff := y - v.Pos[1]; diff < -1e-5 || diff > 1e-5 {
				t.Fatalf("expected y %f from barycentrics %v; got %f", v.Pos[1], v.Bary, y)
			}
		}
	}
}

func TestClipper(t *testing.T) {
	c := newClipper()

	inside := clipTriangle{clipVert(-0.5, -0.5, 0, 1), clipVert(0.5, -0.5, 0, 1), clipVert(0, 0.5, 0, 1)}
	out := c.clip(inside)
	if len(out) != 1 || out[0] != inside {
		t.Fatalf("expected triangle inside the frustum to pass through unchanged; got %v", out)
	}

	behind := clipTriangle{clipVert(0, 0, 2, -1), clipVert(1, 0, 2, -1), clipVert(0, 1, 2, -1)}
	if out = c.clip(behind); len(out) != 0 {
		t.Fatalf("expected triangle behind the camera to be discarded; got %d triangles", len(out))
	}

	// A large triangle crossing every side plane.
	huge := clipTriangle{clipVert(-10, -10, 0, 1), clipVert(10, -10, 0, 1), clipVert(0, 10, 0, 1)}
	out = c.clip(huge)
	if len(out) < 2 {
		t.Fatalf("expected large triangle to be split; got %d triangles", len(out))
	}

	var area float32
	for _, tri := range out {
		a := ndcArea(tri)
		if a <= 0 {
			t.Fatalf("expected clipped triangles to keep the input winding; got area %f", a)
		}
		area += a * 0.5
		for k := 0; k < 3; k++ {
			for _, plane := range frustumPlanes {
				if d := plane.distance(tri[k].Pos); d < -1e-5 {
					t.Fatalf("expected vertex %v inside plane %v; got distance %f", tri[k].Pos, plane, d)
				}
			}
		}
	}

	// The [-1, 1] view square lies inside the triangle.
	if diff := area - 4; diff < -1e-4 || diff > 1e-4 {
		t.Fatalf("expected clipped area 4; got %f", area)
	}
}
