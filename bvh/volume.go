package bvh

import (
	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

// The number of slab axes used by a bounding volume.
const NumAxes = 7

// Slab normals whose |n·d| falls below this threshold are skipped while
// intersecting a ray; the ray runs parallel to the slab.
const parallelEpsilon float32 = 1e-9

// Relative slab padding applied to leaf volumes after a refit.
const volumePadding float32 = 1e-5

// The seven slab axes: the three cardinal axes followed by the four body
// diagonals of the unit cube. The diagonals are intentionally not normalized;
// slab distances are only ever compared against other distances along the
// same axis.
var axes = [NumAxes]types.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 1, 1},
	{-1, 1, 1},
	{-1, -1, 1},
	{1, -1, 1},
}

// A discretely oriented bounding polytope formed by the intersection of seven
// slabs. Near[i] and Far[i] store the min and max projection of the enclosed
// geometry onto axis i.
type Volume struct {
	Near [NumAxes]float32
	Far  [NumAxes]float32
}

// Create an empty volume. Extending an empty volume by anything yields that
// thing's volume.
func EmptyVolume() Volume {
	var v Volume
	for i := 0; i < NumAxes; i++ {
		v.Near[i] = math32.Inf(1)
		v.Far[i] = math32.Inf(-1)
	}
	return v
}

// Returns true if the volume encloses nothing.
func (v *Volume) Empty() bool {
	return v.Near[0] > v.Far[0]
}

// Grow the volume so that it encloses a point.
func (v *Volume) ExtendPoint(p types.Vec3) {
	for i := 0; i < NumAxes; i++ {
		d := axes[i].Dot(p)
		if d < v.Near[i] {
			v.Near[i] = d
		}
		if d > v.Far[i] {
			v.Far[i] = d
		}
	}
}

// Grow the volume so that it encloses a triangle.
func (v *Volume) ExtendTriangle(tri *scene.Triangle) {
	v.ExtendPoint(tri.V[0])
	v.ExtendPoint(tri.V[1])
	v.ExtendPoint(tri.V[2])
}

// Grow the volume so that it encloses another volume.
func (v *Volume) Extend(other *Volume) {
	for i := 0; i < NumAxes; i++ {
		if other.Near[i] < v.Near[i] {
			v.Near[i] = other.Near[i]
		}
		if other.Far[i] > v.Far[i] {
			v.Far[i] = other.Far[i]
		}
	}
}

// Push every slab outwards by a small amount relative to its magnitude so
// that float rounding in the slab test can never report an entry distance
// past a primitive's true intersection.
func (v *Volume) inflate() {
	if v.Empty() {
		return
	}
	for i := 0; i < NumAxes; i++ {
		v.Near[i] -= volumePadding * (1 + math32.Abs(v.Near[i]))
		v.Far[i] += volumePadding * (1 + math32.Abs(v.Far[i]))
	}
}

// Get the axis-aligned bounding box formed by the three cardinal slabs.
func (v *Volume) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		{v.Near[0], v.Near[1], v.Near[2]},
		{v.Far[0], v.Far[1], v.Far[2]},
	}
}

// Intersect the volume using the slab method generalized to seven axes.
// Returns the parametric entry and exit distances along the ray. A volume that
// lies entirely behind the ray origin is reported as a miss; when the origin
// is inside the volume tNear is negative.
func (v *Volume) Intersect(ray scene.Ray) (tNear, tFar float32, ok bool) {
	if v.Empty() {
		return 0, 0, false
	}

	tNear = math32.Inf(-1)
	tFar = math32.Inf(1)
	for i := 0; i < NumAxes; i++ {
		nDotD := axes[i].Dot(ray.Dir)
		if nDotD > -parallelEpsilon && nDotD < parallelEpsilon {
			continue
		}
		nDotO := axes[i].Dot(ray.Origin)

		invNDotD := 1.0 / nDotD
		t0 := (v.Near[i] - nDotO) * invNDotD
		t1 := (v.Far[i] - nDotO) * invNDotD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tFar < tNear {
			return 0, 0, false
		}
	}

	if tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}
