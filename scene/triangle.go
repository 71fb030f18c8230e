package scene

import (
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

// Determinants (or ray/plane denominators) below this magnitude are treated
// as a ray running parallel to the triangle plane.
const parallelEpsilon float32 = 1e-9

// A triangle primitive.
type Triangle struct {
	V [3]types.Vec3

	// Face normal calculated as (v1-v0) x (v2-v0). It is not normalized;
	// callers normalize it on use.
	Normal types.Vec3

	// Material index.
	Material int32
}

// Create new triangle primitive.
func NewTriangle(v0, v1, v2 types.Vec3, material int32) Triangle {
	return Triangle{
		V:        [3]types.Vec3{v0, v1, v2},
		Normal:   v1.Sub(v0).Cross(v2.Sub(v0)),
		Material: material,
	}
}

// Return a copy of the triangle translated by offset.
func (tri Triangle) Translate(offset types.Vec3) Triangle {
	return Triangle{
		V:        [3]types.Vec3{tri.V[0].Add(offset), tri.V[1].Add(offset), tri.V[2].Add(offset)},
		Normal:   tri.Normal,
		Material: tri.Material,
	}
}

// Get the triangle's axis-aligned bounding box.
func (tri Triangle) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.MinVec3(types.MinVec3(tri.V[0], tri.V[1]), tri.V[2]),
		types.MaxVec3(types.MaxVec3(tri.V[0], tri.V[1]), tri.V[2]),
	}
}

// Get the center of the triangle's bounding box.
func (tri Triangle) Center() types.Vec3 {
	bbox := tri.BBox()
	return bbox[0].Add(bbox[1]).Mul(0.5)
}

// Check whether the triangle vertices are collinear.
func (tri Triangle) Degenerate() bool {
	return tri.Normal.Len() < parallelEpsilon
}

// Intersect the triangle using the Möller–Trumbore algorithm. Intersections
// behind the ray origin are rejected.
func (tri Triangle) Intersect(ray Ray) HitInfo {
	edge1 := tri.V[1].Sub(tri.V[0])
	edge2 := tri.V[2].Sub(tri.V[0])

	h := ray.Dir.Cross(edge2)
	det := edge1.Dot(h)
	if det > -parallelEpsilon && det < parallelEpsilon {
		return Miss()
	}

	invDet := 1.0 / det
	s := ray.Origin.Sub(tri.V[0])
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return Miss()
	}

	q := s.Cross(edge1)
	v := invDet * ray.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return Miss()
	}

	t := invDet * edge2.Dot(q)
	if t < 0 {
		return Miss()
	}

	return HitInfo{
		T:         t,
		U:         u,
		V:         v,
		Material:  tri.Material,
		Normal:    tri.Normal,
		Primitive: -1,
	}
}

// Intersect the triangle by first intersecting its supporting plane and then
// checking whether the hit point lies inside all three edges. This is slower
// than Intersect and exists for validating it.
func (tri Triangle) IntersectBarycentric(ray Ray) HitInfo {
	denom := tri.Normal.Dot(ray.Dir)
	if math32.Abs(denom) < parallelEpsilon {
		return Miss()
	}

	t := tri.Normal.Dot(tri.V[0].Sub(ray.Origin)) / denom
	if t < 0 {
		return Miss()
	}

	w0, w1, w2 := tri.Barycentric(ray.At(t))
	if w0 < 0 || w1 < 0 || w2 < 0 {
		return Miss()
	}

	return HitInfo{
		T:         t,
		U:         w1,
		V:         w2,
		Material:  tri.Material,
		Normal:    tri.Normal,
		Primitive: -1,
	}
}

// Calculate the barycentric weights of point p (assumed to lie on the
// triangle plane) with respect to the three vertices. Each weight is the
// signed area of the sub-triangle opposite to the vertex divided by the
// triangle area; points outside the triangle get a negative weight.
func (tri Triangle) Barycentric(p types.Vec3) (w0, w1, w2 float32) {
	nn := tri.Normal.Dot(tri.Normal)
	if nn < parallelEpsilon {
		return -1, -1, -1
	}

	c0 := tri.V[2].Sub(tri.V[1]).Cross(p.Sub(tri.V[1]))
	c1 := tri.V[0].Sub(tri.V[2]).Cross(p.Sub(tri.V[2]))
	c2 := tri.V[1].Sub(tri.V[0]).Cross(p.Sub(tri.V[0]))

	return tri.Normal.Dot(c0) / nn, tri.Normal.Dot(c1) / nn, tri.Normal.Dot(c2) / nn
}

// Interpolate a point on the triangle using the (u, v) coordinates of a HitInfo.
func (tri Triangle) PointAt(u, v float32) types.Vec3 {
	return tri.V[0].Mul(1 - u - v).Add(tri.V[1].Mul(u)).Add(tri.V[2].Mul(v))
}

// Find the closest intersection by testing the ray against every triangle.
// The Primitive field of the returned HitInfo is set to the triangle index.
func IntersectAll(tris []Triangle, ray Ray) HitInfo {
	return IntersectAllMax(tris, ray, math32.Inf(1))
}

// Like IntersectAll but ignores hits farther than tMax.
func IntersectAllMax(tris []Triangle, ray Ray, tMax float32) HitInfo {
	return IntersectAllRange(tris, ray, 0, tMax)
}

// Like IntersectAll but only accepts hits with a distance in the (tMin, tMax]
// range.
func IntersectAllRange(tris []Triangle, ray Ray, tMin, tMax float32) HitInfo {
	best := Miss()
	for index := range tris {
		hit := tris[index].Intersect(ray)
		if !hit.Hit() || hit.T <= tMin || hit.T > tMax || !hit.Closer(best) {
			continue
		}
		hit.Primitive = int32(index)
		best = hit
	}
	return best
}
