package scene

import "github.com/achilleasa/hybris/types"

// A ray with an origin and a unit-length direction.
//
// Rays must be created via NewRay which normalizes the direction. The
// analytic shape intersection routines rely on this to fold the quadratic
// coefficient a = d·d to 1.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// Create a new ray. The direction is normalized.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
	}
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
