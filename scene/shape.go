package scene

import (
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

// The Shape interface is implemented by analytic primitives that are tested
// directly by the tracer instead of going through the BVH.
type Shape interface {
	Intersect(ray Ray) HitInfo
}

// An analytic sphere.
type Sphere struct {
	Center   types.Vec3
	Radius   float32
	Material int32
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float32, material int32) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Intersect the sphere. The ray direction must be unit length (see NewRay)
// which allows the quadratic a coefficient to be folded to 1.
//
// The hit U/V fields store spherical texture coordinates. The U coordinate is
// undefined at the poles where the hit point lies on the Y axis; atan2 returns
// 0 there so U is reported as 0.5.
func (s *Sphere) Intersect(ray Ray) HitInfo {
	oc := ray.Origin.Sub(s.Center)
	halfB := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := halfB*halfB - c
	if disc < 0 {
		return Miss()
	}

	sqrtD := math32.Sqrt(disc)
	t := -halfB - sqrtD
	if t < 0 {
		// Origin inside the sphere; use the far root.
		t = -halfB + sqrtD
		if t < 0 {
			return Miss()
		}
	}

	normal := ray.At(t).Sub(s.Center)
	unit := normal.Mul(1.0 / s.Radius)
	return HitInfo{
		T:         t,
		U:         0.5 + math32.Atan2(unit[2], unit[0])/(2*math32.Pi),
		V:         0.5 - math32.Asin(clamp(unit[1], -1, 1))/math32.Pi,
		Material:  s.Material,
		Normal:    normal,
		Primitive: -1,
	}
}

// An infinite plane defined by n·p = Dist.
type Plane struct {
	Normal   types.Vec3
	Dist     float32
	Material int32
}

// Create new plane primitive. The normal is normalized.
func NewPlane(normal types.Vec3, dist float32, material int32) *Plane {
	return &Plane{
		Normal:   normal.Normalize(),
		Dist:     dist,
		Material: material,
	}
}

// Intersect the plane. Rays parallel to the plane never hit it.
func (p *Plane) Intersect(ray Ray) HitInfo {
	denom := p.Normal.Dot(ray.Dir)
	if math32.Abs(denom) < parallelEpsilon {
		return Miss()
	}

	t := (p.Dist - p.Normal.Dot(ray.Origin)) / denom
	if t < 0 {
		return Miss()
	}

	return HitInfo{
		T:         t,
		Material:  p.Material,
		Normal:    p.Normal,
		Primitive: -1,
	}
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
