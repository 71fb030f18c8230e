package renderer

import (
	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/tracer"
	"github.com/achilleasa/hybris/types"
)

// Ray trace every pixel of the effective frame and fill the visibility,
// depth and normal buffers.
func (r *defaultRenderer) rayTrace() error {
	fb := r.buffers
	cam := r.sc.Camera

	return r.runPass(passRayTrace, fb.H, func(req tracer.BlockRequest) error {
		for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
			for x := uint32(0); x < fb.W; x++ {
				ray := cam.PrimaryRay(int(x), int(y), int(fb.W), int(fb.H))
				hit := r.closestHit(ray)
				if !hit.Hit() {
					continue
				}

				point := ray.At(hit.T)
				r.recordHit(fb.Index(x, y), hit, point, cam.ViewDepth(point))
			}
		}
		return nil
	})
}

// Ray trace the analytic shapes for rows [y0, y1) and merge them into the
// depth buffer. Used by the hybrid pipeline since shapes cannot be rasterized.
func (r *defaultRenderer) traceShapes(y0, y1 uint32) {
	fb := r.buffers
	cam := r.sc.Camera

	for y := y0; y < y1; y++ {
		for x := uint32(0); x < fb.W; x++ {
			ray := cam.PrimaryRay(int(x), int(y), int(fb.W), int(fb.H))
			hit := r.closestShapeHit(ray)
			if !hit.Hit() {
				continue
			}

			point := ray.At(hit.T)
			depth := cam.ViewDepth(point)
			i := fb.Index(x, y)
			if depth < fb.Depth[i] {
				r.recordHit(i, hit, point, depth)
			}
		}
	}
}

// Store a hit in the visibility, depth and normal buffers.
func (r *defaultRenderer) recordHit(i int, hit scene.HitInfo, point types.Vec3, depth float32) {
	cam := r.sc.Camera
	fb := r.buffers

	normal := hit.Normal.Normalize()
	if normal.Dot(cam.Position.Sub(point)) < 0 {
		normal = normal.Neg()
	}

	fb.Hits[i] = hit
	fb.Depth[i] = depth
	fb.Normal[i] = cam.DirToCamera(normal).Normalize()
}

// Find the closest triangle or shape intersection.
func (r *defaultRenderer) closestHit(ray scene.Ray) scene.HitInfo {
	var hit scene.HitInfo
	if r.tree != nil {
		hit = r.tree.Intersect(ray)
	} else {
		hit = scene.IntersectAll(r.sc.Triangles, ray)
	}

	if shapeHit := r.closestShapeHit(ray); shapeHit.Closer(hit) {
		hit = shapeHit
	}
	return hit
}

func (r *defaultRenderer) closestShapeHit(ray scene.Ray) scene.HitInfo {
	best := scene.Miss()
	for _, shape := range r.sc.Shapes {
		if hit := shape.Intersect(ray); hit.Closer(best) {
			best = hit
		}
	}
	return best
}

// Returns true if any triangle or shape intersects the ray at a distance
// in the (shadowEpsilon, maxDist) range.
func (r *defaultRenderer) occluded(ray scene.Ray, maxDist float32) bool {
	var hit scene.HitInfo
	if r.tree != nil {
		hit = r.tree.IntersectRange(ray, shadowEpsilon, maxDist)
	} else {
		hit = scene.IntersectAllRange(r.sc.Triangles, ray, shadowEpsilon, maxDist)
	}
	if hit.Hit() && hit.T > shadowEpsilon && hit.T < maxDist {
		return true
	}

	for _, shape := range r.sc.Shapes {
		if hit = shape.Intersect(ray); hit.Hit() && hit.T > shadowEpsilon && hit.T < maxDist {
			return true
		}
	}
	return false
}
