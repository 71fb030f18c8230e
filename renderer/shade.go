package renderer

import (
	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/tracer"
	"github.com/achilleasa/hybris/types"
)

const (
	// Shadow rays start this far from the surface along its normal.
	shadowBias float32 = 1e-3

	// Occluders closer than this to the shadow ray origin are ignored.
	shadowEpsilon float32 = 1e-4
)

// Color every pixel that recorded a surface. The hit point is re-derived from
// the pixel center and the stored camera-space depth.
func (r *defaultRenderer) shadePass() error {
	fb := r.buffers
	cam := r.sc.Camera

	return r.runPass(passShade, fb.H, func(req tracer.BlockRequest) error {
		for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
			for x := uint32(0); x < fb.W; x++ {
				i := fb.Index(x, y)
				if fb.Background(i) {
					continue
				}

				ndcX, ndcY := fb.PixelNDC(x, y)
				point := cam.CameraToWorld(cam.CameraSpace(ndcX, ndcY, fb.Depth[i]))
				viewDir := cam.Position.Sub(point).Normalize()
				fb.Color[i] = r.shade(&fb.Hits[i], point, viewDir).Vec4(1)
			}
		}
		return nil
	})
}

// Calculate the color of a surface point. The viewDir argument points from
// the surface towards the camera.
func (r *defaultRenderer) shade(hit *scene.HitInfo, point, viewDir types.Vec3) types.Vec3 {
	normal := hit.Normal.Normalize()
	if normal.Dot(viewDir) < 0 {
		normal = normal.Neg()
	}

	switch r.opts.Shading {
	case ShadeAbsNormal:
		return normal.Abs()
	case ShadePastelNormal:
		return normal.Mul(0.5).Add(types.Vec3{0.5, 0.5, 0.5})
	case ShadeBarycentric:
		return types.Vec3{hit.U, hit.V, 1 - hit.U - hit.V}
	case ShadeAO:
		return types.Vec3{1, 1, 1}
	}

	mat := r.sc.MaterialFor(hit.Material)
	light := &r.sc.Light
	env := &r.sc.Env

	toLight := light.Position.Sub(point)
	lightDist := toLight.Len()
	lightDir := toLight.Normalize()
	nDotL := normal.Dot(lightDir)

	var ambient, diffuse, specular, emissive types.Vec3
	if r.opts.Ambient {
		ambient = env.Ambient.MulVec(mat.Ambient)
	}
	if r.opts.Diffuse && nDotL > 0 {
		diffuse = mat.Diffuse.MulVec(light.Color).Mul(nDotL)
	}
	if r.opts.Specular && nDotL > 0 {
		reflected := lightDir.Neg().Reflect(normal)
		specular = mat.SpecularTerm(reflected.Dot(viewDir)).MulVec(light.Color)
	}
	if r.opts.Emissive {
		emissive = mat.Emissive
	}

	direct := diffuse.Add(specular).Add(emissive)
	if r.opts.Shadows && direct != (types.Vec3{}) {
		shadowRay := scene.NewRay(point.Add(normal.Mul(shadowBias)), lightDir)
		if r.occluded(shadowRay, lightDist-shadowBias) {
			direct = direct.Mul(env.ShadowIntensity)
		}
	}

	return ambient.Add(direct)
}
