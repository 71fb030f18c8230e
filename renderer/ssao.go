package renderer

import (
	"math/rand"

	"github.com/achilleasa/hybris/tracer"
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

const (
	// The sample kernel and noise table are generated from a fixed seed so
	// that frames are reproducible.
	ssaoSeed = 0x55a0

	// Side of the square tile of rotation vectors.
	ssaoNoiseSize = 4

	// A sample counts as occluded only if the stored surface is closer than
	// the sample by more than this amount.
	ssaoBias float32 = 0.025
)

// Sampling state for the ambient occlusion pass.
type ssaoKernel struct {
	// Points in the unit ball, denser towards the center.
	samples []types.Vec3

	// Rotation vectors in the tangent plane; tiled over the frame.
	noise [ssaoNoiseSize * ssaoNoiseSize]types.Vec3
}

func newSSAOKernel(sampleCount int) *ssaoKernel {
	rng := rand.New(rand.NewSource(ssaoSeed))
	k := &ssaoKernel{
		samples: make([]types.Vec3, 0, sampleCount),
	}

	for len(k.samples) < sampleCount {
		v := types.Vec3{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1}
		if l := v.Len(); l > 1 || l < 1e-3 {
			continue
		}

		// Pull samples closer to the origin so that nearby geometry
		// contributes more to the occlusion term.
		scale := float32(len(k.samples)) / float32(sampleCount)
		scale = 0.1 + 0.9*scale*scale
		k.samples = append(k.samples, v.Mul(scale))
	}

	for i := range k.noise {
		k.noise[i] = types.Vec3{rng.Float32()*2 - 1, rng.Float32()*2 - 1, 0}
	}
	return k
}

// Build an orthonormal basis around n using a rotation vector.
func (k *ssaoKernel) basis(n, rotation types.Vec3) (tangent, bitangent types.Vec3) {
	tangent = rotation.Sub(n.Mul(rotation.Dot(n)))
	if tangent.Len() < 1e-4 {
		axis := types.Vec3{1, 0, 0}
		if math32.Abs(n[0]) > 0.9 {
			axis = types.Vec3{0, 1, 0}
		}
		tangent = axis.Sub(n.Mul(axis.Dot(n)))
	}
	tangent = tangent.Normalize()
	bitangent = n.Cross(tangent)
	return tangent, bitangent
}

// Run post-processing passes.
func (r *defaultRenderer) postProcess() error {
	if !r.opts.SSAO && r.opts.Shading != ShadeAO {
		return nil
	}

	if err := r.ssaoPass(); err != nil {
		return err
	}
	return r.ssaoBlurPass()
}

// Count the occluded kernel samples for every non-background pixel.
func (r *defaultRenderer) ssaoPass() error {
	fb := r.buffers
	cam := r.sc.Camera
	kernel := r.ssao
	radius := r.opts.SSAORadius

	return r.runPass(passSSAO, fb.H, func(req tracer.BlockRequest) error {
		for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
			for x := uint32(0); x < fb.W; x++ {
				i := fb.Index(x, y)
				if fb.Background(i) {
					continue
				}

				depth := fb.Depth[i]
				ndcX, ndcY := fb.PixelNDC(x, y)
				p := cam.CameraSpace(ndcX, ndcY, depth)
				n := fb.Normal[i]

				rotation := kernel.noise[(y%ssaoNoiseSize)*ssaoNoiseSize+(x%ssaoNoiseSize)]
				tangent, bitangent := kernel.basis(n, rotation)

				var occlusion float32
				for _, s := range kernel.samples {
					dir := tangent.Mul(s[0]).Add(bitangent.Mul(s[1])).Add(n.Mul(s[2]))
					if dir.Dot(n) < 0 {
						dir = dir.Neg()
					}
					sample := p.Add(dir.Mul(radius))

					sNdcX, sNdcY, ok := cam.ProjectCamera(sample)
					if !ok {
						continue
					}
					sx, sy := fb.NDCToScreen(sNdcX, sNdcY)
					if sx < 0 || sy < 0 || sx >= float32(fb.W) || sy >= float32(fb.H) {
						continue
					}

					stored := fb.Depth[fb.Index(uint32(sx), uint32(sy))]
					if math32.IsInf(stored, 1) || math32.Abs(stored-depth) > radius {
						continue
					}

					if stored < -sample[2]-ssaoBias {
						occlusion++
					}
				}
				fb.Occlusion[i] = occlusion
			}
		}
		return nil
	})
}

// Box blur the occlusion counts over non-background neighbors and darken the
// color buffer accordingly. Background pixels are never modified.
func (r *defaultRenderer) ssaoBlurPass() error {
	fb := r.buffers
	blur := int32(r.opts.SSAOBlur)
	scaler := r.opts.SSAOAmount / float32(len(r.ssao.samples))

	return r.runPass(passBlur, fb.H, func(req tracer.BlockRequest) error {
		for y := int32(req.BlockY); y < int32(req.BlockY+req.BlockH); y++ {
			for x := int32(0); x < int32(fb.W); x++ {
				i := fb.Index(uint32(x), uint32(y))
				if fb.Background(i) {
					continue
				}

				var sum, count float32
				for ny := y - blur; ny <= y+blur; ny++ {
					if ny < 0 || ny >= int32(fb.H) {
						continue
					}
					for nx := x - blur; nx <= x+blur; nx++ {
						if nx < 0 || nx >= int32(fb.W) {
							continue
						}
						ni := fb.Index(uint32(nx), uint32(ny))
						if fb.Background(ni) {
							continue
						}
						sum += fb.Occlusion[ni]
						count++
					}
				}

				fb.blurred[i] = sum / count
				factor := 1 - fb.blurred[i]*scaler
				c := fb.Color[i]
				fb.Color[i] = types.Vec4{c[0] * factor, c[1] * factor, c[2] * factor, c[3]}
			}
		}
		return nil
	})
}
