package renderer

import (
	"image"
	"image/color"

	"github.com/achilleasa/hybris/tracer"
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

// A rendered frame at display resolution.
type Frame struct {
	W, H uint32

	// Linear RGB color; the alpha channel stores the fraction of
	// sub-samples that recorded a surface.
	Color []types.Vec4

	// The closest camera-space depth over the pixel's sub-samples; +Inf
	// if none of them recorded a surface.
	Depth []float32
}

func newFrame(w, h uint32) *Frame {
	return &Frame{
		W:     w,
		H:     h,
		Color: make([]types.Vec4, int(w)*int(h)),
		Depth: make([]float32, int(w)*int(h)),
	}
}

// Get the color of pixel (x, y).
func (f *Frame) At(x, y uint32) types.Vec4 {
	return f.Color[int(y)*int(f.W)+int(x)]
}

// Returns true if any sub-sample of pixel (x, y) recorded a surface.
func (f *Frame) Foreground(x, y uint32) bool {
	return !math32.IsInf(f.Depth[int(y)*int(f.W)+int(x)], 1)
}

// Convert the frame to an 8-bit RGBA image. Colors are clamped to [0, 1]
// and written without gamma correction; the image is fully opaque.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(f.W), int(f.H)))
	for y := 0; y < int(f.H); y++ {
		for x := 0; x < int(f.W); x++ {
			c := f.Color[y*int(f.W)+x]
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(c[0]),
				G: toByte(c[1]),
				B: toByte(c[2]),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Downsample the effective frame buffers to display resolution.
func (r *defaultRenderer) resolve() (*Frame, error) {
	fb := r.buffers
	displayW, displayH := r.opts.DisplaySize()
	factor := fb.W / displayW
	frame := newFrame(displayW, displayH)
	invCount := 1.0 / float32(factor*factor)

	err := r.runPass(passResolve, displayH, func(req tracer.BlockRequest) error {
		for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
			for x := uint32(0); x < displayW; x++ {
				var sum types.Vec4
				depth := backgroundDepth
				for sy := y * factor; sy < (y+1)*factor; sy++ {
					for sx := x * factor; sx < (x+1)*factor; sx++ {
						i := fb.Index(sx, sy)
						sum = sum.Add(fb.Color[i])
						if fb.Depth[i] < depth {
							depth = fb.Depth[i]
						}
					}
				}

				out := int(y)*int(displayW) + int(x)
				frame.Color[out] = sum.Mul(invCount)
				frame.Depth[out] = depth
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frame, nil
}
