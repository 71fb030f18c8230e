package renderer

import (
	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

// The depth value of pixels that did not record any surface.
var backgroundDepth = math32.Inf(1)

// FrameBuffers holds the per-pixel state produced by a render pass at the
// effective render resolution. Pixels are stored in row-major order with
// pixel (0, 0) at the top-left corner.
type FrameBuffers struct {
	W, H uint32

	// RGB color and coverage (0 for background, 1 for surfaces).
	Color []types.Vec4

	// Camera-space depth; +Inf for background pixels.
	Depth []float32

	// Normalized camera-space normal facing the camera.
	Normal []types.Vec3

	// The visible surface at each pixel.
	Hits []scene.HitInfo

	// Raw and blurred ambient occlusion sample counts.
	Occlusion []float32
	blurred   []float32
}

// Allocate frame buffers for a w x h frame.
func NewFrameBuffers(w, h uint32) *FrameBuffers {
	fb := &FrameBuffers{}
	fb.Resize(w, h)
	return fb
}

// Resize the buffers. Buffers are only reallocated when the dimensions
// change. Returns true if the buffers were reallocated.
func (fb *FrameBuffers) Resize(w, h uint32) bool {
	if fb.W == w && fb.H == h && fb.Color != nil {
		return false
	}

	size := int(w) * int(h)
	fb.W, fb.H = w, h
	fb.Color = make([]types.Vec4, size)
	fb.Depth = make([]float32, size)
	fb.Normal = make([]types.Vec3, size)
	fb.Hits = make([]scene.HitInfo, size)
	fb.Occlusion = make([]float32, size)
	fb.blurred = make([]float32, size)
	return true
}

// Reset all buffers to the background state without reallocating them.
func (fb *FrameBuffers) Clear(background types.Vec3) {
	bg := background.Vec4(0)
	miss := scene.Miss()
	for i := range fb.Color {
		fb.Color[i] = bg
		fb.Depth[i] = backgroundDepth
		fb.Normal[i] = types.Vec3{}
		fb.Hits[i] = miss
		fb.Occlusion[i] = 0
		fb.blurred[i] = 0
	}
}

// Get the buffer offset for pixel (x, y).
func (fb *FrameBuffers) Index(x, y uint32) int {
	return int(y)*int(fb.W) + int(x)
}

// Returns true if no surface was recorded at buffer offset i.
func (fb *FrameBuffers) Background(i int) bool {
	return math32.IsInf(fb.Depth[i], 1)
}

// Get the normalized device coordinates of the center of pixel (x, y).
func (fb *FrameBuffers) PixelNDC(x, y uint32) (ndcX, ndcY float32) {
	ndcX = (float32(x)+0.5)/float32(fb.W)*2 - 1
	ndcY = 1 - (float32(y)+0.5)/float32(fb.H)*2
	return ndcX, ndcY
}

// Map normalized device coordinates to continuous screen coordinates with
// the origin at the top-left frame corner.
func (fb *FrameBuffers) NDCToScreen(ndcX, ndcY float32) (sx, sy float32) {
	return (ndcX + 1) * 0.5 * float32(fb.W), (1 - ndcY) * 0.5 * float32(fb.H)
}
