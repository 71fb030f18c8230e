package renderer

import (
	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/tracer"
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

// Vertices with a clip-space w at or below this value cannot be projected.
const minClipW float32 = 1e-6

// A projected vertex in continuous screen space (y axis pointing down).
type screenVertex struct {
	X, Y float32

	// 1/w; w is the camera-space depth of the vertex.
	InvW float32

	// Source triangle barycentrics divided by w.
	BaryW types.Vec3
}

// A projected triangle ready for rasterization. Vertices are ordered so that
// the edge function area is positive.
type screenTriangle struct {
	V         [3]screenVertex
	Area      float32
	Primitive int32

	// Inclusive pixel bounds clamped to the frame.
	MinX, MinY, MaxX, MaxY int32
}

// Projection statistics.
type RasterStats struct {
	// Triangles fed to the projection pass.
	Triangles int

	// Triangles discarded because they were outside the frustum, could not
	// be projected or had zero screen area.
	Discarded int

	// Triangles that crossed at least one frustum plane.
	Clipped int

	// Screen triangles produced for the rasterizer.
	Emitted int
}

func (s *RasterStats) add(other RasterStats) {
	s.Triangles += other.Triangles
	s.Discarded += other.Discarded
	s.Clipped += other.Clipped
	s.Emitted += other.Emitted
}

// Per-lane projection state.
type rasterLane struct {
	clipper *clipper
	tris    []screenTriangle
	stats   RasterStats
}

func newRasterLane() *rasterLane {
	return &rasterLane{
		clipper: newClipper(),
	}
}

// Run the hybrid visibility pass: project and clip triangles in parallel
// (each lane processes a contiguous triangle range into its own output list)
// and then rasterize them with each lane owning a band of rows so that no two
// lanes ever write the same pixel.
func (r *defaultRenderer) rasterTrace() error {
	if err := r.projectTriangles(); err != nil {
		return err
	}

	fb := r.buffers
	return r.runPass(passRasterize, fb.H, func(req tracer.BlockRequest) error {
		y0, y1 := int32(req.BlockY), int32(req.BlockY+req.BlockH)
		for _, rl := range r.rasterLanes {
			for index := range rl.tris {
				r.rasterizeTriangle(&rl.tris[index], y0, y1)
			}
		}

		if len(r.sc.Shapes) != 0 {
			r.traceShapes(req.BlockY, req.BlockY+req.BlockH)
		}
		return nil
	})
}

func (r *defaultRenderer) projectTriangles() error {
	for _, rl := range r.rasterLanes {
		rl.tris = rl.tris[:0]
		rl.stats = RasterStats{}
	}

	cam := r.sc.Camera
	tris := r.sc.Triangles
	err := r.runPass(passProject, uint32(len(tris)), func(req tracer.BlockRequest) error {
		rl := r.rasterLanes[req.Lane]
		for index := req.BlockY; index < req.BlockY+req.BlockH; index++ {
			tri := &tris[index]
			rl.stats.Triangles++

			src := clipTriangle{
				{Pos: cam.ToClip(tri.V[0]), Bary: types.Vec3{1, 0, 0}},
				{Pos: cam.ToClip(tri.V[1]), Bary: types.Vec3{0, 1, 0}},
				{Pos: cam.ToClip(tri.V[2]), Bary: types.Vec3{0, 0, 1}},
			}

			if !r.opts.Clipping {
				if src[0].Pos[3] <= minClipW || src[1].Pos[3] <= minClipW || src[2].Pos[3] <= minClipW {
					rl.stats.Discarded++
					continue
				}
				if !r.emit(rl, &src, int32(index)) {
					rl.stats.Discarded++
				}
				continue
			}

			clipped := rl.clipper.clip(src)
			if len(clipped) == 0 {
				rl.stats.Discarded++
				continue
			}
			if len(clipped) != 1 || clipped[0] != src {
				rl.stats.Clipped++
			}

			var emitted bool
			for ci := range clipped {
				if r.emit(rl, &clipped[ci], int32(index)) {
					emitted = true
				}
			}
			if !emitted {
				rl.stats.Discarded++
			}
		}
		return nil
	})

	for _, rl := range r.rasterLanes {
		r.stats.Raster.add(rl.stats)
	}
	return err
}

// Project a clip-space triangle to screen space and append it to the lane's
// output. Returns false if the triangle does not cover any pixel center.
func (r *defaultRenderer) emit(rl *rasterLane, tri *clipTriangle, primitive int32) bool {
	fb := r.buffers

	var st screenTriangle
	for k := 0; k < 3; k++ {
		w := tri[k].Pos[3]
		if w <= minClipW {
			return false
		}
		invW := 1.0 / w
		sx, sy := fb.NDCToScreen(tri[k].Pos[0]*invW, tri[k].Pos[1]*invW)
		st.V[k] = screenVertex{
			X:     sx,
			Y:     sy,
			InvW:  invW,
			BaryW: tri[k].Bary.Mul(invW),
		}
	}

	st.Area = edgeFunction(&st.V[0], &st.V[1], st.V[2].X, st.V[2].Y)
	if st.Area == 0 || math32.IsNaN(st.Area) {
		return false
	}
	if st.Area < 0 {
		st.V[1], st.V[2] = st.V[2], st.V[1]
		st.Area = -st.Area
	}

	minX := math32.Min(st.V[0].X, math32.Min(st.V[1].X, st.V[2].X))
	maxX := math32.Max(st.V[0].X, math32.Max(st.V[1].X, st.V[2].X))
	minY := math32.Min(st.V[0].Y, math32.Min(st.V[1].Y, st.V[2].Y))
	maxY := math32.Max(st.V[0].Y, math32.Max(st.V[1].Y, st.V[2].Y))

	// Pixel x covers the [x, x+1) range and is sampled at x + 0.5.
	st.MinX = int32(math32.Max(0, math32.Floor(minX-0.5)))
	st.MinY = int32(math32.Max(0, math32.Floor(minY-0.5)))
	st.MaxX = int32(math32.Min(float32(fb.W-1), math32.Ceil(maxX-0.5)))
	st.MaxY = int32(math32.Min(float32(fb.H-1), math32.Ceil(maxY-0.5)))
	if st.MinX > st.MaxX || st.MinY > st.MaxY {
		return false
	}

	st.Primitive = primitive
	rl.tris = append(rl.tris, st)
	rl.stats.Emitted++
	return true
}

// Evaluate the edge function for edge a->b at point p. With the y axis
// pointing down, the value is positive for points to the right of the edge
// when looking along it on screen.
func edgeFunction(a, b *screenVertex, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// Top-left fill rule for a triangle with positive edge function area: pixel
// centers lying exactly on a top edge (horizontal, interior below it) or a
// left edge (interior to its right) are inside; centers on any other edge are
// outside. Two triangles sharing an edge therefore never both cover a pixel
// center lying on it.
func isTopLeft(a, b *screenVertex) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return (dy == 0 && dx > 0) || dy < 0
}

// Rasterize the part of a screen triangle that falls in rows [y0, y1).
func (r *defaultRenderer) rasterizeTriangle(st *screenTriangle, y0, y1 int32) {
	minY := st.MinY
	if minY < y0 {
		minY = y0
	}
	maxY := st.MaxY
	if maxY > y1-1 {
		maxY = y1 - 1
	}
	if minY > maxY {
		return
	}

	fb := r.buffers
	v0, v1, v2 := &st.V[0], &st.V[1], &st.V[2]
	topLeft0 := isTopLeft(v1, v2)
	topLeft1 := isTopLeft(v2, v0)
	topLeft2 := isTopLeft(v0, v1)
	invArea := 1.0 / st.Area

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := st.MinX; x <= st.MaxX; x++ {
			px := float32(x) + 0.5

			w0 := edgeFunction(v1, v2, px, py)
			if w0 < 0 || (w0 == 0 && !topLeft0) {
				continue
			}
			w1 := edgeFunction(v2, v0, px, py)
			if w1 < 0 || (w1 == 0 && !topLeft1) {
				continue
			}
			w2 := edgeFunction(v0, v1, px, py)
			if w2 < 0 || (w2 == 0 && !topLeft2) {
				continue
			}

			// Screen-space barycentrics; 1/w is affine in screen space
			// so interpolating it and inverting the result yields the
			// perspective-correct depth.
			l0, l1, l2 := w0*invArea, w1*invArea, w2*invArea
			invW := l0*v0.InvW + l1*v1.InvW + l2*v2.InvW
			if invW <= 0 {
				continue
			}
			depth := 1.0 / invW

			i := fb.Index(uint32(x), uint32(y))
			if !(depth < fb.Depth[i]) {
				continue
			}

			bary := v0.BaryW.Mul(l0).Add(v1.BaryW.Mul(l1)).Add(v2.BaryW.Mul(l2)).Mul(depth)
			r.recordRasterHit(i, uint32(x), uint32(y), depth, st.Primitive, bary)
		}
	}
}

// Store a rasterized fragment in the visibility, depth and normal buffers.
func (r *defaultRenderer) recordRasterHit(i int, x, y uint32, depth float32, primitive int32, bary types.Vec3) {
	fb := r.buffers
	cam := r.sc.Camera
	tri := &r.sc.Triangles[primitive]

	ndcX, ndcY := fb.PixelNDC(x, y)
	pCam := cam.CameraSpace(ndcX, ndcY, depth)

	normal := cam.DirToCamera(tri.Normal).Normalize()
	if normal.Dot(pCam) > 0 {
		normal = normal.Neg()
	}

	fb.Hits[i] = scene.HitInfo{
		T:         pCam.Len(),
		U:         bary[1],
		V:         bary[2],
		Material:  tri.Material,
		Normal:    tri.Normal,
		Primitive: primitive,
	}
	fb.Depth[i] = depth
	fb.Normal[i] = normal
}
