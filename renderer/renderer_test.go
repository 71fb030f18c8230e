package renderer

import (
	"errors"
	"testing"

	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

func testOptions(w, h uint32) Options {
	opts := DefaultOptions()
	opts.FrameW, opts.FrameH = w, h
	opts.Workers = 3
	return opts
}

func renderBuiltin(t *testing.T, name string, opts Options) (*Frame, FrameStats) {
	sc, err := scene.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewDefault(sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	frame, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	return frame, r.Stats()
}

func TestRendererLifecycle(t *testing.T) {
	if _, err := NewDefault(nil, DefaultOptions()); err != ErrSceneNotDefined {
		t.Fatalf("expected error %v; got %v", ErrSceneNotDefined, err)
	}
	if _, err := NewDefault(scene.NewScene(), DefaultOptions()); err != ErrCameraNotDefined {
		t.Fatalf("expected error %v; got %v", ErrCameraNotDefined, err)
	}

	sc, _ := scene.Builtin("triangle")
	bad := DefaultOptions()
	bad.Supersampling = 0
	if _, err := NewDefault(sc, bad); !errors.Is(err, ErrInvalidSupersampling) {
		t.Fatalf("expected error %v; got %v", ErrInvalidSupersampling, err)
	}

	r, err := NewDefault(sc, testOptions(16, 8))
	if err != nil {
		t.Fatal(err)
	}

	frame, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	if frame.W != 16 || frame.H != 8 {
		t.Fatalf("expected a 16x8 frame; got %dx%d", frame.W, frame.H)
	}

	if err = r.Resize(0, 10); !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("expected error %v; got %v", ErrInvalidFrameSize, err)
	}
	if err = r.Resize(10, 20); err != nil {
		t.Fatal(err)
	}
	if frame, err = r.Render(); err != nil {
		t.Fatal(err)
	}
	if frame.W != 10 || frame.H != 20 || len(frame.Color) != 200 {
		t.Fatalf("expected a 10x20 frame after resizing; got %dx%d", frame.W, frame.H)
	}

	r.Close()
	if _, err = r.Render(); err != ErrRendererClosed {
		t.Fatalf("expected error %v; got %v", ErrRendererClosed, err)
	}
}

func TestSphereSilhouette(t *testing.T) {
	// The sphere subtends asin(1/5) around the view axis; its projected
	// radius is tan(asin(1/5)) / tan(30deg) in NDC units.
	expRadius := math32.Tan(math32.Asin(0.2)) / math32.Tan(math32.Pi/6) * 32

	for _, mode := range []Mode{Hybrid, RayTrace} {
		opts := testOptions(64, 64)
		opts.Mode = mode
		opts.Shadows = false
		frame, _ := renderBuiltin(t, "sphere", opts)

		for y := uint32(0); y < frame.H; y++ {
			for x := uint32(0); x < frame.W; x++ {
				dx := float32(x) + 0.5 - 32
				dy := float32(y) + 0.5 - 32
				dist := math32.Sqrt(dx*dx + dy*dy)
				switch {
				case dist < expRadius-1 && !frame.Foreground(x, y):
					t.Fatalf("[%s] expected pixel (%d, %d) at distance %f to be covered", mode, x, y, dist)
				case dist > expRadius+1 && frame.Foreground(x, y):
					t.Fatalf("[%s] expected pixel (%d, %d) at distance %f to be background", mode, x, y, dist)
				}
			}
		}

		// The center of the sphere faces the light.
		if c := frame.At(32, 32); c[0] < 0.5 {
			t.Fatalf("[%s] expected the sphere center to receive diffuse light; got %v", mode, c)
		}

		// Background pixels keep the environment color.
		bg := scene.DefaultEnvironment().Background
		if c := frame.At(0, 0); c.Vec3() != bg || c[3] != 0 {
			t.Fatalf("[%s] expected background color %v; got %v", mode, bg, c)
		}
	}
}

func TestLightingToggles(t *testing.T) {
	opts := testOptions(32, 32)
	opts.Diffuse, opts.Specular, opts.Emissive = false, false, false
	frame, _ := renderBuiltin(t, "sphere", opts)

	// Sphere ambient reflectance times the environment ambient light.
	exp := types.XYZ(0.1, 0.02, 0.02)
	if c := frame.At(16, 16).Vec3(); !c.ApproxEqual(exp, 1e-5) {
		t.Fatalf("expected ambient-only color %v; got %v", exp, c)
	}

	opts.Ambient = false
	frame, _ = renderBuiltin(t, "sphere", opts)
	if c := frame.At(16, 16).Vec3(); c != (types.Vec3{}) {
		t.Fatalf("expected black surface with all lighting terms disabled; got %v", c)
	}
}

func TestBVHMatchesLinearScan(t *testing.T) {
	for _, name := range []string{"triangle", "cornell"} {
		for _, mode := range []Mode{Hybrid, RayTrace} {
			opts := testOptions(48, 48)
			opts.Mode = mode
			withTree, stats := renderBuiltin(t, name, opts)
			if stats.BVH == nil {
				t.Fatalf("[%s/%s] expected octree stats", name, mode)
			}

			opts.UseBVH = false
			linear, stats := renderBuiltin(t, name, opts)
			if stats.BVH != nil {
				t.Fatalf("[%s/%s] expected no octree stats", name, mode)
			}

			for i := range withTree.Color {
				if withTree.Color[i] != linear.Color[i] || withTree.Depth[i] != linear.Depth[i] {
					t.Fatalf("[%s/%s] expected pixel %d to match; got %v and %v", name, mode, i, withTree.Color[i], linear.Color[i])
				}
			}
		}
	}
}

func TestRasterMatchesRayTrace(t *testing.T) {
	for _, name := range []string{"triangle", "quad", "cornell"} {
		opts := testOptions(64, 64)
		opts.Mode = Hybrid
		raster, _ := renderBuiltin(t, name, opts)
		opts.Mode = RayTrace
		traced, _ := renderBuiltin(t, name, opts)

		var foreground, mismatched int
		for y := uint32(0); y < raster.H; y++ {
			for x := uint32(0); x < raster.W; x++ {
				rf, tf := raster.Foreground(x, y), traced.Foreground(x, y)
				if rf || tf {
					foreground++
				}
				if rf != tf {
					mismatched++
					continue
				}
				if !rf {
					continue
				}

				i := int(y)*int(raster.W) + int(x)
				rd, td := raster.Depth[i], traced.Depth[i]
				if math32.Abs(rd-td) > 1e-3*td {
					t.Fatalf("[%s] expected raster depth %f at (%d, %d) to match traced depth %f", name, rd, x, y, td)
				}
			}
		}

		// Coverage may only differ on silhouette edges.
		if mismatched*50 > foreground {
			t.Fatalf("[%s] expected coverage to match; %d of %d pixels differ", name, mismatched, foreground)
		}
	}
}

func TestSupersamplingCoverage(t *testing.T) {
	opts := testOptions(32, 32)
	frame1, _ := renderBuiltin(t, "quad", opts)

	opts.Supersampling = 2
	frame2, _ := renderBuiltin(t, "quad", opts)
	if frame2.W != 32 || frame2.H != 32 {
		t.Fatalf("expected supersampled frame at display resolution; got %dx%d", frame2.W, frame2.H)
	}

	// The quad covers exactly the central 16x16 pixel square.
	var covered int
	for y := uint32(0); y < 32; y++ {
		for x := uint32(0); x < 32; x++ {
			if frame1.Foreground(x, y) != frame2.Foreground(x, y) {
				t.Fatalf("expected pixel (%d, %d) coverage to match", x, y)
			}
			if frame1.Foreground(x, y) {
				covered++
				if a := frame2.At(x, y)[3]; a != 1 {
					t.Fatalf("expected full sub-sample coverage at (%d, %d); got %f", x, y, a)
				}
			}
		}
	}
	if covered != 256 {
		t.Fatalf("expected 256 covered pixels; got %d", covered)
	}

	// A pixel counts as foreground if any of its sub-samples is covered so
	// on curved edges coverage may only change along the silhouette.
	expRadius := math32.Tan(math32.Asin(0.2)) / math32.Tan(math32.Pi/6) * 32
	opts = testOptions(64, 64)
	opts.Shadows = false
	sphere1, _ := renderBuiltin(t, "sphere", opts)
	opts.Supersampling = 2
	sphere2, _ := renderBuiltin(t, "sphere", opts)

	var changed int
	for y := uint32(0); y < 64; y++ {
		for x := uint32(0); x < 64; x++ {
			if sphere1.Foreground(x, y) == sphere2.Foreground(x, y) {
				continue
			}
			changed++
			dx := float32(x) + 0.5 - 32
			dy := float32(y) + 0.5 - 32
			if dist := math32.Sqrt(dx*dx + dy*dy); math32.Abs(dist-expRadius) > 1.5 {
				t.Fatalf("expected coverage changes only on the silhouette; pixel (%d, %d) at distance %f changed", x, y, dist)
			}
		}
	}
	if changed > int(4*math32.Pi*expRadius) {
		t.Fatalf("expected coverage changes to be limited to the silhouette ring; %d pixels changed", changed)
	}
}

func TestFillRule(t *testing.T) {
	sc := scene.NewScene()
	cam := scene.NewCamera(90)
	cam.SetupProjection(1)
	sc.SetCamera(cam)
	sc.AddTriangle(scene.NewTriangle(types.XYZ(0, 0, -1), types.XYZ(1, 0, -1), types.XYZ(1, 1, -1), scene.DefaultMaterialIndex))
	sc.AddTriangle(scene.NewTriangle(types.XYZ(0, 0, -1), types.XYZ(1, 1, -1), types.XYZ(0, 1, -1), scene.DefaultMaterialIndex))

	r := &defaultRenderer{sc: sc, buffers: NewFrameBuffers(8, 8)}
	fb := r.buffers

	// A square whose edges and diagonal pass through pixel centers,
	// split along the diagonal.
	ndc := func(sx, sy float32) clipVertex {
		return clipVert(sx/4-1, 1-sy/4, 0, 1)
	}
	a, b, c, d := ndc(1.5, 1.5), ndc(5.5, 1.5), ndc(5.5, 5.5), ndc(1.5, 5.5)

	rl := newRasterLane()
	for _, tri := range []clipTriangle{{a, b, c}, {a, c, d}, {a, c, b}} {
		if !r.emit(rl, &tri, int32(len(rl.tris)%2)) {
			t.Fatalf("expected triangle %v to be emitted", tri)
		}
	}

	type spec struct {
		tris []int
	}

	// The last triangle repeats the first with reverse winding.
	specs := []spec{{[]int{0, 1}}, {[]int{2, 1}}}
	for specIndex, s := range specs {
		coverage := make([]int, len(fb.Depth))
		for _, index := range s.tris {
			fb.Clear(types.Vec3{})
			r.rasterizeTriangle(&rl.tris[index], 0, int32(fb.H))
			for i := range fb.Depth {
				if !fb.Background(i) {
					coverage[i]++
				}
			}
		}

		for y := uint32(0); y < fb.H; y++ {
			for x := uint32(0); x < fb.W; x++ {
				exp := 0
				if x >= 1 && x <= 4 && y >= 1 && y <= 4 {
					exp = 1
				}
				if got := coverage[fb.Index(x, y)]; got != exp {
					t.Fatalf("[spec %d] expected pixel (%d, %d) to be covered %d times; got %d", specIndex, x, y, exp, got)
				}
			}
		}
	}
}

func TestShadows(t *testing.T) {
	opts := testOptions(64, 64)
	opts.Shadows = false
	lit, _ := renderBuiltin(t, "cornell", opts)

	opts.Shadows = true
	shadowed, _ := renderBuiltin(t, "cornell", opts)

	var darker int
	for i := range lit.Color {
		for ch := 0; ch < 3; ch++ {
			if shadowed.Color[i][ch] > lit.Color[i][ch]+1e-5 {
				t.Fatalf("expected shadows to never brighten pixel %d; got %v > %v", i, shadowed.Color[i], lit.Color[i])
			}
		}
		if shadowed.Color[i].Vec3() != lit.Color[i].Vec3() {
			darker++
		}
	}
	if darker == 0 {
		t.Fatal("expected some pixels to be in shadow")
	}
}

func TestSSAO(t *testing.T) {
	opts := testOptions(64, 64)
	plain, _ := renderBuiltin(t, "cornell", opts)

	opts.SSAO = true
	occluded, _ := renderBuiltin(t, "cornell", opts)

	var darker int
	for y := uint32(0); y < plain.H; y++ {
		for x := uint32(0); x < plain.W; x++ {
			p, o := plain.At(x, y), occluded.At(x, y)
			if !plain.Foreground(x, y) {
				if p != o {
					t.Fatalf("expected background pixel (%d, %d) to be untouched; got %v, want %v", x, y, o, p)
				}
				continue
			}
			for ch := 0; ch < 3; ch++ {
				if o[ch] > p[ch]+1e-5 {
					t.Fatalf("expected occlusion to never brighten pixel (%d, %d); got %v > %v", x, y, o, p)
				}
			}
			if o[3] != p[3] {
				t.Fatalf("expected coverage at (%d, %d) to be unchanged; got %f, want %f", x, y, o[3], p[3])
			}
			if o.Vec3() != p.Vec3() {
				darker++
			}
		}
	}
	if darker == 0 {
		t.Fatal("expected the box corners to be occluded")
	}
}

func TestAOShading(t *testing.T) {
	opts := testOptions(48, 48)
	opts.Shading = ShadeAO
	frame, _ := renderBuiltin(t, "cornell", opts)

	minValue := 1 - opts.SSAOAmount - 1e-5
	for y := uint32(0); y < frame.H; y++ {
		for x := uint32(0); x < frame.W; x++ {
			if !frame.Foreground(x, y) {
				continue
			}
			c := frame.At(x, y)
			if c[0] < minValue || c[0] > 1 || c[0] != c[1] || c[1] != c[2] {
				t.Fatalf("expected gray occlusion value in [%f, 1] at (%d, %d); got %v", minValue, x, y, c)
			}
		}
	}
}

func TestDebugShading(t *testing.T) {
	type spec struct {
		shading Shading
		check   func(c types.Vec3) bool
	}

	specs := []spec{
		// The triangle lies in a z plane so the normal is +/-Z.
		{ShadeAbsNormal, func(c types.Vec3) bool { return c.ApproxEqual(types.XYZ(0, 0, 1), 1e-4) }},
		{ShadePastelNormal, func(c types.Vec3) bool { return c.ApproxEqual(types.XYZ(0.5, 0.5, 1), 1e-4) }},
		{ShadeBarycentric, func(c types.Vec3) bool {
			sum := c[0] + c[1] + c[2]
			return c[0] >= -1e-4 && c[1] >= -1e-4 && c[2] >= -1e-4 && math32.Abs(sum-1) < 1e-4
		}},
	}

	for specIndex, s := range specs {
		for _, mode := range []Mode{Hybrid, RayTrace} {
			opts := testOptions(32, 32)
			opts.Mode = mode
			opts.Shading = s.shading
			frame, _ := renderBuiltin(t, "triangle", opts)

			var covered int
			for y := uint32(0); y < frame.H; y++ {
				for x := uint32(0); x < frame.W; x++ {
					if !frame.Foreground(x, y) {
						continue
					}
					covered++
					if c := frame.At(x, y).Vec3(); !s.check(c) {
						t.Fatalf("[spec %d/%s] unexpected color %v at (%d, %d)", specIndex, mode, c, x, y)
					}
				}
			}
			if covered == 0 {
				t.Fatalf("[spec %d/%s] expected the triangle to be visible", specIndex, mode)
			}
		}
	}
}

func TestFrameStats(t *testing.T) {
	sc, _ := scene.Builtin("cornell")
	r, err := NewDefault(sc, testOptions(32, 32))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	// Render twice so that the schedulers use timing feedback.
	for pass := 0; pass < 2; pass++ {
		if _, err = r.Render(); err != nil {
			t.Fatal(err)
		}
	}

	stats := r.Stats()
	for _, name := range []string{passProject, passRasterize, passShade, passResolve} {
		pass, ok := stats.Pass(name)
		if !ok {
			t.Fatalf("expected stats for pass %q", name)
		}

		var total uint32
		for _, lane := range pass.Lanes {
			total += lane.BlockH
		}
		if total != pass.Total {
			t.Fatalf("expected %q lane blocks to add up to %d; got %d", name, pass.Total, total)
		}
	}
	if _, ok := stats.Pass(passRayTrace); ok {
		t.Fatal("expected no ray trace pass in hybrid mode")
	}

	if stats.Raster.Triangles != len(sc.Triangles) {
		t.Fatalf("expected %d projected triangles; got %d", len(sc.Triangles), stats.Raster.Triangles)
	}
	if stats.Raster.Emitted == 0 {
		t.Fatal("expected some triangles to reach the rasterizer")
	}
}
