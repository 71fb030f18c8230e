package renderer

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/hybris/bvh"
	"github.com/achilleasa/hybris/log"
	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/tracer"
)

// Pass names used for scheduling and statistics.
const (
	passRayTrace  = "raytrace"
	passProject   = "project"
	passRasterize = "rasterize"
	passShade     = "shade"
	passSSAO      = "ssao"
	passBlur      = "ssao-blur"
	passResolve   = "resolve"
)

type Renderer interface {
	// Render frame.
	Render() (*Frame, error)

	// Change the display resolution. The frame buffers are reallocated
	// before the next frame is rendered.
	Resize(frameW, frameH uint32) error

	// Replace the rendered scene.
	SetScene(sc *scene.Scene) error

	// Replace the render options.
	SetOptions(opts Options) error

	// Get the active render options.
	Options() Options

	// Get render statistics for the last rendered frame.
	Stats() FrameStats

	// Shutdown renderer and release its buffers.
	Close()
}

// A CPU renderer that produces frames by either ray tracing every pixel or
// rasterizing the scene triangles and ray tracing shadows.
//
// The mutex serializes Render with the methods that change the renderer
// configuration so that buffers are never resized while a pass is running.
type defaultRenderer struct {
	sync.Mutex

	logger log.Logger

	sc   *scene.Scene
	opts Options

	buffers *FrameBuffers
	tree    *bvh.Tree
	ssao    *ssaoKernel

	// Per-lane scratch state for the projection pass.
	rasterLanes []*rasterLane

	// A dispatcher per pass so that each one balances its own workload.
	dispatchers map[string]*tracer.Dispatcher

	bvhDirty bool
	closed   bool

	stats FrameStats
}

// Create a new renderer for a scene.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &defaultRenderer{
		logger:   log.New("renderer"),
		buffers:  &FrameBuffers{},
		bvhDirty: true,
	}
	r.applyOptions(opts)

	if err := r.SetScene(sc); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *defaultRenderer) applyOptions(opts Options) {
	if r.opts.lanes() != opts.lanes() || r.dispatchers == nil {
		r.dispatchers = make(map[string]*tracer.Dispatcher)
		r.rasterLanes = make([]*rasterLane, opts.lanes())
		for index := range r.rasterLanes {
			r.rasterLanes[index] = newRasterLane()
		}
	}

	if opts.SSAO || opts.Shading == ShadeAO {
		if r.ssao == nil || len(r.ssao.samples) != opts.SSAOSamples {
			r.ssao = newSSAOKernel(opts.SSAOSamples)
		}
	}

	if opts.UseBVH != r.opts.UseBVH || opts.BVHMaxDepth != r.opts.BVHMaxDepth || opts.BVHMaxLeafItems != r.opts.BVHMaxLeafItems {
		r.bvhDirty = true
	}
	r.opts = opts
}

// Replace the rendered scene.
func (r *defaultRenderer) SetScene(sc *scene.Scene) error {
	if sc == nil {
		return ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return ErrCameraNotDefined
	}

	r.Lock()
	defer r.Unlock()
	r.sc = sc
	r.bvhDirty = true
	return nil
}

// Replace the render options.
func (r *defaultRenderer) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	r.Lock()
	defer r.Unlock()
	r.applyOptions(opts)
	return nil
}

// Get the active render options.
func (r *defaultRenderer) Options() Options {
	r.Lock()
	defer r.Unlock()
	return r.opts
}

// Change the display resolution.
func (r *defaultRenderer) Resize(frameW, frameH uint32) error {
	r.Lock()
	defer r.Unlock()

	opts := r.opts
	opts.FrameW, opts.FrameH = frameW, frameH
	opts.RenderW, opts.RenderH = 0, 0
	if err := opts.Validate(); err != nil {
		return err
	}
	r.applyOptions(opts)
	return nil
}

// Get render statistics for the last rendered frame.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}

// Shutdown renderer and release its buffers.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()
	r.closed = true
	r.buffers = nil
	r.tree = nil
	r.rasterLanes = nil
}

// Render frame. Each frame goes through the following stages: configure
// buffers, refresh the octree (if needed), run the ray-trace or hybrid
// visibility pass, shade, post-process and resolve to display resolution.
func (r *defaultRenderer) Render() (*Frame, error) {
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return nil, ErrRendererClosed
	}

	start := time.Now()
	r.stats = FrameStats{}

	r.configureBuffers()
	r.refreshBVH()

	var err error
	switch r.opts.Mode {
	case RayTrace:
		err = r.rayTrace()
	default:
		err = r.rasterTrace()
	}
	if err != nil {
		return nil, err
	}

	if err = r.shadePass(); err != nil {
		return nil, err
	}

	if err = r.postProcess(); err != nil {
		return nil, err
	}

	frame, err := r.resolve()
	if err != nil {
		return nil, err
	}

	r.stats.RenderTime = time.Since(start)
	r.logger.Noticef(
		"rendered %dx%d frame (%s, %s, effective size %dx%d) in %d ms",
		frame.W, frame.H, r.opts.Mode, r.opts.Shading, r.buffers.W, r.buffers.H,
		r.stats.RenderTime.Nanoseconds()/1e6,
	)
	return frame, nil
}

// Resize and clear the frame buffers and sync the camera projection.
func (r *defaultRenderer) configureBuffers() {
	w, h := r.opts.EffectiveSize()
	if r.buffers.Resize(w, h) {
		r.logger.Infof("allocated %dx%d frame buffers", w, h)
		r.bvhDirty = true
	}
	r.buffers.Clear(r.sc.Env.Background)

	displayW, displayH := r.opts.DisplaySize()
	r.sc.Camera.SetupProjection(float32(displayW) / float32(displayH))
}

// Rebuild the octree if the scene or the octree options have changed.
func (r *defaultRenderer) refreshBVH() {
	if !r.opts.UseBVH {
		r.tree = nil
		return
	}

	if r.tree == nil || r.bvhDirty {
		r.tree = bvh.Build(r.sc.Triangles, bvh.Options{
			MaxDepth:     int(r.opts.BVHMaxDepth),
			MaxLeafItems: int(r.opts.BVHMaxLeafItems),
		})
		r.bvhDirty = false
		r.logger.Infof("built octree over %d triangles in %d ms", len(r.sc.Triangles), r.tree.Stats().BuildTime.Nanoseconds()/1e6)
	}

	stats := r.tree.Stats()
	r.stats.BVH = &stats
}

// Split total rows (or items) across the lanes of the named pass and record
// the pass statistics.
func (r *defaultRenderer) runPass(name string, total uint32, fn func(tracer.BlockRequest) error) error {
	d, ok := r.dispatchers[name]
	if !ok {
		d = tracer.NewDispatcher(tracer.CPULanes(r.opts.lanes()), tracer.PerfectScheduler())
		r.dispatchers[name] = d
	}

	start := time.Now()
	err := d.Dispatch(total, fn)
	passStat := PassStat{
		Name:       name,
		Total:      total,
		RenderTime: time.Since(start),
	}
	for _, lane := range d.Lanes() {
		laneStats := lane.Stats()
		laneStat := LaneStat{
			Id:         lane.Id(),
			BlockH:     laneStats.BlockH,
			RenderTime: laneStats.RenderTime,
		}
		if total > 0 {
			laneStat.Percent = 100.0 * float32(laneStats.BlockH) / float32(total)
		}
		passStat.Lanes = append(passStat.Lanes, laneStat)
	}
	r.stats.Passes = append(r.stats.Passes, passStat)

	r.logger.Debugf("%s pass: %d items in %d ms", name, total, passStat.RenderTime.Nanoseconds()/1e6)
	if err != nil {
		return fmt.Errorf("renderer: %s pass failed: %w", name, err)
	}
	return nil
}
