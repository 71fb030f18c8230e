package renderer

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// The largest supported supersampling factor.
	MaxSupersampling uint32 = 8

	// The largest supported effective frame area in pixels.
	MaxFramePixels uint64 = 1 << 26

	// The deepest supported octree.
	MaxBVHDepth uint32 = 32
)

// The render pass used for producing the visibility buffer.
type Mode uint8

const (
	// Rasterize triangles and ray trace shadows and analytic shapes.
	Hybrid Mode = iota

	// Ray trace every pixel.
	RayTrace
)

var modeNames = []string{"hybrid", "raytrace"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

// Parse a mode name.
func ParseMode(name string) (Mode, error) {
	for index, modeName := range modeNames {
		if strings.EqualFold(modeName, name) {
			return Mode(index), nil
		}
	}
	return Hybrid, fmt.Errorf("renderer: unknown mode %q; supported modes: %s", name, strings.Join(modeNames, ", "))
}

// The method used for coloring visible surfaces.
type Shading uint8

const (
	// Phong-style lighting with optional hard shadows.
	ShadeRayTraced Shading = iota

	// Absolute value of the surface normal.
	ShadeAbsNormal

	// Surface normal remapped to the [0, 1] range.
	ShadePastelNormal

	// Barycentric coordinates of the hit.
	ShadeBarycentric

	// White surfaces modulated by the ambient occlusion term.
	ShadeAO
)

var shadingNames = []string{"shaded", "abs-normal", "pastel-normal", "barycentric", "ao"}

func (s Shading) String() string {
	if int(s) < len(shadingNames) {
		return shadingNames[s]
	}
	return fmt.Sprintf("shading(%d)", s)
}

// Parse a shading method name.
func ParseShading(name string) (Shading, error) {
	for index, shadingName := range shadingNames {
		if strings.EqualFold(shadingName, name) {
			return Shading(index), nil
		}
	}
	return ShadeRayTraced, fmt.Errorf("renderer: unknown shading method %q; supported methods: %s", name, strings.Join(shadingNames, ", "))
}

type Options struct {
	// Display frame dims.
	FrameW uint32
	FrameH uint32

	// Supersampling factor; 1 disables supersampling.
	Supersampling uint32

	// Optional effective (render) resolution. When set, the display
	// resolution is derived by dividing it with the supersampling factor
	// and FrameW/FrameH are ignored. Both dimensions must be multiples of
	// the supersampling factor.
	RenderW uint32
	RenderH uint32

	// Clip triangles against the view frustum in hybrid mode.
	Clipping bool

	// Pipeline mode and shading method.
	Mode    Mode
	Shading Shading

	// Trace shadow rays.
	Shadows bool

	// Use an octree for ray queries instead of linearly scanning all triangles.
	UseBVH          bool
	BVHMaxDepth     uint32
	BVHMaxLeafItems uint32

	// Screen-space ambient occlusion.
	SSAO        bool
	SSAOSamples int
	SSAORadius  float32
	SSAOAmount  float32
	SSAOBlur    int

	// Per-channel lighting toggles.
	Ambient  bool
	Diffuse  bool
	Specular bool
	Emissive bool

	// Number of parallel lanes; values < 1 select the number of CPUs.
	Workers int
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:          512,
		FrameH:          512,
		Supersampling:   1,
		Clipping:        true,
		Mode:            Hybrid,
		Shading:         ShadeRayTraced,
		Shadows:         true,
		UseBVH:          true,
		BVHMaxDepth:     10,
		BVHMaxLeafItems: 8,
		SSAO:            false,
		SSAOSamples:     16,
		SSAORadius:      0.5,
		SSAOAmount:      0.8,
		SSAOBlur:        2,
		Ambient:         true,
		Diffuse:         true,
		Specular:        true,
		Emissive:        true,
		Workers:         runtime.NumCPU(),
	}
}

// Get the display resolution.
func (o *Options) DisplaySize() (w, h uint32) {
	if o.RenderW != 0 || o.RenderH != 0 {
		factor := o.factor()
		return o.RenderW / factor, o.RenderH / factor
	}
	return o.FrameW, o.FrameH
}

// Get the effective (render) resolution.
func (o *Options) EffectiveSize() (w, h uint32) {
	if o.RenderW != 0 || o.RenderH != 0 {
		return o.RenderW, o.RenderH
	}
	factor := o.factor()
	return o.FrameW * factor, o.FrameH * factor
}

func (o *Options) factor() uint32 {
	if o.Supersampling < 1 {
		return 1
	}
	return o.Supersampling
}

// Get the number of parallel lanes.
func (o *Options) lanes() int {
	if o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// Check the options for inconsistencies.
func (o *Options) Validate() error {
	if o.Supersampling < 1 || o.Supersampling > MaxSupersampling {
		return fmt.Errorf("%w: factor %d not in [1, %d]", ErrInvalidSupersampling, o.Supersampling, MaxSupersampling)
	}

	if o.RenderW != 0 || o.RenderH != 0 {
		if o.RenderW == 0 || o.RenderH == 0 {
			return fmt.Errorf("%w: render size %dx%d", ErrInvalidFrameSize, o.RenderW, o.RenderH)
		}
		if o.RenderW%o.Supersampling != 0 || o.RenderH%o.Supersampling != 0 {
			return fmt.Errorf("%w: render size %dx%d is not divisible by factor %d", ErrInvalidSupersampling, o.RenderW, o.RenderH, o.Supersampling)
		}
	}

	displayW, displayH := o.DisplaySize()
	if displayW == 0 || displayH == 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrInvalidFrameSize, displayW, displayH)
	}

	if uint64(displayW)*uint64(displayH) > MaxFramePixels {
		return fmt.Errorf("%w: display size %dx%d exceeds %d pixels", ErrFrameTooLarge, displayW, displayH, MaxFramePixels)
	}

	// Computed in 64 bits as the uint32 product may wrap.
	factor := uint64(o.factor())
	effectiveW, effectiveH := uint64(displayW)*factor, uint64(displayH)*factor
	if effectiveW*effectiveH > MaxFramePixels {
		return fmt.Errorf("%w: effective size %dx%d exceeds %d pixels", ErrFrameTooLarge, effectiveW, effectiveH, MaxFramePixels)
	}

	if o.UseBVH && (o.BVHMaxDepth == 0 || o.BVHMaxDepth > MaxBVHDepth || o.BVHMaxLeafItems == 0) {
		return fmt.Errorf("%w: max depth %d, max leaf items %d", ErrInvalidBVHOptions, o.BVHMaxDepth, o.BVHMaxLeafItems)
	}

	if o.SSAO || o.Shading == ShadeAO {
		switch {
		case o.SSAOSamples <= 0:
			return fmt.Errorf("%w: sample count %d", ErrInvalidSSAOOptions, o.SSAOSamples)
		case o.SSAORadius <= 0:
			return fmt.Errorf("%w: radius %f", ErrInvalidSSAOOptions, o.SSAORadius)
		case o.SSAOAmount < 0 || o.SSAOAmount > 1:
			return fmt.Errorf("%w: amount %f not in [0, 1]", ErrInvalidSSAOOptions, o.SSAOAmount)
		case o.SSAOBlur < 0:
			return fmt.Errorf("%w: blur size %d", ErrInvalidSSAOOptions, o.SSAOBlur)
		}
	}

	return nil
}
