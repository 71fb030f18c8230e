package renderer

import (
	"time"

	"github.com/achilleasa/hybris/bvh"
)

type LaneStat struct {
	// The lane id.
	Id string

	// The block height and the percentage of the pass total it represents.
	BlockH  uint32
	Percent float32

	// Processing time for assigned block
	RenderTime time.Duration
}

type PassStat struct {
	// The pass name.
	Name string

	// The number of rows or items processed by the pass.
	Total uint32

	// Individual lane stats.
	Lanes []LaneStat

	// Total time for the pass.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual pass stats in execution order.
	Passes []PassStat

	// Octree statistics; nil if the frame was rendered without an octree.
	BVH *bvh.Stats

	// Projection statistics for hybrid frames.
	Raster RasterStats

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Find the stats for a named pass.
func (s FrameStats) Pass(name string) (PassStat, bool) {
	for _, pass := range s.Passes {
		if pass.Name == name {
			return pass, true
		}
	}
	return PassStat{}, false
}
