package tracer

import (
	"fmt"
	"time"
)

// A unit of work that is processed by a lane. Depending on the pass, the
// block covers a contiguous range of frame rows or a contiguous range of
// items (e.g. triangles).
type BlockRequest struct {
	// Block start and height.
	BlockY uint32
	BlockH uint32

	// The index of the lane processing this block.
	Lane int
}

// Lane statistics.
type Stats struct {
	// The processed block height
	BlockH uint32

	// The time for processing this block
	RenderTime time.Duration
}

// A Lane is a unit of parallelism that blocks are scheduled on.
type Lane interface {
	// Get lane id.
	Id() string

	// Get the lane's computation speed estimate compared to a
	// baseline (single cpu core) implementation.
	SpeedEstimate() float32

	// Retrieve last block statistics.
	Stats() *Stats
}

type cpuLane struct {
	id    string
	stats *Stats
}

// Create count lanes backed by goroutines. Each lane gets the same speed estimate.
func CPULanes(count int) []Lane {
	if count < 1 {
		count = 1
	}
	lanes := make([]Lane, count)
	for index := range lanes {
		lanes[index] = &cpuLane{
			id:    fmt.Sprintf("cpu-%d", index),
			stats: &Stats{},
		}
	}
	return lanes
}

func (l *cpuLane) Id() string {
	return l.id
}

func (l *cpuLane) SpeedEstimate() float32 {
	return 1.0
}

func (l *cpuLane) Stats() *Stats {
	return l.stats
}
