package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split a range of total rows (or items) into blocks of variable
	// height and assign them to the pool of lanes, optionally using
	// feedback collected from previous passes.
	//
	// This function returns the block height assignment for each lane
	// in the input list. The assignments always add up to total.
	Schedule(lanes []Lane, total uint32) []uint32
}

type naiveScheduler struct{}

// Create a scheduler that splits work according to each lane's speed estimate.
func NaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (sch naiveScheduler) Schedule(lanes []Lane, total uint32) []uint32 {
	return speedAssignment(lanes, total)
}

// The perfect scheduler assumes that the volume of work between two
// subsequent passes is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split work into blocks of variable height and assign to the pool
// of lanes using feedback collected from previous passes.
//
// When previous pass information is available the scheduler uses the
// following formula for estimating the workload for lane w and pass i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(lanes []Lane, total uint32) []uint32 {
	// If this is the first time we try to schedule or the number of lanes
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(lanes) {
		sch.blockAssignment = speedAssignment(lanes, total)
		return sch.blockAssignment
	}

	// Use last pass statistics
	var sum float64
	throughput := make([]float64, len(lanes))
	for idx, lane := range lanes {
		stats := lane.Stats()
		if stats.BlockH == 0 || stats.RenderTime <= 0 {
			continue
		}
		throughput[idx] = float64(stats.BlockH) / float64(stats.RenderTime)
		sum += throughput[idx]
	}

	// No usable feedback
	if sum == 0 {
		sch.blockAssignment = speedAssignment(lanes, total)
		return sch.blockAssignment
	}

	scaler := float64(total) / sum
	for idx := range lanes {
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(throughput[idx]*scaler)))
	}

	balance(sch.blockAssignment, total)
	return sch.blockAssignment
}

// Distribute rows according to each lane's speed estimate.
func speedAssignment(lanes []Lane, total uint32) []uint32 {
	blockAssignment := make([]uint32, len(lanes))
	if len(lanes) == 0 {
		return blockAssignment
	}

	var sum float64
	for _, lane := range lanes {
		sum += float64(lane.SpeedEstimate())
	}
	scaler := float64(total) / sum

	for idx, lane := range lanes {
		blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(lane.SpeedEstimate())*scaler)))
	}

	balance(blockAssignment, total)
	return blockAssignment
}

// Adjust an assignment so that its rows add up to total. Missing rows are
// appended to the first lane; excess rows (caused by the one row minimum) are
// removed from the lanes with the largest assignment.
func balance(blockAssignment []uint32, total uint32) {
	var scheduled uint32
	for _, rows := range blockAssignment {
		scheduled += rows
	}

	for scheduled > total {
		largest := 0
		for idx, rows := range blockAssignment {
			if rows > blockAssignment[largest] {
				largest = idx
			}
		}
		blockAssignment[largest]--
		scheduled--
	}

	// In case rows don't add up to the frame height append the missing ones to the first lane
	blockAssignment[0] += total - scheduled
}
