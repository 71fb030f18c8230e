package tracer

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// A Dispatcher splits a range of work into blocks using a BlockScheduler and
// processes each block on its own goroutine. Since every lane receives a
// disjoint block, callers may let block handlers write to lane-exclusive
// regions of shared buffers without locking.
type Dispatcher struct {
	lanes     []Lane
	scheduler BlockScheduler
}

// Create a new dispatcher.
func NewDispatcher(lanes []Lane, scheduler BlockScheduler) *Dispatcher {
	return &Dispatcher{
		lanes:     lanes,
		scheduler: scheduler,
	}
}

// Get the dispatcher lanes.
func (d *Dispatcher) Lanes() []Lane {
	return d.lanes
}

// Split total rows into blocks, run fn for each non-empty block and wait for
// all of them to complete. The first error returned by a block handler is
// returned to the caller. Lane statistics are updated so that feedback-based
// schedulers can rebalance the next call.
func (d *Dispatcher) Dispatch(total uint32, fn func(BlockRequest) error) error {
	if total == 0 {
		for _, lane := range d.lanes {
			*lane.Stats() = Stats{}
		}
		return nil
	}
	if len(d.lanes) == 0 {
		return nil
	}

	blockAssignment := d.scheduler.Schedule(d.lanes, total)

	var g errgroup.Group
	var blockY uint32
	for idx, lane := range d.lanes {
		req := BlockRequest{
			BlockY: blockY,
			BlockH: blockAssignment[idx],
			Lane:   idx,
		}
		blockY += req.BlockH

		stats := lane.Stats()
		if req.BlockH == 0 {
			stats.BlockH = 0
			stats.RenderTime = 0
			continue
		}

		g.Go(func() error {
			start := time.Now()
			err := fn(req)
			stats.BlockH = req.BlockH
			stats.RenderTime = time.Since(start)
			return err
		})
	}

	return g.Wait()
}
