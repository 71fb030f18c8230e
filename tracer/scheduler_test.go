package tracer

import (
	"testing"
	"time"
)

func TestNaiveScheduler(t *testing.T) {
	type spec struct {
		speed1   float32
		speed2   float32
		frameH   uint32
		expRows1 uint32
		expRows2 uint32
	}
	specs := []spec{
		{1, 2, 10, 4, 6},
		{2, 1, 10, 7, 3},
		{1, 1000, 10, 1, 9},
		// Fewer rows than lanes
		{1, 1, 1, 0, 1},
	}

	for index, s := range specs {
		lane1 := makeMockLane("mock-1", s.speed1)
		lane2 := makeMockLane("mock-2", s.speed2)
		lanes := []Lane{lane1, lane2}

		sch := NaiveScheduler()
		blockAssignment := sch.Schedule(lanes, s.frameH)

		if blockAssignment[0] != s.expRows1 {
			t.Fatalf("[spec %d] expected lane 0 to be assigned %d rows; got %d", index, s.expRows1, blockAssignment[0])
		}

		if blockAssignment[1] != s.expRows2 {
			t.Fatalf("[spec %d] expected lane 1 to be assigned %d rows; got %d", index, s.expRows2, blockAssignment[1])
		}
	}
}

func TestPerfectScheduler(t *testing.T) {
	type spec struct {
		frameH   uint32
		rTime1   time.Duration
		rTime2   time.Duration
		expRows1 uint32
		expRows2 uint32
	}
	specs := []spec{
		// First call always behaves like the naive scheduler
		{10, time.Duration(1), time.Duration(5), 5, 5},
		// Second call should use the render times to assign rows
		{10, time.Duration(1), time.Duration(5), 9, 1},
		// This time lane 2 performed much better
		{10, time.Duration(5), time.Duration(1), 7, 3},
	}

	// Lanes have same speed
	lane1 := makeMockLane("mock-1", 1)
	lane2 := makeMockLane("mock-2", 1)
	lanes := []Lane{lane1, lane2}

	sch := PerfectScheduler()
	for index, s := range specs {
		lane1.stats.RenderTime = s.rTime1
		lane2.stats.RenderTime = s.rTime2

		blockAssignment := sch.Schedule(lanes, s.frameH)

		if blockAssignment[0] != s.expRows1 {
			t.Fatalf("[spec %d] expected lane 0 to be assigned %d rows; got %d", index, s.expRows1, blockAssignment[0])
		}

		if blockAssignment[1] != s.expRows2 {
			t.Fatalf("[spec %d] expected lane 1 to be assigned %d rows; got %d", index, s.expRows2, blockAssignment[1])
		}

		lane1.stats.BlockH = blockAssignment[0]
		lane2.stats.BlockH = blockAssignment[1]
	}
}

func TestSchedulersCoverTotal(t *testing.T) {
	lanes := CPULanes(7)
	for _, sch := range []BlockScheduler{NaiveScheduler(), PerfectScheduler()} {
		for _, total := range []uint32{0, 3, 7, 100, 1081} {
			var sum uint32
			for _, rows := range sch.Schedule(lanes, total) {
				sum += rows
			}
			if sum != total {
				t.Fatalf("expected assigned rows to add up to %d; got %d", total, sum)
			}
		}
	}
}

type mockLane struct {
	id    string
	speed float32
	stats *Stats
}

func makeMockLane(id string, speed float32) *mockLane {
	return &mockLane{
		id:    id,
		speed: speed,
		stats: &Stats{},
	}
}

func (ml *mockLane) Id() string {
	return ml.id
}

func (ml *mockLane) SpeedEstimate() float32 {
	return ml.speed
}

func (ml *mockLane) Stats() *Stats {
	return ml.stats
}
