// Package scheduler is the scheduling engine: it places a batch of
// deferrable, fixed-duration tasks onto a shared available-power profile so
// that the aggregate consumption disturbs the profile as little as possible.
//
// The engine is synchronous and CPU-bound. One Schedule call is the unit of
// work; there is no cross-call state.
package scheduler

import (
	"fmt"
	"math"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

// placement is the kernel's answer for one task: the chosen start slot and
// the task's length in slots.
type placement struct {
	slot      int
	slotCount int
}

// findBestSlot answers: given profile g, at which timeslot should task start
// to maximize the available power it consumes?
//
// It maps the task's window and duration onto slot indices (duration and
// window start round up, window end rounds down; a task may neither underrun
// its duration nor escape its window), builds the windowed-sum series over
// the feasible slice, and picks the earliest maximum.
func findBestSlot(task domain.TaskSpec, g *domain.DiscreteGraph) (placement, error) {
	deltaMs := g.TimeDelta().Milliseconds()
	if deltaMs <= 0 {
		return placement{}, fmt.Errorf("profile delta %v: %w", g.TimeDelta(), domain.ErrInvalidTimeDelta)
	}

	slotCount := ceilDiv(task.Duration.Milliseconds(), deltaMs)
	if slotCount < 1 {
		panic(fmt.Sprintf("scheduler: task %d has non-positive duration %v", task.ID, task.Duration))
	}

	// Window start is clipped to the profile start, window end to the
	// profile end. Both are expressed as offsets from the profile start.
	startMs := task.Window.Start.Sub(g.Start()).Milliseconds()
	if startMs < 0 {
		startMs = 0
	}
	endInstant := task.Window.End
	if endInstant.After(g.End()) {
		endInstant = g.End()
	}
	endMs := endInstant.Sub(g.Start()).Milliseconds()

	tStart := ceilDiv(startMs, deltaMs)
	tEnd := endMs / deltaMs
	if endMs < 0 {
		return placement{}, fmt.Errorf("task %d window ends before the profile starts: %w", task.ID, domain.ErrInvalidWindow)
	}
	if tStart >= tEnd {
		return placement{}, fmt.Errorf("task %d window [%d, %d) in slots: %w", task.ID, tStart, tEnd, domain.ErrInvalidWindow)
	}
	if tEnd-tStart < slotCount {
		return placement{}, fmt.Errorf("task %d needs %d slots, window has %d: %w", task.ID, slotCount, tEnd-tStart, domain.ErrUnschedulable)
	}
	if tEnd > int64(g.Len()) || slotCount > int64(math.MaxInt) {
		return placement{}, fmt.Errorf("task %d slot range [%d, %d): %w", task.ID, tStart, tEnd, domain.ErrOverflow)
	}

	best := bestWindowStart(g.Values()[tStart:tEnd], int(slotCount))
	return placement{slot: int(tStart) + best, slotCount: int(slotCount)}, nil
}

// bestWindowStart returns the index k maximizing the windowed sum
// sum(values[k .. k+width]) over the feasible slice. Ties resolve to the
// smallest k, so equal headroom schedules as early as possible.
func bestWindowStart(values []float64, width int) int {
	sums := windowedSums(values, width)
	best := 0
	for k := 1; k < len(sums); k++ {
		if totalLess(sums[best], sums[k]) {
			best = k
		}
	}
	return best
}

// windowedSums materializes W[k] = sum(values[k .. k+width]) for every
// feasible k. Each window is summed independently; a rolling sum would drift
// under floating point and break the exact-tie rule.
func windowedSums(values []float64, width int) []float64 {
	sums := make([]float64, len(values)-width+1)
	for k := range sums {
		var sum float64
		for _, v := range values[k : k+width] {
			sum += v
		}
		sums[k] = sum
	}
	return sums
}

// totalLess is a total order on float64: NaN sorts below every other value,
// so a NaN windowed sum can never win a placement.
func totalLess(x, y float64) bool {
	if math.IsNaN(x) {
		return !math.IsNaN(y)
	}
	if math.IsNaN(y) {
		return false
	}
	return x < y
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
