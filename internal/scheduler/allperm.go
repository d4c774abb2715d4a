package scheduler

import (
	"runtime"
	"sync"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

// permResult is one permutation's outcome: the residual profile it leaves
// behind, the assignments it emitted, and the profile's cost.
type permResult struct {
	graph       *domain.DiscreteGraph
	assignments []domain.Assignment
	cost        float64
}

// scheduleAllPermutations runs Global for every ordering of the task list on
// a fresh clone of g and keeps the ordering whose residual profile scores
// lowest. The winner's residual profile is written back into g, and the
// winner's assignments are returned reordered to match the input task order.
//
// Permutations are independent, so they are evaluated concurrently by a
// bounded worker pool. The reduction is a commutative minimum; among equal
// costs the winner is whichever permutation a worker reported first, which
// callers must not rely on.
func scheduleAllPermutations(g *domain.DiscreteGraph, tasks []domain.TaskSpec) ([]domain.Assignment, error) {
	if len(tasks) == 0 {
		return []domain.Assignment{}, nil
	}

	orders := make(chan []domain.TaskSpec)
	go func() {
		defer close(orders)
		permute(tasks, func(order []domain.TaskSpec) {
			dup := make([]domain.TaskSpec, len(order))
			copy(dup, order)
			orders <- dup
		})
	}()

	var (
		mu       sync.Mutex
		best     *permResult
		firstErr error
		wg       sync.WaitGroup
	)
	workers := runtime.NumCPU()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for order := range orders {
				clone := g.Clone()
				assignments, err := scheduleGlobal(clone, order)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				cost := ResidualCost(clone.Values())
				mu.Lock()
				if best == nil || totalLess(cost, best.cost) {
					best = &permResult{graph: clone, assignments: assignments, cost: cost}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if best == nil {
		return nil, firstErr
	}

	copy(g.ValuesMut(), best.graph.Values())
	return reorderToInput(tasks, best.assignments), nil
}

// permute invokes visit for every permutation of tasks, reusing a single
// backing array between calls (Heap's algorithm). visit must copy what it
// keeps.
func permute(tasks []domain.TaskSpec, visit func([]domain.TaskSpec)) {
	work := make([]domain.TaskSpec, len(tasks))
	copy(work, tasks)

	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			visit(work)
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				work[i], work[k-1] = work[k-1], work[i]
			} else {
				work[0], work[k-1] = work[k-1], work[0]
			}
		}
	}
	generate(len(work))
}

// reorderToInput maps the winning permutation's assignments back onto the
// caller's task order, so the result contract (one assignment per input
// task, by index) holds regardless of which ordering won.
func reorderToInput(tasks []domain.TaskSpec, assignments []domain.Assignment) []domain.Assignment {
	byTask := make(map[domain.TaskID]domain.Assignment, len(assignments))
	for _, a := range assignments {
		byTask[a.TaskID] = a
	}
	ordered := make([]domain.Assignment, 0, len(tasks))
	for _, task := range tasks {
		ordered = append(ordered, byTask[task.ID])
	}
	return ordered
}
