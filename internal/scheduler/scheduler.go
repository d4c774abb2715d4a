package scheduler

import (
	"fmt"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

// Algorithm selects a scheduling strategy. The set is closed; dispatch is
// exhaustive over these three values.
type Algorithm int

const (
	// Naive places every task against the untouched profile.
	Naive Algorithm = iota
	// Global places tasks greedily in input order, each seeing the
	// cumulative cost of earlier placements.
	Global
	// AllPermutations runs Global for every task order and keeps the
	// cheapest outcome. Factorial; only for small batches.
	AllPermutations
)

// ParseAlgorithm maps the wire discriminator onto an Algorithm.
func ParseAlgorithm(v int) (Algorithm, error) {
	switch v {
	case 0:
		return Naive, nil
	case 1:
		return Global, nil
	case 2:
		return AllPermutations, nil
	default:
		return 0, fmt.Errorf("discriminator %d: %w", v, domain.ErrUnknownAlgorithm)
	}
}

func (a Algorithm) String() string {
	switch a {
	case Naive:
		return "naive"
	case Global:
		return "global"
	case AllPermutations:
		return "all_permutations"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Schedule assigns every task a start time on g using the chosen algorithm.
// The result holds one assignment per input task, in input order. An empty
// task list succeeds with no assignments.
//
// Naive never writes to g. Global and AllPermutations require exclusive
// access: Global subtracts each placed task's effect from g as it goes, and
// AllPermutations overwrites g with the winning permutation's residual
// profile. On error no assignments are returned, and mutations Global made
// before failing are not rolled back; discard the profile on error.
func Schedule(g *domain.DiscreteGraph, tasks []domain.TaskSpec, alg Algorithm) ([]domain.Assignment, error) {
	switch alg {
	case Naive:
		return scheduleNaive(g, tasks)
	case Global:
		return scheduleGlobal(g, tasks)
	case AllPermutations:
		return scheduleAllPermutations(g, tasks)
	default:
		return nil, fmt.Errorf("%v: %w", alg, domain.ErrUnknownAlgorithm)
	}
}

func assignmentAt(g *domain.DiscreteGraph, task domain.TaskSpec, slot int) domain.Assignment {
	return domain.Assignment{
		TaskID:    task.ID,
		StartTime: g.Start().Add(time.Duration(slot) * g.TimeDelta()),
	}
}
