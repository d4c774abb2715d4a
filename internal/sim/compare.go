package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/scheduler"
)

// CompareConfig bounds one comparison experiment.
type CompareConfig struct {
	Rounds          int
	TasksPerRound   int
	MinEffect       float64
	MaxEffect       float64
	MinAvailable    float64
	MaxAvailable    float64
	ProfileDelta    time.Duration
	ProfileDuration time.Duration
}

// DefaultCompareConfig mirrors the published experiment: 100 rounds of 8
// tasks on a minute-resolution day profile.
func DefaultCompareConfig() CompareConfig {
	return CompareConfig{
		Rounds:          100,
		TasksPerRound:   8,
		MinEffect:       10,
		MaxEffect:       1000,
		MinAvailable:    1000,
		MaxAvailable:    8100,
		ProfileDelta:    time.Minute,
		ProfileDuration: 24 * time.Hour,
	}
}

// CompareResult aggregates the residual cost of each algorithm across all
// rounds.
type CompareResult struct {
	Naive           float64
	Global          float64
	AllPermutations float64
}

// PercentWorse reports how much worse cost a is than cost b, in percent.
func PercentWorse(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a/b - 1) * 100
}

// Compare runs the three algorithms on identical random inputs and sums
// their residual costs. Lower is better; AllPermutations bounds what Global
// could achieve with a perfect task order.
func Compare(cfg CompareConfig, seed int64) (CompareResult, error) {
	rng := rand.New(rand.NewSource(seed))
	start := time.Now().UTC().Truncate(cfg.ProfileDelta)

	var result CompareResult
	for round := 0; round < cfg.Rounds; round++ {
		values := randomProfile(rng, cfg)
		tasks := randomTasks(rng, cfg, start)

		for _, alg := range []scheduler.Algorithm{scheduler.Naive, scheduler.Global, scheduler.AllPermutations} {
			graph := domain.NewDiscreteGraph(append([]float64(nil), values...), cfg.ProfileDelta, start)
			assignments, err := scheduler.Schedule(graph, tasks, alg)
			if err != nil {
				return CompareResult{}, fmt.Errorf("round %d, %v: %w", round, alg, err)
			}

			// Naive does not touch the profile, so apply its plan to
			// measure the residual it would produce.
			if alg == scheduler.Naive {
				applyAssignments(graph, tasks, assignments)
			}

			cost := scheduler.ResidualCost(graph.Values())
			switch alg {
			case scheduler.Naive:
				result.Naive += cost
			case scheduler.Global:
				result.Global += cost
			case scheduler.AllPermutations:
				result.AllPermutations += cost
			}
		}
	}
	return result, nil
}

func randomProfile(rng *rand.Rand, cfg CompareConfig) []float64 {
	slots := int(cfg.ProfileDuration / cfg.ProfileDelta)
	values := make([]float64, slots)
	for i := range values {
		values[i] = cfg.MinAvailable + rng.Float64()*(cfg.MaxAvailable-cfg.MinAvailable)
	}
	return values
}

func randomTasks(rng *rand.Rand, cfg CompareConfig, start time.Time) []domain.TaskSpec {
	slots := int64(cfg.ProfileDuration / cfg.ProfileDelta)
	tasks := make([]domain.TaskSpec, cfg.TasksPerRound)
	for i := range tasks {
		fromSlot := rng.Int63n(slots - 1)
		toSlot := fromSlot + 1 + rng.Int63n(slots-fromSlot)
		durationSlots := 1 + rng.Int63n(toSlot-fromSlot)

		tasks[i] = domain.NewTaskSpec(
			domain.TaskID(i+1),
			domain.NewTimespan(
				start.Add(time.Duration(fromSlot)*cfg.ProfileDelta),
				start.Add(time.Duration(toSlot)*cfg.ProfileDelta),
			),
			time.Duration(durationSlots)*cfg.ProfileDelta,
			cfg.MinEffect+rng.Float64()*(cfg.MaxEffect-cfg.MinEffect),
		)
	}
	return tasks
}

// applyAssignments subtracts each task's effect over its assigned slots.
func applyAssignments(g *domain.DiscreteGraph, tasks []domain.TaskSpec, assignments []domain.Assignment) {
	for i, a := range assignments {
		task := tasks[i]
		slot := int(a.StartTime.Sub(g.Start()) / g.TimeDelta())
		slots := int((task.Duration + g.TimeDelta() - 1) / g.TimeDelta())
		g.SubValues(slot, task.Effect, slots)
	}
}
