package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

func TestAllPermutationsReorders(t *testing.T) {
	start := time.Now().UTC()
	// Greedy input order places A on the peak first and strands B; the
	// reversed order drains the profile to exactly zero.
	taskA := taskIn(1, start, 0, 3, secs(2), 3.0)
	taskB := taskIn(2, start, 0, 3, secs(1), 4.0)

	for name, order := range map[string][]domain.TaskSpec{
		"a_first": {taskA, taskB},
		"b_first": {taskB, taskA},
	} {
		t.Run(name, func(t *testing.T) {
			g := graphOf(t, start, 4, 3, 3)
			got, err := Schedule(g, order, AllPermutations)
			if err != nil {
				t.Fatalf("Schedule() error: %v", err)
			}

			byID := map[domain.TaskID]time.Time{}
			for i, a := range got {
				if a.TaskID != order[i].ID {
					t.Errorf("assignment %d is for task %d, want input order (task %d)", i, a.TaskID, order[i].ID)
				}
				byID[a.TaskID] = a.StartTime
			}
			if want := start.Add(secs(1)); !byID[1].Equal(want) {
				t.Errorf("task A start = %v, want %v", byID[1], want)
			}
			if !byID[2].Equal(start) {
				t.Errorf("task B start = %v, want %v", byID[2], start)
			}

			// The caller's profile is overwritten with the winner's residual.
			for i, v := range g.Values() {
				if v != 0 {
					t.Errorf("profile[%d] = %v, want 0", i, v)
				}
			}
		})
	}
}

func TestAllPermutationsBeatsEveryOrder(t *testing.T) {
	start := time.Now().UTC()
	values := []float64{2, 7, 1, 8, 2, 8, 1}
	tasks := []domain.TaskSpec{
		taskIn(1, start, 0, 7, secs(2), 3.0),
		taskIn(2, start, 0, 7, secs(3), 1.0),
		taskIn(3, start, 1, 6, secs(1), 5.0),
		taskIn(4, start, 0, 5, secs(2), 2.0),
	}

	g := domain.NewDiscreteGraph(append([]float64(nil), values...), time.Second, start)
	if _, err := Schedule(g, tasks, AllPermutations); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	bestCost := ResidualCost(g.Values())

	// No sequential Global run over any order may score strictly lower.
	permute(tasks, func(order []domain.TaskSpec) {
		clone := domain.NewDiscreteGraph(append([]float64(nil), values...), time.Second, start)
		if _, err := scheduleGlobal(clone, order); err != nil {
			t.Fatalf("Global on permutation failed: %v", err)
		}
		if cost := ResidualCost(clone.Values()); totalLess(cost, bestCost) {
			t.Errorf("permutation %v beats the winner: cost %v < %v", orderIDs(order), cost, bestCost)
		}
	})
}

func orderIDs(tasks []domain.TaskSpec) []domain.TaskID {
	ids := make([]domain.TaskID, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestAllPermutationsCostIsStable(t *testing.T) {
	start := time.Now().UTC()
	values := []float64{5, 1, 6, 2, 7, 3, 4}
	tasks := make([]domain.TaskSpec, 5)
	for i := range tasks {
		tasks[i] = taskIn(domain.TaskID(i+1), start, 0, 7, secs(2), 1.5)
	}

	// The winning permutation among ties is unspecified, but the winning
	// cost is not.
	var costs []float64
	for run := 0; run < 4; run++ {
		g := domain.NewDiscreteGraph(append([]float64(nil), values...), time.Second, start)
		if _, err := Schedule(g, tasks, AllPermutations); err != nil {
			t.Fatalf("Schedule() error: %v", err)
		}
		costs = append(costs, ResidualCost(g.Values()))
	}
	for _, c := range costs[1:] {
		if c != costs[0] {
			t.Errorf("cost %v differs from first run %v", c, costs[0])
		}
	}
}

func TestAllPermutationsSingleTask(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 0, 5, 8, 9, 8, 5, 0)
	tasks := []domain.TaskSpec{taskIn(7, start, 0, 6, secs(3), 2.0)}

	got, err := Schedule(g, tasks, AllPermutations)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if want := start.Add(secs(2)); !got[0].StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", got[0].StartTime, want)
	}
}

func TestAllPermutationsEmptyTaskList(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 1, 2, 3)

	got, err := Schedule(g, nil, AllPermutations)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(assignments) = %d, want 0", len(got))
	}
}

func TestAllPermutationsErrorsWhenEveryOrderFails(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 5, 5, 5, 5)
	tasks := []domain.TaskSpec{
		taskIn(1, start, 0, 4, secs(2), 1.0),
		// Fails in any order: the window lies past the profile.
		{ID: 2, Window: domain.NewTimespan(start.Add(secs(6)), start.Add(secs(9))), Duration: secs(2), Effect: 1.0},
	}

	got, err := Schedule(g, tasks, AllPermutations)
	if !errors.Is(err, domain.ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
	if got != nil {
		t.Errorf("assignments = %v, want nil on error", got)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      int
		want    Algorithm
		wantErr bool
	}{
		{0, Naive, false},
		{1, Global, false},
		{2, AllPermutations, false},
		{3, 0, true},
		{-1, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrUnknownAlgorithm) {
				t.Errorf("ParseAlgorithm(%d) err = %v, want ErrUnknownAlgorithm", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlgorithm(%d) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPermuteVisitsEveryOrderOnce(t *testing.T) {
	tasks := make([]domain.TaskSpec, 4)
	for i := range tasks {
		tasks[i] = domain.TaskSpec{ID: domain.TaskID(i)}
	}

	seen := map[[4]domain.TaskID]bool{}
	permute(tasks, func(order []domain.TaskSpec) {
		var key [4]domain.TaskID
		for i, task := range order {
			key[i] = task.ID
		}
		if seen[key] {
			t.Errorf("order %v visited twice", key)
		}
		seen[key] = true
	})
	if len(seen) != 24 {
		t.Errorf("visited %d orders, want 4! = 24", len(seen))
	}
}
