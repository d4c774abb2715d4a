package scheduler

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

func graphOf(t *testing.T, start time.Time, values ...float64) *domain.DiscreteGraph {
	t.Helper()
	return domain.NewDiscreteGraph(values, time.Second, start)
}

func taskIn(id domain.TaskID, start time.Time, fromSec, toSec int, duration time.Duration, effect float64) domain.TaskSpec {
	window := domain.NewTimespan(start.Add(secs(fromSec)), start.Add(secs(toSec)))
	return domain.NewTaskSpec(id, window, duration, effect)
}

func TestNaiveParabola(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 3, 5, 4)
	tasks := []domain.TaskSpec{taskIn(1, start, 0, 3, secs(2), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	want := start.Add(secs(1)) // 5+4=9 beats 3+5=8
	if !got[0].StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", got[0].StartTime, want)
	}
}

func TestNaiveParabola7Elem(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 0, 5, 8, 9, 8, 5, 0)
	tasks := []domain.TaskSpec{taskIn(1, start, 0, 6, secs(3), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	want := start.Add(secs(2)) // 8+9+8=25 is the peak triple
	if !got[0].StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", got[0].StartTime, want)
	}
}

func TestNaiveRampUp(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 2, 3, 4, 5, 6, 7, 8)
	tasks := []domain.TaskSpec{taskIn(1, start, 0, 7, secs(3), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	want := start.Add(secs(4)) // 6+7+8=21
	if !got[0].StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", got[0].StartTime, want)
	}
}

func TestNaiveRampDown(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 8, 7, 6, 5, 4, 3, 2)
	tasks := []domain.TaskSpec{taskIn(1, start, 0, 7, secs(3), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if !got[0].StartTime.Equal(start) {
		t.Errorf("start = %v, want %v", got[0].StartTime, start)
	}
}

func TestNaiveWindowRestrictsPlacement(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 0, 5, 8, 9, 8, 5, 0)
	// The unconstrained optimum is slot 2; the window forbids anything
	// before slot 3.
	tasks := []domain.TaskSpec{taskIn(1, start, 3, 7, secs(3), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	want := start.Add(secs(3))
	if !got[0].StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", got[0].StartTime, want)
	}
}

func TestNaiveWindowStartsBeforeProfile(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 0, 5, 8, 9, 8, 5, 0)
	// Window opens 1s before the profile; the kernel clips it to the
	// profile start instead of reading outside the series.
	window := domain.NewTimespan(start.Add(-secs(1)), start.Add(secs(7)))
	tasks := []domain.TaskSpec{domain.NewTaskSpec(1, window, secs(3), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	want := start.Add(secs(2))
	if !got[0].StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", got[0].StartTime, want)
	}
}

func TestNaiveFlatProfileSchedulesEarliest(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 0, 0, 0, 0, 0, 0, 0)
	tasks := []domain.TaskSpec{taskIn(1, start, 0, 7, secs(3), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if !got[0].StartTime.Equal(start) {
		t.Errorf("start = %v, want %v (earliest tie)", got[0].StartTime, start)
	}
}

func TestNaiveDoesNotMutateProfile(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 0, 5, 8, 9, 8, 5, 0)
	tasks := []domain.TaskSpec{
		taskIn(1, start, 0, 6, secs(3), 100),
		taskIn(2, start, 0, 6, secs(3), 100),
	}

	first, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	second, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("second Schedule() error: %v", err)
	}
	for i := range first {
		if !first[i].StartTime.Equal(second[i].StartTime) {
			t.Errorf("run disagreement at %d: %v vs %v", i, first[i].StartTime, second[i].StartTime)
		}
	}
	// Tasks do not interact under Naive: both claim the peak.
	want := start.Add(secs(2))
	for i, a := range first {
		if !a.StartTime.Equal(want) {
			t.Errorf("task %d start = %v, want %v", i, a.StartTime, want)
		}
	}
	for i, v := range g.Values() {
		if want := []float64{0, 5, 8, 9, 8, 5, 0}[i]; v != want {
			t.Errorf("profile[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestNaiveEmptyTaskListIsNoOp(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 1, 2, 3)

	got, err := Schedule(g, nil, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(assignments) = %d, want 0", len(got))
	}
}

func TestKernelWindowOutsideProfile(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 1, 2, 3)
	// Whole window after the profile ends.
	window := domain.NewTimespan(start.Add(secs(5)), start.Add(secs(9)))
	tasks := []domain.TaskSpec{domain.NewTaskSpec(1, window, secs(2), 100)}

	_, err := Schedule(g, tasks, Naive)
	if !errors.Is(err, domain.ErrInvalidWindow) {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestKernelUnschedulableAfterRounding(t *testing.T) {
	start := time.Now().UTC()
	g := graphOf(t, start, 1, 2, 3, 4)
	// The window is 2.5s wide and fits the 2.2s duration, but rounding the
	// start up and the end down leaves 2 slots for a 3-slot task.
	window := domain.NewTimespan(start.Add(500*time.Millisecond), start.Add(secs(3)))
	tasks := []domain.TaskSpec{domain.NewTaskSpec(1, window, 2200*time.Millisecond, 100)}

	_, err := Schedule(g, tasks, Naive)
	if !errors.Is(err, domain.ErrUnschedulable) {
		t.Errorf("err = %v, want ErrUnschedulable", err)
	}
}

func TestKernelNaNNeverWins(t *testing.T) {
	start := time.Now().UTC()
	nan := math.NaN()
	g := graphOf(t, start, 1, nan, nan, 2, 2, 2, 0)
	tasks := []domain.TaskSpec{taskIn(1, start, 0, 7, secs(3), 100)}

	got, err := Schedule(g, tasks, Naive)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	// Every window touching a NaN slot sums to NaN and sorts below the
	// finite candidates.
	want := start.Add(secs(3))
	if !got[0].StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", got[0].StartTime, want)
	}
}

func TestTotalLess(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"ordinary less", 1, 2, true},
		{"ordinary greater", 2, 1, false},
		{"equal", 1, 1, false},
		{"nan below finite", nan, -1e300, true},
		{"finite above nan", -1e300, nan, false},
		{"nan equals nan", nan, nan, false},
		{"negative infinity above nan", math.Inf(-1), nan, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := totalLess(tt.x, tt.y); got != tt.want {
				t.Errorf("totalLess(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestWindowedSums(t *testing.T) {
	got := windowedSums([]float64{0, 5, 8, 9, 8, 5, 0}, 3)
	want := []float64{13, 22, 25, 22, 13}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("W[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
