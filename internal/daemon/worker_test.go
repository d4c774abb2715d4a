package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/scheduler"
)

type fakeSource struct {
	mu    sync.Mutex
	tasks []domain.TaskSpec
	err   error
	loads int
}

func (f *fakeSource) SchedulableTasks(context.Context) ([]domain.TaskSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.tasks, f.err
}

type fakeSink struct {
	mu       sync.Mutex
	replaced [][]domain.Assignment
}

func (f *fakeSink) ReplaceAssignments(_ context.Context, assignments []domain.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = append(f.replaced, assignments)
	return nil
}

func (f *fakeSink) runs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replaced)
}

func testWorker(tasks []domain.TaskSpec, debounce time.Duration) (*Worker, *fakeSource, *fakeSink) {
	source := &fakeSource{tasks: tasks}
	sink := &fakeSink{}
	profile := func(now time.Time) *domain.DiscreteGraph {
		return domain.NewDiscreteGraph([]float64{5, 5, 5, 5, 5, 5}, time.Second, now)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(source, sink, profile, scheduler.Global, debounce, logger), source, sink
}

func someTasks(now time.Time) []domain.TaskSpec {
	window := domain.NewTimespan(now, now.Add(6*time.Second))
	return []domain.TaskSpec{
		domain.NewTaskSpec(1, window, 2*time.Second, 1.0),
		domain.NewTaskSpec(2, window, 3*time.Second, 2.0),
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestWorkerDebouncesBurstsIntoOneRun(t *testing.T) {
	now := time.Now().UTC()
	w, _, sink := testWorker(someTasks(now), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { w.Run(ctx); close(done) }()

	for i := 0; i < 5; i++ {
		w.Notify()
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return sink.runs() == 1 })
	// No further runs without further notifications.
	time.Sleep(100 * time.Millisecond)
	if got := sink.runs(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}

	cancel()
	<-done
}

func TestWorkerManualRunBypassesDebounce(t *testing.T) {
	now := time.Now().UTC()
	w, _, sink := testWorker(someTasks(now), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := w.RunNow(0); err != nil {
		t.Fatalf("RunNow() error: %v", err)
	}
	waitFor(t, time.Second, func() bool { return sink.runs() == 1 })

	if got := len(sink.replaced[0]); got != 2 {
		t.Errorf("assignments in run = %d, want 2", got)
	}
}

func TestWorkerRejectsUnknownAlgorithm(t *testing.T) {
	now := time.Now().UTC()
	w, _, _ := testWorker(someTasks(now), time.Hour)

	if err := w.RunNow(7); !errors.Is(err, domain.ErrUnknownAlgorithm) {
		t.Errorf("RunNow(7) err = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestWorkerSkipsEmptyBatch(t *testing.T) {
	w, source, sink := testWorker(nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Notify()
	waitFor(t, time.Second, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.loads >= 1
	})
	if got := sink.runs(); got != 0 {
		t.Errorf("runs = %d, want 0 for an empty batch", got)
	}
}

func TestWorkerSurvivesSourceErrors(t *testing.T) {
	now := time.Now().UTC()
	w, source, sink := testWorker(someTasks(now), 10*time.Millisecond)
	source.err = errors.New("database locked")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Notify()
	waitFor(t, time.Second, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.loads >= 1
	})

	// Clear the fault; the next notification succeeds.
	source.mu.Lock()
	source.err = nil
	source.mu.Unlock()
	w.Notify()
	waitFor(t, time.Second, func() bool { return sink.runs() == 1 })
}
