package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/infra/metrics"
	"github.com/cs-24-sw-8-04/scheduling/internal/scheduler"
)

// ProfileSource builds a fresh available-power profile for one run.
type ProfileSource func(now time.Time) *domain.DiscreteGraph

// Worker owns the background scheduling loop. Task and device changes feed
// it notifications; after a quiet period (the debounce) it loads the
// schedulable batch, runs the engine, and replaces the stored events.
type Worker struct {
	tasks     domain.TaskSource
	sink      domain.AssignmentSink
	profile   ProfileSource
	logger    *slog.Logger
	algorithm scheduler.Algorithm
	debounce  time.Duration

	notify chan struct{}
	manual chan scheduler.Algorithm
}

// NewWorker creates a worker. algorithm is the default used for debounced
// runs; manual runs may override it per call.
func NewWorker(tasks domain.TaskSource, sink domain.AssignmentSink, profile ProfileSource, algorithm scheduler.Algorithm, debounce time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		tasks:     tasks,
		sink:      sink,
		profile:   profile,
		logger:    logger,
		algorithm: algorithm,
		debounce:  debounce,
		notify:    make(chan struct{}, 1),
		manual:    make(chan scheduler.Algorithm, 1),
	}
}

// Notify reports that tasks or devices changed. Coalesces: a notification
// already pending absorbs this one.
func (w *Worker) Notify() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// RunNow requests an immediate run with the given wire discriminator,
// bypassing the debounce. An unknown discriminator is rejected before
// anything is enqueued. A manual run already pending absorbs this one.
func (w *Worker) RunNow(algorithm int) error {
	alg, err := scheduler.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}
	select {
	case w.manual <- alg:
	default:
	}
	return nil
}

// Run is the worker loop. It blocks until ctx is cancelled.
//
// A change notification arms the debounce timer; further notifications
// while it is armed re-arm it, so a burst of task edits costs one run.
// Manual runs fire immediately and leave the debounce state untouched.
func (w *Worker) Run(ctx context.Context) {
	var (
		timer   *time.Timer
		expired <-chan time.Time
	)
	arm := func() {
		if timer != nil && !timer.Stop() {
			<-timer.C
		}
		timer = time.NewTimer(w.debounce)
		expired = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.notify:
			arm()
		case alg := <-w.manual:
			w.logRun(ctx, alg)
		case <-expired:
			timer, expired = nil, nil
			w.logRun(ctx, w.algorithm)
		}
	}
}

func (w *Worker) logRun(ctx context.Context, alg scheduler.Algorithm) {
	if err := w.RunOnce(ctx, alg); err != nil {
		w.logger.Error("scheduling run failed", "algorithm", alg.String(), "err", err)
	}
}

// RunOnce performs a single scheduling run: load the schedulable batch,
// build a fresh profile, run the engine, replace the stored events. An
// empty batch is a successful no-op.
func (w *Worker) RunOnce(ctx context.Context, alg scheduler.Algorithm) error {
	started := time.Now()

	tasks, err := w.tasks.SchedulableTasks(ctx)
	if err != nil {
		return fmt.Errorf("load schedulable tasks: %w", err)
	}
	if len(tasks) == 0 {
		w.logger.Info("no schedulable tasks, skipping run")
		return nil
	}

	graph := w.profile(started)
	assignments, err := scheduler.Schedule(graph, tasks, alg)
	metrics.ObserveRun(alg.String(), len(tasks), time.Since(started), err)
	if err != nil {
		return fmt.Errorf("run %v over %d tasks: %w", alg, len(tasks), err)
	}
	metrics.ResidualCost.Set(scheduler.ResidualCost(graph.Values()))

	if err := w.sink.ReplaceAssignments(ctx, assignments); err != nil {
		return fmt.Errorf("store assignments: %w", err)
	}
	w.logger.Info("scheduling run complete",
		"algorithm", alg.String(),
		"tasks", len(tasks),
		"elapsed", time.Since(started))
	return nil
}
