package domain

import "context"

// Boundary interfaces between the engine's surroundings and infrastructure.
// The store implements them; the daemon depends on them.

// TaskSource supplies the batch of schedulable tasks for one run.
type TaskSource interface {
	SchedulableTasks(ctx context.Context) ([]TaskSpec, error)
}

// AssignmentSink receives the engine's output. ReplaceAssignments swaps the
// full set of stored events atomically; stale decisions from a previous
// run must not survive a newer one.
type AssignmentSink interface {
	ReplaceAssignments(ctx context.Context, assignments []Assignment) error
}
