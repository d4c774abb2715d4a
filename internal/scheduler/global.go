package scheduler

import "github.com/cs-24-sw-8-04/scheduling/internal/domain"

// scheduleGlobal places tasks greedily in input order. The kernel evaluates
// each task against a snapshot of the profile taken just before its
// placement, then the task's effect is subtracted from the live profile, so
// every later task sees the cumulative load of the earlier ones.
func scheduleGlobal(g *domain.DiscreteGraph, tasks []domain.TaskSpec) ([]domain.Assignment, error) {
	assignments := make([]domain.Assignment, 0, len(tasks))
	for _, task := range tasks {
		p, err := findBestSlot(task, g.Clone())
		if err != nil {
			return nil, err
		}
		g.SubValues(p.slot, task.Effect, p.slotCount)
		assignments = append(assignments, assignmentAt(g, task, p.slot))
	}
	return assignments, nil
}
