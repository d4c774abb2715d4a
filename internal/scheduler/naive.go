package scheduler

import "github.com/cs-24-sw-8-04/scheduling/internal/domain"

// scheduleNaive places each task independently against the original profile.
// Placements do not interact, so the profile is never mutated and running
// twice yields the same assignments.
func scheduleNaive(g *domain.DiscreteGraph, tasks []domain.TaskSpec) ([]domain.Assignment, error) {
	assignments := make([]domain.Assignment, 0, len(tasks))
	for _, task := range tasks {
		p, err := findBestSlot(task, g)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignmentAt(g, task, p.slot))
	}
	return assignments, nil
}
