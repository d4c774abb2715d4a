package store

import (
	"context"
	"fmt"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

type eventRow struct {
	ID        domain.EventID `db:"id"`
	TaskID    domain.TaskID  `db:"task_id"`
	StartTime int64          `db:"start_time"`
}

func (r eventRow) event() domain.Event {
	return domain.Event{ID: r.ID, TaskID: r.TaskID, StartTime: fromMillis(r.StartTime)}
}

// ReplaceAssignments swaps the full set of scheduling events for the given
// ones in a single transaction. Every run re-decides the whole batch, so
// decisions from a previous run must not survive a newer one.
func (s *Store) ReplaceAssignments(ctx context.Context, assignments []domain.Assignment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	for _, a := range assignments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (task_id, start_time) VALUES (?, ?)`,
			a.TaskID, toMillis(a.StartTime))
		if err != nil {
			return fmt.Errorf("insert event for task %d: %w", a.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit events: %w", err)
	}

	s.logger.Info("events replaced", "count", len(assignments))
	return nil
}

// EventsForAccount lists the scheduling events for every task on the
// account's devices.
func (s *Store) EventsForAccount(ctx context.Context, accountID domain.AccountID) ([]domain.Event, error) {
	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT events.id, events.task_id, events.start_time
		 FROM events
		 JOIN tasks ON events.task_id = tasks.id
		 JOIN devices ON tasks.device_id = devices.id
		 WHERE devices.account_id = ?
		 ORDER BY events.id`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows), nil
}

// EventsForDevice lists the events for one of the account's devices.
func (s *Store) EventsForDevice(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) ([]domain.Event, error) {
	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT events.id, events.task_id, events.start_time
		 FROM events
		 JOIN tasks ON events.task_id = tasks.id
		 JOIN devices ON tasks.device_id = devices.id
		 WHERE devices.account_id = ? AND devices.id = ?
		 ORDER BY events.id`,
		accountID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list device events: %w", err)
	}
	return collectEvents(rows), nil
}

func collectEvents(rows []eventRow) []domain.Event {
	events := make([]domain.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.event())
	}
	return events
}
