package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

type taskRow struct {
	ID            domain.TaskID   `db:"id"`
	TimespanStart int64           `db:"timespan_start"`
	TimespanEnd   int64           `db:"timespan_end"`
	DurationMs    int64           `db:"duration_ms"`
	DeviceID      domain.DeviceID `db:"device_id"`
	Effect        float64         `db:"effect"`
}

func (r taskRow) task() domain.Task {
	return domain.Task{
		ID:       r.ID,
		Timespan: domain.Timespan{Start: fromMillis(r.TimespanStart), End: fromMillis(r.TimespanEnd)},
		Duration: time.Duration(r.DurationMs) * time.Millisecond,
		DeviceID: r.DeviceID,
	}
}

// CreateTask stores a task after checking, inside one transaction, that the
// account owns the target device.
func (s *Store) CreateTask(ctx context.Context, accountID domain.AccountID, timespan domain.Timespan, duration time.Duration, deviceID domain.DeviceID) (domain.Task, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owned domain.DeviceID
	err = tx.GetContext(ctx, &owned,
		`SELECT id FROM devices WHERE id = ? AND account_id = ?`,
		deviceID, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrNotOwner
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("check device ownership: %w", err)
	}

	var id domain.TaskID
	err = tx.GetContext(ctx, &id,
		`INSERT INTO tasks (timespan_start, timespan_end, duration_ms, device_id)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		toMillis(timespan.Start), toMillis(timespan.End), duration.Milliseconds(), deviceID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit task: %w", err)
	}

	return domain.Task{ID: id, Timespan: timespan, Duration: duration, DeviceID: deviceID}, nil
}

// DeleteTask removes the task if the account owns its device.
func (s *Store) DeleteTask(ctx context.Context, accountID domain.AccountID, taskID domain.TaskID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks
		 WHERE id = ? AND device_id IN (SELECT id FROM devices WHERE account_id = ?)`,
		taskID, accountID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// TasksForAccount lists every task on the account's devices.
func (s *Store) TasksForAccount(ctx context.Context, accountID domain.AccountID) ([]domain.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT tasks.id, tasks.timespan_start, tasks.timespan_end, tasks.duration_ms, tasks.device_id
		 FROM tasks
		 JOIN devices ON tasks.device_id = devices.id
		 WHERE devices.account_id = ?
		 ORDER BY tasks.id`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.task())
	}
	return tasks, nil
}

// SchedulableTasks returns the engine's input batch: every task whose window
// is still open, joined with its device's effect.
func (s *Store) SchedulableTasks(ctx context.Context) ([]domain.TaskSpec, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT tasks.id, tasks.timespan_start, tasks.timespan_end, tasks.duration_ms, tasks.device_id, devices.effect
		 FROM tasks
		 JOIN devices ON tasks.device_id = devices.id
		 WHERE tasks.timespan_end > ?
		 ORDER BY tasks.id`,
		toMillis(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("load schedulable tasks: %w", err)
	}

	specs := make([]domain.TaskSpec, 0, len(rows))
	for _, r := range rows {
		specs = append(specs, domain.TaskSpec{
			ID:       r.ID,
			Window:   domain.Timespan{Start: fromMillis(r.TimespanStart), End: fromMillis(r.TimespanEnd)},
			Duration: time.Duration(r.DurationMs) * time.Millisecond,
			Effect:   r.Effect,
		})
	}
	return specs, nil
}
