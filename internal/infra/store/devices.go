package store

import (
	"context"
	"fmt"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

// CreateDevice registers a device under the account.
func (s *Store) CreateDevice(ctx context.Context, accountID domain.AccountID, name string, effect float64) (domain.Device, error) {
	var id domain.DeviceID
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO devices (name, effect, account_id) VALUES (?, ?, ?) RETURNING id`,
		name, effect, accountID)
	if err != nil {
		return domain.Device{}, fmt.Errorf("insert device: %w", err)
	}
	return domain.Device{ID: id, Name: name, Effect: effect, AccountID: accountID}, nil
}

// DeleteDevice removes the device if the account owns it. Deleting another
// account's device is a silent no-op, matching the task semantics.
func (s *Store) DeleteDevice(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM devices WHERE id = ? AND account_id = ?`,
		deviceID, accountID)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}

// DevicesForAccount lists the account's devices.
func (s *Store) DevicesForAccount(ctx context.Context, accountID domain.AccountID) ([]domain.Device, error) {
	devices := []domain.Device{}
	err := s.db.SelectContext(ctx, &devices,
		`SELECT id, name, effect, account_id FROM devices WHERE account_id = ? ORDER BY id`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}
