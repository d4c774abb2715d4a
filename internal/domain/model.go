package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identifier types. Kept distinct so a device id cannot silently stand in
// for a task id at a call site.
type (
	AccountID int64
	DeviceID  int64
	TaskID    int64
	EventID   int64
)

// AuthToken is an opaque bearer token handed out at register/login and
// carried in the X-Auth-Token header.
type AuthToken uuid.UUID

// NewAuthToken creates a fresh random token.
func NewAuthToken() AuthToken { return AuthToken(uuid.New()) }

// ParseAuthToken parses the wire form of a token.
func ParseAuthToken(s string) (AuthToken, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return AuthToken{}, err
	}
	return AuthToken(id), nil
}

func (t AuthToken) String() string { return uuid.UUID(t).String() }

// Account is a registered user. PasswordHash never leaves the store layer.
type Account struct {
	ID       AccountID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
}

// Device is an energy-consuming appliance owned by an account. Effect is
// the constant power draw in watts while the device runs.
type Device struct {
	ID        DeviceID  `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Effect    float64   `json:"effect" db:"effect"`
	AccountID AccountID `json:"account_id" db:"account_id"`
}

// Task is a user's request to run a device for Duration somewhere inside
// Timespan. The scheduler decides when.
type Task struct {
	ID       TaskID        `json:"id"`
	Timespan Timespan      `json:"timespan"`
	Duration time.Duration `json:"duration"`
	DeviceID DeviceID      `json:"device_id"`
}

// Event is a published scheduling decision: task TaskID starts at StartTime.
type Event struct {
	ID        EventID   `json:"id" db:"id"`
	TaskID    TaskID    `json:"task_id" db:"task_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
}

// Assignment is the engine's output before it is persisted as an Event.
type Assignment struct {
	TaskID    TaskID    `json:"task_id"`
	StartTime time.Time `json:"start_time"`
}
