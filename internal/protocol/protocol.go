// Package protocol holds the JSON request/response shapes shared by the API
// server and its clients (the simulator included). Wire durations are
// integer milliseconds; instants are RFC 3339.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

// Milliseconds marshals a duration as an integer millisecond count.
type Milliseconds time.Duration

// Duration converts back to the native representation.
func (m Milliseconds) Duration() time.Duration { return time.Duration(m) }

func (m Milliseconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(m).Milliseconds())
}

func (m *Milliseconds) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	*m = Milliseconds(time.Duration(ms) * time.Millisecond)
	return nil
}

// Task is the wire form of a stored task.
type Task struct {
	ID       domain.TaskID   `json:"id"`
	Timespan domain.Timespan `json:"timespan"`
	Duration Milliseconds    `json:"duration"`
	DeviceID domain.DeviceID `json:"device_id"`
}

// TaskFromDomain converts a stored task to its wire form.
func TaskFromDomain(t domain.Task) Task {
	return Task{ID: t.ID, Timespan: t.Timespan, Duration: Milliseconds(t.Duration), DeviceID: t.DeviceID}
}

type RegisterOrLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterOrLoginResponse struct {
	AuthToken string `json:"auth_token"`
}

type GetDevicesResponse struct {
	Devices []domain.Device `json:"devices"`
}

type CreateDeviceRequest struct {
	Name   string  `json:"name"`
	Effect float64 `json:"effect"`
}

type CreateDeviceResponse struct {
	Device domain.Device `json:"device"`
}

type GetTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type CreateTaskRequest struct {
	Timespan domain.Timespan `json:"timespan"`
	Duration Milliseconds    `json:"duration"`
	DeviceID domain.DeviceID `json:"device_id"`
}

type GetEventsResponse struct {
	Events []domain.Event `json:"events"`
}

// RunSchedulerRequest triggers a manual scheduling run with the algorithm
// discriminator {0: naive, 1: global, 2: all permutations}.
type RunSchedulerRequest struct {
	Algorithm int `json:"algorithm"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
