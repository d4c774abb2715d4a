// Package sim is the load-generating simulator: an HTTP client for the
// backend API, a random data factory, and an offline comparison of the three
// scheduling algorithms.
package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/protocol"
)

// Client talks to the backend API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the API at base, e.g. "http://localhost:3000".
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Register creates an account and returns its auth token.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var resp protocol.RegisterOrLoginResponse
	err := c.do(ctx, http.MethodPost, "/accounts/register", "",
		protocol.RegisterOrLoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AuthToken, nil
}

// CreateDevice registers a device under the token's account.
func (c *Client) CreateDevice(ctx context.Context, token, name string, effect float64) (protocol.CreateDeviceResponse, error) {
	var resp protocol.CreateDeviceResponse
	err := c.do(ctx, http.MethodPost, "/devices/create", token,
		protocol.CreateDeviceRequest{Name: name, Effect: effect}, &resp)
	return resp, err
}

// CreateTask stores a task for one of the account's devices.
func (c *Client) CreateTask(ctx context.Context, token string, req protocol.CreateTaskRequest) (protocol.Task, error) {
	var resp protocol.Task
	err := c.do(ctx, http.MethodPost, "/tasks/create", token, req, &resp)
	return resp, err
}

// Events fetches every scheduling event visible to the account.
func (c *Client) Events(ctx context.Context, token string) ([]domain.Event, error) {
	var resp protocol.GetEventsResponse
	if err := c.do(ctx, http.MethodGet, "/events/all", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// RunScheduler triggers a manual run with the given algorithm discriminator.
func (c *Client) RunScheduler(ctx context.Context, token string, algorithm int) error {
	return c.do(ctx, http.MethodPost, "/scheduling/run", token,
		protocol.RunSchedulerRequest{Algorithm: algorithm}, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "scheduling-simulator")
	if token != "" {
		req.Header.Set("X-Auth-Token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr protocol.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (%d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
