package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/protocol"
)

// FactoryConfig bounds the random data the factory generates.
type FactoryConfig struct {
	Users          int
	DevicesPerUser int
	MinTasks       int // per device
	MaxTasks       int // per device
	MinEffect      float64
	MaxEffect      float64
	Horizon        time.Duration // task windows fall inside [Start, Start+Horizon)
	Start          time.Time
	Concurrency    int // parallel requests; 0 means 16
}

// DefaultFactoryConfig mirrors the load shape used against a day-long
// profile: 100 users, up to 3 devices each, up to 3 tasks per device.
func DefaultFactoryConfig(start time.Time) FactoryConfig {
	return FactoryConfig{
		Users:          100,
		DevicesPerUser: 3,
		MinTasks:       1,
		MaxTasks:       3,
		MinEffect:      10,
		MaxEffect:      5000,
		Horizon:        24 * time.Hour,
		Start:          start,
		Concurrency:    16,
	}
}

// Factory seeds the backend with random accounts, devices and tasks.
type Factory struct {
	client *Client
	cfg    FactoryConfig
	rng    *rand.Rand
	mu     sync.Mutex
}

// NewFactory creates a factory. seed makes a run reproducible.
func NewFactory(client *Client, cfg FactoryConfig, seed int64) *Factory {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 16
	}
	return &Factory{client: client, cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// GenerateUsers registers cfg.Users accounts with random usernames and
// returns their auth tokens. Registrations run concurrently, bounded by
// cfg.Concurrency.
func (f *Factory) GenerateUsers(ctx context.Context) ([]string, error) {
	tokens := make([]string, f.cfg.Users)
	errs := make([]error, f.cfg.Users)

	var wg sync.WaitGroup
	sem := make(chan struct{}, f.cfg.Concurrency)
	for i := range tokens {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			username := "sim-" + uuid.NewString()
			tokens[i], errs[i] = f.client.Register(ctx, username, uuid.NewString())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("register user: %w", err)
		}
	}
	return tokens, nil
}

// GenerateDevices creates up to cfg.DevicesPerUser devices per token with
// random effects. Returns the devices grouped by owning token.
func (f *Factory) GenerateDevices(ctx context.Context, tokens []string) (map[string][]domain.Device, error) {
	ownership := make(map[string][]domain.Device, len(tokens))
	for _, token := range tokens {
		amount := 1 + f.intn(f.cfg.DevicesPerUser)
		for i := 0; i < amount; i++ {
			resp, err := f.client.CreateDevice(ctx, token,
				fmt.Sprintf("device-%s", uuid.NewString()[:8]),
				f.effect())
			if err != nil {
				return nil, fmt.Errorf("create device: %w", err)
			}
			ownership[token] = append(ownership[token], resp.Device)
		}
	}
	return ownership, nil
}

// GenerateTasks creates a random number of tasks per device, each with a
// random window inside the horizon and a random duration that fits it.
func (f *Factory) GenerateTasks(ctx context.Context, ownership map[string][]domain.Device) (map[domain.DeviceID][]protocol.Task, error) {
	tasks := make(map[domain.DeviceID][]protocol.Task)
	for token, devices := range ownership {
		for _, device := range devices {
			amount := f.cfg.MinTasks + f.intn(f.cfg.MaxTasks-f.cfg.MinTasks+1)
			for i := 0; i < amount; i++ {
				req := f.randomTaskRequest(device.ID)
				task, err := f.client.CreateTask(ctx, token, req)
				if err != nil {
					return nil, fmt.Errorf("create task for device %d: %w", device.ID, err)
				}
				tasks[device.ID] = append(tasks[device.ID], task)
			}
		}
	}
	return tasks, nil
}

// randomTaskRequest picks a second-aligned window inside the horizon and a
// duration no longer than the window.
func (f *Factory) randomTaskRequest(deviceID domain.DeviceID) protocol.CreateTaskRequest {
	horizonSecs := int64(f.cfg.Horizon / time.Second)

	f.mu.Lock()
	fromSec := f.rng.Int63n(horizonSecs)
	toSec := fromSec + 1 + f.rng.Int63n(horizonSecs-fromSec)
	durationSecs := 1 + f.rng.Int63n(toSec-fromSec)
	f.mu.Unlock()

	return protocol.CreateTaskRequest{
		Timespan: domain.NewTimespan(
			f.cfg.Start.Add(time.Duration(fromSec)*time.Second),
			f.cfg.Start.Add(time.Duration(toSec)*time.Second),
		),
		Duration: protocol.Milliseconds(time.Duration(durationSecs) * time.Second),
		DeviceID: deviceID,
	}
}

func (f *Factory) intn(n int) int {
	if n <= 0 {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Intn(n)
}

func (f *Factory) effect() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg.MinEffect + f.rng.Float64()*(f.cfg.MaxEffect-f.cfg.MinEffect)
}
