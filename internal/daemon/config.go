// Package daemon wires the backend together: configuration and the
// debounced background worker that turns change notifications into
// scheduling runs.
package daemon

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from a TOML file.
type Config struct {
	API       APIConfig       `toml:"api"`
	Database  DatabaseConfig  `toml:"database"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Profile   ProfileConfig   `toml:"profile"`
}

type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type SchedulerConfig struct {
	// Algorithm is the wire discriminator: 0 naive, 1 global,
	// 2 all permutations.
	Algorithm int `toml:"algorithm"`
	// Debounce is how long to wait after a change notification before
	// running, e.g. "5m".
	Debounce string `toml:"debounce"`
}

type ProfileConfig struct {
	// TimeDelta is the timeslot width, e.g. "1h".
	TimeDelta string `toml:"time_delta"`
	// Values is the available power per timeslot in watts.
	Values []float64 `toml:"values"`
}

// DefaultConfig returns the defaults used when no config file exists: a
// local API on port 3000 and an hourly day profile shaped like a solar
// production curve.
func DefaultConfig() Config {
	return Config{
		API:      APIConfig{Host: "127.0.0.1", Port: 3000, Metrics: true},
		Database: DatabaseConfig{Path: "scheduling.db"},
		Scheduler: SchedulerConfig{
			Algorithm: 1,
			Debounce:  "5m",
		},
		Profile: ProfileConfig{
			TimeDelta: "1h",
			Values: []float64{
				0, 0, 0, 0, 0, 0, 28, 200, 484, 829, 1186, 1407,
				1475, 1455, 1393, 1271, 1044, 754, 445, 154, 10, 0, 0, 0,
			},
		},
	}
}

// LoadConfig reads the TOML file at path over the defaults. A missing file
// is not an error; the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if _, err := c.ProfileTimeDelta(); err != nil {
		return err
	}
	if len(c.Profile.Values) == 0 {
		return fmt.Errorf("profile has no values")
	}
	return nil
}

// DebounceDuration parses the scheduler debounce.
func (c Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Scheduler.Debounce)
	if err != nil {
		return 0, fmt.Errorf("parse debounce %q: %w", c.Scheduler.Debounce, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("debounce %q is not positive", c.Scheduler.Debounce)
	}
	return d, nil
}

// ProfileTimeDelta parses the profile timeslot width.
func (c Config) ProfileTimeDelta() (time.Duration, error) {
	d, err := time.ParseDuration(c.Profile.TimeDelta)
	if err != nil {
		return 0, fmt.Errorf("parse profile time delta %q: %w", c.Profile.TimeDelta, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("profile time delta %q is not positive", c.Profile.TimeDelta)
	}
	return d, nil
}

// ListenAddr returns the host:port the API binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
