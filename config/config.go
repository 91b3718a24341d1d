// Package config loads the parameters of a simulation from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/procstate/procsim/sim"
)

// A Transition is one catalog entry as written in a config file.
type Transition struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Initial describes the processes that exist before the first event.
type Initial struct {
	// ActiveStates lists, with repetition, the states that receive one
	// active process each.
	ActiveStates []string `yaml:"active_states"`
	ActiveSize   int      `yaml:"active_size"`
	ActiveTime   int      `yaml:"active_time"`

	// HeldCount processes with random size and time start in Hold.
	HeldCount int `yaml:"held_count"`
	MinSize   int `yaml:"min_size"`
	MaxSize   int `yaml:"max_size"`
	MinTime   int `yaml:"min_time"`
	MaxTime   int `yaml:"max_time"`
}

// Config holds every parameter of a simulation.
type Config struct {
	// Seed of the random source. Zero asks the caller to pick one.
	Seed       int64          `yaml:"seed"`
	MaxEvents  int            `yaml:"max_events"`
	MemorySize int            `yaml:"memory_size"`
	Limits     map[string]int `yaml:"limits"`
	Catalog    []Transition   `yaml:"catalog"`
	Initial    Initial        `yaml:"initial"`
}

// Default returns the standard configuration.
func Default() Config {
	c := Config{
		MaxEvents:  sim.DefaultMaxEvents,
		MemorySize: 2048,
		Limits:     make(map[string]int),
		Initial: Initial{
			ActiveStates: []string{
				string(sim.StateReady),
				string(sim.StateSuspend),
				string(sim.StateBlocked),
			},
			ActiveSize: 320,
			ActiveTime: 6,
			HeldCount:  10,
			MinSize:    32,
			MaxSize:    512,
			MinTime:    1,
			MaxTime:    10,
		},
	}

	for state, limit := range sim.DefaultLimits() {
		c.Limits[string(state)] = limit
	}

	for _, e := range sim.DefaultCatalog() {
		c.Catalog = append(c.Catalog, Transition{
			From: string(e.From),
			To:   string(e.To),
		})
	}

	return c
}

// Load reads a YAML file. Fields the file leaves out keep their default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return c, nil
}

// Parse decodes YAML on top of the default configuration. Fields the data
// leaves out keep their default; fields it sets, zero included, are kept.
// The limits and the catalog are replaced as a whole when present.
func Parse(data []byte) (Config, error) {
	var present struct {
		Limits map[string]int `yaml:"limits"`
	}

	if err := yaml.Unmarshal(data, &present); err != nil {
		return Config{}, err
	}

	c := Default()
	if present.Limits != nil {
		c.Limits = nil
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// ErrInvalid marks a configuration that cannot drive a simulation.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks that the configuration names only known states and has
// usable numbers.
func (c Config) Validate() error {
	if c.MaxEvents <= 0 {
		return fmt.Errorf("%w: max_events must be positive", ErrInvalid)
	}

	if c.MemorySize <= 0 {
		return fmt.Errorf("%w: memory_size must be positive", ErrInvalid)
	}

	if _, err := c.SimLimits(); err != nil {
		return err
	}

	if _, err := c.SimCatalog(); err != nil {
		return err
	}

	return c.Initial.validate()
}

func (i Initial) validate() error {
	for _, s := range i.ActiveStates {
		if _, err := sim.ParseStateName(s); err != nil {
			return fmt.Errorf("%w: initial active state: %w", ErrInvalid, err)
		}
	}

	if i.ActiveSize < 0 || i.ActiveTime < 0 {
		return fmt.Errorf("%w: active processes need a non-negative size "+
			"and time", ErrInvalid)
	}

	if i.HeldCount < 0 {
		return fmt.Errorf("%w: held_count is negative", ErrInvalid)
	}

	if i.MinSize <= 0 || i.MaxSize < i.MinSize {
		return fmt.Errorf("%w: size range [%d, %d]",
			ErrInvalid, i.MinSize, i.MaxSize)
	}

	if i.MinTime <= 0 || i.MaxTime < i.MinTime {
		return fmt.Errorf("%w: time range [%d, %d]",
			ErrInvalid, i.MinTime, i.MaxTime)
	}

	return nil
}

// SimLimits converts the limits to the store's representation.
func (c Config) SimLimits() (sim.Limits, error) {
	limits := make(sim.Limits, len(c.Limits))

	for name, limit := range c.Limits {
		state, err := sim.ParseStateName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: limits: %w", ErrInvalid, err)
		}

		if limit < 0 {
			return nil, fmt.Errorf("%w: limit of %s is negative",
				ErrInvalid, name)
		}

		if state == sim.StateHold {
			return nil, fmt.Errorf("%w: Hold is unlimited and takes no limit",
				ErrInvalid)
		}

		limits[state] = limit
	}

	return limits, nil
}

// SimCatalog converts the catalog to the engine's representation.
func (c Config) SimCatalog() (sim.Catalog, error) {
	catalog := make(sim.Catalog, 0, len(c.Catalog))

	for _, t := range c.Catalog {
		from, err := sim.ParseStateName(t.From)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog: %w", ErrInvalid, err)
		}

		to, err := sim.ParseStateName(t.To)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog: %w", ErrInvalid, err)
		}

		catalog = append(catalog, sim.NewEvent(from, to))
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return catalog, nil
}
