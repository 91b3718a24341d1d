package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/procstate/procsim/config"
)

// Environment variables read by the run command.
const (
	EnvConfig    = "PROCSIM_CONFIG"
	EnvSeed      = "PROCSIM_SEED"
	EnvMaxEvents = "PROCSIM_MAX_EVENTS"
)

// loadConfig reads the config file, if any, and applies the environment on
// top of it. An empty path falls back to PROCSIM_CONFIG.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := config.Default()
	if path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	err := applyEnv(&cfg)
	if err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *config.Config) error {
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}

		cfg.Seed = seed
	}

	if v, ok := os.LookupEnv(EnvMaxEvents); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxEvents, err)
		}

		cfg.MaxEvents = n
	}

	return nil
}
