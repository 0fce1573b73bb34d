package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/bekjonalijonov/365-kun-bot/internal/adapters/repository"
)

// envPrefix namespaces the process environment variables.
const envPrefix = "IDEYA_"

// epochLayout is the accepted EpochStart date format.
const epochLayout = "2006-01-02"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if IDEYA_CONFIG is set
//  3. env (prefix IDEYA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: IDEYA_ADDR, IDEYA_EPOCH_START, ...
	// Map env keys like IDEYA_EPOCH_START -> epoch_start (flat keys);
	// underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Epoch parses EpochStart in the process-local timezone.
func (c *Config) Epoch() (time.Time, error) {
	t, err := time.ParseInLocation(epochLayout, c.EpochStart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: epoch_start %q: %v", ErrInvalidConfig, c.EpochStart, err)
	}
	return t, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := c.Epoch(); err != nil {
		return err
	}
	if c.CycleLength < 1 {
		return fmt.Errorf("%w: cycle_length must be positive", ErrInvalidConfig)
	}
	switch c.StorageBackend {
	case repository.BackendSQLite, repository.BackendMemory:
	default:
		return fmt.Errorf("%w: storage_backend %q", ErrInvalidConfig, c.StorageBackend)
	}
	if c.LeaderboardTopN < 1 || c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: leaderboard limits must be positive", ErrInvalidConfig)
	}
	return nil
}
