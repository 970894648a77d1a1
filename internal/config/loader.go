package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PLUME_CONFIG is set
//  3. env (prefix PLUME_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PLUME_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PLUME_OUTPUT_PATH, PLUME_DUPLICATE_RATE, ...
	// Map env keys like PLUME_RECORD_COUNT -> record_count (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PLUME_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "plume_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}
	if cfg.RecordCount < 0 {
		return fmt.Errorf("%w: record_count must not be negative", ErrInvalidConfig)
	}
	for name, rate := range map[string]float64{
		"critical_failure_rate": cfg.CriticalFailureRate,
		"missing_fields_rate":   cfg.MissingFieldsRate,
		"out_of_range_rate":     cfg.OutOfRangeRate,
		"duplicate_rate":        cfg.DuplicateRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s must be in [0,1]", ErrInvalidConfig, name)
		}
	}
	return nil
}
